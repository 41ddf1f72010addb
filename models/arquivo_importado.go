package models

import (
	"time"

	"gorm.io/datatypes"
)

// ArquivoImportado is a balancete upload. At most one row exists per
// workflow: a new upload replaces (and removes the file of) any previous
// one before committing.
type ArquivoImportado struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	WorkflowID     uint           `gorm:"index;not null" json:"workflow_id"`
	NomeArquivo    string         `gorm:"size:255;not null" json:"nome_arquivo"`
	CaminhoArquivo string         `gorm:"size:512;not null" json:"caminho_arquivo"`
	DadosExtraidos datatypes.JSON `json:"dados_extraidos"`
	DataUpload     time.Time      `gorm:"autoCreateTime;index" json:"data_upload"`

	Workflow Workflow `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
