package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnaliseUpload is one analise-jp upload for a (workflow, categoria) pair.
// History is retained; reads always use the most recent row. LinhasOcultas
// holds indices of rows soft-hidden from display but kept in storage.
// Colunas preserves the source column order, which record maps cannot.
type AnaliseUpload struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	WorkflowID     uint           `gorm:"not null;index:idx_analise_uploads_wf_categoria" json:"workflow_id"`
	Categoria      string         `gorm:"size:120;not null;index:idx_analise_uploads_wf_categoria" json:"categoria"`
	NomeArquivo    string         `gorm:"size:255;not null" json:"nome_arquivo"`
	CaminhoArquivo string         `gorm:"size:512;not null" json:"caminho_arquivo"`
	DadosExtraidos datatypes.JSON `json:"dados_extraidos"`
	Colunas        datatypes.JSON `json:"colunas"`
	LinhasOcultas  datatypes.JSON `json:"linhas_ocultas"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`

	Workflow Workflow `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
