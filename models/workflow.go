package models

import "time"

// Workflow kinds. The kind decides which upload pipeline and chart entity
// apply; changing it later does not migrate existing uploads or charts.
const (
	TipoBalancete = "balancete"
	TipoAnaliseJP = "analise_jp"
)

// ValidTipo reports whether tipo is a known workflow kind.
func ValidTipo(tipo string) bool {
	return tipo == TipoBalancete || tipo == TipoAnaliseJP
}

// Workflow is a named container scoping one report type and its uploads and
// chart definitions.
type Workflow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nome        string    `gorm:"size:255;not null;uniqueIndex" json:"nome"`
	Descricao   string    `gorm:"type:text" json:"descricao"`
	Tipo        string    `gorm:"size:32;not null" json:"tipo"`
	EmpresaID   *uint     `gorm:"index" json:"empresa_id"`
	DataCriacao time.Time `gorm:"autoCreateTime" json:"data_criacao"`

	Empresa *Empresa `gorm:"foreignKey:EmpresaID" json:"-"`

	ArquivosImportados []ArquivoImportado `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AnaliseUploads     []AnaliseUpload    `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Dashboards         []Dashboard        `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AnaliseJPCharts    []AnaliseJPChart   `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
