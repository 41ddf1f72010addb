package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnaliseJPChart is an analise-jp chart definition: dimension columns that
// compose the row label plus arbitrary metric columns, projected against
// the latest upload of its source categoria on every read.
type AnaliseJPChart struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	WorkflowID uint           `gorm:"index;not null" json:"workflow_id"`
	Categoria  string         `gorm:"size:120;not null" json:"categoria"`
	Nome       string         `gorm:"size:150;not null" json:"nome"`
	ChartType  string         `gorm:"size:50;not null" json:"chart_type"`
	Dimensoes  datatypes.JSON `json:"dimensoes"`
	Metricas   datatypes.JSON `json:"metricas"`
	Options    datatypes.JSON `json:"options"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Workflow Workflow `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
