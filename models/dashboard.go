package models

import (
	"time"

	"gorm.io/datatypes"
)

// Dashboard is a balancete chart definition. It stores only references into
// the dataset (indicator names and metric keys), never computed values.
type Dashboard struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	WorkflowID        uint           `gorm:"index;not null" json:"workflow_id"`
	Nome              string         `gorm:"size:150;not null" json:"nome"`
	ChartType         string         `gorm:"size:50;not null" json:"chart_type"`
	IndicadorDimensao string         `gorm:"size:64;not null;default:indicador" json:"indicador_dimensao"`
	Indicadores       datatypes.JSON `json:"indicadores"`
	Metricas          datatypes.JSON `json:"metricas"`
	Options           datatypes.JSON `json:"options"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	Workflow Workflow `gorm:"foreignKey:WorkflowID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
