package models

import "time"

// Empresa groups workflows under a client company. Deleting an empresa does
// not delete its workflows; their reference is just cleared.
type Empresa struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"size:255;not null;uniqueIndex" json:"nome"`
	Descricao string    `gorm:"type:text" json:"descricao"`
	CreatedAt time.Time `json:"created_at"`

	Workflows []Workflow `gorm:"foreignKey:EmpresaID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
