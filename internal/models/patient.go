package models

import "time"

type Patient struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"column:nome;size:255;not null;index"`
	Phone        string    `gorm:"column:telefone;size:20;not null"`
	Email        *string   `gorm:"size:255"`
	CPF          *string   `gorm:"column:cpf;size:14;uniqueIndex"`
	RegisteredAt time.Time `gorm:"column:data_cadastro;not null"`
	OwnerID      *uint     `gorm:"column:responsavel_id;index"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
}

func (Patient) TableName() string {
	return "pacientes"
}
