package models

import "time"

// Transaction - финансовая операция клиники (receita / despesa)
type Transaction struct {
	ID             uint            `gorm:"primaryKey"`
	Description    string          `gorm:"column:descricao;size:255;not null"`
	Amount         float64         `gorm:"column:valor;not null"`
	Kind           TransactionKind `gorm:"column:tipo;size:20;not null"`
	Category       string          `gorm:"column:categoria;size:100;not null"`
	Paid           bool            `gorm:"column:pago;not null"`
	CompetenceDate time.Time       `gorm:"column:data_competencia;not null;index"`
	OwnerID        *uint           `gorm:"column:responsavel_id;index"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
}

func (Transaction) TableName() string {
	return "transacoes"
}
