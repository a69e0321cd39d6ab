package models

import "time"

type Appointment struct {
	ID            uint              `gorm:"primaryKey"`
	PatientID     uint              `gorm:"column:paciente_id;not null;index"`
	StartsAt      time.Time         `gorm:"column:data_hora_inicio;not null;index"`
	EndsAt        time.Time         `gorm:"column:data_hora_fim;not null"`
	Kind          string            `gorm:"column:tipo;size:50;not null"`
	Status        AppointmentStatus `gorm:"column:status;size:20;not null"`
	ExpectedValue *float64          `gorm:"column:valor_previsto"`
	Room          *string           `gorm:"column:sala;size:50"`
	Notes         *string           `gorm:"column:observacoes;type:text"`
	OwnerID       *uint             `gorm:"column:responsavel_id;index"`

	Patient Patient `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
	Owner   *User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL"`
}

func (Appointment) TableName() string {
	return "agendamentos"
}
