package dto

import (
	"time"

	"github.com/KelvenPer/Aura/internal/models"
)

type CreatePatientRequest struct {
	Name  string  `json:"nome" validate:"required,max=255"`
	Phone string  `json:"telefone" validate:"required,max=20"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	CPF   *string `json:"cpf,omitempty" validate:"omitempty,cpf"`
}

type PatientResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"nome"`
	Phone        string    `json:"telefone"`
	Email        *string   `json:"email"`
	CPF          *string   `json:"cpf"`
	RegisteredAt time.Time `json:"data_cadastro"`
	OwnerID      *uint     `json:"responsavel_id"`
}

func NewPatientResponse(p *models.Patient) PatientResponse {
	return PatientResponse{
		ID:           p.ID,
		Name:         p.Name,
		Phone:        p.Phone,
		Email:        p.Email,
		CPF:          p.CPF,
		RegisteredAt: p.RegisteredAt,
		OwnerID:      p.OwnerID,
	}
}

func NewPatientList(patients []models.Patient) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, NewPatientResponse(&patients[i]))
	}
	return out
}
