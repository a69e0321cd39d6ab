package dto

import (
	"time"

	"github.com/KelvenPer/Aura/internal/models"
)

type CreateAppointmentRequest struct {
	PatientID     uint      `json:"paciente_id" validate:"required"`
	StartsAt      time.Time `json:"data_hora_inicio" validate:"required"`
	EndsAt        time.Time `json:"data_hora_fim" validate:"required"`
	Kind          string    `json:"tipo" validate:"omitempty,max=50"`
	Status        string    `json:"status" validate:"omitempty,is-appointment-status"`
	ExpectedValue *float64  `json:"valor_previsto,omitempty" validate:"omitempty,gte=0"`
	Room          *string   `json:"sala,omitempty" validate:"omitempty,max=50"`
	Notes         *string   `json:"observacoes,omitempty"`
}

type AppointmentResponse struct {
	ID            uint            `json:"id"`
	PatientID     uint            `json:"paciente_id"`
	StartsAt      time.Time       `json:"data_hora_inicio"`
	EndsAt        time.Time       `json:"data_hora_fim"`
	Kind          string          `json:"tipo"`
	Status        string          `json:"status"`
	ExpectedValue *float64        `json:"valor_previsto"`
	Room          *string         `json:"sala"`
	Notes         *string         `json:"observacoes"`
	OwnerID       *uint           `json:"responsavel_id"`
	Patient       PatientResponse `json:"paciente"`
}

func NewAppointmentResponse(a *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		PatientID:     a.PatientID,
		StartsAt:      a.StartsAt,
		EndsAt:        a.EndsAt,
		Kind:          a.Kind,
		Status:        string(a.Status),
		ExpectedValue: a.ExpectedValue,
		Room:          a.Room,
		Notes:         a.Notes,
		OwnerID:       a.OwnerID,
		Patient:       NewPatientResponse(&a.Patient),
	}
}

func NewAppointmentList(appointments []models.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		out = append(out, NewAppointmentResponse(&appointments[i]))
	}
	return out
}
