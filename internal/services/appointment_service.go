package services

import (
	"context"

	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/repositories"
	"github.com/KelvenPer/Aura/internal/services/dto"
	"github.com/KelvenPer/Aura/pkg/apperrors"

	"gorm.io/gorm"
)

type AppointmentService interface {
	Create(ctx context.Context, db *gorm.DB, user *models.User, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	List(ctx context.Context, db *gorm.DB, user *models.User, filter repositories.AppointmentFilter) ([]dto.AppointmentResponse, error)
}

type AppointmentServiceImpl struct {
	appointmentRepo repositories.AppointmentRepository
	patientRepo     repositories.PatientRepository
}

func NewAppointmentService(appointmentRepo repositories.AppointmentRepository, patientRepo repositories.PatientRepository) AppointmentService {
	return &AppointmentServiceImpl{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
	}
}

func (s *AppointmentServiceImpl) Create(ctx context.Context, db *gorm.DB, user *models.User, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	patient, err := findVisiblePatient(s.patientRepo, db, user, req.PatientID)
	if err != nil {
		return nil, err
	}

	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.ErrInvalidAppointmentWindow
	}

	kind := req.Kind
	if kind == "" {
		kind = models.DefaultAppointmentKind
	}
	status := models.AppointmentStatus(req.Status)
	if status == "" {
		status = models.AppointmentScheduled
	}
	if !status.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "Invalid appointment status"})
	}

	ownerID := user.ID
	appointment := &models.Appointment{
		PatientID:     patient.ID,
		StartsAt:      req.StartsAt.UTC(),
		EndsAt:        req.EndsAt.UTC(),
		Kind:          kind,
		Status:        status,
		ExpectedValue: req.ExpectedValue,
		Room:          normalizeOptional(req.Room),
		Notes:         req.Notes,
		OwnerID:       &ownerID,
	}

	if err := s.appointmentRepo.Create(db, appointment); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	appointment.Patient = *patient

	logger.CtxInfo(ctx, "Appointment created", "appointment_id", appointment.ID, "patient_id", patient.ID)
	resp := dto.NewAppointmentResponse(appointment)
	return &resp, nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, db *gorm.DB, user *models.User, filter repositories.AppointmentFilter) ([]dto.AppointmentResponse, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, apperrors.NewBadRequestError("from cannot be after to")
	}
	appointments, err := s.appointmentRepo.ListVisible(db, user.ID, filter)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewAppointmentList(appointments), nil
}
