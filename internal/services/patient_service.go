package services

import (
	"context"
	"errors"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/repositories"
	"github.com/KelvenPer/Aura/internal/services/dto"
	"github.com/KelvenPer/Aura/internal/validator"
	"github.com/KelvenPer/Aura/pkg/apperrors"

	"gorm.io/gorm"
)

type PatientService interface {
	Create(ctx context.Context, db *gorm.DB, user *models.User, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Get(ctx context.Context, db *gorm.DB, user *models.User, patientID uint) (*dto.PatientResponse, error)
	List(ctx context.Context, db *gorm.DB, user *models.User) ([]dto.PatientResponse, error)
}

type PatientServiceImpl struct {
	patientRepo repositories.PatientRepository
	clock       clock.Clock
}

func NewPatientService(patientRepo repositories.PatientRepository, clk clock.Clock) PatientService {
	if clk == nil {
		clk = clock.Real()
	}
	return &PatientServiceImpl{patientRepo: patientRepo, clock: clk}
}

func (s *PatientServiceImpl) Create(ctx context.Context, db *gorm.DB, user *models.User, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	// CPF храним только цифрами, чтобы "123.456.789-01" и "12345678901" совпадали
	var cpf *string
	if req.CPF != nil {
		if digits := validator.NormalizeCPF(*req.CPF); digits != "" {
			cpf = &digits
		}
	}

	ownerID := user.ID
	patient := &models.Patient{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        normalizeOptional(req.Email),
		CPF:          cpf,
		RegisteredAt: s.clock.Now(),
		OwnerID:      &ownerID,
	}

	if err := s.patientRepo.Create(db, patient); err != nil {
		if errors.Is(err, repositories.ErrCPFTaken) {
			return nil, apperrors.ErrCPFAlreadyExists
		}
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Patient created", "patient_id", patient.ID)
	resp := dto.NewPatientResponse(patient)
	return &resp, nil
}

func (s *PatientServiceImpl) Get(ctx context.Context, db *gorm.DB, user *models.User, patientID uint) (*dto.PatientResponse, error) {
	patient, err := findVisiblePatient(s.patientRepo, db, user, patientID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPatientResponse(patient)
	return &resp, nil
}

func (s *PatientServiceImpl) List(ctx context.Context, db *gorm.DB, user *models.User) ([]dto.PatientResponse, error) {
	patients, err := s.patientRepo.ListVisible(db, user.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewPatientList(patients), nil
}

// findVisiblePatient - пациент должен существовать (404) и быть доступен (403)
func findVisiblePatient(repo repositories.PatientRepository, db *gorm.DB, user *models.User, patientID uint) (*models.Patient, error) {
	patient, err := repo.FindByID(db, patientID)
	if err != nil {
		if errors.Is(err, repositories.ErrPatientNotFound) {
			return nil, apperrors.ErrPatientNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if !auth.CanAccess(patient.OwnerID, user.ID) {
		return nil, apperrors.ErrPatientAccessDenied
	}
	return patient, nil
}
