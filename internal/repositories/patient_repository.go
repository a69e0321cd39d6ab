package repositories

import (
	"github.com/KelvenPer/Aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *models.Patient) error
	FindByID(db *gorm.DB, id uint) (*models.Patient, error)
	// ListVisible - пациенты пользователя и пациенты без владельца, по имени
	ListVisible(db *gorm.DB, userID uint) ([]models.Patient, error)
}

type patientRepository struct{}

func NewPatientRepository() PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *models.Patient) error {
	if err := db.Omit(clause.Associations).Create(patient).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrCPFTaken
		}
		return dbError(err, "pacientes.create")
	}
	return nil
}

func (r *patientRepository) FindByID(db *gorm.DB, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := db.Where("id = ?", id).First(&patient).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrPatientNotFound
		}
		return nil, dbError(err, "pacientes.find")
	}
	return &patient, nil
}

func (r *patientRepository) ListVisible(db *gorm.DB, userID uint) ([]models.Patient, error) {
	var patients []models.Patient
	err := db.Scopes(visibleTo(userID)).Order("nome ASC, id ASC").Find(&patients).Error
	if err != nil {
		return nil, dbError(err, "pacientes.list")
	}
	return patients, nil
}
