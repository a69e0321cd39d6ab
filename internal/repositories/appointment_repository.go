package repositories

import (
	"time"

	"github.com/KelvenPer/Aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppointmentFilter - необязательный интервал по началу приема
type AppointmentFilter struct {
	From *time.Time
	To   *time.Time
}

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *models.Appointment) error
	// ListVisible возвращает приемы вместе с пациентом, по времени начала
	ListVisible(db *gorm.DB, userID uint, filter AppointmentFilter) ([]models.Appointment, error)
}

type appointmentRepository struct{}

func NewAppointmentRepository() AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *models.Appointment) error {
	if err := db.Omit(clause.Associations).Create(appointment).Error; err != nil {
		return dbError(err, "agendamentos.create")
	}
	return nil
}

func (r *appointmentRepository) ListVisible(db *gorm.DB, userID uint, filter AppointmentFilter) ([]models.Appointment, error) {
	// фильтр владельца первым: Scopes применяются при выполнении, после Where
	query := visibleTo(userID)(db).Preload("Patient")
	if filter.From != nil {
		query = query.Where("data_hora_inicio >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("data_hora_inicio <= ?", *filter.To)
	}

	var appointments []models.Appointment
	if err := query.Order("data_hora_inicio ASC, id ASC").Find(&appointments).Error; err != nil {
		return nil, dbError(err, "agendamentos.list")
	}
	return appointments, nil
}
