package repositories

import (
	"time"

	"github.com/KelvenPer/Aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository - хранилище учетных записей
type UserRepository interface {
	FindByID(db *gorm.DB, id uint) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByLicenseID(db *gorm.DB, licenseID string) (*models.User, error)

	// Create возвращает ErrEmailTaken / ErrLicenseTaken при нарушении уникальности
	Create(db *gorm.DB, user *models.User) error
	Save(db *gorm.DB, user *models.User) error

	UpdatePassword(db *gorm.DB, userID uint, passwordHash string) error
	UpdateLastLogin(db *gorm.DB, userID uint, at time.Time) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) FindByID(db *gorm.DB, id uint) (*models.User, error) {
	return r.findOne(db, "id = ?", id)
}

// FindByEmail - сравнение с учетом регистра, как email сохранен
func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.findOne(db, "email = ?", email)
}

func (r *userRepository) FindByLicenseID(db *gorm.DB, licenseID string) (*models.User, error) {
	return r.findOne(db, "crm = ?", licenseID)
}

func (r *userRepository) findOne(db *gorm.DB, query string, arg any) (*models.User, error) {
	var user models.User
	if err := db.Where(query, arg).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, dbError(err, "users.find")
	}
	return &user, nil
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if err := db.Omit(clause.Associations).Create(user).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraintMentions(constraint, "crm") {
				return ErrLicenseTaken
			}
			return ErrEmailTaken
		}
		return dbError(err, "users.create")
	}
	return nil
}

func (r *userRepository) Save(db *gorm.DB, user *models.User) error {
	if err := db.Omit(clause.Associations).Save(user).Error; err != nil {
		return dbError(err, "users.save")
	}
	return nil
}

func (r *userRepository) UpdatePassword(db *gorm.DB, userID uint, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("hashed_password", passwordHash)
	if result.Error != nil {
		return dbError(result.Error, "users.update_password")
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(db *gorm.DB, userID uint, at time.Time) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("last_login", at)
	if result.Error != nil {
		return dbError(result.Error, "users.update_last_login")
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
