package repositories

import (
	"time"

	"github.com/KelvenPer/Aura/internal/models"

	"gorm.io/gorm"
)

// PasswordResetRepository - хранилище кодов восстановления пароля
type PasswordResetRepository interface {
	// Create сохраняет новый код (только хеш)
	Create(db *gorm.DB, token *models.PasswordResetToken) error

	// ListUnusedForUser возвращает непогашенные коды пользователя, новые первыми.
	// Истекшие тоже возвращаются: проверка срока - забота вызывающего.
	ListUnusedForUser(db *gorm.DB, userID uint) ([]models.PasswordResetToken, error)

	// MarkUsed гасит код условно (только если он еще не погашен).
	// false означает, что код уже погашен другим запросом.
	MarkUsed(db *gorm.DB, tokenID uint) (bool, error)

	// InvalidateForUser гасит все непогашенные коды пользователя и возвращает их число
	InvalidateForUser(db *gorm.DB, userID uint) (int64, error)

	// PurgeExpired удаляет коды, истекшие раньше before
	PurgeExpired(db *gorm.DB, before time.Time) (int64, error)
}

type passwordResetRepository struct{}

func NewPasswordResetRepository() PasswordResetRepository {
	return &passwordResetRepository{}
}

func (r *passwordResetRepository) Create(db *gorm.DB, token *models.PasswordResetToken) error {
	if err := db.Create(token).Error; err != nil {
		return dbError(err, "password_reset_tokens.create")
	}
	return nil
}

func (r *passwordResetRepository) ListUnusedForUser(db *gorm.DB, userID uint) ([]models.PasswordResetToken, error) {
	var tokens []models.PasswordResetToken
	err := db.Where("user_id = ? AND is_used = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&tokens).Error
	if err != nil {
		return nil, dbError(err, "password_reset_tokens.list_unused")
	}
	return tokens, nil
}

func (r *passwordResetRepository) MarkUsed(db *gorm.DB, tokenID uint) (bool, error) {
	result := db.Model(&models.PasswordResetToken{}).
		Where("id = ? AND is_used = ?", tokenID, false).
		Update("is_used", true)
	if result.Error != nil {
		return false, dbError(result.Error, "password_reset_tokens.mark_used")
	}
	return result.RowsAffected == 1, nil
}

func (r *passwordResetRepository) InvalidateForUser(db *gorm.DB, userID uint) (int64, error) {
	result := db.Model(&models.PasswordResetToken{}).
		Where("user_id = ? AND is_used = ?", userID, false).
		Update("is_used", true)
	if result.Error != nil {
		return 0, dbError(result.Error, "password_reset_tokens.invalidate")
	}
	return result.RowsAffected, nil
}

func (r *passwordResetRepository) PurgeExpired(db *gorm.DB, before time.Time) (int64, error) {
	result := db.Where("expires_at < ?", before).Delete(&models.PasswordResetToken{})
	if result.Error != nil {
		return 0, dbError(result.Error, "password_reset_tokens.purge")
	}
	return result.RowsAffected, nil
}
