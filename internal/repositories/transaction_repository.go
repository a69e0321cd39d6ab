package repositories

import (
	"github.com/KelvenPer/Aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	Create(db *gorm.DB, tx *models.Transaction) error
	// ListVisible - операции пользователя и общие, свежие первыми
	ListVisible(db *gorm.DB, userID uint) ([]models.Transaction, error)
}

type transactionRepository struct{}

func NewTransactionRepository() TransactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(db *gorm.DB, tx *models.Transaction) error {
	if err := db.Omit(clause.Associations).Create(tx).Error; err != nil {
		return dbError(err, "transacoes.create")
	}
	return nil
}

func (r *transactionRepository) ListVisible(db *gorm.DB, userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := db.Scopes(visibleTo(userID)).Order("data_competencia DESC, id DESC").Find(&txs).Error
	if err != nil {
		return nil, dbError(err, "transacoes.list")
	}
	return txs, nil
}
