package services

import (
	"context"
	"math"
	"strings"

	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/repositories"
	"github.com/KelvenPer/Aura/internal/services/dto"
	"github.com/KelvenPer/Aura/pkg/apperrors"

	"gorm.io/gorm"
)

type FinanceService interface {
	Create(ctx context.Context, db *gorm.DB, user *models.User, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	List(ctx context.Context, db *gorm.DB, user *models.User) ([]dto.TransactionResponse, error)
	Summary(ctx context.Context, db *gorm.DB, user *models.User) (*dto.FinanceSummary, error)
}

type FinanceServiceImpl struct {
	transactionRepo repositories.TransactionRepository
	clock           clock.Clock
}

func NewFinanceService(transactionRepo repositories.TransactionRepository, clk clock.Clock) FinanceService {
	if clk == nil {
		clk = clock.Real()
	}
	return &FinanceServiceImpl{transactionRepo: transactionRepo, clock: clk}
}

func (s *FinanceServiceImpl) Create(ctx context.Context, db *gorm.DB, user *models.User, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	kind := models.TransactionKind(req.Kind)
	if !kind.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"tipo": "Must be one of: receita, despesa"})
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.DefaultTransactionCategory
	}
	competence := s.clock.Now()
	if req.CompetenceDate != nil {
		competence = req.CompetenceDate.UTC()
	}

	ownerID := user.ID
	tx := &models.Transaction{
		Description:    req.Description,
		Amount:         req.Amount,
		Kind:           kind,
		Category:       category,
		Paid:           req.Paid,
		CompetenceDate: competence,
		OwnerID:        &ownerID,
	}

	if err := s.transactionRepo.Create(db, tx); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Transaction created", "transaction_id", tx.ID, "tipo", tx.Kind)
	resp := dto.NewTransactionResponse(tx)
	return &resp, nil
}

func (s *FinanceServiceImpl) List(ctx context.Context, db *gorm.DB, user *models.User) ([]dto.TransactionResponse, error) {
	txs, err := s.transactionRepo.ListVisible(db, user.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewTransactionList(txs), nil
}

// Summary - receitas и despesas по всем видимым операциям.
// Pendente считает только неоплаченные receitas.
func (s *FinanceServiceImpl) Summary(ctx context.Context, db *gorm.DB, user *models.User) (*dto.FinanceSummary, error) {
	txs, err := s.transactionRepo.ListVisible(db, user.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	var summary dto.FinanceSummary
	for _, tx := range txs {
		switch tx.Kind {
		case models.TransactionIncome:
			summary.Income += tx.Amount
			if !tx.Paid {
				summary.Pending += tx.Amount
			}
		case models.TransactionExpense:
			summary.Expense += tx.Amount
		}
	}
	summary.Income = roundCents(summary.Income)
	summary.Expense = roundCents(summary.Expense)
	summary.Pending = roundCents(summary.Pending)
	summary.Balance = roundCents(summary.Income - summary.Expense)
	return &summary, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
