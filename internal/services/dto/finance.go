package dto

import (
	"time"

	"github.com/KelvenPer/Aura/internal/models"
)

type CreateTransactionRequest struct {
	Description    string     `json:"descricao" validate:"required,max=255"`
	Amount         float64    `json:"valor" validate:"gt=0"`
	Kind           string     `json:"tipo" validate:"required,is-transaction-kind"`
	Category       string     `json:"categoria" validate:"omitempty,max=100"`
	Paid           bool       `json:"pago"`
	CompetenceDate *time.Time `json:"data_competencia,omitempty"`
}

type TransactionResponse struct {
	ID             uint      `json:"id"`
	Description    string    `json:"descricao"`
	Amount         float64   `json:"valor"`
	Kind           string    `json:"tipo"`
	Category       string    `json:"categoria"`
	Paid           bool      `json:"pago"`
	CompetenceDate time.Time `json:"data_competencia"`
	OwnerID        *uint     `json:"responsavel_id"`
}

// FinanceSummary - сводка для дашборда мобильного приложения.
// Pendente - сумма неоплаченных receitas.
type FinanceSummary struct {
	Income  float64 `json:"receitas"`
	Expense float64 `json:"despesas"`
	Balance float64 `json:"saldo"`
	Pending float64 `json:"pendente"`
}

func NewTransactionResponse(t *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		Description:    t.Description,
		Amount:         t.Amount,
		Kind:           string(t.Kind),
		Category:       t.Category,
		Paid:           t.Paid,
		CompetenceDate: t.CompetenceDate,
		OwnerID:        t.OwnerID,
	}
}

func NewTransactionList(transactions []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(transactions))
	for i := range transactions {
		out = append(out, NewTransactionResponse(&transactions[i]))
	}
	return out
}
