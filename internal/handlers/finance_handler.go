package handlers

import (
	"net/http"

	"github.com/KelvenPer/Aura/internal/services"
	"github.com/KelvenPer/Aura/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct {
	*BaseHandler
	financeService services.FinanceService
}

func NewFinanceHandler(base *BaseHandler, financeService services.FinanceService) *FinanceHandler {
	return &FinanceHandler{
		BaseHandler:    base,
		financeService: financeService,
	}
}

func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	finance := rg.Group("/financeiro")
	finance.Use(gate)
	{
		finance.POST("/transacoes/", h.Create)
		finance.GET("/transacoes/", h.List)
		// alias для мобильного приложения
		finance.GET("/", h.List)
		finance.GET("/resumo", h.Summary)
	}
}

// Create godoc
// @Summary Новая финансовая операция
// @Tags financeiro
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTransactionRequest true "Операция"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /financeiro/transacoes/ [post]
func (h *FinanceHandler) Create(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tx, err := h.financeService.Create(c.Request.Context(), h.GetDB(c), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// List godoc
// @Summary Операции, свежие первыми
// @Tags financeiro
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TransactionResponse
// @Router /financeiro/transacoes/ [get]
func (h *FinanceHandler) List(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	txs, err := h.financeService.List(c.Request.Context(), h.GetDB(c), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}

// Summary godoc
// @Summary Сводка receitas / despesas
// @Tags financeiro
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FinanceSummary
// @Router /financeiro/resumo [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	summary, err := h.financeService.Summary(c.Request.Context(), h.GetDB(c), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
