package handlers

import (
	"net/http"
	"time"

	"github.com/KelvenPer/Aura/internal/clock"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	clock clock.Clock
}

func NewHealthHandler(clk clock.Clock) *HealthHandler {
	if clk == nil {
		clk = clock.Real()
	}
	return &HealthHandler{clock: clk}
}

// Health godoc
// @Summary Проверка доступности
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"system":    "AURA",
		"timestamp": h.clock.Now().Format(time.RFC3339),
	})
}
