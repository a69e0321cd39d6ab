package handlers

import (
	"net/http"

	"github.com/KelvenPer/Aura/internal/repositories"
	"github.com/KelvenPer/Aura/internal/services"
	"github.com/KelvenPer/Aura/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	*BaseHandler
	appointmentService services.AppointmentService
}

func NewAppointmentHandler(base *BaseHandler, appointmentService services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		BaseHandler:        base,
		appointmentService: appointmentService,
	}
}

func (h *AppointmentHandler) RegisterRoutes(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	appointments := rg.Group("/agendamentos")
	appointments.Use(gate)
	{
		appointments.POST("/", h.Create)
		appointments.GET("/", h.List)
		// alias для мобильного приложения
		appointments.GET("/agenda", h.List)
	}
}

// Create godoc
// @Summary Новая запись на прием
// @Tags agendamentos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAppointmentRequest true "Запись"
// @Success 201 {object} dto.AppointmentResponse
// @Failure 400 {object} apperrors.ErrorResponse "Окончание раньше начала"
// @Failure 404 {object} apperrors.ErrorResponse "Пациент не найден"
// @Router /agendamentos/ [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	appointment, err := h.appointmentService.Create(c.Request.Context(), h.GetDB(c), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// List godoc
// @Summary Агенда: записи по времени начала
// @Tags agendamentos
// @Produce json
// @Security BearerAuth
// @Param from query string false "Начало диапазона (RFC3339)"
// @Param to query string false "Конец диапазона (RFC3339)"
// @Success 200 {array} dto.AppointmentResponse
// @Router /agendamentos/ [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	from, err := ParseQueryTime(c, "from")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	to, err := ParseQueryTime(c, "to")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filter := repositories.AppointmentFilter{From: from, To: to}
	appointments, err := h.appointmentService.List(c.Request.Context(), h.GetDB(c), user, filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}
