package handlers

import (
	"net/http"

	"github.com/KelvenPer/Aura/internal/services"
	"github.com/KelvenPer/Aura/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	*BaseHandler
	patientService services.PatientService
}

func NewPatientHandler(base *BaseHandler, patientService services.PatientService) *PatientHandler {
	return &PatientHandler{
		BaseHandler:    base,
		patientService: patientService,
	}
}

func (h *PatientHandler) RegisterRoutes(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	patients := rg.Group("/pacientes")
	patients.Use(gate)
	{
		patients.POST("/", h.Create)
		patients.GET("/", h.List)
		patients.GET("/:id", h.Get)
	}
}

// Create godoc
// @Summary Новый пациент
// @Tags pacientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePatientRequest true "Пациент"
// @Success 201 {object} dto.PatientResponse
// @Failure 400 {object} apperrors.ErrorResponse "CPF уже зарегистрирован"
// @Router /pacientes/ [post]
func (h *PatientHandler) Create(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreatePatientRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	patient, err := h.patientService.Create(c.Request.Context(), h.GetDB(c), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, patient)
}

// List godoc
// @Summary Пациенты текущего пользователя и общие
// @Tags pacientes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PatientResponse
// @Router /pacientes/ [get]
func (h *PatientHandler) List(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	patients, err := h.patientService.List(c.Request.Context(), h.GetDB(c), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, patients)
}

// Get godoc
// @Summary Пациент по id
// @Tags pacientes
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID пациента"
// @Success 200 {object} dto.PatientResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /pacientes/{id} [get]
func (h *PatientHandler) Get(c *gin.Context) {
	user, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	id, err := ParseParamUint(c, "id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	patient, err := h.patientService.Get(c.Request.Context(), h.GetDB(c), user, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, patient)
}
