package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler        *AuthHandler
	PatientHandler     *PatientHandler
	AppointmentHandler *AppointmentHandler
	FinanceHandler     *FinanceHandler
	HealthHandler      *HealthHandler
}
