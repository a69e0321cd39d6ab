package services

import (
	"io"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/email"
	"github.com/KelvenPer/Aura/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService          AuthService
	PasswordResetService PasswordResetService
	PatientService       PatientService
	AppointmentService   AppointmentService
	FinanceService       FinanceService
	EmailService         email.Provider
}

// Repositories - набор репозиториев, из которых собираются сервисы
type Repositories struct {
	Users        repositories.UserRepository
	ResetTokens  repositories.PasswordResetRepository
	Patients     repositories.PatientRepository
	Appointments repositories.AppointmentRepository
	Transactions repositories.TransactionRepository
}

// NewRepositories - репозитории поверх gorm
func NewRepositories() Repositories {
	return Repositories{
		Users:        repositories.NewUserRepository(),
		ResetTokens:  repositories.NewPasswordResetRepository(),
		Patients:     repositories.NewPatientRepository(),
		Appointments: repositories.NewAppointmentRepository(),
		Transactions: repositories.NewTransactionRepository(),
	}
}

// Dependencies - все, что сервисы получают снаружи
type Dependencies struct {
	Repos  Repositories
	Hasher auth.PasswordHasher
	Tokens *auth.TokenIssuer
	Mailer email.Provider
	Clock  clock.Clock
	Random io.Reader
	Reset  ResetSettings
}

func NewServiceContainer(deps Dependencies) *ServiceContainer {
	resets := NewPasswordResetService(
		deps.Repos.Users,
		deps.Repos.ResetTokens,
		deps.Hasher,
		deps.Mailer,
		deps.Clock,
		deps.Random,
		deps.Reset,
	)

	return &ServiceContainer{
		AuthService:          NewAuthService(deps.Repos.Users, resets, deps.Hasher, deps.Tokens, deps.Clock),
		PasswordResetService: resets,
		PatientService:       NewPatientService(deps.Repos.Patients, deps.Clock),
		AppointmentService:   NewAppointmentService(deps.Repos.Appointments, deps.Repos.Patients),
		FinanceService:       NewFinanceService(deps.Repos.Transactions, deps.Clock),
		EmailService:         deps.Mailer,
	}
}
