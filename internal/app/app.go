package app

import (
	"crypto/rand"

	"github.com/KelvenPer/Aura/internal/auth"
	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/config"
	"github.com/KelvenPer/Aura/internal/email"
	"github.com/KelvenPer/Aura/internal/handlers"
	"github.com/KelvenPer/Aura/internal/logger"
	"github.com/KelvenPer/Aura/internal/metrics"
	"github.com/KelvenPer/Aura/internal/middleware"
	"github.com/KelvenPer/Aura/internal/routes"
	"github.com/KelvenPer/Aura/internal/services"
	"github.com/KelvenPer/Aura/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// SetupRouter собирает сервисы, хэндлеры и маршруты поверх gormDB.
// Контейнер сервисов возвращается, чтобы serve мог выполнить bootstrap.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *services.ServiceContainer, error) {
	// 1. Сервисы
	serviceContainer, err := initializeServices(cfg, clock.Real())
	if err != nil {
		return nil, nil, err
	}

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Метрики: свой реестр, чтобы тесты могли собирать роутер повторно
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterMetrics(registry)

	// 4. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 5. Маршруты
	gate := middleware.AuthMiddleware(serviceContainer.AuthService)
	routes.RegisterRoutes(ginRouter, appHandlers, gate, registry)

	return ginRouter, serviceContainer, nil
}

func initializeServices(cfg *config.Config, clk clock.Clock) (*services.ServiceContainer, error) {
	settings := cfg.AuthSettings()

	issuer, err := auth.NewTokenIssuer(settings.Secret, settings.Algorithm, settings.AccessTTL, clk)
	if err != nil {
		return nil, err
	}

	mailer := newMailer(cfg, settings.ExposeCode)
	if err := mailer.Validate(); err != nil {
		return nil, err
	}

	return services.NewServiceContainer(services.Dependencies{
		Repos:  services.NewRepositories(),
		Hasher: auth.NewBcryptHasher(settings.BcryptCost),
		Tokens: issuer,
		Mailer: mailer,
		Clock:  clk,
		Random: rand.Reader,
		Reset: services.ResetSettings{
			TTL:        settings.ResetTTL,
			CodeLength: settings.CodeLength,
			Supersede:  settings.Supersede,
			ExposeCode: settings.ExposeCode,
		},
	}), nil
}

// newMailer - SMTP, если включен в конфигурации, иначе письма только логируются
func newMailer(cfg *config.Config, exposeCodes bool) email.Provider {
	if cfg.Email.Enabled {
		logger.Info("Email delivery enabled", "smtp_host", cfg.Email.SMTPHost)
		return email.NewSMTPProvider(email.NewSMTPConfig(cfg.Email), email.NewTemplateManager())
	}
	logger.Warn("SMTP is disabled, reset codes are only logged")
	return email.NewLogProvider(exposeCodes)
}

func initializeHandlers(svc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, svc.AuthService, svc.PasswordResetService),
		PatientHandler:     handlers.NewPatientHandler(baseHandler, svc.PatientService),
		AppointmentHandler: handlers.NewAppointmentHandler(baseHandler, svc.AppointmentService),
		FinanceHandler:     handlers.NewFinanceHandler(baseHandler, svc.FinanceService),
		HealthHandler:      handlers.NewHealthHandler(clock.Real()),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
