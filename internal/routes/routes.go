package routes

import (
	_ "github.com/KelvenPer/Aura/docs"
	"github.com/KelvenPer/Aura/internal/handlers"
	"github.com/KelvenPer/Aura/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все HTTP маршруты.
// gate - AuthMiddleware, им закрыты все маршруты кроме публичных /auth.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	gate gin.HandlerFunc,
	gatherer prometheus.Gatherer,
) {
	ginRouter.GET("/", appHandlers.HealthHandler.Health)

	api := ginRouter.Group("")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, gate)
		appHandlers.PatientHandler.RegisterRoutes(api, gate)
		appHandlers.AppointmentHandler.RegisterRoutes(api, gate)
		appHandlers.FinanceHandler.RegisterRoutes(api, gate)
	}

	if gatherer != nil {
		ginRouter.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
