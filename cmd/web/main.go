// @title           AURA API
// @version         1.0
// @description     API клиники: пациенты, агенда, финансы и аутентификация.
// @host            localhost:8000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os"

	"github.com/KelvenPer/Aura/internal/app"
	"github.com/KelvenPer/Aura/internal/logger"
)

func main() {
	if err := app.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.Error("aura exited with error", "error", err.Error())
		os.Exit(1)
	}
}
