package main

import (
	"quickserve/config"
	"quickserve/di"
	"quickserve/shared/logger"
)

// @title QuickServe API
// @version 1.0
// @description Booking and reputation platform for local home services.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
