// cmd/forecast/main.go
package main

import (
	"log"

	"forecast-service/internal/api/handlers"
	"forecast-service/internal/api/responses"
	"forecast-service/internal/config"
	"forecast-service/internal/core/forecaster"
	"forecast-service/internal/core/ingest"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()
	responses.InitLogger(logger)

	gin.SetMode(cfg.GinMode)

	ingestService := ingest.NewService()
	forecastService := forecaster.NewService(ingestService, logger)
	forecastHandler := handlers.NewForecastHandler(forecastService)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/forecast", forecastHandler.HandleForecast)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "forecast-service"})
	})

	log.Printf("🚀 Forecast Service (Go) listening on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start forecast server: ", err)
	}
}
