package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moonlabs/moon-agent-backend/internal/handlers"
)

type RouterConfig struct {
	ReportHandler *handlers.ReportHandler
	TargetHandler *handlers.TargetHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	// Reporting
	router.POST("/trigger-report", cfg.ReportHandler.TriggerReport)
	router.GET("/reports/:type", cfg.ReportHandler.GetReports)

	// Performance
	router.GET("/performance/targets/:agent_id", cfg.TargetHandler.CheckAgent)

	return router
}
