package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medilab-server/internal/analysis"
	"medilab-server/internal/config"
	"medilab-server/internal/handlers"
	"medilab-server/internal/pipeline"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, ocr pipeline.Recognizer, completer analysis.Completer, log zerolog.Logger) {
	acquirer := pipeline.NewAcquirer(ocr, log)
	standardizer := pipeline.NewStandardizer(cfg.CriticalThresholdPercent)
	analyzer := analysis.NewOrchestrator(completer, time.Duration(cfg.AI.TimeoutSeconds)*time.Second, log)

	reportHandler := handlers.NewReportHandler(db, acquirer, standardizer, analyzer, cfg, log)
	pipelineHandler := handlers.NewPipelineHandler(acquirer, standardizer, analyzer, log)
	insightsHandler := handlers.NewInsightsHandler(db, analyzer)
	assistantHandler := handlers.NewAssistantHandler(db, analyzer)

	api := router.Group("/api/v1")
	{
		reportRoutes := api.Group("/reports")
		{
			reportRoutes.POST("", reportHandler.UploadReport)
			reportRoutes.GET("", reportHandler.GetReports)
			reportRoutes.GET("/:id", reportHandler.GetReportByID)
			reportRoutes.DELETE("/:id", reportHandler.DeleteReport)
			reportRoutes.POST("/:id/reanalyze", reportHandler.ReanalyzeReport)
		}

		api.POST("/classify", pipelineHandler.Classify)
		api.POST("/standardize", pipelineHandler.Standardize)
		api.POST("/image-analysis", pipelineHandler.ImageAnalysis)

		api.POST("/recommendations", insightsHandler.Recommendations)
		api.POST("/health-plan", insightsHandler.HealthPlan)
		api.GET("/trends", insightsHandler.Trends)

		api.POST("/ai", assistantHandler.Ask)
		api.POST("/voice", assistantHandler.Voice)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
