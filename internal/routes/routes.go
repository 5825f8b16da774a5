package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"siteinspect_backend/internal/config"
	"siteinspect_backend/internal/handlers"
	"siteinspect_backend/internal/middleware"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	cfg *config.Config,
) {
	// Корневой маршрут: баннер API
	ginRouter.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Construction Inspection API",
		})
	})

	// Метрики Prometheus
	ginRouter.GET("/metrics", middleware.MetricsHandler())

	// Статика: локальное хранилище отдается напрямую
	if cfg.Storage.Type == "local" {
		ginRouter.Static("/static", cfg.Storage.BasePath)
	}

	// Регистрация HTTP API
	api := ginRouter.Group("/api")
	{
		appHandlers.ProjectHandler.RegisterRoutes(api)
		appHandlers.InspectionHandler.RegisterRoutes(api)
		appHandlers.PhotoHandler.RegisterRoutes(api)
	}
}
