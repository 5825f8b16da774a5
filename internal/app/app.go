package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"siteinspect_backend/internal/config"
	"siteinspect_backend/internal/database"
	"siteinspect_backend/internal/handlers"
	"siteinspect_backend/internal/imageprocessor"
	"siteinspect_backend/internal/logger"
	"siteinspect_backend/internal/middleware"
	"siteinspect_backend/internal/pdf"
	"siteinspect_backend/internal/repositories"
	"siteinspect_backend/internal/routes"
	"siteinspect_backend/internal/services"
	"siteinspect_backend/internal/storage"
	"siteinspect_backend/internal/validator"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Database connected and migrated")

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		PDFDir:    cfg.Storage.PDFDir,
		PhotoDir:  cfg.Storage.PhotoDir,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, storageInstance)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers, cfg)

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage) *services.ServiceContainer {
	// --- Инициализация репозиториев ---
	projectRepo := repositories.NewProjectRepository()
	inspectionRepo := repositories.NewInspectionRepository()
	photoRepo := repositories.NewPhotoRepository()

	// --- Вспомогательные компоненты ---
	processor := imageprocessor.NewProcessor(cfg.Upload.ThumbnailWidth, cfg.Upload.JPEGQuality)
	generator := pdf.NewGenerator(storageInstance, cfg.Storage.PDFDir)
	fileConfig := &services.FileConfig{
		PDFDir:      cfg.Storage.PDFDir,
		PhotoDir:    cfg.Storage.PhotoDir,
		MaxFileSize: cfg.Upload.MaxSize,
	}

	// --- Инициализация сервисов ---
	inspectionService := services.NewInspectionService(inspectionRepo, projectRepo, photoRepo, storageInstance, generator, fileConfig)
	projectService := services.NewProjectService(projectRepo, inspectionRepo, photoRepo, inspectionService, storageInstance)
	photoService := services.NewPhotoService(photoRepo, inspectionRepo, storageInstance, processor, fileConfig)

	return &services.ServiceContainer{
		ProjectService:    projectService,
		InspectionService: inspectionService,
		PhotoService:      photoService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		ProjectHandler:    handlers.NewProjectHandler(baseHandler, services.ProjectService),
		InspectionHandler: handlers.NewInspectionHandler(baseHandler, services.InspectionService),
		PhotoHandler:      handlers.NewPhotoHandler(baseHandler, services.PhotoService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
