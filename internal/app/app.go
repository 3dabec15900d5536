package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"photoflow_backend/database"
	"photoflow_backend/internal/caption"
	"photoflow_backend/internal/config"
	"photoflow_backend/internal/email"
	"photoflow_backend/internal/handlers"
	"photoflow_backend/internal/imageprocessor"
	"photoflow_backend/internal/logger"
	"photoflow_backend/internal/middleware"
	"photoflow_backend/internal/repositories"
	"photoflow_backend/internal/routes"
	"photoflow_backend/internal/services"
	"photoflow_backend/internal/storage"
	"photoflow_backend/internal/validator"
	"photoflow_backend/internal/workers"
	"photoflow_backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Database migration failed", "error", err)
	}
	logger.Info("Database migrated")

	ginRouter := SetupRouter(cfg, gormDB, sqlDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, storageInstance)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer, storageInstance)

	// 3. Инициализируем WebSocket и подписку галереи
	wsManager := ws.NewWebSocketManager(gormDB, serviceContainer.PhotoService)
	go wsManager.Run()
	serviceContainer.PhotoService.SetNotifier(wsManager)
	wsHandler := ws.NewWebSocketHandler(wsManager)

	// 4. Фоновая чистка истекших refresh токенов
	cleanupWorker := workers.NewTokenCleanupWorker(gormDB, repositories.NewRefreshTokenRepository())
	cleanupWorker.Start(context.Background())

	// 5. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 6. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			BaseURL:   fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port),
		})
	} else {
		logger.Warn("SMTP is not configured, using mock email provider")
		emailService = &MockEmailProvider{}
	}

	// --- Инициализация репозиториев ---
	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	photoRepo := repositories.NewPhotoRepository()

	// --- Инициализация сервисов ---
	captionClient := caption.NewOpenAIClient(
		cfg.Caption.Endpoint,
		cfg.Caption.APIKey,
		cfg.Caption.Model,
		time.Duration(cfg.Caption.TimeoutSeconds)*time.Second,
	)
	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality)

	authService := services.NewAuthService(userRepo, refreshTokenRepo, emailService)
	photoService := services.NewPhotoService(photoRepo, storageInstance, captionClient, processor)
	transformService := services.NewTransformService(photoRepo)
	draftService := services.NewDraftService()

	return &services.ServiceContainer{
		AuthService:      authService,
		PhotoService:     photoService,
		TransformService: transformService,
		DraftService:     draftService,
		EmailService:     emailService,
	}
}

func initializeHandlers(services *services.ServiceContainer, storageInstance storage.Storage) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:      handlers.NewAuthHandler(baseHandler, services.AuthService),
		PhotoHandler:     handlers.NewPhotoHandler(baseHandler, services.PhotoService),
		TransformHandler: handlers.NewTransformHandler(baseHandler, services.TransformService),
		DraftHandler:     handlers.NewDraftHandler(baseHandler, services.DraftService),
		FileHandler:      handlers.NewFileHandler(baseHandler, storageInstance),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
