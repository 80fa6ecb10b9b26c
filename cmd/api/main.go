package main

import (
	"fmt"
	"net/http"
	"os"

	"sampatti/internal/config"
	"sampatti/internal/database"
	"sampatti/internal/handlers"
	"sampatti/internal/logger"
	"sampatti/internal/middleware"
	"sampatti/internal/services"
	"sampatti/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sampatti/internal/docs" // Import swagger docs
)

// @title           Sampatti API
// @version         1.0
// @description     Sampatti is an investment tracking application with recovery-word account recovery and tiered nominee emergency access.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	recoveryService := services.NewRecoveryService(db, userService)
	nomineeService := services.NewNomineeService(db)
	assetService := services.NewAssetService(db)
	documentService := services.NewDocumentService(db)
	emergencyService := services.NewEmergencyService(db, assetService, documentService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, recoveryService, auditService)
	nomineeHandler := handlers.NewNomineeHandler(nomineeService, auditService)
	emergencyHandler := handlers.NewEmergencyHandler(emergencyService)
	assetHandler := handlers.NewAssetHandler(assetService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	systemHandler := handlers.NewSystemHandler(dbManager)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", systemHandler.Health)

	// Internal endpoints, guarded by the internal API key
	internal := router.Group("/api/internal")
	internal.Use(middleware.InternalAuthMiddleware(appConfig.InternalAPIKey))
	internal.POST("/init-db", systemHandler.InitDatabase)

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify-recovery-words", authHandler.VerifyRecoveryWords)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Emergency access entry point (nominee authenticates with email + access code)
	v1.POST("/emergency/access", emergencyHandler.RequestAccess)

	// Nominee-token routes
	nomineeProtected := v1.Group("/")
	nomineeProtected.Use(middleware.NomineeAuthMiddleware())
	nomineeProtected.GET("/emergency/data", emergencyHandler.GetData)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(userService))

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.DELETE("/profile", authHandler.DeleteProfile)
	protected.POST("/profile/change-password", authHandler.ChangePassword)

	// Nominee routes
	nominees := protected.Group("/nominees")
	nominees.POST("", nomineeHandler.CreateNominee)
	nominees.GET("", nomineeHandler.GetNominees)
	nominees.GET("/access-logs", nomineeHandler.GetAccessLogs)
	nominees.GET("/:id", nomineeHandler.GetNominee)
	nominees.PUT("/:id", nomineeHandler.UpdateNominee)
	nominees.DELETE("/:id", nomineeHandler.DeleteNominee)
	nominees.POST("/:id/access-code", nomineeHandler.RegenerateAccessCode)
	nominees.POST("/:id/revoke", nomineeHandler.RevokeNominee)

	// Asset routes
	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)

	// Document routes
	documents := protected.Group("/documents")
	documents.POST("", documentHandler.CreateDocument)
	documents.GET("", documentHandler.GetDocuments)
	documents.GET("/:id", documentHandler.GetDocument)
	documents.DELETE("/:id", documentHandler.DeleteDocument)

	log.Infof("Starting Sampatti backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
