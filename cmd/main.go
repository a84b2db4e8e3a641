package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/kwiens/seeds/docs" // Import generated docs
	"github.com/kwiens/seeds/internal/auth"
	"github.com/kwiens/seeds/internal/config"
	"github.com/kwiens/seeds/internal/controllers"
	"github.com/kwiens/seeds/internal/database"
	"github.com/kwiens/seeds/internal/images"
	"github.com/kwiens/seeds/internal/middleware"
	"github.com/kwiens/seeds/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config

	userService     services.UserService
	seedController  *controllers.SeedController
	adminController *controllers.AdminController
	authController  *controllers.AuthController
)

// @title Seeds API
// @version 1.0
// @description Community project proposals: planting, review, support and visibility
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services and controllers
	setupServices(configuration)

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
	if level, err := log.ParseLevel(config.GetEnvWithDefault("LOG_LEVEL", "")); err == nil {
		log.SetLevel(level)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase opens the configured database and brings the schema up to date
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.NewDatabaseConfig(conf))
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	return db
}

// setupServices wires services into controllers
func setupServices(conf *config.Config) {
	roster := services.NewAdminRosterService(db, conf.AdminEmails)
	userService = services.NewUserService(db, roster)
	queries := services.NewSeedQueryService(db)

	seedController = controllers.NewSeedController(
		services.NewSeedService(db),
		queries,
		services.NewSupportService(db),
		setupImageService(conf.Image),
	)
	adminController = controllers.NewAdminController(queries, services.NewLifecycleService(db), roster)
	authController = controllers.NewAuthController(userService, auth.NewSessionIssuer([]byte(conf.JWTSecret)))
}

// setupImageService returns a disabled service unless both the generator and the bucket are configured
func setupImageService(conf config.ImageConfig) services.ImageService {
	if !conf.Enabled() {
		log.Info("Image generation disabled")
		return services.NewImageService(db, nil, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := images.NewS3Store(ctx, images.S3Options{
		Endpoint:      conf.S3Endpoint,
		Region:        conf.S3Region,
		Bucket:        conf.S3Bucket,
		AccessKeyID:   conf.S3AccessKeyID,
		SecretKey:     conf.S3SecretKey,
		UsePathStyle:  conf.S3UsePathStyle,
		PublicBaseURL: conf.S3PublicBaseURL,
	})
	if err != nil {
		log.WithError(err).Error("Could not set up image storage, image generation disabled")
		return services.NewImageService(db, nil, nil)
	}
	generator, err := images.NewGeminiGenerator(ctx, conf.APIURL, conf.Model, conf.APIKey)
	if err != nil {
		log.WithError(err).Error("Could not set up image generator, image generation disabled")
		return services.NewImageService(db, nil, nil)
	}
	return services.NewImageService(db, generator, store)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.Prometheus())

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Session tokens without the identity provider, for local work only
	if configuration.Environment == "development" {
		router.GET("/test-token", authController.TestToken)
	}

	// Every API route resolves the caller; anonymous requests pass through
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity([]byte(configuration.JWTSecret), userService))
	{
		v1.GET("/me", authController.Me)
		seedController.Register(v1)
		adminController.Register(v1)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "seeds",
	})
}
