package routes

import (
	"net/http"

	"acmemedical/cache"
	"acmemedical/config"
	"acmemedical/controllers"
	"acmemedical/handlers"
	"acmemedical/middlewares"
	"acmemedical/repositories"
	"acmemedical/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, db *gorm.DB) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://portal.acmemedical.com", "https://staging.acmemedical.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15, // 15 requests per second
		Burst:             30, // Burst of 30
	}))

	// Mutating requests must carry JSON bodies
	router.Use(middlewares.EnforceJSON())

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories, services, and handlers
	userRepo := repositories.NewUserRepository(db, cache)
	authService := services.NewAuthService(userRepo)

	physicianHandler := handlers.NewPhysicianHandler(
		services.NewPhysicianService(repositories.NewPhysicianRepository(db, cache, config, userRepo)))
	patientHandler := handlers.NewPatientHandler(
		services.NewPatientService(repositories.NewPatientRepository(db, cache)))
	medicineHandler := handlers.NewMedicineHandler(
		services.NewMedicineService(repositories.NewMedicineRepository(db, cache)))
	schoolHandler := handlers.NewMedicalSchoolHandler(
		services.NewMedicalSchoolService(repositories.NewMedicalSchoolRepository(db, cache)))
	trainingHandler := handlers.NewMedicalTrainingHandler(
		services.NewMedicalTrainingService(repositories.NewMedicalTrainingRepository(db)))
	certificateHandler := handlers.NewMedicalCertificateHandler(
		services.NewMedicalCertificateService(repositories.NewMedicalCertificateRepository(db, cache)))
	prescriptionHandler := handlers.NewPrescriptionHandler(
		services.NewPrescriptionService(repositories.NewPrescriptionRepository(db, cache)))

	// Register routes
	controllers.SetupMedicalRoutes(router, authService, controllers.MedicalHandlers{
		Physician:    physicianHandler,
		Patient:      patientHandler,
		Medicine:     medicineHandler,
		School:       schoolHandler,
		Training:     trainingHandler,
		Certificate:  certificateHandler,
		Prescription: prescriptionHandler,
	})

	authController := controllers.NewAuthController(handlers.NewAuthHandler(authService))
	authController.RegisterRoutes(router, authService)

	controllers.SetupRootRoute(router)

	return router
}
