package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	handlerHttp "github.com/nepcourses/nepcourses-api/internal/handler/http"
	redisclient "github.com/nepcourses/nepcourses-api/internal/infrastructure/cache"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/config"
	database "github.com/nepcourses/nepcourses-api/internal/infrastructure/database"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/external_services"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/gateway"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/jwt"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/logger"
	passwordservice "github.com/nepcourses/nepcourses-api/internal/infrastructure/password_service"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/repository/mongodb"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/store"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/uuidgen"
	"github.com/nepcourses/nepcourses-api/internal/infrastructure/validator"
	"github.com/nepcourses/nepcourses-api/internal/usecase"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	appConfig := config.NewConfig()
	if appConfig.MongoURI == "" {
		log.Fatal("MONGODB_URI environment variable not set")
	}
	if appConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	// Establish MongoDB connection
	mongoClient, err := database.NewMongoDBClient(appConfig.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect()

	db := mongoClient.Client.Database(appConfig.MongoDBName)

	// Register custom validators
	validator.RegisterCustomValidators()

	// Initialize Gin router
	router := gin.Default()

	// Dependency Injection: Repositories
	userRepo := mongodb.NewUserRepository(db.Collection("users"))
	tokenRepo := mongodb.NewTokenRepository(db.Collection("tokens"))
	courseRepo := mongodb.NewCourseRepository(db)
	lectureRepo := mongodb.NewLectureRepository(db)
	enrollmentRepo := mongodb.NewEnrollmentRepository(db)
	paymentRepo := mongodb.NewPaymentRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)

	// The unique (user_id, course_id) index backs enrollment idempotency;
	// refuse to start without it.
	if err := enrollmentRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create enrollment indexes: %v", err)
	}

	// Dependency Injection: Services
	hasher := passwordservice.NewHasher()
	jwtManager := jwt.NewJWTManager(appConfig.JWTSecret, appConfig.AccessTokenExpiry, appConfig.RefreshTokenExpiry)
	jwtService := jwt.NewJWTService(jwtManager)
	appLogger := logger.NewStdLogger()
	mailService := external_services.NewEmailService(
		appConfig.SMTP.Host, appConfig.SMTP.Port, appConfig.SMTP.Username,
		appConfig.SMTP.AppPassword, appConfig.SMTP.From,
	)
	appValidator := validator.NewValidator()
	uuidGenerator := uuidgen.NewGenerator()

	esewaGateway := gateway.NewEsewaGateway(appConfig.Esewa.ProductCode, appConfig.Esewa.SecretKey, appConfig.IsProduction())
	khaltiGateway := gateway.NewKhaltiGateway(appConfig.Khalti.SecretKey, appConfig.IsProduction())

	// Dependency Injection: Usecases
	userUsecase := usecase.NewUserUsecase(userRepo, tokenRepo, hasher, jwtService, appLogger, appConfig, appValidator, uuidGenerator)
	courseUsecase := usecase.NewCourseUsecase(courseRepo, lectureRepo, reviewRepo, uuidGenerator, appLogger)
	enrollmentUsecase := usecase.NewEnrollmentUsecase(enrollmentRepo, courseRepo, uuidGenerator, appLogger)
	reviewUsecase := usecase.NewReviewUsecase(reviewRepo, enrollmentRepo, courseRepo, uuidGenerator, appValidator, appLogger)
	dashboardUsecase := usecase.NewDashboardUsecase(courseRepo, enrollmentRepo, paymentRepo, appLogger)
	paymentUsecase := usecase.NewPaymentUsecase(
		courseRepo, enrollmentRepo, paymentRepo, userRepo,
		esewaGateway, khaltiGateway, uuidGenerator, appLogger, appConfig,
		usecase.PaymentConfig{
			EsewaSuccessURL: appConfig.Esewa.SuccessURL,
			EsewaFailureURL: appConfig.Esewa.FailureURL,
			KhaltiReturnURL: appConfig.Khalti.ReturnURL,
			KhaltiSecretSet: appConfig.Khalti.SecretKey != "",
		},
		mailService,
	)

	// Optional Dependency Injection: Redis cache
	if appConfig.RedisURL != "" {
		if rdb := redisclient.NewRedisFromURL(context.Background(), appConfig.RedisURL); rdb != nil {
			defer redisclient.Close(rdb)
			courseUsecase.SetCourseCache(store.NewCourseCacheStore(rdb))
		}
	}

	// Setup API routes
	appRouter := handlerHttp.NewRouter(
		userUsecase, courseUsecase, enrollmentUsecase,
		paymentUsecase, reviewUsecase, dashboardUsecase,
		esewaGateway, appConfig,
	)
	appRouter.SetupRoutes(router)

	// Start the server
	log.Printf("Server running on port %s", appConfig.Port)
	if err := router.Run(":" + appConfig.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
