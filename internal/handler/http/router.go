package http

import (
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nepcourses/nepcourses-api/internal/domain/contract"
	"github.com/nepcourses/nepcourses-api/internal/domain/entity"
	"github.com/nepcourses/nepcourses-api/internal/handler/http/middleware"
	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	userHandler       *UserHandler
	authHandler       *AuthHandler
	courseHandler     *CourseHandler
	enrollmentHandler *EnrollmentHandler
	paymentHandler    *PaymentHandler
	reviewHandler     *ReviewHandler
	dashboardHandler  *DashboardHandler
	userUsecase       usecasecontract.IUserUseCase
}

func NewRouter(
	userUsecase usecasecontract.IUserUseCase,
	courseUsecase usecasecontract.ICourseUseCase,
	enrollmentUsecase usecasecontract.IEnrollmentUseCase,
	paymentUsecase usecasecontract.IPaymentUseCase,
	reviewUsecase usecasecontract.IReviewUseCase,
	dashboardUsecase usecasecontract.IDashboardUseCase,
	esewaGateway contract.IEsewaGateway,
	config usecasecontract.IConfigProvider,
) *Router {
	return &Router{
		userHandler:       NewUserHandler(userUsecase),
		authHandler:       NewAuthHandler(userUsecase, config.GetServerURL(), config.GetGoogleClientID(), config.GetGoogleClientSecret()),
		courseHandler:     NewCourseHandler(courseUsecase),
		enrollmentHandler: NewEnrollmentHandler(enrollmentUsecase),
		paymentHandler:    NewPaymentHandler(paymentUsecase, esewaGateway, config.GetClientURL()),
		reviewHandler:     NewReviewHandler(reviewUsecase),
		dashboardHandler:  NewDashboardHandler(dashboardUsecase),
		userUsecase:       userUsecase,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	// rate limiter configuration
	lmt := tollbooth.NewLimiter(10, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})
	lmt.SetMessage("Too many requests, please try again later.")
	router.Use(middleware.RateLimiter(lmt))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// API v1 routes
	v1 := router.Group("/api/v1")

	// Public routes (no authentication required)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", r.userHandler.Register)
		auth.POST("/login", r.userHandler.Login)
		auth.POST("/refresh-token", r.userHandler.RefreshToken)

		// Google OAuth endpoints
		auth.GET("/google/login", r.authHandler.HandleGoogleLogin)
		auth.GET("/google/callback", r.authHandler.HandleGoogleCallback)
	}

	// Public user routes
	users := v1.Group("/users")
	{
		users.GET("/profile/:id", r.userHandler.GetUser)
	}

	// Public catalog routes
	courses := v1.Group("/courses")
	{
		courses.GET("", r.courseHandler.ListCourses)
		courses.GET("/:courseID", r.courseHandler.GetCourseDetail)
		courses.GET("/:courseID/reviews", r.reviewHandler.GetCourseReviews)
	}

	// Gateway-facing payment routes. These are hit by browser redirects from
	// eSewa and Khalti, so they cannot require a Bearer token.
	payments := v1.Group("/payments")
	{
		payments.GET("/esewa-form", r.paymentHandler.RenderEsewaForm)
		// eSewa delivers result callbacks as GET or POST depending on flow
		payments.GET("/esewa/success", r.paymentHandler.HandleEsewaSuccess)
		payments.POST("/esewa/success", r.paymentHandler.HandleEsewaSuccess)
		payments.GET("/esewa/failure", r.paymentHandler.HandleEsewaFailure)
		payments.POST("/esewa/failure", r.paymentHandler.HandleEsewaFailure)
		payments.GET("/khalti/return", r.paymentHandler.HandleKhaltiReturn)
	}

	// Protected routes (authentication required)
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleWare(r.userUsecase))
	{
		// Current user routes
		protected.GET("/me", r.userHandler.GetCurrentUser)
		protected.PUT("/me", r.userHandler.UpdateProfile)

		// Enrollment routes
		protected.POST("/courses/:courseID/enroll", r.enrollmentHandler.EnrollFreeCourse)
		protected.GET("/enrollments", r.enrollmentHandler.GetEnrolledCourses)
		protected.GET("/courses/:courseID/enrollment", r.enrollmentHandler.CheckEnrollment)
		protected.PUT("/courses/:courseID/progress", r.enrollmentHandler.UpdateProgress)

		// Payment initiation
		protected.POST("/payments/initiate", r.paymentHandler.InitiatePayment)

		// Review routes
		protected.POST("/courses/:courseID/reviews", r.reviewHandler.CreateReview)
		protected.PUT("/reviews/:reviewID", r.reviewHandler.UpdateReview)
		protected.DELETE("/reviews/:reviewID", r.reviewHandler.DeleteReview)

		// Educator routes
		educator := protected.Group("/")
		educator.Use(middleware.RequireRole(entity.UserRoleEducator, entity.UserRoleAdmin))
		{
			educator.POST("/courses", r.courseHandler.CreateCourse)
			educator.PUT("/courses/:courseID", r.courseHandler.UpdateCourse)
			educator.DELETE("/courses/:courseID", r.courseHandler.DeleteCourse)
			educator.PATCH("/courses/:courseID/publish", r.courseHandler.SetPublished)
			educator.GET("/educator/courses", r.courseHandler.ListMyCourses)
			educator.GET("/educator/dashboard", r.dashboardHandler.GetEducatorDashboard)

			educator.POST("/courses/:courseID/lectures", r.courseHandler.AddLecture)
			educator.PUT("/lectures/:lectureID", r.courseHandler.UpdateLecture)
			educator.DELETE("/lectures/:lectureID", r.courseHandler.DeleteLecture)
		}
	}

	// Logout route (no authentication required just accept the refresh token from the request body and invalidate the user session)
	v1.POST("/logout", r.userHandler.Logout)
}
