package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/solokill756/tourbooking/cache/redis"
	"github.com/solokill756/tourbooking/config"
	kafkanotifier "github.com/solokill756/tourbooking/notifier/kafka"
	"github.com/solokill756/tourbooking/repository/postgres"
	"github.com/solokill756/tourbooking/service"
	"go.uber.org/zap"
)

func SetupRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	// Initialize database and repositories
	db, err := postgres.Open(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	tourRepo := postgres.NewTourRepository(db)

	// Initialize cache
	cacheRepo, err := redis.NewRedisCacheRepository(cfg.Redis.GetRedisURL(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Failed to initialize cache:", err)
	}

	// Initialize cache invalidation notifier
	notifier := kafkanotifier.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.InvalidationTopic, logger)

	// Initialize services
	bookingService := service.NewBookingService(bookingRepo, tourRepo, notifier, logger)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, notifier, logger)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo, paymentRepo, tourRepo, notifier, logger)
	tourService := service.NewTourService(tourRepo, cacheRepo, logger)

	// Initialize JWT service and handlers
	jwtService := NewJWTService(cfg.JWTSecret)
	handler := NewAPIHandler(bookingService, paymentService, reviewService, tourService, bookingRepo, cacheRepo)

	// Setup Gin router
	r := gin.Default()

	r.Use(CORSMiddleware())

	// Health check endpoint (no auth required)
	r.GET("/health", handler.HealthCheck)

	api := r.Group("/api")

	// Public catalog endpoints
	api.GET("/tours", handler.ListTours)
	api.GET("/tours/:id", handler.GetTour)
	api.GET("/tours/:id/reviews", handler.ListTourReviews)

	// Protected endpoints (require authentication)
	protected := api.Group("")
	protected.Use(AuthMiddleware(jwtService))

	protected.POST("/bookings", handler.SubmitBooking)
	protected.GET("/bookings", handler.ListUserBookings)
	protected.GET("/bookings/:id", handler.GetBooking)
	protected.POST("/bookings/:id/cancel", handler.CancelBooking)
	protected.DELETE("/bookings/:id", handler.DeleteBooking)

	protected.GET("/bookings/:id/payment", handler.GetPayment)
	protected.POST("/bookings/:id/payment", handler.SubmitPayment)

	protected.GET("/bookings/:id/review-info", handler.GetReviewInfo)
	protected.PUT("/tours/:id/review", handler.SubmitReview)

	// Admin endpoints
	admin := api.Group("/admin")
	admin.Use(AuthMiddleware(jwtService), AdminMiddleware())

	admin.PATCH("/bookings/:id/status", handler.UpdateBookingStatus)

	return r
}
