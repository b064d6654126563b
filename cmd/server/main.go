package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/trekora/backend/docs"
	"github.com/trekora/backend/internal/config"
	"github.com/trekora/backend/internal/database"
	"github.com/trekora/backend/internal/handlers"
	mW "github.com/trekora/backend/internal/middleware"
	"github.com/trekora/backend/internal/services"
)

// @title Trekora Booking Backend API
// @version 1.0
// @description API for tour bookings, seat inventory and the payment ledger
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// Initialize config
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	viper.ReadInConfig()

	viper.SetEnvPrefix("")

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("jwt.expiry_hours", "JWT_EXPIRY_HOURS")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// Initialize Swagger docs
	docs.SwaggerInfo.Title = "Trekora Booking Backend API"
	docs.SwaggerInfo.Description = "API for tour bookings, seat inventory and the payment ledger"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:8080"
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	// Initialize services
	db := database.InitDatabase()
	defer db.Close()

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}

	bookingCfg := config.LoadBookingConfig()

	notifier := services.NewQueueNotifier(redisClient, bookingCfg.NotificationQueueKey)
	bookingService := services.NewBookingService(db, notifier, bookingCfg)
	ledgerService := services.NewLedgerService(db, bookingCfg)
	availabilityService := services.NewAvailabilityService(db)
	catalogService := services.NewCatalogService(db)
	voucherService := services.NewVoucherService(db, redisClient, bookingCfg)
	voucherHandler := handlers.NewVoucherHandler(voucherService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Access-Control-Allow-Origin"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Static file server for tour images
	r.Handle("/static/tour-images/*", http.StripPrefix("/static/tour-images/",
		mW.StaticFileServer("./static/tour-images")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Get("/variants/{variantId}/availability", availabilityService.GetAvailability)
		r.Get("/tours/{tourId}/slots", catalogService.ListSlots)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(mW.AuthMiddleware)

			// Booking lifecycle
			r.Post("/bookings", bookingService.CreateBooking)
			r.Get("/bookings", bookingService.ListBookings)
			r.Get("/bookings/cancelled", bookingService.ListCancelledBookings)
			r.Get("/bookings/{bookingId}", bookingService.GetBooking)
			r.Get("/bookings/{bookingId}/audit", bookingService.GetBookingAudit)
			r.Post("/bookings/{bookingId}/cancel", bookingService.CancelBooking)
			r.Delete("/bookings/{bookingId}", bookingService.DeleteBooking)

			// Financial ledger
			r.Post("/payments", ledgerService.RecordPayment)
			r.Post("/refunds", ledgerService.RecordRefund)
			r.Get("/refunds", ledgerService.ListRefunds)
			r.Post("/adjustments", ledgerService.RecordAdjustment)
			r.Get("/adjustments", ledgerService.ListAdjustments)

			// Entry vouchers
			r.Post("/bookings/{bookingId}/voucher", voucherHandler.IssueVoucher)
			r.Post("/vouchers/redeem", voucherHandler.RedeemVoucher)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}
