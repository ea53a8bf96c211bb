package main

import (
	"context"                       // context package is needed for Redis operations
	"log"                           // log package is needed for logging
	"travelhub/internal/api"        // Custom package for API handlers
	"travelhub/internal/auth"       // Password-reset code store
	"travelhub/internal/config"     // Custom package for configuration
	"travelhub/internal/db"         // Database migration helpers
	"travelhub/internal/flights"    // Upstream flight-search client
	"travelhub/internal/middleware" // Custom package for middleware
	"travelhub/internal/utils"      // Mailer and token utilities

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database when configured. Without database settings the
	// server still starts: persistent routes answer 503 and the flight proxy
	// keeps working.
	var gdb *gorm.DB
	if cfg.HasDatabase() {
		conn, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		if err := db.AutoMigrate(conn); err != nil {
			logrus.Fatalf("migration failed: %v", err)
		}
		gdb = conn
	} else {
		logrus.Warn("no database configured, running in non-persistent mode")
	}

	// Setup Redis client when configured; caching and the shared reset-code
	// store degrade gracefully without it
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Warn("no Redis configured, caching disabled and reset codes kept in process memory")
	}

	codeStore := auth.NewCodeStore(redisClient) // Reset-code store (Redis or in-memory)
	mailer := utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	flightsClient := flights.NewClient(cfg.FlightsAPIKey, cfg.FlightsAPIURL)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	RegisterRoutes(r, gdb, redisClient, codeStore, mailer, flightsClient, cfg.JWTSecret)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	log.Println("Server running on " + port) // Log server start
	r.Run(":" + port)                        // Start the server
}

// RegisterRoutes wires every endpoint onto the router. Split out of main so
// tests can mount the same routing table.
func RegisterRoutes(r *gin.Engine, gdb *gorm.DB, redisClient *redis.Client, codeStore auth.CodeStore, mailer *utils.Mailer, flightsClient *flights.Client, jwtSecret string) {
	requireDB := middleware.RequireDatabase(gdb)           // 503 gate for persistent routes
	requireAuth := middleware.JWTAuthMiddleware(jwtSecret) // Bearer-token gate

	// Auth routes; the password-reset trio needs no token
	authGroup := r.Group("/api/auth", requireDB)
	authGroup.POST("/register", api.RegisterHandler(gdb, jwtSecret)) // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(gdb, jwtSecret))       // Login endpoint
	authGroup.POST("/forgot-password", api.ForgotPasswordHandler(gdb, codeStore, mailer))
	authGroup.POST("/verify-reset-code", api.VerifyResetCodeHandler(codeStore, jwtSecret))
	authGroup.POST("/reset-password", api.ResetPasswordHandler(gdb, jwtSecret))
	authGroup.GET("/me", requireAuth, api.MeHandler(gdb))                    // Current user endpoint
	authGroup.PUT("/profile", requireAuth, api.UpdateProfileHandler(gdb))    // Profile update endpoint
	authGroup.DELETE("/account", requireAuth, api.DeleteAccountHandler(gdb)) // Account deletion endpoint

	// Review routes; listing is public
	r.GET("/api/reviews", requireDB, api.ListReviewsHandler(gdb))
	reviewGroup := r.Group("/api/reviews", requireDB, requireAuth)
	reviewGroup.POST("", api.CreateReviewHandler(gdb))       // Create review endpoint
	reviewGroup.DELETE("/:id", api.DeleteReviewHandler(gdb)) // Delete review endpoint

	// Payment method routes (protected)
	paymentGroup := r.Group("/api/payment", requireDB, requireAuth)
	paymentGroup.POST("/add", api.AddPaymentMethodHandler(gdb))               // Add card endpoint
	paymentGroup.GET("/methods", api.ListPaymentMethodsHandler(gdb))          // List methods endpoint
	paymentGroup.PUT("/:id/default", api.SetDefaultPaymentMethodHandler(gdb)) // Set default endpoint
	paymentGroup.DELETE("/:id", api.DeletePaymentMethodHandler(gdb))          // Soft-delete endpoint

	// Hotel booking routes (protected)
	bookingGroup := r.Group("/api/bookings", requireDB, requireAuth)
	bookingGroup.POST("", api.CreateBookingHandler(gdb))                 // Create booking endpoint
	bookingGroup.GET("", api.ListBookingsHandler(gdb))                   // List bookings endpoint
	bookingGroup.GET("/:id", api.GetBookingHandler(gdb))                 // Get booking endpoint
	bookingGroup.PUT("/:id/status", api.UpdateBookingStatusHandler(gdb)) // Status update endpoint
	bookingGroup.DELETE("/:id", api.CancelBookingHandler(gdb))           // Cancel endpoint

	// Flight search proxy; works without a database
	r.GET("/api/flights/search", api.SearchFlightsHandler(flightsClient, gdb)) // Flight search endpoint
	r.GET("/api/flights/airports", api.SearchAirportsHandler(flightsClient))   // Airport search endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/api/admin", requireDB, requireAuth, middleware.AdminOnlyMiddleware(gdb))
	adminGroup.GET("/users", api.ListUsersHandler(gdb, redisClient))
	adminGroup.GET("/flights/analytics", api.FlightAnalyticsHandler(gdb, redisClient))
}
