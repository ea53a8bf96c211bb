package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"travelhub/internal/auth"
	dbpkg "travelhub/internal/db"
	"travelhub/internal/domain"
	"travelhub/internal/flights"
	"travelhub/internal/middleware"
	"travelhub/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// setupTestDB opens an isolated in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := dbpkg.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// setupRouter mounts the API routes against the given database. The flights
// client may be nil when no flight route is exercised.
func setupRouter(t *testing.T, db *gorm.DB, flightsClient *flights.Client) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	codeStore := auth.NewCodeStore(nil)
	mailer := utils.NewMailer("", 0, "", "", "")
	requireAuth := middleware.JWTAuthMiddleware(testSecret)

	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", RegisterHandler(db, testSecret))
	authGroup.POST("/login", LoginHandler(db, testSecret))
	authGroup.POST("/forgot-password", ForgotPasswordHandler(db, codeStore, mailer))
	authGroup.POST("/verify-reset-code", VerifyResetCodeHandler(codeStore, testSecret))
	authGroup.POST("/reset-password", ResetPasswordHandler(db, testSecret))
	authGroup.GET("/me", requireAuth, MeHandler(db))
	authGroup.PUT("/profile", requireAuth, UpdateProfileHandler(db))
	authGroup.DELETE("/account", requireAuth, DeleteAccountHandler(db))

	r.GET("/api/reviews", ListReviewsHandler(db))
	reviewGroup := r.Group("/api/reviews", requireAuth)
	reviewGroup.POST("", CreateReviewHandler(db))
	reviewGroup.DELETE("/:id", DeleteReviewHandler(db))

	paymentGroup := r.Group("/api/payment", requireAuth)
	paymentGroup.POST("/add", AddPaymentMethodHandler(db))
	paymentGroup.GET("/methods", ListPaymentMethodsHandler(db))
	paymentGroup.PUT("/:id/default", SetDefaultPaymentMethodHandler(db))
	paymentGroup.DELETE("/:id", DeletePaymentMethodHandler(db))

	bookingGroup := r.Group("/api/bookings", requireAuth)
	bookingGroup.POST("", CreateBookingHandler(db))
	bookingGroup.GET("", ListBookingsHandler(db))
	bookingGroup.GET("/:id", GetBookingHandler(db))
	bookingGroup.PUT("/:id/status", UpdateBookingStatusHandler(db))
	bookingGroup.DELETE("/:id", CancelBookingHandler(db))

	if flightsClient != nil {
		r.GET("/api/flights/search", SearchFlightsHandler(flightsClient, db))
		r.GET("/api/flights/airports", SearchAirportsHandler(flightsClient))
	}

	adminGroup := r.Group("/api/admin", requireAuth, middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", ListUsersHandler(db, nil))
	adminGroup.GET("/flights/analytics", FlightAnalyticsHandler(db, nil))

	return r
}

// seedUser inserts a user with a bcrypt-hashed password and returns it with a login token
func seedUser(t *testing.T, db *gorm.DB, email, role string) (*domain.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash seed password: %v", err)
	}
	user := &domain.User{
		Name:     "Test User",
		Email:    email,
		Phone:    "5551234567",
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", email, err)
	}
	token, err := utils.GenerateJWT(user.ID, testSecret)
	if err != nil {
		t.Fatalf("Failed to generate token for %s: %v", email, err)
	}
	return user, token
}

// doJSON performs a request with an optional bearer token and JSON body
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a response body into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}
