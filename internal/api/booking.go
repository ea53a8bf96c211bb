package api

import (
	"net/http"                  // HTTP status codes
	"strings"                   // Reference formatting
	"travelhub/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Booking reference generation
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CreateBookingRequest snapshots a hotel offer plus guest and payment details
type CreateBookingRequest struct {
	HotelName       string  `json:"hotel_name" binding:"required,max=200"` // Hotel name
	Location        string  `json:"location" binding:"max=200"`            // Hotel location
	CheckIn         string  `json:"check_in" binding:"required,len=10"`    // Check-in date (YYYY-MM-DD)
	CheckOut        string  `json:"check_out" binding:"required,len=10"`   // Check-out date (YYYY-MM-DD)
	Guests          int     `json:"guests" binding:"required,min=1"`       // Guest count
	RoomType        string  `json:"room_type" binding:"max=100"`           // Room type
	TotalAmount     float64 `json:"total_amount" binding:"required,gt=0"`  // Total price
	PaymentMethodID *uint   `json:"payment_method_id"`                     // Optional payment method
	Status          string  `json:"status"`                                // Optional initial status, defaults to pending
}

// UpdateBookingStatusRequest sets a booking status directly
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"` // Target status
}

// newBookingReference generates a short unique booking reference
func newBookingReference() string {
	return "HB-" + strings.ToUpper(uuid.NewString()[:8])
}

// CreateBookingHandler creates a hotel booking snapshot for the caller and
// awards reward points proportional to the total amount.
func CreateBookingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req CreateBookingRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		status := req.Status
		if status == "" {
			status = domain.BookingStatusPending
		}
		if !domain.ValidBookingStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "errors": []fieldError{{Field: "status", Message: "is invalid"}}})
			return
		}
		// The payment method, when given, must be an active method of the caller
		if req.PaymentMethodID != nil {
			var method domain.PaymentMethod
			if err := db.Where("id = ? AND user_id = ? AND is_active = ?", *req.PaymentMethodID, userID, true).
				First(&method).Error; err != nil {
				fail(c, http.StatusNotFound, "Payment method not found")
				return
			}
		}
		booking := domain.HotelBooking{
			UserID:          userID.(uint),
			Reference:       newBookingReference(),
			HotelName:       req.HotelName,
			Location:        req.Location,
			CheckIn:         req.CheckIn,
			CheckOut:        req.CheckOut,
			Guests:          req.Guests,
			RoomType:        req.RoomType,
			TotalAmount:     req.TotalAmount,
			PaymentMethodID: req.PaymentMethodID,
			Status:          status,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			// Retry once on the unlikely reference collision
			if err := tx.Create(&booking).Error; err != nil {
				booking.Reference = newBookingReference()
				if err := tx.Create(&booking).Error; err != nil {
					return err
				}
			}
			// Reward points: one point per 10 currency units booked
			points := int(booking.TotalAmount / 10)
			if points > 0 {
				if err := tx.Model(&domain.User{}).
					Where("id = ?", booking.UserID).
					Update("reward_points", gorm.Expr("reward_points + ?", points)).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Booking owner
				"error":   err.Error(), // Error message
			}).Error("Failed to create booking")
			fail(c, http.StatusInternalServerError, "Failed to create booking")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   booking.UserID,    // Booking owner
			"booking":   booking.Reference, // Booking reference
			"hotel":     booking.HotelName, // Booked hotel
			"amount":    booking.TotalAmount,
			"status":    booking.Status,
		}).Info("Hotel booking created")
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
	}
}

// ListBookingsHandler returns the caller's bookings, newest first
func ListBookingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var bookings []domain.HotelBooking
		if err := db.Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to fetch bookings")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": bookings})
	}
}

// loadBookingForPrincipal fetches a booking and checks that the requesting
// principal is the owner or an admin. Writes the error response itself and
// returns nil when access is denied.
func loadBookingForPrincipal(c *gin.Context, db *gorm.DB, userID uint) *domain.HotelBooking {
	var booking domain.HotelBooking
	if err := db.First(&booking, c.Param("id")).Error; err != nil {
		fail(c, http.StatusNotFound, "Booking not found")
		return nil
	}
	if booking.UserID != userID {
		var requester domain.User
		if err := db.First(&requester, userID).Error; err != nil || requester.Role != "admin" {
			fail(c, http.StatusForbidden, "Not allowed to access this booking")
			return nil
		}
	}
	return &booking
}

// GetBookingHandler returns a single booking for the owner or an admin
func GetBookingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		booking := loadBookingForPrincipal(c, db, userID.(uint))
		if booking == nil {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
	}
}

// UpdateBookingStatusHandler sets the booking status directly. There is no
// state machine in this layer; callers own the transitions.
func UpdateBookingStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req UpdateBookingStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		if !domain.ValidBookingStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "errors": []fieldError{{Field: "status", Message: "is invalid"}}})
			return
		}
		booking := loadBookingForPrincipal(c, db, userID.(uint))
		if booking == nil {
			return
		}
		if err := db.Model(booking).Update("status", req.Status).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update booking status")
			return
		}
		logrus.WithFields(logrus.Fields{
			"booking": booking.Reference, // Booking reference
			"status":  req.Status,        // New status
		}).Info("Booking status updated")
		c.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
	}
}

// CancelBookingHandler marks a booking cancelled. Bookings are audit data,
// so cancellation keeps the row.
func CancelBookingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		booking := loadBookingForPrincipal(c, db, userID.(uint))
		if booking == nil {
			return
		}
		if err := db.Model(booking).Update("status", domain.BookingStatusCancelled).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to cancel booking")
			return
		}
		logrus.WithFields(logrus.Fields{"booking": booking.Reference}).Info("Booking cancelled")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Booking cancelled"})
	}
}
