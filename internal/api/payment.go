package api

import (
	"errors"                    // Sentinel error matching
	"net/http"                  // HTTP status codes
	"strings"                   // String manipulation
	"time"                      // Current year for expiry checks
	"travelhub/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// AddPaymentMethodRequest carries the full card details. Only the last 4
// digits of the number survive past this handler.
type AddPaymentMethodRequest struct {
	CardNumber     string `json:"card_number" binding:"required"`               // Full card number, truncated at write
	CardholderName string `json:"cardholder_name" binding:"required,max=100"`   // Name on card
	ExpiryMonth    int    `json:"expiry_month" binding:"required,min=1,max=12"` // Expiry month
	ExpiryYear     int    `json:"expiry_year" binding:"required"`               // Expiry year, four digits
	IsDefault      bool   `json:"is_default"`                                   // Request this method as default
}

// normalizeCardNumber strips spaces and dashes from a submitted card number
func normalizeCardNumber(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	return strings.ReplaceAll(number, "-", "")
}

// isDigits reports whether s is non-empty and all ASCII digits
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// detectCardType derives the card network from the leading digits.
// Fixed prefix table: 4 visa, 51-55 and 2221-2720 mastercard, 34/37 amex, 6 discover.
func detectCardType(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "visa"
	case len(number) >= 2 && number[0] == '5' && number[1] >= '1' && number[1] <= '5':
		return "mastercard"
	case len(number) >= 4 && number[:4] >= "2221" && number[:4] <= "2720":
		return "mastercard"
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		return "amex"
	case strings.HasPrefix(number, "6"):
		return "discover"
	default:
		return "card"
	}
}

// AddPaymentMethodHandler stores a masked payment method. The first active
// method for a user always becomes the default.
func AddPaymentMethodHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req AddPaymentMethodRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		number := normalizeCardNumber(req.CardNumber)
		if !isDigits(number) || len(number) < 12 || len(number) > 19 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "errors": []fieldError{{Field: "card_number", Message: "must be 12-19 digits"}}})
			return
		}
		// Reject cards already expired
		now := time.Now()
		if req.ExpiryYear < now.Year() || (req.ExpiryYear == now.Year() && req.ExpiryMonth < int(now.Month())) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "errors": []fieldError{{Field: "expiry_year", Message: "card is expired"}}})
			return
		}
		method := domain.PaymentMethod{
			UserID:         userID.(uint),
			CardNumber:     number[len(number)-4:], // Last 4 digits only, irreversible
			CardType:       detectCardType(number),
			CardholderName: req.CardholderName,
			ExpiryMonth:    req.ExpiryMonth,
			ExpiryYear:     req.ExpiryYear,
			IsActive:       true,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			var activeCount int64
			if err := tx.Model(&domain.PaymentMethod{}).
				Where("user_id = ? AND is_active = ?", userID, true).
				Count(&activeCount).Error; err != nil {
				return err
			}
			// First method, or an explicit request, makes this the default
			if activeCount == 0 || req.IsDefault {
				if err := tx.Model(&domain.PaymentMethod{}).
					Where("user_id = ? AND is_active = ?", userID, true).
					Update("is_default", false).Error; err != nil {
					return err
				}
				method.IsDefault = true
			}
			return tx.Create(&method).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Owner
				"error":   err.Error(), // Error message
			}).Error("Failed to add payment method")
			fail(c, http.StatusInternalServerError, "Failed to add payment method")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,          // Owner
			"method_id": method.ID,       // New method ID
			"card_type": method.CardType, // Detected network
		}).Info("Payment method added")
		c.JSON(http.StatusCreated, gin.H{"success": true, "payment": method})
	}
}

// ListPaymentMethodsHandler returns the caller's active methods, newest first
func ListPaymentMethodsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var methods []domain.PaymentMethod
		if err := db.Where("user_id = ? AND is_active = ?", userID, true).
			Order("created_at DESC").
			Find(&methods).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to fetch payment methods")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": methods})
	}
}

// SetDefaultPaymentMethodHandler makes one method the default and clears the
// flag on every other active method in the same transaction.
func SetDefaultPaymentMethodHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var method domain.PaymentMethod
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", c.Param("id"), userID, true).
				First(&method).Error; err != nil {
				return err
			}
			// Clear the flag everywhere else, then set it here
			if err := tx.Model(&domain.PaymentMethod{}).
				Where("user_id = ? AND is_active = ? AND id <> ?", userID, true, method.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
			return tx.Model(&method).Update("is_default", true).Error
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "Payment method not found")
			return
		}
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to set default payment method")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": method})
	}
}

// DeletePaymentMethodHandler soft-deletes a method. Deleting the default
// promotes the most recent remaining active method, if any.
func DeletePaymentMethodHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var method domain.PaymentMethod
		if err := db.Where("id = ? AND is_active = ?", c.Param("id"), true).First(&method).Error; err != nil {
			fail(c, http.StatusNotFound, "Payment method not found")
			return
		}
		// Owner or admin only
		if method.UserID != userID.(uint) {
			var requester domain.User
			if err := db.First(&requester, userID).Error; err != nil || requester.Role != "admin" {
				fail(c, http.StatusForbidden, "Not allowed to delete this payment method")
				return
			}
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			wasDefault := method.IsDefault
			// Soft delete: mark inactive and drop the default flag
			if err := tx.Model(&method).Updates(map[string]any{"is_active": false, "is_default": false}).Error; err != nil {
				return err
			}
			if !wasDefault {
				return nil
			}
			// Promote the most recent remaining active method
			var next domain.PaymentMethod
			if err := tx.Where("user_id = ? AND is_active = ?", method.UserID, true).
				Order("created_at DESC").
				First(&next).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil // Nothing left to promote
				}
				return err
			}
			return tx.Model(&next).Update("is_default", true).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"method_id": method.ID,   // Method being removed
				"error":     err.Error(), // Error message
			}).Error("Failed to delete payment method")
			fail(c, http.StatusInternalServerError, "Failed to delete payment method")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   method.UserID, // Owner
			"method_id": method.ID,     // Removed method
		}).Info("Payment method removed")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment method removed"})
	}
}
