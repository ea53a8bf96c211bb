package api

import (
	"net/http"                  // HTTP status codes
	"regexp"                    // Phone validation
	"strings"                   // String manipulation
	"travelhub/internal/domain" // Importing domain models
	"travelhub/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the typed payload for registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"` // Display name
	Email    string `json:"email" binding:"required,email"`        // Email, unique
	Phone    string `json:"phone" binding:"required"`              // Phone number
	Password string `json:"password" binding:"required,min=8"`     // Plaintext password, hashed before storage
}

// LoginRequest is the typed payload for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email
	Password string `json:"password" binding:"required"`    // Password
}

// UserResponse is the public view of a user; the password hash never leaves the server
type UserResponse struct {
	ID           uint   `json:"id"`            // User ID
	Name         string `json:"name"`          // Display name
	Email        string `json:"email"`         // Email
	Phone        string `json:"phone"`         // Phone number
	Role         string `json:"role"`          // Role
	Avatar       string `json:"avatar"`        // Avatar URL
	Bio          string `json:"bio"`           // Profile bio
	Location     string `json:"location"`      // Profile location
	RewardPoints int    `json:"reward_points"` // Reward points
}

// publicUser maps a domain user to its public view
func publicUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Role:         u.Role,
		Avatar:       u.Avatar,
		Bio:          u.Bio,
		Location:     u.Location,
		RewardPoints: u.RewardPoints,
	}
}

var phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// isValidPhone checks the phone shape: optional plus, 7 to 15 digits
func isValidPhone(phone string) bool {
	return phoneRe.MatchString(strings.ReplaceAll(phone, " ", ""))
}

// RegisterHandler creates a user with a hashed password and returns a signed token
func RegisterHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		// Validate the phone shape
		if !isValidPhone(req.Phone) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "errors": []fieldError{{Field: "phone", Message: "must be 7-15 digits"}}})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		// Reject duplicate emails before creating anything
		var existing domain.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			fail(c, http.StatusBadRequest, "Email already registered")
			return
		}
		// Hash the password irreversibly
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			fail(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		user := domain.User{
			Name:     strings.TrimSpace(req.Name),
			Email:    email,
			Phone:    req.Phone,
			Password: string(hash),
			Role:     "user",
		}
		// Attempt to create the user; a racing duplicate still surfaces here
		if err := db.Create(&user).Error; err != nil {
			fail(c, http.StatusBadRequest, "Email already registered")
			return
		}
		// Issue the login token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // New user ID
			"email":   email,   // Registered email
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": publicUser(&user)})
	}
}

// LoginHandler authenticates a user and returns a JWT token. Unknown email and
// wrong password produce the same message so accounts cannot be enumerated.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			fail(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": publicUser(&user)})
	}
}

// MeHandler returns the authenticated user's public view
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": publicUser(&user)})
	}
}

// UpdateProfileRequest carries the mutable profile fields; empty fields are left untouched
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=100"` // Display name
	Phone    string `json:"phone"`                                  // Phone number
	Avatar   string `json:"avatar"`                                 // Avatar URL
	Bio      string `json:"bio"`                                    // Profile bio
	Location string `json:"location"`                               // Profile location
}

// UpdateProfileHandler updates the authenticated user's profile fields
func UpdateProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		if req.Phone != "" && !isValidPhone(req.Phone) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "errors": []fieldError{{Field: "phone", Message: "must be 7-15 digits"}}})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		// Apply only the provided fields
		updates := map[string]any{}
		if req.Name != "" {
			updates["name"] = strings.TrimSpace(req.Name)
		}
		if req.Phone != "" {
			updates["phone"] = req.Phone
		}
		if req.Avatar != "" {
			updates["avatar"] = req.Avatar
		}
		if req.Bio != "" {
			updates["bio"] = req.Bio
		}
		if req.Location != "" {
			updates["location"] = req.Location
		}
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				fail(c, http.StatusInternalServerError, "Failed to update profile")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": publicUser(&user)})
	}
}

// DeleteAccountHandler deletes the authenticated user and their owned resources
func DeleteAccountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		// Cascade by convention: reviews, payment methods and bookings go with the account
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).Delete(&domain.Review{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&domain.PaymentMethod{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&domain.HotelBooking{}).Error; err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Account being removed
				"error":   err.Error(), // Error message
			}).Error("Account deletion failed")
			fail(c, http.StatusInternalServerError, "Failed to delete account")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Account deleted")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted"})
	}
}
