package api

import (
	"net/http"                  // HTTP status codes
	"time"                      // Timestamp formatting
	"travelhub/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CreateReviewRequest is the typed payload for posting a review
type CreateReviewRequest struct {
	Target  string `json:"target" binding:"max=100"`              // Optional destination/package slug
	Rating  int    `json:"rating" binding:"required,min=1,max=5"` // Rating 1-5
	Title   string `json:"title" binding:"required,max=200"`      // Review title
	Comment string `json:"comment" binding:"required"`            // Free-text comment
}

// ReviewResponse is a review with denormalized author fields
type ReviewResponse struct {
	ID             uint   `json:"id"`              // Review ID
	UserID         uint   `json:"user_id"`         // Owner reference
	Target         string `json:"target"`          // Reviewed destination/package
	Rating         int    `json:"rating"`          // Rating 1-5
	Title          string `json:"title"`           // Review title
	Comment        string `json:"comment"`         // Free-text comment
	AuthorName     string `json:"author_name"`     // Denormalized author name
	AuthorLocation string `json:"author_location"` // Denormalized author location
	CreatedAt      string `json:"created_at"`      // ISO-8601 timestamp
}

// CreateReviewHandler creates a review for the authenticated user. A user may
// review a given target only once; duplicates return a conflict.
func CreateReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var req CreateReviewRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		// Reject duplicates for the same (user, target) pair up front
		var existing domain.Review
		if err := db.Where("user_id = ? AND target = ?", userID, req.Target).First(&existing).Error; err == nil {
			fail(c, http.StatusBadRequest, "You have already reviewed this destination")
			return
		}
		review := domain.Review{
			UserID:  userID.(uint),
			Target:  req.Target,
			Rating:  req.Rating,
			Title:   req.Title,
			Comment: req.Comment,
		}
		// The unique index still catches racing duplicates
		if err := db.Create(&review).Error; err != nil {
			fail(c, http.StatusBadRequest, "You have already reviewed this destination")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   review.UserID, // Review owner
			"review_id": review.ID,     // New review ID
			"target":    review.Target, // Reviewed target
		}).Info("Review created")
		c.JSON(http.StatusCreated, gin.H{"success": true, "data": review})
	}
}

// ListReviewsHandler returns reviews newest-first with denormalized author
// name and location, optionally filtered by target.
func ListReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		type row struct {
			domain.Review
			AuthorName     string // Joined from users
			AuthorLocation string // Joined from users
		}
		query := db.Table("reviews").
			Select("reviews.*, users.name AS author_name, users.location AS author_location").
			Joins("JOIN users ON users.id = reviews.user_id").
			Order("reviews.created_at DESC")
		// Optional target filter
		if target := c.Query("target"); target != "" {
			query = query.Where("reviews.target = ?", target)
		}
		var rows []row
		if err := query.Scan(&rows).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to fetch reviews")
			return
		}
		out := make([]ReviewResponse, 0, len(rows))
		for _, r := range rows {
			out = append(out, ReviewResponse{
				ID:             r.ID,
				UserID:         r.UserID,
				Target:         r.Target,
				Rating:         r.Rating,
				Title:          r.Title,
				Comment:        r.Comment,
				AuthorName:     r.AuthorName,
				AuthorLocation: r.AuthorLocation,
				CreatedAt:      r.CreatedAt.Format(time.RFC3339),
			})
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
	}
}

// DeleteReviewHandler hard-deletes a review. Only the owner or an admin may delete.
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var review domain.Review
		if err := db.First(&review, c.Param("id")).Error; err != nil {
			fail(c, http.StatusNotFound, "Review not found")
			return
		}
		// Owner or admin only
		if review.UserID != userID.(uint) {
			var requester domain.User
			if err := db.First(&requester, userID).Error; err != nil || requester.Role != "admin" {
				fail(c, http.StatusForbidden, "Not allowed to delete this review")
				return
			}
		}
		if err := db.Delete(&review).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to delete review")
			return
		}
		logrus.WithFields(logrus.Fields{
			"review_id":  review.ID,     // Deleted review
			"deleted_by": userID.(uint), // Requesting principal
		}).Info("Review deleted")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
	}
}
