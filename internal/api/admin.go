package api

import (
	"context"                   // Context for Redis operations
	"net/http"                  // HTTP status codes
	"strconv"                   // String conversion
	"time"                      // Time durations
	"travelhub/internal/domain" // Importing domain models
	"travelhub/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// adminCacheTTL bounds staleness of the cached admin views
const adminCacheTTL = 60 * time.Second

// AdminUserResponse is the user view returned to admins
type AdminUserResponse struct {
	ID           uint   `json:"id"`            // User ID
	Name         string `json:"name"`          // Display name
	Email        string `json:"email"`         // Email
	Role         string `json:"role"`          // Role
	Location     string `json:"location"`      // Profile location
	RewardPoints int    `json:"reward_points"` // Reward points
	Bookings     int64  `json:"bookings"`      // Number of hotel bookings
}

// pageParams reads page/page_size query parameters with defaults and limits
func pageParams(c *gin.Context) (int, int) {
	page := 1      // Default page
	pageSize := 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// ListUsersHandler returns all users with booking counts, paginated and cached
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		// Cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		var cached struct {
			Users      []AdminUserResponse `json:"users"`       // List of users
			Page       int                 `json:"page"`        // Current page
			PageSize   int                 `json:"page_size"`   // Page size
			Total      int64               `json:"total"`       // Total number of users
			TotalPages int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"success":     true,
				"users":       cached.Users,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true, // Indicate response is from cache
			})
			return
		}
		page, pageSize := pageParams(c)
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to count users")
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		// Booking counts for the page in one grouped query
		bookings := make(map[uint]int64, len(users))
		if len(users) > 0 {
			ids := make([]uint, len(users))
			for i, u := range users {
				ids[i] = u.ID
			}
			var rows []struct {
				UserID uint  // Grouped owner ID
				Total  int64 // Bookings for that owner
			}
			if err := db.Model(&domain.HotelBooking{}).
				Select("user_id, COUNT(*) AS total").
				Where("user_id IN ?", ids).
				Group("user_id").
				Scan(&rows).Error; err != nil {
				fail(c, http.StatusInternalServerError, "Failed to count bookings")
				return
			}
			for _, row := range rows {
				bookings[row.UserID] = row.Total
			}
		}
		// Map users to the admin view
		resp := make([]AdminUserResponse, len(users))
		for i, u := range users {
			resp[i] = AdminUserResponse{
				ID:           u.ID,
				Name:         u.Name,
				Email:        u.Email,
				Role:         u.Role,
				Location:     u.Location,
				RewardPoints: u.RewardPoints,
				Bookings:     bookings[u.ID],
			}
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		respData := gin.H{
			"success":     true,
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, adminCacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}

// routeStat is one aggregated route row
type routeStat struct {
	Departure string `json:"departure"` // Departure airport code
	Arrival   string `json:"arrival"`   // Arrival airport code
	Searches  int64  `json:"searches"`  // Number of searches for the route
}

// FlightAnalyticsHandler aggregates the append-only flight search log:
// most-searched routes and the overall success rate. Cached briefly since
// the numbers tolerate a minute of staleness.
func FlightAnalyticsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		cacheKey := "admin:flights:analytics"
		var cached struct {
			PopularRoutes []routeStat `json:"popular_routes"`
			TotalSearches int64       `json:"total_searches"`
			Succeeded     int64       `json:"succeeded"`
			SuccessRate   float64     `json:"success_rate"`
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"success":        true,
				"popular_routes": cached.PopularRoutes,
				"total_searches": cached.TotalSearches,
				"succeeded":      cached.Succeeded,
				"success_rate":   cached.SuccessRate,
				"cached":         true,
			})
			return
		}
		// Top routes by search volume
		var routes []routeStat
		if err := db.Model(&domain.FlightSearch{}).
			Select("departure, arrival, COUNT(*) AS searches").
			Group("departure, arrival").
			Order("searches DESC").
			Limit(10).
			Scan(&routes).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to aggregate flight searches")
			return
		}
		var total, succeeded int64
		if err := db.Model(&domain.FlightSearch{}).Count(&total).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to count flight searches")
			return
		}
		if err := db.Model(&domain.FlightSearch{}).Where("succeeded = ?", true).Count(&succeeded).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to count flight searches")
			return
		}
		rate := 0.0
		if total > 0 {
			rate = float64(succeeded) / float64(total)
		}
		respData := gin.H{
			"success":        true,
			"popular_routes": routes,    // Most-searched routes
			"total_searches": total,     // All logged searches
			"succeeded":      succeeded, // Searches that returned results
			"success_rate":   rate,      // Fraction of successful searches
			"cached":         false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, adminCacheTTL)
		c.JSON(http.StatusOK, respData)
	}
}
