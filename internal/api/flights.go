package api

import (
	"net/http"                   // HTTP status codes
	"strconv"                    // Query parameter parsing
	"travelhub/internal/domain"  // Importing domain models
	"travelhub/internal/flights" // Upstream provider client

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Airport search result caps
const (
	defaultAirportLimit = 10
	maxAirportLimit     = 50
)

// SearchFlightsHandler proxies a flight search to the provider, reshapes the
// response and appends an analytics record. The proxy itself does no retry,
// backoff or caching; db may be nil in degraded mode.
func SearchFlightsHandler(client *flights.Client, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := flights.SearchParams{
			DepartureID:  c.Query("departure_id"),
			ArrivalID:    c.Query("arrival_id"),
			OutboundDate: c.Query("outbound_date"),
			ReturnDate:   c.Query("return_date"),
			Adults:       1,
		}
		if params.DepartureID == "" || params.ArrivalID == "" || params.OutboundDate == "" {
			fail(c, http.StatusBadRequest, "departure_id, arrival_id and outbound_date are required")
			return
		}
		if a := c.Query("adults"); a != "" {
			if v, err := strconv.Atoi(a); err == nil && v > 0 {
				params.Adults = v
			}
		}
		result, err := client.SearchFlights(c.Request.Context(), params)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"departure": params.DepartureID, // Searched route
				"arrival":   params.ArrivalID,
				"error":     err.Error(), // Provider error
			}).Error("Flight search failed")
			logFlightSearch(db, params, 0, false)
			fail(c, http.StatusBadGateway, "Flight search provider error")
			return
		}
		logFlightSearch(db, params, len(result.Flights), true)
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"data":     result.Flights,  // Merged best+other itineraries
			"airports": result.Airports, // Airport details
			"metadata": result.Metadata, // Search metadata
		})
	}
}

// logFlightSearch appends an analytics record. Best effort: failures are
// logged and never affect the response. Skipped when no database is attached.
func logFlightSearch(db *gorm.DB, params flights.SearchParams, resultCount int, succeeded bool) {
	if db == nil {
		return
	}
	record := domain.FlightSearch{
		Departure:    params.DepartureID,
		Arrival:      params.ArrivalID,
		OutboundDate: params.OutboundDate,
		ReturnDate:   params.ReturnDate,
		Passengers:   params.Adults,
		ResultCount:  resultCount,
		Succeeded:    succeeded,
	}
	if err := db.Create(&record).Error; err != nil {
		logrus.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to record flight search")
	}
}

// SearchAirportsHandler proxies a free-text airport search, capping results
// at the caller-supplied limit.
func SearchAirportsHandler(client *flights.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyword := c.Query("q")
		if keyword == "" {
			fail(c, http.StatusBadRequest, "q is required")
			return
		}
		limit := defaultAirportLimit
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v > 0 {
				limit = v
				if limit > maxAirportLimit {
					limit = maxAirportLimit // Clamp oversized limits
				}
			}
		}
		airports, err := client.SearchAirports(c.Request.Context(), keyword, limit)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"keyword": keyword,     // Search keyword
				"error":   err.Error(), // Provider error
			}).Error("Airport search failed")
			fail(c, http.StatusBadGateway, "Airport search provider error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": airports})
	}
}
