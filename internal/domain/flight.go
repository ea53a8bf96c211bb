package domain

import "time"

// FlightSearch Model. Append-only analytics record of a proxied flight search;
// rows are never mutated after insert.
type FlightSearch struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                   // Primary key
	Departure    string    `gorm:"size:10;index" json:"departure"`         // Departure airport code
	Arrival      string    `gorm:"size:10;index" json:"arrival"`           // Arrival airport code
	OutboundDate string    `gorm:"size:10" json:"outbound_date"`           // Outbound date (YYYY-MM-DD)
	ReturnDate   string    `gorm:"size:10" json:"return_date"`             // Return date, empty for one-way
	Passengers   int       `gorm:"default:1" json:"passengers"`            // Passenger count
	ResultCount  int       `json:"result_count"`                           // Number of itineraries returned
	Succeeded    bool      `json:"succeeded"`                              // Whether the upstream call succeeded
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"` // Search timestamp
}
