package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

const defaultBaseURL = "https://serpapi.com/search"

// Client calls the third-party flight-search provider. It is a plain
// pass-through: no retry, backoff or caching happens at this layer, and the
// transport's defaults bound the request unless the caller's context does.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a provider client. baseURL may be empty to use the default.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

// SearchParams are the forwarded flight-search parameters
type SearchParams struct {
	DepartureID  string // Departure airport code
	ArrivalID    string // Arrival airport code
	OutboundDate string // YYYY-MM-DD
	ReturnDate   string // YYYY-MM-DD, empty for one-way
	Adults       int    // Passenger count
}

// Segment is one leg of an itinerary
type Segment struct {
	DepartureAirport string `json:"departure_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalAirport   string `json:"arrival_airport"`
	ArrivalTime      string `json:"arrival_time"`
	Airline          string `json:"airline"`
	FlightNumber     string `json:"flight_number"`
	Duration         int    `json:"duration"`
	TravelClass      string `json:"travel_class,omitempty"`
}

// Itinerary is a reshaped flight option. Best marks entries the provider
// listed under its best-flights bucket.
type Itinerary struct {
	Price         float64   `json:"price"`
	TotalDuration int       `json:"total_duration"`
	Best          bool      `json:"best"`
	Segments      []Segment `json:"segments"`
}

// Airport is a reshaped airport entry
type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// SearchResult is the reshaped provider response: the best and other flight
// lists merged into one array, plus airports and search metadata.
type SearchResult struct {
	Flights  []Itinerary       `json:"flights"`
	Airports []Airport         `json:"airports"`
	Metadata map[string]string `json:"metadata"`
}

// Provider wire types

type providerAirportTime struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

type providerSegment struct {
	DepartureAirport providerAirportTime `json:"departure_airport"`
	ArrivalAirport   providerAirportTime `json:"arrival_airport"`
	Duration         int                 `json:"duration"`
	Airline          string              `json:"airline"`
	FlightNumber     string              `json:"flight_number"`
	TravelClass      string              `json:"travel_class"`
}

type providerItinerary struct {
	Flights       []providerSegment `json:"flights"`
	TotalDuration int               `json:"total_duration"`
	Price         float64           `json:"price"`
}

type providerAirportPair struct {
	Departure []providerAirportEntry `json:"departure"`
	Arrival   []providerAirportEntry `json:"arrival"`
}

type providerAirportEntry struct {
	Airport providerAirportTime `json:"airport"`
	City    string              `json:"city"`
	Country string              `json:"country"`
}

type providerSearchResponse struct {
	SearchMetadata map[string]any        `json:"search_metadata"`
	BestFlights    []providerItinerary   `json:"best_flights"`
	OtherFlights   []providerItinerary   `json:"other_flights"`
	Airports       []providerAirportPair `json:"airports"`
	Error          string                `json:"error"`
}

type providerAirportsResponse struct {
	Airports []providerAirportEntry `json:"airports"`
	Error    string                 `json:"error"`
}

// UpstreamError reports a provider-side failure
type UpstreamError struct {
	Status  int    // HTTP status from the provider, 0 when the call never completed
	Message string // Provider or transport message
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("flight provider error (status %d): %s", e.Status, e.Message)
	}
	return "flight provider error: " + e.Message
}

// SearchFlights forwards the search to the provider and reshapes the result
func (c *Client) SearchFlights(ctx context.Context, params SearchParams) (*SearchResult, error) {
	q := url.Values{}
	q.Set("engine", "google_flights")
	q.Set("api_key", c.apiKey)
	q.Set("departure_id", params.DepartureID)
	q.Set("arrival_id", params.ArrivalID)
	q.Set("outbound_date", params.OutboundDate)
	if params.ReturnDate != "" {
		q.Set("return_date", params.ReturnDate)
	} else {
		q.Set("type", "2") // One-way
	}
	if params.Adults > 0 {
		q.Set("adults", strconv.Itoa(params.Adults))
	}
	var resp providerSearchResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &UpstreamError{Message: resp.Error}
	}
	result := &SearchResult{
		Flights:  make([]Itinerary, 0, len(resp.BestFlights)+len(resp.OtherFlights)),
		Metadata: flattenMetadata(resp.SearchMetadata),
	}
	// Merge best and other flights into a single list, best first
	for _, it := range resp.BestFlights {
		result.Flights = append(result.Flights, reshapeItinerary(it, true))
	}
	for _, it := range resp.OtherFlights {
		result.Flights = append(result.Flights, reshapeItinerary(it, false))
	}
	for _, pair := range resp.Airports {
		for _, e := range pair.Departure {
			result.Airports = append(result.Airports, reshapeAirport(e))
		}
		for _, e := range pair.Arrival {
			result.Airports = append(result.Airports, reshapeAirport(e))
		}
	}
	return result, nil
}

// SearchAirports forwards a free-text airport query. The caller caps the
// result list via limit.
func (c *Client) SearchAirports(ctx context.Context, keyword string, limit int) ([]Airport, error) {
	q := url.Values{}
	q.Set("engine", "google_flights_airports")
	q.Set("api_key", c.apiKey)
	q.Set("q", keyword)
	var resp providerAirportsResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &UpstreamError{Message: resp.Error}
	}
	out := make([]Airport, 0, len(resp.Airports))
	for _, e := range resp.Airports {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, reshapeAirport(e))
	}
	return out, nil
}

// get performs a GET against the provider and decodes the JSON body into dest
func (c *Client) get(ctx context.Context, q url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &UpstreamError{Message: err.Error()}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UpstreamError{Status: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		// Try to surface the provider's own error message
		var perr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &perr) == nil && perr.Error != "" {
			return &UpstreamError{Status: resp.StatusCode, Message: perr.Error}
		}
		return &UpstreamError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return &UpstreamError{Status: resp.StatusCode, Message: "malformed provider response"}
	}
	return nil
}

// reshapeItinerary converts a provider itinerary into the public shape
func reshapeItinerary(it providerItinerary, best bool) Itinerary {
	out := Itinerary{
		Price:         it.Price,
		TotalDuration: it.TotalDuration,
		Best:          best,
		Segments:      make([]Segment, 0, len(it.Flights)),
	}
	for _, s := range it.Flights {
		out.Segments = append(out.Segments, Segment{
			DepartureAirport: s.DepartureAirport.ID,
			DepartureTime:    s.DepartureAirport.Time,
			ArrivalAirport:   s.ArrivalAirport.ID,
			ArrivalTime:      s.ArrivalAirport.Time,
			Airline:          s.Airline,
			FlightNumber:     s.FlightNumber,
			Duration:         s.Duration,
			TravelClass:      s.TravelClass,
		})
	}
	return out
}

// reshapeAirport converts a provider airport entry into the public shape
func reshapeAirport(e providerAirportEntry) Airport {
	return Airport{
		Code:    e.Airport.ID,
		Name:    e.Airport.Name,
		City:    e.City,
		Country: e.Country,
	}
}

// flattenMetadata keeps only scalar metadata fields as strings
func flattenMetadata(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		}
	}
	return out
}
