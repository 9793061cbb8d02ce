package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Common errors for Mapbox requests
var (
	ErrNoMatch          = errors.New("no place matches the location")
	ErrNoRoute          = errors.New("no route between the locations")
	ErrTooFewLocations  = errors.New("at least two locations are required")
	ErrMissingToken     = errors.New("mapbox token is not configured")
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

const userAgent = "punctual/1.0.0"

// Config holds the Mapbox client configuration
type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond caps outgoing requests; zero or less means unlimited
	RequestsPerSecond float64
}

// DefaultConfig returns the default Mapbox configuration without a token
func DefaultConfig() Config {
	return Config{
		BaseURL:           "https://api.mapbox.com",
		Timeout:           10 * time.Second,
		RequestsPerSecond: 5,
	}
}

// Client is a Mapbox geocoding and directions client
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a Mapbox client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger.With().Str("component", "mapbox").Logger(),
	}
}

type geocodingResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

type directionsResponse struct {
	Routes []struct {
		Duration float64 `json:"duration"`
		Distance float64 `json:"distance"`
	} `json:"routes"`
}

// Geocode returns the best match for location, e.g. "Piazza della Repubblica, Rome, Italy"
func (c *Client) Geocode(ctx context.Context, location string) (Place, error) {
	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json",
		strings.TrimRight(c.config.BaseURL, "/"), url.PathEscape(location))

	var resp geocodingResponse
	if err := c.get(ctx, endpoint, url.Values{}, &resp); err != nil {
		return Place{}, fmt.Errorf("failed to geocode '%s': %w", location, err)
	}

	if len(resp.Features) == 0 || len(resp.Features[0].Center) < 2 {
		return Place{}, fmt.Errorf("failed to geocode '%s': %w", location, ErrNoMatch)
	}

	feature := resp.Features[0]
	return Place{
		Name:   feature.PlaceName,
		Center: Coordinate{Lon: feature.Center[0], Lat: feature.Center[1]},
	}, nil
}

// Directions returns the travel time along locations, rounded to the minute
func (c *Client) Directions(ctx context.Context, locations []Coordinate, profile Profile) (time.Duration, error) {
	if len(locations) < 2 {
		return 0, ErrTooFewLocations
	}

	coordinates := make([]string, len(locations))
	for i, l := range locations {
		coordinates[i] = l.String()
	}

	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/%s/%s",
		strings.TrimRight(c.config.BaseURL, "/"), profile, url.PathEscape(strings.Join(coordinates, ";")))

	query := url.Values{}
	query.Set("alternatives", "false")
	query.Set("geometries", "geojson")
	query.Set("overview", "full")
	query.Set("steps", "false")
	query.Set("notifications", "none")

	var resp directionsResponse
	if err := c.get(ctx, endpoint, query, &resp); err != nil {
		return 0, fmt.Errorf("failed to get directions: %w", err)
	}
	if len(resp.Routes) == 0 {
		return 0, fmt.Errorf("failed to get directions: %w", ErrNoRoute)
	}

	seconds := resp.Routes[0].Duration
	c.logger.Debug().
		Float64("seconds", seconds).
		Float64("meters", resp.Routes[0].Distance).
		Str("profile", string(profile)).
		Msg("route found")

	return time.Duration(math.Round(seconds/60)) * time.Minute, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if c.config.Token == "" {
		return ErrMissingToken
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	query.Set("access_token", c.config.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("endpoint", endpoint).Msg("mapbox request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
