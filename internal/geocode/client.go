// Package geocode provides reverse geocoding for rendezvous points via the
// Nominatim API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pedalmate/pedalmate/internal/provider/resilience"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

const (
	// DefaultBaseURL is the base URL for the Nominatim API.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// ProviderName identifies this provider.
	ProviderName = "nominatim"

	// userAgent identifies us to Nominatim, which requires one.
	userAgent = "pedalmate/1.0 (api@pedalmate.nl)"
)

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 5s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Nominatim reverse-geocoding client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 5 * time.Second
		}
		rc := resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Second,
		})
		resilience.GlobalRegistry.Register(ProviderName, rc)
		httpClient = rc
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// API response types (from the Nominatim reverse endpoint).

type reverseResponse struct {
	DisplayName string         `json:"display_name"`
	Address     reverseAddress `json:"address"`
}

type reverseAddress struct {
	Road          string `json:"road"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
}

// ReverseGeocode returns a short human-readable name for the point, such as
// "Prins Hendrikkade, Amsterdam".
func (c *Client) ReverseGeocode(ctx context.Context, p geo.Point) (string, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.6f", p.Lat))
	q.Set("lon", fmt.Sprintf("%.6f", p.Lon))
	q.Set("format", "jsonv2")
	q.Set("zoom", "17")

	reqURL := c.baseURL + "/reverse?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from reverse endpoint", resp.StatusCode)
	}

	var result reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode reverse response: %w", err)
	}

	return toPlaceName(&result), nil
}

// toPlaceName builds a short name from the address parts, falling back to the
// full display name when nothing usable is present.
func toPlaceName(r *reverseResponse) string {
	locality := r.Address.City
	if locality == "" {
		locality = r.Address.Town
	}
	if locality == "" {
		locality = r.Address.Village
	}

	street := r.Address.Road
	if street == "" {
		street = r.Address.Neighbourhood
	}
	if street == "" {
		street = r.Address.Suburb
	}

	switch {
	case street != "" && locality != "":
		return street + ", " + locality
	case street != "":
		return street
	case locality != "":
		return locality
	default:
		return r.DisplayName
	}
}
