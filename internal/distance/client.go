package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Point is a coordinate pair handed to the remote distance service.
type Point struct {
	Lat float64
	Lng float64
}

// Estimate is the travel cost between two points as reported by the service.
type Estimate struct {
	DurationSeconds float64
	DistanceMeters  float64
}

// Client estimates travel cost between two coordinate pairs. Implementations
// are treated as untrusted: callers must be prepared for any call to fail.
type Client interface {
	Estimate(ctx context.Context, origin, dest Point) (Estimate, error)
}

const defaultMatrixBaseURL = "https://maps.googleapis.com"

// MatrixClient queries the Google Distance Matrix API for a single
// origin/destination pair.
type MatrixClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewMatrixClient creates a MatrixClient. An empty baseURL uses the public
// Google endpoint; tests point it at a local server.
func NewMatrixClient(baseURL, apiKey string, timeout time.Duration) *MatrixClient {
	if baseURL == "" {
		baseURL = defaultMatrixBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MatrixClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// matrixResponse mirrors the subset of the Distance Matrix payload we read.
type matrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value float64 `json:"value"`
			} `json:"duration"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
	Status string `json:"status"`
}

// Estimate queries the remote service. Timeouts, non-2xx responses, malformed
// bodies and per-element non-OK statuses all surface as errors; the caller
// decides what a failed lookup means.
func (c *MatrixClient) Estimate(ctx context.Context, origin, dest Point) (Estimate, error) {
	url := fmt.Sprintf(
		"%s/maps/api/distancematrix/json?origins=%.6f,%.6f&destinations=%.6f,%.6f&key=%s",
		c.baseURL, origin.Lat, origin.Lng, dest.Lat, dest.Lng, c.apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Estimate{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Estimate{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Estimate{}, fmt.Errorf("distance matrix: unexpected status %d", resp.StatusCode)
	}

	var out matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Estimate{}, fmt.Errorf("distance matrix: decode response: %w", err)
	}

	if len(out.Rows) == 0 || len(out.Rows[0].Elements) == 0 {
		return Estimate{}, fmt.Errorf("distance matrix: empty response (status %q)", out.Status)
	}

	elem := out.Rows[0].Elements[0]
	if elem.Status != "OK" {
		return Estimate{}, fmt.Errorf("distance matrix: element status %q", elem.Status)
	}

	return Estimate{
		DurationSeconds: elem.Duration.Value,
		DistanceMeters:  elem.Distance.Value,
	}, nil
}

// Ensure MatrixClient implements Client.
var _ Client = (*MatrixClient)(nil)
