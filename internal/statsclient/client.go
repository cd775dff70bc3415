// Package statsclient is the HTTP client for the statistics service. It is
// a best-effort side channel: callers log failures and degrade view counts
// to zero, they never fail a request because stats are down.
package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/a-buianova/explore-with-me/internal/model"
)

// Hit records one access to a URI.
type Hit struct {
	App       string         `json:"app"`
	URI       string         `json:"uri"`
	IP        string         `json:"ip"`
	Timestamp model.DateTime `json:"timestamp"`
}

// ViewStats is one aggregated row returned by the stats service.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Client is the capability the services depend on; failures are handled at
// the call site.
type Client interface {
	SendHit(ctx context.Context, hit Hit) error
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
}

// HTTPClient talks to the stats service over HTTP with short timeouts so a
// stats outage cannot stall the main service.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// New builds a client for the stats service at baseURL.
func New(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
			},
		},
	}
}

// SendHit posts one hit. The response body is not consumed beyond the
// status code.
func (c *HTTPClient) SendHit(ctx context.Context, hit Hit) error {
	body, err := json.Marshal(hit)
	if err != nil {
		return fmt.Errorf("marshal hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build hit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send hit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send hit: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// GetStats queries aggregate view counts for a time range and URI set.
func (c *HTTPClient) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	q := url.Values{}
	q.Set("start", start.UTC().Format(model.TimeLayout))
	q.Set("end", end.UTC().Format(model.TimeLayout))
	q.Set("unique", fmt.Sprintf("%t", unique))
	for _, u := range uris {
		q.Add("uris", u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build stats request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get stats: unexpected status %d", resp.StatusCode)
	}

	var stats []ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}
