// Package socrata provides functionality for fetching records from a
// Socrata open-data endpoint (SODA API).
package socrata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opencivic/civic311/internal/config"
	"github.com/opencivic/civic311/internal/logging"
	"github.com/opencivic/civic311/pkg/models"
)

// ErrFetch marks a failed source fetch. Any transport or protocol
// failure against the source API wraps this error; it is fatal to the
// run, no retry is attempted.
var ErrFetch = errors.New("source fetch failed")

// Client encapsulates access to one dataset on a Socrata domain.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appToken   string
}

// NewClient creates a new Socrata API client for the configured domain
// and dataset. The app token is optional; without it requests run under
// Socrata's anonymous throttling limits.
func NewClient(cfg config.SocrataConfig) *Client {
	baseURL := fmt.Sprintf("https://%s/resource/%s.json", cfg.Domain, cfg.DatasetID)

	logging.Info("socrata configuration",
		"domain", cfg.Domain,
		"dataset_id", cfg.DatasetID,
		"app_token", logging.MaskSensitive(cfg.AppToken))

	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		appToken:   cfg.AppToken,
	}
}

// Fetch retrieves up to limit records from the dataset in a single API
// call. No follow-up page is requested: datasets larger than the limit
// are truncated. An empty result is returned as an empty slice with a
// nil error; the caller treats that as nothing to do.
func (c *Client) Fetch(ctx context.Context, limit int) ([]models.RawRequestRecord, error) {
	reqURL := c.baseURL + "?" + url.Values{"$limit": {strconv.Itoa(limit)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	logging.Debug("fetching records", "url", c.baseURL, "limit", limit)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Error("source request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Error("source returned unexpected status",
			"status_code", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetch, resp.StatusCode)
	}

	var records []models.RawRequestRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		logging.Error("failed to decode source response", "error", err)
		return nil, fmt.Errorf("%w: decoding response: %v", ErrFetch, err)
	}

	logging.Info("fetched records from source", "count", len(records))
	return records, nil
}
