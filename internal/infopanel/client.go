// Package infopanel fetches the ambient destination data (weather, exchange
// rates, local time) shown next to the conversation.
package infopanel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"viajeia/internal/logger"
	"viajeia/internal/model"
	"viajeia/internal/planner"
)

// RefreshInterval is how often the UI refreshes the panel.
const RefreshInterval = 5 * time.Minute

// Client wraps the info panel endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL:    planner.NormalizeBaseURL(baseURL),
		httpClient: &http.Client{Timeout: planner.Timeout},
		log:        log.Named("infopanel"),
	}
}

// Fetch returns the panel data for city. An empty city is sent as is and
// the service decides what to return.
func (c *Client) Fetch(ctx context.Context, city string) (model.PanelInfo, error) {
	params := url.Values{}
	params.Set("ciudad", city)
	reqURL := fmt.Sprintf("%s/api/info-panel?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.PanelInfo{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("info panel request failed", zap.String("city", city), zap.Error(err))
		return model.PanelInfo{}, planner.Connectivity(err)
	}
	defer resp.Body.Close()

	if err := planner.CheckResponse(resp); err != nil {
		c.log.Warn("info panel service error", zap.String("city", city), zap.Error(err))
		return model.PanelInfo{}, err
	}

	var info model.PanelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return model.PanelInfo{}, &planner.ServiceError{Status: resp.StatusCode, Detail: "unreadable response: " + err.Error()}
	}
	c.log.Debug("info panel refreshed", zap.String("city", city))
	return info, nil
}
