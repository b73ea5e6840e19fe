// Package planner talks to the remote planning service.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"viajeia/internal/logger"
	"viajeia/internal/model"
)

// DefaultBaseURL is used when no service URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// Timeout bounds every call to the service. Exceeding it counts as a
// connectivity failure.
const Timeout = 30 * time.Second

// Client wraps the planning endpoint.
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
		baseURL:    NormalizeBaseURL(baseURL),
		httpClient: &http.Client{Timeout: Timeout},
		log:        log.Named("planner"),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NormalizeBaseURL trims trailing slashes and falls back to DefaultBaseURL.
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return DefaultBaseURL
	}
	return raw
}

type planRequest struct {
	Question string                    `json:"pregunta"`
	Profile  model.TripProfile         `json:"informacion_viaje"`
	History  []model.ConversationEntry `json:"historial"`
}

type planResponse struct {
	Answer string   `json:"respuesta"`
	Photos []string `json:"fotos"`
}

// Plan sends question with the trip profile and the recent conversation.
func (c *Client) Plan(ctx context.Context, question string, profile model.TripProfile, history []model.ConversationEntry) (model.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return model.Answer{}, fmt.Errorf("empty question: %w", model.ErrValidation)
	}
	if !profile.Complete() {
		return model.Answer{}, fmt.Errorf("incomplete trip profile: %w", model.ErrValidation)
	}
	if history == nil {
		history = []model.ConversationEntry{}
	}

	body, err := json.Marshal(planRequest{Question: question, Profile: profile, History: history})
	if err != nil {
		return model.Answer{}, fmt.Errorf("request encoding failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/planificar", bytes.NewReader(body))
	if err != nil {
		return model.Answer{}, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("planning request failed", zap.Duration("latency", time.Since(start)), zap.Error(err))
		return model.Answer{}, Connectivity(err)
	}
	defer resp.Body.Close()

	if err := CheckResponse(resp); err != nil {
		c.log.Warn("planning service error", zap.Int("status", resp.StatusCode), zap.Error(err))
		return model.Answer{}, err
	}

	var result planResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.Answer{}, &ServiceError{Status: resp.StatusCode, Detail: "unreadable response: " + err.Error()}
	}

	c.log.Info("planning request done",
		zap.Duration("latency", time.Since(start)),
		zap.Int("photos", len(result.Photos)),
		zap.Int("history", len(history)),
	)
	if result.Photos == nil {
		result.Photos = []string{}
	}
	return model.Answer{Text: result.Answer, Photos: result.Photos}, nil
}
