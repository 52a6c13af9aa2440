// Package callback places outbound customer-service calls through the Bland
// AI calling API.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/rivertown-concierge/pkg/logging"
)

const (
	defaultBlandBaseURL = "https://us.api.bland.ai/v1"
	blandCallTimeout    = 30 * time.Second
)

// Request is the call the assistant asks the provider to place.
type Request struct {
	PhoneNumber     string  `json:"phone_number"`
	Task            string  `json:"task"`
	Model           string  `json:"model"`
	Voice           string  `json:"voice"`
	MaxDuration     int     `json:"max_duration"`
	WaitForGreeting bool    `json:"wait_for_greeting"`
	Temperature     float64 `json:"temperature"`
}

// Result reports whether the provider accepted the call. Only OK matters to
// callers; StatusCode and CallID are kept for logging.
type Result struct {
	OK         bool
	StatusCode int
	CallID     string
}

// BlandClient initiates outbound calls via the Bland AI API.
type BlandClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// BlandClientConfig configures the outbound call client.
type BlandClientConfig struct {
	// APIKey is sent verbatim in the Authorization header.
	APIKey string
	// BaseURL overrides the Bland API base URL (for testing).
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewBlandClient creates a client for initiating outbound calls.
func NewBlandClient(cfg BlandClientConfig) (*BlandClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("bland client: API key required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBlandBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: blandCallTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &BlandClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type blandCallResponse struct {
	Status string `json:"status"`
	CallID string `json:"call_id"`
}

// PlaceCall asks Bland to call req.PhoneNumber. A non-200 reply is returned
// as a Result with OK=false; only transport and encoding problems are errors.
func (c *BlandClient) PlaceCall(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return Result{}, fmt.Errorf("bland: phone number required")
	}
	if strings.TrimSpace(req.Task) == "" {
		return Result{}, fmt.Errorf("bland: call task required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("bland: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calls", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("bland: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.apiKey)

	c.logger.Info("bland: initiating outbound call",
		"to", logging.MaskPhone(req.PhoneNumber),
		"voice", req.Voice,
		"model", req.Model,
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("bland: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("bland: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("bland: API error",
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return Result{OK: false, StatusCode: resp.StatusCode}, nil
	}

	// The call is already queued at this point, so an unexpected body is
	// logged rather than treated as a failure.
	var apiResp blandCallResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		c.logger.Warn("bland: unexpected response body", "error", err)
	}

	c.logger.Info("bland: outbound call initiated",
		"call_id", apiResp.CallID,
		"to", logging.MaskPhone(req.PhoneNumber),
	)
	return Result{OK: true, StatusCode: resp.StatusCode, CallID: apiResp.CallID}, nil
}
