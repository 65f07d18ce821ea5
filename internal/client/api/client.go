package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/HelyeFab/moshimoshi-sub017/internal/models"
	"github.com/HelyeFab/moshimoshi-sub017/pkg/api"
)

// DefaultRequestTimeout bounds every remote call. Exceeding it is a
// transient failure, never an indefinite hang.
const DefaultRequestTimeout = 15 * time.Second

// Client is the HTTP implementation of RemoteEndpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new remote endpoint client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultRequestTimeout,
		},
	}
}

// ApplyMutation submits one mutation to POST /api/v1/mutations and
// classifies the response:
//   - 200 -> applied
//   - 409 -> conflict, body carries the remote item version
//   - 429, 5xx and transport errors -> transient
//   - other 4xx -> permanent (validation rejected, retrying is pointless)
func (c *Client) ApplyMutation(ctx context.Context, m *models.PendingMutation) (*ApplyResult, error) {
	body, err := json.Marshal(m.ToAPI())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mutation request: %w", err)
	}

	url := c.baseURL + "/api/v1/mutations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures are retryable by definition
		return &ApplyResult{Status: ApplyTransient, Err: fmt.Errorf("request failed: %w", err)}, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ApplyResult{Status: ApplyTransient, Err: fmt.Errorf("failed to read response body: %w", err)}, nil
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var applied api.ApplyResponse
		if err := json.Unmarshal(respBody, &applied); err != nil {
			return &ApplyResult{Status: ApplyTransient, Err: fmt.Errorf("failed to decode response: %w", err)}, nil
		}
		return &ApplyResult{Status: ApplyApplied, RemoteTimestamp: applied.RemoteTimestamp}, nil

	case resp.StatusCode == http.StatusConflict:
		var conflict api.ApplyResponse
		if err := json.Unmarshal(respBody, &conflict); err != nil {
			return &ApplyResult{Status: ApplyTransient, Err: fmt.Errorf("failed to decode conflict response: %w", err)}, nil
		}
		result := &ApplyResult{Status: ApplyConflict, RemoteTimestamp: conflict.RemoteTimestamp}
		if conflict.RemoteItem != nil {
			result.RemoteItem = models.ItemFromAPI(conflict.RemoteItem)
		}
		return result, nil

	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		// Throttling and server faults clear up on their own
		return &ApplyResult{Status: ApplyTransient, Err: serverError(resp.StatusCode, respBody)}, nil

	default:
		return &ApplyResult{Status: ApplyPermanent, Err: serverError(resp.StatusCode, respBody)}, nil
	}
}

func serverError(status int, body []byte) error {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("server error (%d): %s", status, errResp.Error)
	}
	return fmt.Errorf("request failed with status %d: %s", status, string(body))
}
