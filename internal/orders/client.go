package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/checkout"
	"github.com/blekas10/shopnatural-checkout/internal/domain"
)

// Client submits assembled orders to the order service, which owns
// persistence, payment capture and stock reservation.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type submitResponse struct {
	OrderID     string            `json:"order_id"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Error       string            `json:"error,omitempty"`
}

func (c *Client) Submit(ctx context.Context, payload domain.OrderPayload) (*checkout.SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", payload.IdempotencyKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("order submit call failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var out submitResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode order response: %w", err)
		}
		return &checkout.SubmitResult{OrderID: out.OrderID}, nil

	case http.StatusUnprocessableEntity:
		// the order service re-validates everything; its field errors flow
		// back for inline display, not as a failure
		var out submitResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("decode order validation response: %w", err)
		}
		return &checkout.SubmitResult{FieldErrors: out.FieldErrors}, nil

	default:
		return nil, fmt.Errorf("order submit returned status %d", resp.StatusCode)
	}
}
