package promo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ValidationResult is the promo validator's verdict, passed through verbatim.
// DiscountAmount is authoritative; the engine never recomputes it.
type ValidationResult struct {
	Valid          bool    `json:"valid"`
	Code           string  `json:"code,omitempty"`
	Kind           string  `json:"kind,omitempty"`
	Value          float64 `json:"value,omitempty"`
	DiscountAmount float64 `json:"discount_amount,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// CodeValidator is the external promo-code authority. It owns every validity
// rule (minimum spend, per-account limits) the engine cannot evaluate.
type CodeValidator interface {
	Validate(ctx context.Context, code string, cartTotal float64, email string) (ValidationResult, error)
}

// HTTPValidator calls the platform promo-validation endpoint.
type HTTPValidator struct {
	baseURL string
	client  *http.Client
}

func NewHTTPValidator(baseURL string, timeout time.Duration) *HTTPValidator {
	return &HTTPValidator{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type validateRequest struct {
	Code      string  `json:"code"`
	CartTotal float64 `json:"cart_total"`
	Email     string  `json:"email,omitempty"`
}

func (v *HTTPValidator) Validate(ctx context.Context, code string, cartTotal float64, email string) (ValidationResult, error) {
	body, err := json.Marshal(validateRequest{Code: code, CartTotal: cartTotal, Email: email})
	if err != nil {
		return ValidationResult{}, fmt.Errorf("marshal promo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/api/promo-codes/validate", bytes.NewReader(body))
	if err != nil {
		return ValidationResult{}, fmt.Errorf("build promo request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("promo validate call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ValidationResult{}, fmt.Errorf("promo validate returned status %d", resp.StatusCode)
	}

	var result ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ValidationResult{}, fmt.Errorf("decode promo response: %w", err)
	}

	return result, nil
}
