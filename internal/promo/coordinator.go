package promo

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
)

var (
	// ErrEmptyCode rejects blank input before any network call.
	ErrEmptyCode = errors.New("promo code is empty")

	// ErrApplyInFlight means a validation call is already pending. The
	// caller keeps its control disabled until the pending call resolves.
	ErrApplyInFlight = errors.New("promo validation already in progress")
)

// GenericFailureMessage is shown when the validation call itself failed, as
// opposed to the validator rejecting the code.
const GenericFailureMessage = "Could not verify the promo code. Please try again."

// Coordinator manages the apply/remove lifecycle of a single promo code:
// none -> pending -> applied, or back to none on rejection. At most one
// validation call is in flight at a time.
type Coordinator struct {
	validator CodeValidator

	mu      sync.Mutex
	pending bool
	applied *domain.AppliedPromoCode
	lastErr string
}

func NewCoordinator(validator CodeValidator) *Coordinator {
	return &Coordinator{validator: validator}
}

// Apply validates code against the external authority and stores the result
// verbatim. A non-nil error return means the apply did not run (blank code,
// concurrent apply); a rejected or failed validation returns nil and records
// a user-facing message instead.
func (c *Coordinator) Apply(ctx context.Context, code string, cartTotal float64, email string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrEmptyCode
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrApplyInFlight
	}
	c.pending = true
	c.lastErr = ""
	c.mu.Unlock()

	result, err := c.validator.Validate(ctx, code, cartTotal, email)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false

	if err != nil {
		log.Printf("promo validate error: %v", err)
		c.lastErr = GenericFailureMessage
		return nil
	}

	if !result.Valid {
		msg := result.Error
		if msg == "" {
			msg = GenericFailureMessage
		}
		c.lastErr = msg
		return nil
	}

	c.applied = &domain.AppliedPromoCode{
		Code:           result.Code,
		Kind:           domain.PromoKind(result.Kind),
		Value:          result.Value,
		DiscountAmount: result.DiscountAmount,
	}
	return nil
}

// Remove clears the applied code and any error. Never touches the network.
func (c *Coordinator) Remove() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applied = nil
	c.lastErr = ""
}

// Applied returns the current code, or nil when none is applied.
func (c *Coordinator) Applied() *domain.AppliedPromoCode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.applied == nil {
		return nil
	}
	cp := *c.applied
	return &cp
}

// DiscountAmount is the applied code's discount, 0 when none.
func (c *Coordinator) DiscountAmount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.applied == nil {
		return 0
	}
	return c.applied.DiscountAmount
}

// LastError returns the message from the most recent failed apply, "" if the
// last apply succeeded or none ran since the last Remove.
func (c *Coordinator) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Pending reports whether a validation call is in flight.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
