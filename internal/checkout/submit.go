package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/pricing"
	"github.com/blekas10/shopnatural-checkout/internal/shipping"
	"github.com/blekas10/shopnatural-checkout/internal/store"
	"github.com/blekas10/shopnatural-checkout/internal/validation"
	"github.com/google/uuid"
)

// Submit runs the step-4 gate, snapshots the form state, and hands the
// assembled payload to the order service. At most one submission may be in
// flight per session.
//
// On success the session and snapshot are cleared and an event is published.
// On a field-error response the errors come back for inline display. On a
// transport failure the snapshot is kept so the flow can be restored after
// the interruption.
func (e *Engine) Submit(ctx context.Context, s *Session) (*SubmitResult, validation.FieldErrors, error) {
	s.mu.Lock()

	if s.submitting {
		s.mu.Unlock()
		return nil, nil, ErrSubmitInFlight
	}

	for _, step := range []int{StepContact, StepAddress, StepDelivery} {
		if !s.completedSteps[step] {
			s.mu.Unlock()
			return nil, nil, ErrStepsIncomplete
		}
	}

	// re-check the delivery gate: the pickup list may have emptied or the
	// method may have been invalidated since step 3 passed
	if err := e.deliveryGateLocked(s); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}

	fe := e.validator.ValidatePayment(s.SelectedPaymentMethod, s.Card)
	if validation.HasErrors(fe) {
		s.mu.Unlock()
		return nil, fe, nil
	}

	if !s.AgreeToTerms {
		s.mu.Unlock()
		return nil, nil, ErrTermsNotAccepted
	}

	payload := e.payloadLocked(s)
	snap := snapshotLocked(s)
	sessionID := s.ID
	s.submitting = true
	s.mu.Unlock()

	finish := func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}

	// snapshot goes down before the hand-off so an interruption during
	// payment cannot lose the form state
	if err := e.snapshots.Save(ctx, sessionID, snap); err != nil {
		finish()
		return nil, nil, fmt.Errorf("persist checkout snapshot: %w", err)
	}

	result, err := e.submitter.Submit(ctx, payload)
	finish()
	if err != nil {
		return nil, nil, fmt.Errorf("order submission failed: %w", err)
	}

	if len(result.FieldErrors) > 0 {
		fe := validation.FieldErrors{}
		for k, v := range result.FieldErrors {
			fe[k] = v
		}
		return nil, fe, nil
	}

	// order confirmed: terminal cleanup, snapshot deleted again even though
	// the restore path also deletes it
	if err := e.snapshots.Clear(ctx, sessionID); err != nil {
		log.Printf("snapshot cleanup after confirmation failed: %v", err)
	}
	e.sessions.Delete(sessionID)

	if e.events != nil {
		event := OrderSubmittedEvent{
			SessionID:   sessionID,
			OrderID:     result.OrderID,
			UserID:      payload.UserID,
			Total:       pricing.Round2(payload.Summary.Total),
			SubmittedAt: time.Now(),
		}
		if err := e.events.PublishOrderSubmitted(ctx, event); err != nil {
			log.Printf("order submitted event publish failed: %v", err)
		}
	}

	return result, nil, nil
}

func (e *Engine) payloadLocked(s *Session) domain.OrderPayload {
	methods := e.methodsLocked(s)
	method := shipping.MethodFor(s.SelectedShippingMethodID, methods)

	billing := s.BillingAddr
	if s.BillingSameAsShipping {
		billing = s.ShippingAddr
	}

	payload := domain.OrderPayload{
		IdempotencyKey:  uuid.New().String(),
		UserID:          s.UserID,
		Contact:         s.Contact,
		ShippingAddress: s.ShippingAddr,
		BillingAddress:  billing,
		PaymentMethod:   s.SelectedPaymentMethod,
		PickupPoint:     s.pickup.Selected(),
		PromoCode:       s.promo.Applied(),
		Summary:         e.summaryLocked(s),
	}
	if method != nil {
		payload.ShippingMethod = *method
	}
	return payload
}

func snapshotLocked(s *Session) domain.CheckoutSnapshot {
	snap := domain.CheckoutSnapshot{
		Contact:                s.Contact,
		ShippingAddress:        s.ShippingAddr,
		BillingAddress:         s.BillingAddr,
		BillingSameAsShipping:  s.BillingSameAsShipping,
		SelectedShippingMethod: s.SelectedShippingMethodID,
		SelectedPaymentMethod:  s.SelectedPaymentMethod,
		AgreeToTerms:           s.AgreeToTerms,
		UserID:                 s.UserID,
	}
	if p := s.pickup.Selected(); p != nil {
		snap.SelectedPickupPointID = p.ID
	}
	return snap
}

// Restore rebuilds a session after an external payment interruption. The
// snapshot is read exactly once; when it applies, steps 1-3 are marked
// completed and the customer lands on the payment step, since the snapshot
// is only ever taken at the point of submission. Cart items come from the
// cart service again; the snapshot never owns them.
func (e *Engine) Restore(ctx context.Context, sessionID string, items []domain.CartItem, user *UserProfile) (*Session, error) {
	userID := ""
	if user != nil {
		userID = user.ID
	}

	snap, err := e.snapshots.Restore(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, ErrSnapshotStale) || errors.Is(err, ErrSnapshotOwner) {
			return nil, err
		}
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}

	s := e.CreateSession(items, user)

	s.mu.Lock()
	s.Contact = snap.Contact
	s.ShippingAddr = snap.ShippingAddress
	s.BillingAddr = snap.BillingAddress
	s.BillingSameAsShipping = snap.BillingSameAsShipping
	s.SelectedShippingMethodID = snap.SelectedShippingMethod
	s.SelectedPaymentMethod = snap.SelectedPaymentMethod
	s.AgreeToTerms = snap.AgreeToTerms
	s.completedSteps[StepContact] = true
	s.completedSteps[StepAddress] = true
	s.completedSteps[StepDelivery] = true
	s.CurrentStep = StepPayment
	s.pickup.SetCountry(snap.ShippingAddress.Country)
	pickupID := snap.SelectedPickupPointID
	s.mu.Unlock()

	if pickupID != "" {
		s.pickup.Ensure(ctx)
		if !s.pickup.Select(pickupID) {
			log.Printf("restored pickup point %s no longer available", pickupID)
		}
	}

	return s, nil
}
