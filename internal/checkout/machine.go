package checkout

import (
	"github.com/blekas10/shopnatural-checkout/internal/shipping"
	"github.com/blekas10/shopnatural-checkout/internal/validation"
)

// Continue runs the gate for the given step and, only when it passes,
// marks the step completed and advances. Validation always finishes before
// any state mutation: a failed gate leaves the session exactly as it was.
//
// Steps 1-3 advance here; step 4's terminal action is Submit.
func (e *Engine) Continue(s *Session, step int) (validation.FieldErrors, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if step < StepContact || step > StepDelivery {
		return nil, ErrInvalidStep
	}

	switch step {
	case StepContact:
		fe := e.validator.ValidateContact(s.Contact, s.ShippingAddr.Country)
		if validation.HasErrors(fe) {
			return fe, nil
		}
	case StepAddress:
		fe := e.validator.ValidateAddress(s.ShippingAddr)
		if !s.BillingSameAsShipping {
			fe.Merge(e.validator.ValidateBillingAddress(s.BillingAddr))
		}
		if validation.HasErrors(fe) {
			return fe, nil
		}
	case StepDelivery:
		if err := e.deliveryGateLocked(s); err != nil {
			return nil, err
		}
	}

	s.completedSteps[step] = true
	s.CurrentStep = step + 1
	s.touch()
	return nil, nil
}

// deliveryGateLocked enforces the step-3 business rules: a method must be
// selected, and a method flagged requires-pickup-point in a carrier-served
// country needs a selected point. The flag is the single source of truth,
// never the method id string.
func (e *Engine) deliveryGateLocked(s *Session) error {
	methods := e.methodsLocked(s)
	method := shipping.MethodFor(s.SelectedShippingMethodID, methods)
	if method == nil {
		return ErrShippingMethodRequired
	}

	if method.RequiresPickupPoint && shipping.CarrierServed(s.ShippingAddr.Country) && s.pickup.Selected() == nil {
		return ErrPickupPointRequired
	}

	return nil
}

// Edit moves back to an earlier step for revision. Later-step data and the
// completed set are kept, so returning forward does not re-enter anything.
func (e *Engine) Edit(s *Session, step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if step < StepContact || step > StepPayment {
		return ErrInvalidStep
	}

	s.CurrentStep = step
	s.touch()
	return nil
}
