package checkout

import "errors"

var (
	ErrSessionNotFound = errors.New("checkout session not found")

	// Gate refusals. The state machine rejects the transition and the
	// current step does not change; handlers surface these as user-facing
	// messages, never as crashes.
	ErrInvalidStep            = errors.New("step out of range")
	ErrShippingMethodRequired = errors.New("select a shipping method to continue")
	ErrPickupPointRequired    = errors.New("select a pickup point to continue")
	ErrTermsNotAccepted       = errors.New("you must agree to the terms and conditions")
	ErrStepsIncomplete        = errors.New("earlier checkout steps are not completed")

	// ErrSubmitInFlight guards against duplicate submissions while the
	// order call is outstanding.
	ErrSubmitInFlight = errors.New("order submission already in progress")

	ErrSnapshotStale = errors.New("checkout snapshot expired")
	ErrSnapshotOwner = errors.New("checkout snapshot belongs to another user")
)
