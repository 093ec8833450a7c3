package checkout

import (
	"context"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/pickup"
	"github.com/blekas10/shopnatural-checkout/internal/pricing"
	"github.com/blekas10/shopnatural-checkout/internal/promo"
	"github.com/blekas10/shopnatural-checkout/internal/shipping"
	"github.com/blekas10/shopnatural-checkout/internal/validation"
)

// Config carries the business constants of the checkout flow.
type Config struct {
	VatRate     float64
	HomeCountry string
}

// SubmitResult is the external order service's answer.
type SubmitResult struct {
	OrderID     string
	FieldErrors map[string]string
}

// OrderSubmitter hands the assembled payload to the order service, which
// owns persistence and payment capture.
type OrderSubmitter interface {
	Submit(ctx context.Context, payload domain.OrderPayload) (*SubmitResult, error)
}

// OrderSubmittedEvent is published after a successful submission.
type OrderSubmittedEvent struct {
	SessionID   string    `json:"session_id"`
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id,omitempty"`
	Total       float64   `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// EventPublisher notifies the rest of the platform about checkout outcomes.
type EventPublisher interface {
	PublishOrderSubmitted(ctx context.Context, event OrderSubmittedEvent) error
}

// Engine drives checkout sessions: step transitions, pricing, promo and
// pickup coordination, snapshotting and submission.
type Engine struct {
	cfg            Config
	validator      *validation.Validator
	promoValidator promo.CodeValidator
	pickupFetcher  pickup.PointFetcher
	snapshots      *SnapshotStore
	submitter      OrderSubmitter
	events         EventPublisher // optional
	sessions       *Manager
}

func NewEngine(
	cfg Config,
	validator *validation.Validator,
	promoValidator promo.CodeValidator,
	pickupFetcher pickup.PointFetcher,
	snapshots *SnapshotStore,
	submitter OrderSubmitter,
	events EventPublisher,
	sessions *Manager,
) *Engine {
	if cfg.VatRate == 0 {
		cfg.VatRate = pricing.DefaultVatRate
	}
	if cfg.HomeCountry == "" {
		cfg.HomeCountry = shipping.HomeCountry
	}
	return &Engine{
		cfg:            cfg,
		validator:      validator,
		promoValidator: promoValidator,
		pickupFetcher:  pickupFetcher,
		snapshots:      snapshots,
		submitter:      submitter,
		events:         events,
		sessions:       sessions,
	}
}

// CreateSession opens a checkout for the given cart snapshot. Contact data is
// seeded from the authenticated profile when present.
func (e *Engine) CreateSession(items []domain.CartItem, user *UserProfile) *Session {
	s := newSession(
		items,
		user,
		promo.NewCoordinator(e.promoValidator),
		pickup.NewSelector(e.pickupFetcher, shipping.CarrierServed),
	)
	e.sessions.add(s)
	return s
}

// Session looks up a live session by id.
func (e *Engine) Session(id string) (*Session, error) {
	return e.sessions.Get(id)
}

// UpdateContact replaces the contact information.
func (e *Engine) UpdateContact(s *Session, c domain.ContactInformation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Contact = c
	s.touch()
}

// UpdateAddress replaces the shipping (and optionally billing) address.
// A country change resets the pickup-point state and invalidates the
// previously selected shipping method if it no longer resolves.
func (e *Engine) UpdateAddress(s *Session, shippingAddr, billingAddr domain.ShippingAddress, sameAsShipping bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	countryChanged := shippingAddr.Country != s.ShippingAddr.Country
	s.ShippingAddr = shippingAddr
	s.BillingAddr = billingAddr
	s.BillingSameAsShipping = sameAsShipping
	s.touch()

	if countryChanged {
		s.pickup.SetCountry(shippingAddr.Country)
		methods := shipping.Resolve(shippingAddr.Country, e.subtotalLocked(s))
		if shipping.MethodFor(s.SelectedShippingMethodID, methods) == nil {
			s.SelectedShippingMethodID = ""
		}
	}
}

// SelectShippingMethod records the chosen method id. The step-3 gate decides
// whether the selection is valid for the destination.
func (e *Engine) SelectShippingMethod(s *Session, methodID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedShippingMethodID = methodID
	s.touch()
}

// SetPayment records the payment method, card details and terms acceptance.
func (e *Engine) SetPayment(s *Session, method domain.PaymentMethod, card *domain.CardDetails, agreeToTerms bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedPaymentMethod = method
	s.Card = card
	s.AgreeToTerms = agreeToTerms
	s.touch()
}

// ShippingMethods resolves the method list for the session's destination and
// current subtotal. Recomputed on every call; never stored.
func (e *Engine) ShippingMethods(s *Session) []domain.ShippingMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.methodsLocked(s)
}

// Summary recomputes the full price breakdown. Derived, never cached.
func (e *Engine) Summary(s *Session) domain.OrderSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return e.summaryLocked(s)
}

func (e *Engine) methodsLocked(s *Session) []domain.ShippingMethod {
	country := s.ShippingAddr.Country
	if country == "" {
		country = e.cfg.HomeCountry
	}
	return shipping.Resolve(country, e.subtotalLocked(s))
}

func (e *Engine) subtotalLocked(s *Session) float64 {
	return pricing.Calculate(s.Items, e.cfg.VatRate, 0, 0).Subtotal
}

func (e *Engine) summaryLocked(s *Session) domain.OrderSummary {
	methods := e.methodsLocked(s)
	shippingCost := shipping.CostFor(s.SelectedShippingMethodID, methods)
	return pricing.Calculate(s.Items, e.cfg.VatRate, shippingCost, s.promo.DiscountAmount())
}

// ApplyPromo validates a promo code against the external authority. The cart
// total sent along is the current subtotal.
func (e *Engine) ApplyPromo(ctx context.Context, s *Session, code string) error {
	s.mu.Lock()
	total := e.subtotalLocked(s)
	email := s.Contact.Email
	s.mu.Unlock()

	return s.promo.Apply(ctx, code, total, email)
}

// RemovePromo drops the applied code.
func (e *Engine) RemovePromo(s *Session) {
	s.promo.Remove()
}

// Promo exposes the per-session coordinator for read access.
func (e *Engine) Promo(s *Session) *promo.Coordinator {
	return s.promo
}

// Pickup exposes the per-session pickup selector.
func (e *Engine) Pickup(s *Session) *pickup.Selector {
	return s.pickup
}

// EnsurePickupPoints lazily fetches the carrier list for the destination.
func (e *Engine) EnsurePickupPoints(ctx context.Context, s *Session) {
	s.pickup.Ensure(ctx)
}
