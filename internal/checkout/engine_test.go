package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/promo"
	"github.com/blekas10/shopnatural-checkout/internal/store"
	"github.com/blekas10/shopnatural-checkout/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- shared test doubles ---

type okPhoneChecker struct{}

func (okPhoneChecker) Valid(string, string) bool { return true }

type stubPromoValidator struct {
	mu     sync.Mutex
	result promo.ValidationResult
	err    error
	calls  int
}

func (s *stubPromoValidator) Validate(context.Context, string, float64, string) (promo.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.result, s.err
}

type stubPointFetcher struct {
	mu     sync.Mutex
	points map[string][]domain.PickupPoint
	err    error
}

func (s *stubPointFetcher) Fetch(_ context.Context, country string) ([]domain.PickupPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.points[country], nil
}

type stubSubmitter struct {
	mu          sync.Mutex
	result      *SubmitResult
	err         error
	calls       int
	block       chan struct{}
	lastPayload domain.OrderPayload
}

func (s *stubSubmitter) Submit(_ context.Context, payload domain.OrderPayload) (*SubmitResult, error) {
	s.mu.Lock()
	s.calls++
	s.lastPayload = payload
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubEvents struct {
	mu     sync.Mutex
	events []OrderSubmittedEvent
}

func (s *stubEvents) PublishOrderSubmitted(_ context.Context, e OrderSubmittedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

type testEnv struct {
	engine    *Engine
	manager   *Manager
	kv        *store.MemoryKV
	snapshots *SnapshotStore
	promo     *stubPromoValidator
	fetcher   *stubPointFetcher
	submitter *stubSubmitter
	events    *stubEvents
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	kv := store.NewMemoryKV()
	snapshots := NewSnapshotStore(kv)
	manager := NewManager(DefaultIdleTTL)
	t.Cleanup(manager.Close)

	promoStub := &stubPromoValidator{result: promo.ValidationResult{
		Valid: true, Code: "WELCOME10", Kind: "percentage", Value: 10, DiscountAmount: 10,
	}}
	fetcher := &stubPointFetcher{points: map[string][]domain.PickupPoint{
		"LT": {
			{ID: "vp-1", Name: "IKI Kalvariju", Address: "Kalvariju g. 2", City: "Vilnius", Zip: "09310", Country: "LT", Type: domain.PickupLocker},
		},
		"LV": {
			{ID: "vp-9", Name: "Origo", Address: "Stacijas laukums 2", City: "Riga", Zip: "LV-1050", Country: "LV", Type: domain.PickupTerminal},
		},
	}}
	submitter := &stubSubmitter{result: &SubmitResult{OrderID: "order-1"}}
	events := &stubEvents{}

	validator := validation.NewValidator(okPhoneChecker{}, nil, "LT")
	engine := NewEngine(Config{}, validator, promoStub, fetcher, snapshots, submitter, events, manager)

	return &testEnv{
		engine:    engine,
		manager:   manager,
		kv:        kv,
		snapshots: snapshots,
		promo:     promoStub,
		fetcher:   fetcher,
		submitter: submitter,
		events:    events,
	}
}

func ltItems() []domain.CartItem {
	return []domain.CartItem{
		{ID: "a", ProductID: "p1", Quantity: 2, Product: domain.ProductInfo{Name: "Sea Buckthorn Oil", Price: 20}},
		{ID: "b", ProductID: "p2", Quantity: 1, Product: domain.ProductInfo{Name: "Herbal Tea", Price: 20}},
	}
}

func ltContact() domain.ContactInformation {
	return domain.ContactInformation{FullName: "Jonas Jonaitis", Email: "jonas@example.com", Phone: "+37061234567"}
}

func ltAddress() domain.ShippingAddress {
	return domain.ShippingAddress{AddressLine1: "Gedimino pr. 1", City: "Vilnius", PostalCode: "01103", Country: "LT"}
}

func lvAddress() domain.ShippingAddress {
	return domain.ShippingAddress{AddressLine1: "Brivibas iela 1", City: "Riga", PostalCode: "LV-1010", Country: "LV"}
}

// advanceToPayment walks a session through steps 1-3 with valid data.
func advanceToPayment(t *testing.T, env *testEnv, s *Session) {
	t.Helper()

	env.engine.UpdateContact(s, ltContact())
	fe, err := env.engine.Continue(s, StepContact)
	require.NoError(t, err)
	require.False(t, validation.HasErrors(fe))

	env.engine.UpdateAddress(s, ltAddress(), domain.ShippingAddress{}, true)
	fe, err = env.engine.Continue(s, StepAddress)
	require.NoError(t, err)
	require.False(t, validation.HasErrors(fe))

	env.engine.SelectShippingMethod(s, "venipak-courier-lt")
	fe, err = env.engine.Continue(s, StepDelivery)
	require.NoError(t, err)
	require.False(t, validation.HasErrors(fe))

	require.Equal(t, StepPayment, s.CurrentStep)
}

// --- engine basics ---

func TestCreateSession_Defaults(t *testing.T) {
	env := newTestEnv(t)

	s := env.engine.CreateSession(ltItems(), nil)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StepContact, s.CurrentStep)
	assert.True(t, s.BillingSameAsShipping)
	assert.Empty(t, s.CompletedSteps())
}

func TestCreateSession_PrefillsFromProfile(t *testing.T) {
	env := newTestEnv(t)

	s := env.engine.CreateSession(ltItems(), &UserProfile{
		ID: "user-1", FullName: "Ona Onaite", Email: "ona@example.com", Phone: "+37069876543",
	})

	assert.Equal(t, "user-1", s.UserID)
	assert.Equal(t, "Ona Onaite", s.Contact.FullName)
}

func TestSession_UnknownID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.Session("nope")

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSummary_FreeShippingScenario(t *testing.T) {
	// €60 cart, LT destination: the domestic standard method resolves free
	env := newTestEnv(t)
	s := env.engine.CreateSession(ltItems(), nil) // 60.00
	env.engine.UpdateAddress(s, ltAddress(), domain.ShippingAddress{}, true)
	env.engine.SelectShippingMethod(s, "venipak-courier-lt")

	summary := env.engine.Summary(s)

	assert.InDelta(t, 60.00, summary.Subtotal, 1e-9)
	assert.Equal(t, 0.0, summary.Shipping)
	assert.InDelta(t, 60.00, summary.Total, 1e-9)
}

func TestSummary_PromoScenario(t *testing.T) {
	// WELCOME10 (10%) on a €100 cart: validator returns 10.00 and
	// total = 100 + shipping - 10
	env := newTestEnv(t)
	items := []domain.CartItem{
		{ID: "a", ProductID: "p1", Quantity: 1, Product: domain.ProductInfo{Name: "Gift Set", Price: 100}},
	}
	s := env.engine.CreateSession(items, nil)
	env.engine.UpdateAddress(s, lvAddress(), domain.ShippingAddress{}, true)
	env.engine.SelectShippingMethod(s, "venipak-courier")

	require.NoError(t, env.engine.ApplyPromo(context.Background(), s, "WELCOME10"))

	summary := env.engine.Summary(s)
	assert.InDelta(t, 100.00+5.99-10.00, summary.Total, 1e-9)
}

func TestApplyRemovePromoRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	s := env.engine.CreateSession(ltItems(), nil)
	before := env.engine.Summary(s)

	require.NoError(t, env.engine.ApplyPromo(context.Background(), s, "WELCOME10"))
	env.engine.RemovePromo(s)

	after := env.engine.Summary(s)
	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, before.PromoCodeDiscount, after.PromoCodeDiscount)
}

func TestUpdateAddress_CountryChangeResetsShippingSelection(t *testing.T) {
	env := newTestEnv(t)
	s := env.engine.CreateSession(ltItems(), nil)
	env.engine.UpdateAddress(s, ltAddress(), domain.ShippingAddress{}, true)
	env.engine.SelectShippingMethod(s, "venipak-courier-lt")

	env.engine.UpdateAddress(s, lvAddress(), domain.ShippingAddress{}, true)

	// the LT-only method does not resolve for LV and is dropped
	assert.Empty(t, s.SelectedShippingMethodID)
	assert.Equal(t, "LV", env.engine.Pickup(s).Country())
}

func TestUpdateAddress_SameCountryKeepsPickupState(t *testing.T) {
	env := newTestEnv(t)
	s := env.engine.CreateSession(ltItems(), nil)
	env.engine.UpdateAddress(s, ltAddress(), domain.ShippingAddress{}, true)
	env.engine.EnsurePickupPoints(context.Background(), s)
	require.True(t, env.engine.Pickup(s).Select("vp-1"))

	addr := ltAddress()
	addr.AddressLine1 = "Pilies g. 10"
	env.engine.UpdateAddress(s, addr, domain.ShippingAddress{}, true)

	assert.NotNil(t, env.engine.Pickup(s).Selected())
}

func TestManagerSweep_DropsIdleSessions(t *testing.T) {
	kv := store.NewMemoryKV()
	manager := NewManager(10 * time.Millisecond)
	defer manager.Close()

	validator := validation.NewValidator(okPhoneChecker{}, nil, "LT")
	engine := NewEngine(Config{}, validator, &stubPromoValidator{}, &stubPointFetcher{}, NewSnapshotStore(kv), &stubSubmitter{}, nil, manager)

	s := engine.CreateSession(ltItems(), nil)
	time.Sleep(20 * time.Millisecond)
	manager.sweep()

	_, err := engine.Session(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
