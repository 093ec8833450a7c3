package checkout

import (
	"sync"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/pickup"
	"github.com/blekas10/shopnatural-checkout/internal/promo"
	"github.com/google/uuid"
)

// Checkout steps. Submission is the terminal action of StepPayment, not a
// fifth step.
const (
	StepContact  = 1
	StepAddress  = 2
	StepDelivery = 3
	StepPayment  = 4
)

// UserProfile pre-fills contact data for an authenticated customer.
type UserProfile struct {
	ID       string
	FullName string
	Email    string
	Phone    string
}

// Session is one in-progress checkout. All mutation goes through Engine
// methods, which serialize on mu. Cart items are read-only input owned by
// the cart service.
type Session struct {
	mu sync.Mutex

	ID         string
	UserID     string
	CreatedAt  time.Time
	lastActive time.Time

	Items []domain.CartItem

	Contact               domain.ContactInformation
	ShippingAddr          domain.ShippingAddress
	BillingAddr           domain.ShippingAddress
	BillingSameAsShipping bool

	SelectedShippingMethodID string
	SelectedPaymentMethod    domain.PaymentMethod
	Card                     *domain.CardDetails
	AgreeToTerms             bool

	CurrentStep    int
	completedSteps map[int]bool

	promo      *promo.Coordinator
	pickup     *pickup.Selector
	submitting bool
}

func newSession(items []domain.CartItem, user *UserProfile, promoC *promo.Coordinator, pickupS *pickup.Selector) *Session {
	now := time.Now()
	s := &Session{
		ID:                    uuid.New().String(),
		CreatedAt:             now,
		lastActive:            now,
		Items:                 items,
		BillingSameAsShipping: true,
		CurrentStep:           StepContact,
		completedSteps:        make(map[int]bool),
		promo:                 promoC,
		pickup:                pickupS,
	}
	if user != nil {
		s.UserID = user.ID
		s.Contact = domain.ContactInformation{
			FullName: user.FullName,
			Email:    user.Email,
			Phone:    user.Phone,
		}
	}
	return s
}

// CompletedSteps returns a sorted copy for serialization.
func (s *Session) CompletedSteps() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedStepsLocked()
}

func (s *Session) completedStepsLocked() []int {
	out := make([]int, 0, len(s.completedSteps))
	for _, step := range []int{StepContact, StepAddress, StepDelivery} {
		if s.completedSteps[step] {
			out = append(out, step)
		}
	}
	return out
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

// View is a consistent copy of the session's mutable fields, taken under the
// session lock. Promo, pickup and summary state have their own accessors.
type View struct {
	ID                       string
	UserID                   string
	CurrentStep              int
	CompletedSteps           []int
	Contact                  domain.ContactInformation
	ShippingAddr             domain.ShippingAddress
	BillingAddr              domain.ShippingAddress
	BillingSameAsShipping    bool
	SelectedShippingMethodID string
	SelectedPaymentMethod    domain.PaymentMethod
	AgreeToTerms             bool
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		ID:                       s.ID,
		UserID:                   s.UserID,
		CurrentStep:              s.CurrentStep,
		CompletedSteps:           s.completedStepsLocked(),
		Contact:                  s.Contact,
		ShippingAddr:             s.ShippingAddr,
		BillingAddr:              s.BillingAddr,
		BillingSameAsShipping:    s.BillingSameAsShipping,
		SelectedShippingMethodID: s.SelectedShippingMethodID,
		SelectedPaymentMethod:    s.SelectedPaymentMethod,
		AgreeToTerms:             s.AgreeToTerms,
	}
}
