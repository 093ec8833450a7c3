package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/checkout"
	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/promo"
	"github.com/blekas10/shopnatural-checkout/internal/store"
	"github.com/go-chi/chi/v5"
)

type CheckoutHandler struct {
	engine  *checkout.Engine
	timeout time.Duration
}

const defaultRequestTimeout = 30 * time.Second

func NewCheckoutHandler(engine *checkout.Engine, timeout time.Duration) *CheckoutHandler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &CheckoutHandler{engine: engine, timeout: timeout}
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return false
	}
	return true
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var user *checkout.UserProfile
	if req.User != nil {
		user = &checkout.UserProfile{
			ID:       req.User.ID,
			FullName: req.User.FullName,
			Email:    req.User.Email,
			Phone:    req.User.Phone,
		}
	}

	s := h.engine.CreateSession(toDomainItems(req.Items), user)
	respondJSON(w, http.StatusCreated, h.sessionView(s))
}

// GET /api/v1/checkout/{id}
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// PUT /api/v1/checkout/{id}/contact
func (h *CheckoutHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ContactRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.engine.UpdateContact(s, domain.ContactInformation{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// PUT /api/v1/checkout/{id}/address
func (h *CheckoutHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddressRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var billing domain.ShippingAddress
	if req.BillingAddress != nil {
		billing = req.BillingAddress.toDomain()
	}
	h.engine.UpdateAddress(s, req.ShippingAddress.toDomain(), billing, req.BillingSameAsShipping)
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// POST /api/v1/checkout/{id}/continue
func (h *CheckoutHandler) Continue(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req StepRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fe, err := h.engine.Continue(s, req.Step)
	if err != nil {
		h.respondGateError(w, err)
		return
	}
	if len(fe) > 0 {
		respondFieldErrors(w, fe)
		return
	}
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// POST /api/v1/checkout/{id}/edit
func (h *CheckoutHandler) Edit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req StepRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.engine.Edit(s, req.Step); err != nil {
		h.respondGateError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// PUT /api/v1/checkout/{id}/shipping
func (h *CheckoutHandler) SelectShipping(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ShippingSelectionDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.engine.SelectShippingMethod(s, req.MethodID)
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// PUT /api/v1/checkout/{id}/payment
func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PaymentRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var card *domain.CardDetails
	if req.Card != nil {
		card = &domain.CardDetails{
			Number:     req.Card.Number,
			Expiry:     req.Card.Expiry,
			CVV:        req.Card.CVV,
			HolderName: req.Card.HolderName,
		}
	}
	h.engine.SetPayment(s, domain.PaymentMethod(req.Method), card, req.AgreeToTerms)
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// POST /api/v1/checkout/{id}/promo
func (h *CheckoutHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PromoRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.engine.ApplyPromo(ctx, s, req.Code)
	switch {
	case errors.Is(err, promo.ErrEmptyCode):
		respondError(w, http.StatusBadRequest, "empty_promo_code", "promo code is required")
		return
	case errors.Is(err, promo.ErrApplyInFlight):
		respondError(w, http.StatusConflict, "promo_pending", "a promo code is already being validated")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "promo_failed", "could not validate promo code")
		return
	}

	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// DELETE /api/v1/checkout/{id}/promo
func (h *CheckoutHandler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	h.engine.RemovePromo(s)
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// GET /api/v1/checkout/{id}/pickup-points?q=...&grouped=true
func (h *CheckoutHandler) PickupPoints(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	h.engine.EnsurePickupPoints(ctx, s)
	selector := h.engine.Pickup(s)
	selector.SetSearch(r.URL.Query().Get("q"))

	if r.URL.Query().Get("grouped") == "true" {
		respondJSON(w, http.StatusOK, selector.GroupedByCity())
		return
	}
	respondJSON(w, http.StatusOK, selector.Filtered())
}

// PUT /api/v1/checkout/{id}/pickup-point
func (h *CheckoutHandler) SelectPickupPoint(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PickupSelectionDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.engine.EnsurePickupPoints(ctx, s)
	if !h.engine.Pickup(s).Select(req.ID) {
		respondError(w, http.StatusBadRequest, "unknown_pickup_point", "pickup point not available for this destination")
		return
	}
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

// DELETE /api/v1/checkout/{id}/pickup-point
func (h *CheckoutHandler) ClearPickupPoint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	h.engine.Pickup(s).ClearSelection()
	respondJSON(w, http.StatusOK, h.sessionView(s))
}

type SubmitResponseDTO struct {
	OrderID string `json:"order_id"`
}

// POST /api/v1/checkout/{id}/submit
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	result, fe, err := h.engine.Submit(ctx, s)
	if err != nil {
		h.respondSubmitError(w, err)
		return
	}
	if len(fe) > 0 {
		respondFieldErrors(w, fe)
		return
	}
	respondJSON(w, http.StatusOK, SubmitResponseDTO{OrderID: result.OrderID})
}

// POST /api/v1/checkout/{id}/restore
func (h *CheckoutHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RestoreRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var user *checkout.UserProfile
	if userID := getUserID(r.Context()); userID != "" {
		user = &checkout.UserProfile{ID: userID}
	}

	s, err := h.engine.Restore(ctx, chi.URLParam(r, "id"), toDomainItems(req.Items), user)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "no_snapshot", "nothing to restore")
		return
	case errors.Is(err, checkout.ErrSnapshotStale):
		respondError(w, http.StatusGone, "snapshot_expired", "the saved checkout has expired")
		return
	case errors.Is(err, checkout.ErrSnapshotOwner):
		respondError(w, http.StatusForbidden, "snapshot_owner_mismatch", "the saved checkout belongs to another user")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "restore_failed", "could not restore checkout")
		return
	}

	respondJSON(w, http.StatusCreated, h.sessionView(s))
}

func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	s, err := h.engine.Session(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", "checkout session not found or expired")
		return nil, false
	}
	return s, true
}

// respondGateError maps state-machine refusals: the transition is rejected,
// the step does not change, and the user gets an explanatory message.
func (h *CheckoutHandler) respondGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidStep):
		respondError(w, http.StatusBadRequest, "invalid_step", err.Error())
	case errors.Is(err, checkout.ErrShippingMethodRequired),
		errors.Is(err, checkout.ErrPickupPointRequired),
		errors.Is(err, checkout.ErrTermsNotAccepted),
		errors.Is(err, checkout.ErrStepsIncomplete):
		respondError(w, http.StatusConflict, "step_blocked", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

func (h *CheckoutHandler) respondSubmitError(w http.ResponseWriter, err error) {
	if errors.Is(err, checkout.ErrSubmitInFlight) {
		respondError(w, http.StatusConflict, "submit_pending", "order submission already in progress")
		return
	}
	if errors.Is(err, checkout.ErrShippingMethodRequired) ||
		errors.Is(err, checkout.ErrPickupPointRequired) ||
		errors.Is(err, checkout.ErrTermsNotAccepted) ||
		errors.Is(err, checkout.ErrStepsIncomplete) {
		h.respondGateError(w, err)
		return
	}
	// transport failure: distinct generic message, retry is safe
	respondError(w, http.StatusBadGateway, "submission_failed", "could not submit the order, please try again")
}
