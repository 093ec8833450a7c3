package server

import (
	"net/http"

	"github.com/blekas10/shopnatural-checkout/internal/cart"
	"github.com/blekas10/shopnatural-checkout/internal/pricing"
)

// CartHandler serves the optimistic cart preview: the price breakdown the
// storefront shows while quantity updates are still in flight.
type CartHandler struct {
	vatRate float64
}

func NewCartHandler(vatRate float64) *CartHandler {
	if vatRate == 0 {
		vatRate = pricing.DefaultVatRate
	}
	return &CartHandler{vatRate: vatRate}
}

// POST /api/v1/cart/preview
func (h *CartHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req CartPreviewRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	items := toDomainItems(req.Items)
	if len(req.PendingQueue) > 0 {
		queue := make([]cart.PendingUpdate, 0, len(req.PendingQueue))
		for _, d := range req.PendingQueue {
			queue = append(queue, d.toDomain())
		}
		items = cart.ApplyAll(items, queue)
	} else if req.PendingUpdate != nil {
		update := req.PendingUpdate.toDomain()
		items = cart.ApplyPending(items, &update)
	}

	summary := pricing.CartSummary(items, h.vatRate)
	respondJSON(w, http.StatusOK, toSummaryDTO(summary))
}
