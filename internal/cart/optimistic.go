package cart

import "github.com/blekas10/shopnatural-checkout/internal/domain"

// PendingUpdate is a quantity mutation the customer has requested but the
// authoritative cart service has not confirmed yet. Quantity <= 0 removes
// the item.
type PendingUpdate struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// ApplyPending projects a pending mutation onto the authoritative item list.
// Pure and replayable: the overlay is recomputed from the base on every read
// and is never a second source of truth. When the base changes under a
// pending mutation, callers project again from the new base.
func ApplyPending(base []domain.CartItem, update *PendingUpdate) []domain.CartItem {
	if update == nil {
		out := make([]domain.CartItem, len(base))
		copy(out, base)
		return out
	}

	out := make([]domain.CartItem, 0, len(base))
	for _, item := range base {
		if item.ID == update.ItemID {
			item.Quantity = update.Quantity
		}
		if item.Quantity <= 0 {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ApplyAll folds a sequence of pending intents over the base, oldest first.
func ApplyAll(base []domain.CartItem, updates []PendingUpdate) []domain.CartItem {
	out := ApplyPending(base, nil)
	for i := range updates {
		out = ApplyPending(out, &updates[i])
	}
	return out
}
