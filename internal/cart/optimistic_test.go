package cart

import (
	"testing"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseItems() []domain.CartItem {
	return []domain.CartItem{
		{ID: "a", ProductID: "p1", Quantity: 2, Product: domain.ProductInfo{Name: "Oil", Price: 10}},
		{ID: "b", ProductID: "p2", Quantity: 1, Product: domain.ProductInfo{Name: "Tea", Price: 5}},
	}
}

func TestApplyPending_QuantityChange(t *testing.T) {
	out := ApplyPending(baseItems(), &PendingUpdate{ItemID: "a", Quantity: 5})

	require.Len(t, out, 2)
	assert.Equal(t, 5, out[0].Quantity)
	assert.Equal(t, 1, out[1].Quantity)
}

func TestApplyPending_ZeroQuantityRemoves(t *testing.T) {
	out := ApplyPending(baseItems(), &PendingUpdate{ItemID: "a", Quantity: 0})

	require.Len(t, out, 1)
	assert.Equal(t, "b", out[0].ID)
}

func TestApplyPending_NegativeQuantityRemoves(t *testing.T) {
	out := ApplyPending(baseItems(), &PendingUpdate{ItemID: "b", Quantity: -3})

	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestApplyPending_UnknownItemIsNoop(t *testing.T) {
	out := ApplyPending(baseItems(), &PendingUpdate{ItemID: "zzz", Quantity: 9})

	assert.Equal(t, baseItems(), out)
}

func TestApplyPending_NilUpdateCopiesBase(t *testing.T) {
	base := baseItems()
	out := ApplyPending(base, nil)

	assert.Equal(t, base, out)
	out[0].Quantity = 99
	assert.Equal(t, 2, base[0].Quantity, "projection must not alias the base")
}

func TestApplyPending_BaseUntouched(t *testing.T) {
	base := baseItems()
	ApplyPending(base, &PendingUpdate{ItemID: "a", Quantity: 0})

	require.Len(t, base, 2)
	assert.Equal(t, 2, base[0].Quantity)
}

func TestApplyPending_Deterministic(t *testing.T) {
	u := PendingUpdate{ItemID: "a", Quantity: 3}
	first := ApplyPending(baseItems(), &u)
	second := ApplyPending(baseItems(), &u)

	assert.Equal(t, first, second)
}

func TestApplyAll_ReplaysInOrder(t *testing.T) {
	out := ApplyAll(baseItems(), []PendingUpdate{
		{ItemID: "a", Quantity: 7},
		{ItemID: "b", Quantity: 0},
		{ItemID: "a", Quantity: 4},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, 4, out[0].Quantity)
}
