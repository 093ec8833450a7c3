package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(userID string) domain.CheckoutSnapshot {
	return domain.CheckoutSnapshot{
		Contact:                ltContact(),
		ShippingAddress:        ltAddress(),
		BillingSameAsShipping:  true,
		SelectedShippingMethod: "venipak-courier-lt",
		SelectedPaymentMethod:  domain.PaymentCashOnDelivery,
		AgreeToTerms:           true,
		UserID:                 userID,
	}
}

func TestSnapshot_SaveRestoreRoundTrip(t *testing.T) {
	kv := store.NewMemoryKV()
	ss := NewSnapshotStore(kv)
	ctx := context.Background()

	require.NoError(t, ss.Save(ctx, "sess-1", testSnapshot("")))

	snap, err := ss.Restore(ctx, "sess-1", "")
	require.NoError(t, err)
	assert.Equal(t, "venipak-courier-lt", snap.SelectedShippingMethod)
	assert.Equal(t, ltContact(), snap.Contact)
}

func TestSnapshot_ReadOnce(t *testing.T) {
	kv := store.NewMemoryKV()
	ss := NewSnapshotStore(kv)
	ctx := context.Background()

	require.NoError(t, ss.Save(ctx, "sess-1", testSnapshot("")))

	_, err := ss.Restore(ctx, "sess-1", "")
	require.NoError(t, err)

	_, err = ss.Restore(ctx, "sess-1", "")
	assert.ErrorIs(t, err, store.ErrNotFound, "snapshot is deleted after the first read")
}

func TestSnapshot_StaleWindowBoundary(t *testing.T) {
	kv := store.NewMemoryKV()
	ss := NewSnapshotStore(kv)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 29:59 old: applies
	ss.now = func() time.Time { return base }
	require.NoError(t, ss.Save(ctx, "fresh", testSnapshot("")))
	ss.now = func() time.Time { return base.Add(29*time.Minute + 59*time.Second) }
	snap, err := ss.Restore(ctx, "fresh", "")
	require.NoError(t, err)
	require.NotNil(t, snap)

	// 30:01 old: stale, and still deleted
	ss.now = func() time.Time { return base }
	require.NoError(t, ss.Save(ctx, "old", testSnapshot("")))
	ss.now = func() time.Time { return base.Add(30*time.Minute + 1*time.Second) }
	_, err = ss.Restore(ctx, "old", "")
	assert.ErrorIs(t, err, ErrSnapshotStale)

	_, err = kv.Get(ctx, snapshotKey("old"))
	assert.ErrorIs(t, err, store.ErrNotFound, "stale snapshot must be deleted too")
}

func TestSnapshot_OwnerMismatch(t *testing.T) {
	kv := store.NewMemoryKV()
	ss := NewSnapshotStore(kv)
	ctx := context.Background()

	require.NoError(t, ss.Save(ctx, "sess-1", testSnapshot("user-1")))

	_, err := ss.Restore(ctx, "sess-1", "user-2")
	assert.ErrorIs(t, err, ErrSnapshotOwner)

	_, err = kv.Get(ctx, snapshotKey("sess-1"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSnapshot_AnonymousSnapshotAppliesToAnyone(t *testing.T) {
	kv := store.NewMemoryKV()
	ss := NewSnapshotStore(kv)
	ctx := context.Background()

	require.NoError(t, ss.Save(ctx, "sess-1", testSnapshot("")))

	snap, err := ss.Restore(ctx, "sess-1", "user-2")
	require.NoError(t, err)
	assert.NotNil(t, snap)
}

func TestSnapshot_Clear(t *testing.T) {
	kv := store.NewMemoryKV()
	ss := NewSnapshotStore(kv)
	ctx := context.Background()

	require.NoError(t, ss.Save(ctx, "sess-1", testSnapshot("")))
	require.NoError(t, ss.Clear(ctx, "sess-1"))

	_, err := ss.Restore(ctx, "sess-1", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
