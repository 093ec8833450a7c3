package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/store"
)

// RestoreWindow is how long a saved snapshot stays restorable. A payment
// redirect that takes longer than this comes back to a fresh checkout.
const RestoreWindow = 30 * time.Minute

// SnapshotStore persists the pre-payment form snapshot in the durable KV
// store. Single writer, single reader; last write wins across tabs, the
// store attempts no locking.
type SnapshotStore struct {
	kv     store.KV
	window time.Duration
	now    func() time.Time
}

func NewSnapshotStore(kv store.KV) *SnapshotStore {
	return &SnapshotStore{kv: kv, window: RestoreWindow, now: time.Now}
}

func snapshotKey(sessionID string) string {
	return "checkout:snapshot:" + sessionID
}

// Save writes the snapshot, stamping it with the current time.
func (s *SnapshotStore) Save(ctx context.Context, sessionID string, snap domain.CheckoutSnapshot) error {
	snap.Timestamp = s.now()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, snapshotKey(sessionID), string(data)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Restore reads the snapshot exactly once: the stored value is deleted
// whether or not it is applied. The snapshot only applies when it is younger
// than the restore window and was written for the same user (an anonymous
// snapshot applies to anyone on the same session).
func (s *SnapshotStore) Restore(ctx context.Context, sessionID, userID string) (*domain.CheckoutSnapshot, error) {
	key := snapshotKey(sessionID)

	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	// read-once: gone regardless of what happens next
	if errRemove := s.kv.Remove(ctx, key); errRemove != nil {
		log.Printf("snapshot delete after read failed: %v", errRemove)
	}

	var snap domain.CheckoutSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if s.now().Sub(snap.Timestamp) >= s.window {
		return nil, ErrSnapshotStale
	}
	if snap.UserID != "" && snap.UserID != userID {
		return nil, ErrSnapshotOwner
	}

	return &snap, nil
}

// Clear deletes any lingering snapshot. Called again on order confirmation
// as a terminal cleanup guarantee.
func (s *SnapshotStore) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Remove(ctx, snapshotKey(sessionID))
}
