package promo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockValidator struct {
	mu     sync.Mutex
	result ValidationResult
	err    error
	calls  int
	block  chan struct{} // when set, Validate waits until closed
}

func (m *mockValidator) Validate(context.Context, string, float64, string) (ValidationResult, error) {
	m.mu.Lock()
	m.calls++
	block := m.block
	m.mu.Unlock()

	if block != nil {
		<-block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.err
}

func (m *mockValidator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestApply_Success(t *testing.T) {
	v := &mockValidator{result: ValidationResult{
		Valid:          true,
		Code:           "WELCOME10",
		Kind:           "percentage",
		Value:          10,
		DiscountAmount: 10.00,
	}}
	c := NewCoordinator(v)

	err := c.Apply(context.Background(), "WELCOME10", 100.00, "jonas@example.com")

	require.NoError(t, err)
	applied := c.Applied()
	require.NotNil(t, applied)
	assert.Equal(t, "WELCOME10", applied.Code)
	assert.Equal(t, 10.00, applied.DiscountAmount)
	assert.Equal(t, 10.00, c.DiscountAmount())
	assert.Empty(t, c.LastError())
}

func TestApply_BlankCodeSkipsNetwork(t *testing.T) {
	v := &mockValidator{}
	c := NewCoordinator(v)

	err := c.Apply(context.Background(), "   ", 100.00, "")

	assert.ErrorIs(t, err, ErrEmptyCode)
	assert.Zero(t, v.callCount())
}

func TestApply_RejectionKeepsServerMessage(t *testing.T) {
	v := &mockValidator{result: ValidationResult{Valid: false, Error: "Code expired on 2026-01-01"}}
	c := NewCoordinator(v)

	err := c.Apply(context.Background(), "OLDCODE", 100.00, "")

	require.NoError(t, err)
	assert.Nil(t, c.Applied())
	assert.Equal(t, "Code expired on 2026-01-01", c.LastError())
}

func TestApply_TransportFailureGenericMessage(t *testing.T) {
	v := &mockValidator{err: errors.New("connection refused")}
	c := NewCoordinator(v)

	err := c.Apply(context.Background(), "WELCOME10", 100.00, "")

	require.NoError(t, err)
	assert.Nil(t, c.Applied())
	assert.Equal(t, GenericFailureMessage, c.LastError())
}

func TestApply_SecondApplyWhilePending(t *testing.T) {
	block := make(chan struct{})
	v := &mockValidator{
		result: ValidationResult{Valid: true, Code: "WELCOME10", DiscountAmount: 5},
		block:  block,
	}
	c := NewCoordinator(v)

	done := make(chan error, 1)
	go func() {
		done <- c.Apply(context.Background(), "WELCOME10", 100.00, "")
	}()

	// wait for the first apply to reach the validator
	require.Eventually(t, func() bool { return v.callCount() == 1 }, time.Second, time.Millisecond)

	err := c.Apply(context.Background(), "OTHER", 100.00, "")
	assert.ErrorIs(t, err, ErrApplyInFlight)
	assert.Equal(t, 1, v.callCount(), "the rejected apply must not hit the network")

	close(block)
	require.NoError(t, <-done)
	require.NotNil(t, c.Applied())
}

func TestRemove_ClearsStateAndError(t *testing.T) {
	v := &mockValidator{result: ValidationResult{Valid: true, Code: "WELCOME10", DiscountAmount: 10}}
	c := NewCoordinator(v)
	require.NoError(t, c.Apply(context.Background(), "WELCOME10", 100.00, ""))

	c.Remove()

	assert.Nil(t, c.Applied())
	assert.Zero(t, c.DiscountAmount())
	assert.Empty(t, c.LastError())
	assert.Equal(t, 1, v.callCount(), "remove never calls the validator")
}

func TestApplyRemoveRoundTripRestoresPricingInputs(t *testing.T) {
	v := &mockValidator{result: ValidationResult{Valid: true, Code: "WELCOME10", DiscountAmount: 10}}
	c := NewCoordinator(v)

	before := c.DiscountAmount()
	require.NoError(t, c.Apply(context.Background(), "WELCOME10", 100.00, ""))
	c.Remove()

	assert.Equal(t, before, c.DiscountAmount())
}
