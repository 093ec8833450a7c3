package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_HomeCountryFreeShippingAtThreshold(t *testing.T) {
	methods := Resolve("LT", 60.00)

	standard := MethodFor("venipak-courier-lt", methods)
	require.NotNil(t, standard)
	assert.Equal(t, 0.0, standard.Price)

	// only the designated method is zeroed
	pickup := MethodFor("venipak-pickup", methods)
	require.NotNil(t, pickup)
	assert.Equal(t, 2.49, pickup.Price)
}

func TestResolve_HomeCountryBelowThreshold(t *testing.T) {
	methods := Resolve("LT", 49.99)

	standard := MethodFor("venipak-courier-lt", methods)
	require.NotNil(t, standard)
	assert.Equal(t, 3.99, standard.Price)
}

func TestResolve_ThresholdIsInclusive(t *testing.T) {
	methods := Resolve("LT", 50.00)
	assert.Equal(t, 0.0, MethodFor("venipak-courier-lt", methods).Price)
}

func TestResolve_ThresholdDoesNotLeakAbroad(t *testing.T) {
	methods := Resolve("LV", 200.00)
	for _, m := range methods {
		assert.Greater(t, m.Price, 0.0, "method %s", m.ID)
	}
}

func TestResolve_UnknownCountryFallsBack(t *testing.T) {
	methods := Resolve("JP", 10.00)

	require.NotEmpty(t, methods)
	assert.Equal(t, "international-standard", methods[0].ID)
}

func TestResolve_Deterministic(t *testing.T) {
	a := Resolve("LV", 25.00)
	b := Resolve("LV", 25.00)
	assert.Equal(t, a, b)
}

func TestResolve_DoesNotMutateTable(t *testing.T) {
	free := Resolve("LT", 100.00)
	require.Equal(t, 0.0, MethodFor("venipak-courier-lt", free).Price)

	paid := Resolve("LT", 10.00)
	assert.Equal(t, 3.99, MethodFor("venipak-courier-lt", paid).Price)
}

func TestResolve_PickupFlagPresentForCarrierCountries(t *testing.T) {
	for _, country := range []string{"LT", "LV", "EE"} {
		methods := Resolve(country, 10.00)
		var hasPickup bool
		for _, m := range methods {
			if m.RequiresPickupPoint {
				hasPickup = true
			}
		}
		assert.True(t, hasPickup, "country %s should offer a pickup-point method", country)
	}
}

func TestCostFor(t *testing.T) {
	methods := Resolve("LT", 10.00)

	assert.Equal(t, 2.49, CostFor("venipak-pickup", methods))
	assert.Equal(t, 0.0, CostFor("", methods))
	assert.Equal(t, 0.0, CostFor("no-such-method", methods))
}

func TestCarrierServed(t *testing.T) {
	assert.True(t, CarrierServed("LT"))
	assert.True(t, CarrierServed("EE"))
	assert.False(t, CarrierServed("PL"))
	assert.False(t, CarrierServed("US"))
}
