package shipping

import "github.com/blekas10/shopnatural-checkout/internal/domain"

const (
	// HomeCountry gets the domestic method set and the free-shipping rule.
	HomeCountry = "LT"

	// FreeShippingThreshold zeroes the domestic standard courier at or above
	// this subtotal.
	FreeShippingThreshold = 50.00

	freeShippingMethodID = "venipak-courier-lt"
)

// carrierServedCountries is where Venipak operates pickup points. Methods
// flagged RequiresPickupPoint only gate checkout in these countries.
var carrierServedCountries = map[string]bool{
	"LT": true,
	"LV": true,
	"EE": true,
}

// CarrierServed reports whether pickup points exist for the country.
func CarrierServed(country string) bool {
	return carrierServedCountries[country]
}

// methodTable maps destination country to its ordered method set. Order is
// presentation order: domestic carrier options first, generic ones last.
// Prices are VAT-inclusive EUR.
var methodTable = map[string][]domain.ShippingMethod{
	"LT": {
		{ID: "venipak-courier-lt", Name: "Venipak Courier", Description: "Delivery to your door", Price: 3.99, EstimatedDays: "1-2", RequiresPickupPoint: false},
		{ID: "venipak-pickup", Name: "Venipak Pickup Point", Description: "Collect from a terminal or locker", Price: 2.49, EstimatedDays: "1-3", RequiresPickupPoint: true},
		{ID: "express-courier", Name: "Express Courier", Description: "Next working day", Price: 7.99, EstimatedDays: "1", RequiresPickupPoint: false},
	},
	"LV": {
		{ID: "venipak-courier", Name: "Venipak Courier", Description: "Delivery to your door", Price: 5.99, EstimatedDays: "2-3", RequiresPickupPoint: false},
		{ID: "venipak-pickup", Name: "Venipak Pickup Point", Description: "Collect from a terminal or locker", Price: 3.49, EstimatedDays: "2-4", RequiresPickupPoint: true},
	},
	"EE": {
		{ID: "venipak-courier", Name: "Venipak Courier", Description: "Delivery to your door", Price: 5.99, EstimatedDays: "2-3", RequiresPickupPoint: false},
		{ID: "venipak-pickup", Name: "Venipak Pickup Point", Description: "Collect from a terminal or locker", Price: 3.49, EstimatedDays: "2-4", RequiresPickupPoint: true},
	},
	"PL": {
		{ID: "dpd-courier", Name: "DPD Courier", Description: "Delivery to your door", Price: 8.99, EstimatedDays: "3-5", RequiresPickupPoint: false},
	},
}

// internationalMethods is the fallback set for countries not in the table.
// Returning it instead of an empty list keeps an unlisted destination from
// stranding the customer.
var internationalMethods = []domain.ShippingMethod{
	{ID: "international-standard", Name: "International Standard", Description: "Tracked international delivery", Price: 14.99, EstimatedDays: "7-14", RequiresPickupPoint: false},
	{ID: "international-express", Name: "International Express", Description: "Priority international delivery", Price: 24.99, EstimatedDays: "3-5", RequiresPickupPoint: false},
}

// Resolve returns the ordered shipping methods for the destination, with the
// free-shipping rule applied. Pure: same inputs, same output, always
// non-empty. Callers re-resolve whenever country or subtotal changes.
func Resolve(country string, subtotal float64) []domain.ShippingMethod {
	src, ok := methodTable[country]
	if !ok {
		src = internationalMethods
	}

	methods := make([]domain.ShippingMethod, len(src))
	copy(methods, src)

	if country == HomeCountry && subtotal >= FreeShippingThreshold {
		for i := range methods {
			if methods[i].ID == freeShippingMethodID {
				methods[i].Price = 0
			}
		}
	}

	return methods
}

// CostFor looks up the price of the selected method in the resolved list.
// An id that is not in the list means "not yet selected" and costs 0.
func CostFor(selectedID string, methods []domain.ShippingMethod) float64 {
	for _, m := range methods {
		if m.ID == selectedID {
			return m.Price
		}
	}
	return 0
}

// MethodFor returns the resolved method by id, or nil when absent.
func MethodFor(selectedID string, methods []domain.ShippingMethod) *domain.ShippingMethod {
	for i := range methods {
		if methods[i].ID == selectedID {
			return &methods[i]
		}
	}
	return nil
}
