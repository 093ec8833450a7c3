package domain

import "time"

type ContactInformation struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type ShippingAddress struct {
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"` // ISO-3166 alpha-2
}

type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

// CardDetails is validated for shape only; the gateway owns the actual charge.
type CardDetails struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

// CheckoutSnapshot is the serialized form state written to the durable store
// immediately before handing off to payment, and read back exactly once on
// return. Restorable only while fresh and only by the same user.
type CheckoutSnapshot struct {
	Contact                ContactInformation `json:"contact"`
	ShippingAddress        ShippingAddress    `json:"shipping_address"`
	BillingAddress         ShippingAddress    `json:"billing_address"`
	BillingSameAsShipping  bool               `json:"billing_same_as_shipping"`
	SelectedShippingMethod string             `json:"selected_shipping_method"`
	SelectedPaymentMethod  PaymentMethod      `json:"selected_payment_method"`
	SelectedPickupPointID  string             `json:"selected_pickup_point_id,omitempty"`
	AgreeToTerms           bool               `json:"agree_to_terms"`
	UserID                 string             `json:"user_id,omitempty"`
	Timestamp              time.Time          `json:"timestamp"`
}
