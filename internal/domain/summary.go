package domain

// OrderSummary is the derived price breakdown shown on every step and sent
// with the final submission. It is recomputed from cart items and selected
// options on every read, never cached or mutated in place.
//
// All amounts are VAT-inclusive unless suffixed ExclVat.
type OrderSummary struct {
	Items             []CartItem `json:"items"`
	OriginalSubtotal  float64    `json:"original_subtotal"`
	ProductDiscount   float64    `json:"product_discount"`
	Subtotal          float64    `json:"subtotal"`
	SubtotalExclVat   float64    `json:"subtotal_excl_vat"`
	VatAmount         float64    `json:"vat_amount"`
	Shipping          float64    `json:"shipping"`
	PromoCodeDiscount float64    `json:"promo_code_discount"`
	Total             float64    `json:"total"`
}

// OrderPayload is handed to the external order-submission collaborator.
// Unit prices are locked in at submission time.
type OrderPayload struct {
	IdempotencyKey  string             `json:"idempotency_key"`
	UserID          string             `json:"user_id,omitempty"`
	Contact         ContactInformation `json:"contact"`
	ShippingAddress ShippingAddress    `json:"shipping_address"`
	BillingAddress  ShippingAddress    `json:"billing_address"`
	ShippingMethod  ShippingMethod     `json:"shipping_method"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`
	PickupPoint     *PickupPoint       `json:"pickup_point,omitempty"`
	PromoCode       *AppliedPromoCode  `json:"promo_code,omitempty"`
	Summary         OrderSummary       `json:"summary"`
}
