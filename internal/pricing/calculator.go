package pricing

import (
	"log"
	"math"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
)

// DefaultVatRate is the single inclusive VAT rate applied to the whole cart.
const DefaultVatRate = 0.21

// Calculate derives the full price breakdown from a cart snapshot plus the
// selected shipping cost and the externally validated promo discount.
//
// Amounts are kept in floating currency units; rounding happens only at
// display time (see Round2). The promo discount is subtracted after shipping
// is added, so total = subtotal + shipping - promo.
func Calculate(items []domain.CartItem, vatRate, shippingCost, promoDiscount float64) domain.OrderSummary {
	var originalSubtotal, subtotal float64
	for _, item := range items {
		unit := item.UnitPrice()
		original := unit
		if compareAt := item.CompareAtPrice(); compareAt != nil {
			original = *compareAt
		}
		originalSubtotal += original * float64(item.Quantity)
		subtotal += unit * float64(item.Quantity)
	}

	productDiscount := originalSubtotal - subtotal
	if productDiscount < 0 {
		// compareAtPrice below the current price is a catalog data problem,
		// not a checkout one. Clamp and keep going.
		log.Printf("pricing: negative product discount %.4f clamped to 0", productDiscount)
		productDiscount = 0
		originalSubtotal = subtotal
	}

	subtotalExclVat := subtotal / (1 + vatRate)
	total := subtotal + shippingCost - promoDiscount
	if total < 0 {
		log.Printf("pricing: promo discount %.2f drove total negative (%.2f)", promoDiscount, total)
	}

	return domain.OrderSummary{
		Items:             items,
		OriginalSubtotal:  originalSubtotal,
		ProductDiscount:   productDiscount,
		Subtotal:          subtotal,
		SubtotalExclVat:   subtotalExclVat,
		VatAmount:         subtotal - subtotalExclVat,
		Shipping:          shippingCost,
		PromoCodeDiscount: promoDiscount,
		Total:             total,
	}
}

// CartSummary is the pre-checkout view: the same calculator with shipping and
// promo zeroed, so the cart page and the checkout always agree on the numbers.
func CartSummary(items []domain.CartItem, vatRate float64) domain.OrderSummary {
	return Calculate(items, vatRate, 0, 0)
}

// Round2 rounds a currency amount to 2 decimals for display/serialization.
// Intermediate values are never rounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
