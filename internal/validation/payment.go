package validation

import (
	"strings"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
)

const (
	cardNumberMinDigits = 13
	cardNumberMaxDigits = 19
)

// ValidatePayment checks payment-method-specific fields. Cash on delivery
// needs nothing beyond the method itself; card payments need minimally
// well-formed card fields. The gateway performs the real card checks.
func (v *Validator) ValidatePayment(method domain.PaymentMethod, card *domain.CardDetails) FieldErrors {
	fe := FieldErrors{}

	switch method {
	case domain.PaymentCashOnDelivery:
		return fe
	case domain.PaymentCard:
		if card == nil {
			fe["cardNumber"] = v.msg("checkout.errors.card_required", "Card details are required")
			return fe
		}
		digits := digitsOnly(card.Number)
		if len(digits) < cardNumberMinDigits || len(digits) > cardNumberMaxDigits {
			fe["cardNumber"] = v.msg("checkout.errors.card_number_invalid", "Enter a valid card number")
		}
		if !validExpiry(card.Expiry) {
			fe["cardExpiry"] = v.msg("checkout.errors.card_expiry_invalid", "Use MM/YY format")
		}
		cvv := strings.TrimSpace(card.CVV)
		if len(cvv) < 3 || len(cvv) > 4 || digitsOnly(cvv) != cvv {
			fe["cardCvv"] = v.msg("checkout.errors.card_cvv_invalid", "Enter a valid CVV")
		}
		if strings.TrimSpace(card.HolderName) == "" {
			fe["cardHolderName"] = v.msg("checkout.errors.card_holder_required", "Cardholder name is required")
		}
	default:
		fe["paymentMethod"] = v.msg("checkout.errors.payment_method_required", "Select a payment method")
	}

	return fe
}

// validExpiry accepts exactly MM/YY with a month in 01-12.
func validExpiry(s string) bool {
	if len(s) != 5 || s[2] != '/' {
		return false
	}
	mm, yy := s[:2], s[3:]
	if digitsOnly(mm) != mm || digitsOnly(yy) != yy {
		return false
	}
	return mm >= "01" && mm <= "12"
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
