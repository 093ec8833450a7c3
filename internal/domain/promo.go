package domain

type PromoKind string

const (
	PromoPercentage PromoKind = "percentage"
	PromoFixed      PromoKind = "fixed"
)

// AppliedPromoCode is created only from a successful validator response.
// DiscountAmount is taken verbatim from the validator and never recomputed
// locally, so the displayed and charged amounts cannot drift.
type AppliedPromoCode struct {
	Code           string    `json:"code"`
	Kind           PromoKind `json:"kind"`
	Value          float64   `json:"value"`
	DiscountAmount float64   `json:"discount_amount"`
}
