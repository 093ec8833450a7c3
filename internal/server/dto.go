package server

import (
	"github.com/blekas10/shopnatural-checkout/internal/cart"
	"github.com/blekas10/shopnatural-checkout/internal/checkout"
	"github.com/blekas10/shopnatural-checkout/internal/domain"
	"github.com/blekas10/shopnatural-checkout/internal/pricing"
	"github.com/go-playground/validator/v10"
)

// validate covers transport-edge shape checks on request bodies. Business
// validation (per-country rules, step gates) lives in the engine.
var validate = validator.New()

type CartItemDTO struct {
	ID        string          `json:"id" validate:"required"`
	ProductID string          `json:"product_id" validate:"required"`
	VariantID *string         `json:"variant_id"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Product   ProductInfoDTO  `json:"product" validate:"required"`
	Variant   *VariantInfoDTO `json:"variant"`
}

type ProductInfoDTO struct {
	Name           string   `json:"name" validate:"required"`
	Slug           string   `json:"slug"`
	Image          string   `json:"image"`
	Price          float64  `json:"price" validate:"gte=0"`
	CompareAtPrice *float64 `json:"compare_at_price"`
}

type VariantInfoDTO struct {
	Size           string   `json:"size"`
	Image          string   `json:"image"`
	Price          float64  `json:"price" validate:"gte=0"`
	CompareAtPrice *float64 `json:"compare_at_price"`
}

func (d CartItemDTO) toDomain() domain.CartItem {
	item := domain.CartItem{
		ID:        d.ID,
		ProductID: d.ProductID,
		VariantID: d.VariantID,
		Quantity:  d.Quantity,
		Product: domain.ProductInfo{
			Name:           d.Product.Name,
			Slug:           d.Product.Slug,
			Image:          d.Product.Image,
			Price:          d.Product.Price,
			CompareAtPrice: d.Product.CompareAtPrice,
		},
	}
	if d.Variant != nil {
		item.Variant = &domain.VariantInfo{
			Size:           d.Variant.Size,
			Image:          d.Variant.Image,
			Price:          d.Variant.Price,
			CompareAtPrice: d.Variant.CompareAtPrice,
		}
	}
	return item
}

func toDomainItems(dtos []CartItemDTO) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, d.toDomain())
	}
	return items
}

type UserProfileDTO struct {
	ID       string `json:"id" validate:"required"`
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

type CreateCheckoutRequestDTO struct {
	Items []CartItemDTO   `json:"items" validate:"required,min=1,dive"`
	User  *UserProfileDTO `json:"user"`
}

type ContactRequestDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type AddressRequestDTO struct {
	ShippingAddress       AddressDTO  `json:"shipping_address" validate:"required"`
	BillingAddress        *AddressDTO `json:"billing_address"`
	BillingSameAsShipping bool        `json:"billing_same_as_shipping"`
}

type AddressDTO struct {
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country" validate:"omitempty,len=2"`
}

func (d AddressDTO) toDomain() domain.ShippingAddress {
	return domain.ShippingAddress{
		AddressLine1: d.AddressLine1,
		AddressLine2: d.AddressLine2,
		City:         d.City,
		State:        d.State,
		PostalCode:   d.PostalCode,
		Country:      d.Country,
	}
}

type StepRequestDTO struct {
	Step int `json:"step" validate:"required,min=1,max=4"`
}

type ShippingSelectionDTO struct {
	MethodID string `json:"method_id" validate:"required"`
}

type PaymentRequestDTO struct {
	Method       string          `json:"method" validate:"required,oneof=card cod"`
	Card         *CardDetailsDTO `json:"card"`
	AgreeToTerms bool            `json:"agree_to_terms"`
}

type CardDetailsDTO struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

type PromoRequestDTO struct {
	Code string `json:"code" validate:"required"`
}

type PickupSelectionDTO struct {
	ID string `json:"id" validate:"required"`
}

type RestoreRequestDTO struct {
	Items []CartItemDTO `json:"items" validate:"required,min=1,dive"`
}

type CartPreviewRequestDTO struct {
	Items         []CartItemDTO      `json:"items" validate:"dive"`
	PendingUpdate *PendingUpdateDTO  `json:"pending_update"`
	PendingQueue  []PendingUpdateDTO `json:"pending_queue"`
}

type PendingUpdateDTO struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity"`
}

func (d PendingUpdateDTO) toDomain() cart.PendingUpdate {
	return cart.PendingUpdate{ItemID: d.ItemID, Quantity: d.Quantity}
}

// SummaryDTO is the wire form of the price breakdown, rounded to cents at
// the edge only.
type SummaryDTO struct {
	Items             []domain.CartItem `json:"items"`
	OriginalSubtotal  float64           `json:"original_subtotal"`
	ProductDiscount   float64           `json:"product_discount"`
	Subtotal          float64           `json:"subtotal"`
	SubtotalExclVat   float64           `json:"subtotal_excl_vat"`
	VatAmount         float64           `json:"vat_amount"`
	Shipping          float64           `json:"shipping"`
	PromoCodeDiscount float64           `json:"promo_code_discount"`
	Total             float64           `json:"total"`
}

func toSummaryDTO(s domain.OrderSummary) SummaryDTO {
	return SummaryDTO{
		Items:             s.Items,
		OriginalSubtotal:  pricing.Round2(s.OriginalSubtotal),
		ProductDiscount:   pricing.Round2(s.ProductDiscount),
		Subtotal:          pricing.Round2(s.Subtotal),
		SubtotalExclVat:   pricing.Round2(s.SubtotalExclVat),
		VatAmount:         pricing.Round2(s.VatAmount),
		Shipping:          pricing.Round2(s.Shipping),
		PromoCodeDiscount: pricing.Round2(s.PromoCodeDiscount),
		Total:             pricing.Round2(s.Total),
	}
}

type SessionResponseDTO struct {
	SessionID              string                    `json:"session_id"`
	CurrentStep            int                       `json:"current_step"`
	CompletedSteps         []int                     `json:"completed_steps"`
	Contact                domain.ContactInformation `json:"contact"`
	ShippingAddress        domain.ShippingAddress    `json:"shipping_address"`
	BillingAddress         domain.ShippingAddress    `json:"billing_address"`
	BillingSameAsShipping  bool                      `json:"billing_same_as_shipping"`
	SelectedShippingMethod string                    `json:"selected_shipping_method,omitempty"`
	SelectedPaymentMethod  domain.PaymentMethod      `json:"selected_payment_method,omitempty"`
	AgreeToTerms           bool                      `json:"agree_to_terms"`
	ShippingMethods        []domain.ShippingMethod   `json:"shipping_methods"`
	PromoCode              *domain.AppliedPromoCode  `json:"promo_code,omitempty"`
	PromoError             string                    `json:"promo_error,omitempty"`
	PickupPoint            *domain.PickupPoint       `json:"pickup_point,omitempty"`
	Summary                SummaryDTO                `json:"summary"`
}

func (h *CheckoutHandler) sessionView(s *checkout.Session) SessionResponseDTO {
	v := s.View()
	return SessionResponseDTO{
		SessionID:              v.ID,
		CurrentStep:            v.CurrentStep,
		CompletedSteps:         v.CompletedSteps,
		Contact:                v.Contact,
		ShippingAddress:        v.ShippingAddr,
		BillingAddress:         v.BillingAddr,
		BillingSameAsShipping:  v.BillingSameAsShipping,
		SelectedShippingMethod: v.SelectedShippingMethodID,
		SelectedPaymentMethod:  v.SelectedPaymentMethod,
		AgreeToTerms:           v.AgreeToTerms,
		ShippingMethods:        h.engine.ShippingMethods(s),
		PromoCode:              h.engine.Promo(s).Applied(),
		PromoError:             h.engine.Promo(s).LastError(),
		PickupPoint:            h.engine.Pickup(s).Selected(),
		Summary:                toSummaryDTO(h.engine.Summary(s)),
	}
}
