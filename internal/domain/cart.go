package domain

// ProductInfo is the slice of catalog data the checkout needs per item.
// Owned by the catalog service; treated as read-only input here.
type ProductInfo struct {
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Image          string   `json:"image"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty"`
}

// VariantInfo overrides product-level data when the customer picked a variant.
type VariantInfo struct {
	Size           string   `json:"size"`
	Image          string   `json:"image"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty"`
}

type CartItem struct {
	ID        string       `json:"id"`
	ProductID string       `json:"product_id"`
	VariantID *string      `json:"variant_id,omitempty"`
	Quantity  int          `json:"quantity"`
	Product   ProductInfo  `json:"product"`
	Variant   *VariantInfo `json:"variant,omitempty"`
}

// UnitPrice returns the effective per-unit price: the variant price when a
// variant is selected, the product price otherwise.
func (i CartItem) UnitPrice() float64 {
	if i.Variant != nil {
		return i.Variant.Price
	}
	return i.Product.Price
}

// CompareAtPrice returns the effective pre-discount unit price, or nil when
// the item is not discounted.
func (i CartItem) CompareAtPrice() *float64 {
	if i.Variant != nil && i.Variant.CompareAtPrice != nil {
		return i.Variant.CompareAtPrice
	}
	return i.Product.CompareAtPrice
}
