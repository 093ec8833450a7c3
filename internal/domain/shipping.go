package domain

type ShippingMethod struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	Price               float64 `json:"price"`
	EstimatedDays       string  `json:"estimated_days"`
	RequiresPickupPoint bool    `json:"requires_pickup_point"`
}

type PickupPointType string

const (
	PickupTerminal PickupPointType = "terminal"
	PickupLocker   PickupPointType = "locker"
)

type PickupPoint struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Address    string          `json:"address"`
	City       string          `json:"city"`
	Zip        string          `json:"zip"`
	Country    string          `json:"country"`
	Type       PickupPointType `json:"type"`
	CODEnabled bool            `json:"cod_enabled"`
}
