package models

// DefaultShippingCost applies when a listing carries no shipping cost.
const DefaultShippingCost = 15.00

// Seller is the public identity attached to a listing.
type Seller struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// MarketplaceItem is a listing available for purchase.
type MarketplaceItem struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Price        string   `json:"price"`
	ImageURL     string   `json:"imageUrl"`
	Description  string   `json:"description"`
	Seller       Seller   `json:"seller"`
	IsNew        bool     `json:"isNew,omitempty"`
	OnSale       *string  `json:"onSale,omitempty"`
	ShippingCost *float64 `json:"shippingCost,omitempty"`
}

// Shipping returns the item's shipping cost or DefaultShippingCost.
func (i *MarketplaceItem) Shipping() float64 {
	if i.ShippingCost == nil || *i.ShippingCost == 0 {
		return DefaultShippingCost
	}
	return *i.ShippingCost
}
