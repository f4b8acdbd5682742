package models

import "time"

// Cart holds a customer's pending items. One cart per customer.
type Cart struct {
	Base
	CustomerID string `gorm:"type:uuid;not null;uniqueIndex" json:"customer_id"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// CartItem is a product reserved in a cart. While blocked, the quantity
// counts against the product's available stock until ExpiresAt.
type CartItem struct {
	Base
	CartID    string     `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID string     `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int        `gorm:"not null" json:"quantity"`
	IsBlocked bool       `gorm:"default:false" json:"is_blocked"`
	BlockedAt *time.Time `json:"blocked_at,omitempty"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
