package models

import "time"

// ExchangeStatus is the lifecycle state of an exchange request.
type ExchangeStatus string

const (
	ExchangeStatusRequested  ExchangeStatus = "requested"
	ExchangeStatusAuthorized ExchangeStatus = "authorized"
	ExchangeStatusDenied     ExchangeStatus = "denied"
	ExchangeStatusCompleted  ExchangeStatus = "completed"
)

// ExchangeRequest tracks a customer returning items from a delivered order.
type ExchangeRequest struct {
	Base
	OrderID       string         `gorm:"type:uuid;not null;index" json:"order_id"`
	OrderItemID   string         `gorm:"type:uuid;not null;index" json:"order_item_id"`
	Quantity      int            `gorm:"not null" json:"quantity"`
	Status        ExchangeStatus `gorm:"not null;index" json:"status"`
	Reason        string         `gorm:"not null" json:"reason"`
	AuthorizedAt  *time.Time     `json:"authorized_at,omitempty"`
	ReceivedAt    *time.Time     `json:"received_at,omitempty"`
	ReturnToStock bool           `gorm:"default:false" json:"return_to_stock"`
	CouponID      *string        `gorm:"type:uuid" json:"coupon_id,omitempty"`

	Order     *Order     `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	OrderItem *OrderItem `gorm:"foreignKey:OrderItemID" json:"order_item,omitempty"`
	Coupon    *Coupon    `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
}
