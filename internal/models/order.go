package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusApproved   OrderStatus = "approved"
	OrderStatusRejected   OrderStatus = "rejected"
	OrderStatusInTransit  OrderStatus = "in_transit"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusInExchange OrderStatus = "in_exchange"
	OrderStatusExchanged  OrderStatus = "exchanged"
)

// Order is a customer purchase.
type Order struct {
	Base
	CustomerID        string          `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status            OrderStatus     `gorm:"not null;index" json:"status"`
	DeliveryAddressID string          `gorm:"type:uuid;not null" json:"delivery_address_id"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	FreightCost       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"freight_cost"`
	Total             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	PurchasedAt       time.Time       `gorm:"not null" json:"purchased_at"`
	DispatchedAt      *time.Time      `json:"dispatched_at,omitempty"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`

	Customer        *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	DeliveryAddress *Address       `gorm:"foreignKey:DeliveryAddressID" json:"delivery_address,omitempty"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments        []OrderPayment `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// OrderItem is one product line on an order.
type OrderItem struct {
	Base
	OrderID    string          `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID  string          `gorm:"type:uuid;not null" json:"product_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// OrderPayment allocates part of an order total to a card, a coupon, or both.
type OrderPayment struct {
	Base
	OrderID      string          `gorm:"type:uuid;not null;index" json:"order_id"`
	CreditCardID *string         `gorm:"type:uuid" json:"credit_card_id,omitempty"`
	CouponID     *string         `gorm:"type:uuid" json:"coupon_id,omitempty"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	CreditCard *CreditCard `gorm:"foreignKey:CreditCardID" json:"credit_card,omitempty"`
	Coupon     *Coupon     `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
}
