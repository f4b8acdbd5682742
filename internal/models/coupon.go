package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponType distinguishes promotional coupons from exchange/change coupons.
type CouponType string

const (
	CouponTypePromotional CouponType = "promotional"
	CouponTypeExchange    CouponType = "exchange"
)

// Coupon is a single-use payment voucher, optionally bound to a customer.
type Coupon struct {
	Base
	Code       string          `gorm:"uniqueIndex;not null" json:"code"`
	Type       CouponType      `gorm:"not null" json:"type"`
	Value      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"value"`
	CustomerID *string         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	IsUsed     bool            `gorm:"default:false" json:"is_used"`
	UsedAt     *time.Time      `json:"used_at,omitempty"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
}
