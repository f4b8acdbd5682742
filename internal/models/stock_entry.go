package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry records a batch of units received from a supplier.
type StockEntry struct {
	Base
	ProductID  string          `gorm:"type:uuid;not null;index" json:"product_id"`
	SupplierID string          `gorm:"type:uuid;not null" json:"supplier_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	CostValue  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_value"`
	EntryDate  time.Time       `gorm:"not null" json:"entry_date"`
	IsReentry  bool            `gorm:"default:false" json:"is_reentry"`

	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}
