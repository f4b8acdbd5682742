package models

import "github.com/shopspring/decimal"

// ProductType groups products by kind (rulebook, dice set, miniature...).
type ProductType struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

// Category is a browsing category a product can belong to.
type Category struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
}

// PricingGroup defines the margin applied over a product's cost price.
type PricingGroup struct {
	Base
	Name             string          `gorm:"uniqueIndex;not null" json:"name"`
	MarginPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"margin_percentage"`
}

// Product is a sellable catalog item. IsActive mirrors the newest
// StatusChange so availability checks don't need the full history.
type Product struct {
	Base
	Name          string          `gorm:"not null" json:"name"`
	ProductTypeID string          `gorm:"type:uuid;not null" json:"product_type_id"`
	PricingGroupID string         `gorm:"type:uuid;not null" json:"pricing_group_id"`
	Height        decimal.Decimal `gorm:"type:numeric(8,2)" json:"height"`
	Width         decimal.Decimal `gorm:"type:numeric(8,2)" json:"width"`
	Depth         decimal.Decimal `gorm:"type:numeric(8,2)" json:"depth"`
	Weight        decimal.Decimal `gorm:"type:numeric(8,3);not null" json:"weight"`
	Barcode       string          `gorm:"index" json:"barcode"`
	SKU           string          `gorm:"column:sku;index" json:"sku"`
	CostPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"cost_price"`
	SalePrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"sale_price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`

	ProductType   *ProductType   `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	PricingGroup  *PricingGroup  `gorm:"foreignKey:PricingGroupID" json:"pricing_group,omitempty"`
	Categories    []Category     `gorm:"many2many:product_categories" json:"categories,omitempty"`
	StatusChanges []StatusChange `gorm:"foreignKey:ProductID" json:"status_changes,omitempty"`
}
