package models

// CardBrand is a catalog of accepted card brands.
type CardBrand struct {
	Base
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// CreditCard is a customer payment card.
type CreditCard struct {
	Base
	CustomerID  string `gorm:"type:uuid;not null;index" json:"customer_id"`
	CardBrandID string `gorm:"type:uuid;not null" json:"card_brand_id"`
	Number      string `gorm:"not null" json:"number"`
	HolderName  string `gorm:"not null" json:"holder_name"`
	CVV         string `gorm:"column:cvv" json:"-"`
	IsPreferred bool   `gorm:"default:false" json:"is_preferred"`

	CardBrand *CardBrand `gorm:"foreignKey:CardBrandID" json:"card_brand,omitempty"`
}
