package models

// StatusChangeType records whether a change activated or deactivated a product.
type StatusChangeType string

const (
	StatusChangeActivate   StatusChangeType = "activate"
	StatusChangeDeactivate StatusChangeType = "deactivate"
)

// StatusChangeCategory records why the status changed.
type StatusChangeCategory string

const (
	StatusCategoryManual      StatusChangeCategory = "manual"
	StatusCategoryOutOfMarket StatusChangeCategory = "out_of_market"
)

// StatusChange is one entry in a product's activation history.
type StatusChange struct {
	Base
	ProductID string               `gorm:"type:uuid;not null;index" json:"product_id"`
	Type      StatusChangeType     `gorm:"not null" json:"type"`
	Category  StatusChangeCategory `gorm:"not null" json:"category"`
	Reason    string               `gorm:"not null" json:"reason"`
}
