package models

import "time"

// Supplier provides stock for products.
type Supplier struct {
	Base
	Name          string     `gorm:"not null" json:"name"`
	LegalName     string     `json:"legal_name"`
	CNPJ          string     `gorm:"column:cnpj;uniqueIndex" json:"cnpj"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}
