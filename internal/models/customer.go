package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gender of a customer, as self-reported at registration.
type Gender string

const (
	GenderFemale      Gender = "female"
	GenderMale        Gender = "male"
	GenderOther       Gender = "other"
	GenderUndisclosed Gender = "undisclosed"
)

// Customer represents a shopper.
type Customer struct {
	Base
	Gender        Gender          `gorm:"not null;default:undisclosed" json:"gender"`
	Name          string          `gorm:"not null" json:"name"`
	DateOfBirth   *time.Time      `json:"date_of_birth,omitempty"`
	CPF           string          `gorm:"column:cpf;uniqueIndex" json:"cpf"`
	Email         string          `gorm:"uniqueIndex;not null" json:"email"`
	Ranking       decimal.Decimal `gorm:"type:numeric(5,2)" json:"ranking"`
	CustomerCode  string          `gorm:"uniqueIndex" json:"customer_code"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	DeactivatedAt *time.Time      `json:"deactivated_at,omitempty"`

	// Relationships
	Phones      []Phone      `gorm:"foreignKey:CustomerID" json:"phones,omitempty"`
	Addresses   []Address    `gorm:"foreignKey:CustomerID" json:"addresses,omitempty"`
	CreditCards []CreditCard `gorm:"foreignKey:CustomerID" json:"credit_cards,omitempty"`
}
