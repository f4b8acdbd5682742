package models

// PhoneType classifies a customer phone number.
type PhoneType string

const (
	PhoneTypeMobile   PhoneType = "mobile"
	PhoneTypeHome     PhoneType = "home"
	PhoneTypeBusiness PhoneType = "business"
)

// Phone is a customer contact number.
type Phone struct {
	Base
	CustomerID string    `gorm:"type:uuid;not null;index" json:"customer_id"`
	Type       PhoneType `gorm:"not null;default:mobile" json:"type"`
	AreaCode   string    `json:"area_code"`
	Number     string    `gorm:"not null" json:"number"`
}
