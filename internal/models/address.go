package models

// Address is a customer delivery or billing address.
type Address struct {
	Base
	CustomerID string `gorm:"type:uuid;not null;index" json:"customer_id"`
	Label      string `json:"label"`
	Street     string `gorm:"not null" json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	City       string `gorm:"not null" json:"city"`
	State      string `gorm:"not null" json:"state"`
	Country    string `gorm:"not null" json:"country"`
	ZipCode    string `json:"zip_code"`
}
