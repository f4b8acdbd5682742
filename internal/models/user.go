package models

// UserRole distinguishes employee and customer logins.
type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleCustomer UserRole = "customer"
)

// User represents a login account. The user store is intentionally
// excluded from audit interception.
type User struct {
	Base
	Email      string   `gorm:"uniqueIndex;not null" json:"email"`
	Password   string   `gorm:"not null" json:"-"`
	Role       UserRole `gorm:"not null;default:customer" json:"role"`
	IsActive   bool     `gorm:"default:true" json:"is_active"`
	CustomerID *string  `gorm:"type:uuid" json:"customer_id,omitempty"`
}
