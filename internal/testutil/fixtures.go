package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"rpgshop/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCustomer creates an active customer with unique identifiers.
func CreateTestCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()

	n := nextID()
	customer := &models.Customer{
		Gender:       models.GenderUndisclosed,
		Name:         fmt.Sprintf("Test Customer %d", n),
		CPF:          fmt.Sprintf("%011d", n),
		Email:        fmt.Sprintf("customer%d@test.com", n),
		Ranking:      decimal.Zero,
		CustomerCode: fmt.Sprintf("CUST-%08d", n),
		IsActive:     true,
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("failed to create test customer: %v", err)
	}
	return customer
}

// CreateTestAddress creates an address for the customer. State and country
// default to SP / BR; override on the returned value and save if a test
// needs a different destination.
func CreateTestAddress(t *testing.T, db *gorm.DB, customerID string) *models.Address {
	t.Helper()

	address := &models.Address{
		CustomerID: customerID,
		Street:     fmt.Sprintf("Rua Teste %d", nextID()),
		Number:     "42",
		City:       "São Paulo",
		State:      "SP",
		Country:    "BR",
		ZipCode:    "01000-000",
	}
	if err := db.Create(address).Error; err != nil {
		t.Fatalf("failed to create test address: %v", err)
	}
	return address
}

// CreateTestCardBrand creates a card brand.
func CreateTestCardBrand(t *testing.T, db *gorm.DB) *models.CardBrand {
	t.Helper()

	brand := &models.CardBrand{
		Name:     fmt.Sprintf("Brand %d", nextID()),
		IsActive: true,
	}
	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("failed to create test card brand: %v", err)
	}
	return brand
}

// CreateTestCreditCard creates a credit card with the given number.
func CreateTestCreditCard(t *testing.T, db *gorm.DB, customerID, number string) *models.CreditCard {
	t.Helper()

	brand := CreateTestCardBrand(t, db)
	card := &models.CreditCard{
		CustomerID:  customerID,
		CardBrandID: brand.ID,
		Number:      number,
		HolderName:  "TEST HOLDER",
		CVV:         "123",
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test credit card: %v", err)
	}
	return card
}

// CreateTestSupplier creates an active supplier.
func CreateTestSupplier(t *testing.T, db *gorm.DB) *models.Supplier {
	t.Helper()

	n := nextID()
	supplier := &models.Supplier{
		Name:     fmt.Sprintf("Test Supplier %d", n),
		CNPJ:     fmt.Sprintf("%014d", n),
		IsActive: true,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("failed to create test supplier: %v", err)
	}
	return supplier
}

// CreateTestPricingGroup creates a pricing group with the given margin.
func CreateTestPricingGroup(t *testing.T, db *gorm.DB, margin string) *models.PricingGroup {
	t.Helper()

	group := &models.PricingGroup{
		Name:             fmt.Sprintf("Group %d", nextID()),
		MarginPercentage: decimal.RequireFromString(margin),
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test pricing group: %v", err)
	}
	return group
}

// CreateTestProductType creates a product type.
func CreateTestProductType(t *testing.T, db *gorm.DB) *models.ProductType {
	t.Helper()

	productType := &models.ProductType{
		Name: fmt.Sprintf("Type %d", nextID()),
	}
	if err := db.Create(productType).Error; err != nil {
		t.Fatalf("failed to create test product type: %v", err)
	}
	return productType
}

// CreateTestCategory creates a category.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestProduct creates an active product with the given sale price
// and stock.
func CreateTestProduct(t *testing.T, db *gorm.DB, salePrice string, stock int) *models.Product {
	t.Helper()

	productType := CreateTestProductType(t, db)
	group := CreateTestPricingGroup(t, db, "50.00")

	n := nextID()
	product := &models.Product{
		Name:           fmt.Sprintf("Test Product %d", n),
		ProductTypeID:  productType.ID,
		PricingGroupID: group.ID,
		Weight:         decimal.RequireFromString("0.500"),
		SKU:            fmt.Sprintf("SKU-%06d", n),
		CostPrice:      decimal.RequireFromString(salePrice).Div(decimal.RequireFromString("1.5")).Round(2),
		SalePrice:      decimal.RequireFromString(salePrice),
		StockQuantity:  stock,
		IsActive:       true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestCoupon creates an unused coupon owned by the customer.
func CreateTestCoupon(t *testing.T, db *gorm.DB, customerID string, couponType models.CouponType, value string) *models.Coupon {
	t.Helper()

	expires := time.Now().UTC().Add(30 * 24 * time.Hour)
	coupon := &models.Coupon{
		Code:       fmt.Sprintf("TEST-%08d", nextID()),
		Type:       couponType,
		Value:      decimal.RequireFromString(value),
		CustomerID: &customerID,
		ExpiresAt:  &expires,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("failed to create test coupon: %v", err)
	}
	return coupon
}

// CreateTestOrder creates an order in the given status with one item.
func CreateTestOrder(t *testing.T, db *gorm.DB, customerID string, status models.OrderStatus) *models.Order {
	t.Helper()

	address := CreateTestAddress(t, db, customerID)
	product := CreateTestProduct(t, db, "30.00", 10)

	order := &models.Order{
		CustomerID:        customerID,
		Status:            status,
		DeliveryAddressID: address.ID,
		Subtotal:          decimal.RequireFromString("60.00"),
		FreightCost:       decimal.RequireFromString("5.50"),
		Total:             decimal.RequireFromString("65.50"),
		PurchasedAt:       time.Now().UTC(),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to create test order: %v", err)
	}

	item := &models.OrderItem{
		OrderID:    order.ID,
		ProductID:  product.ID,
		Quantity:   2,
		UnitPrice:  decimal.RequireFromString("30.00"),
		TotalPrice: decimal.RequireFromString("60.00"),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test order item: %v", err)
	}
	order.Items = []models.OrderItem{*item}
	return order
}
