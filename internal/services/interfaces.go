package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// UserFilter holds optional filters for listing login accounts.
type UserFilter struct {
	Email    string
	Role     *models.UserRole
	IsActive *bool
}

// UserServicer defines the contract for login accounts. The user store is
// deliberately not audited.
type UserServicer interface {
	CreateUser(email, password string, role models.UserRole, customerID *string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword string) error
	QueryUsers(page pagination.PageRequest, filter UserFilter) (*pagination.PageResponse[models.User], error)
}

// CreateCustomerInput holds the fields for registering a customer.
type CreateCustomerInput struct {
	Gender      models.Gender
	Name        string
	DateOfBirth *time.Time
	CPF         string
	Email       string
	Password    string
}

// UpdateCustomerInput holds the updatable customer fields.
type UpdateCustomerInput struct {
	Gender      models.Gender
	Name        string
	DateOfBirth *time.Time
	Email       string
}

// AddressInput holds the fields for adding a customer address.
type AddressInput struct {
	Label      string
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	Country    string
	ZipCode    string
}

// PhoneInput holds the fields for adding a customer phone.
type PhoneInput struct {
	Type     models.PhoneType
	AreaCode string
	Number   string
}

// CreditCardInput holds the fields for adding a customer credit card.
type CreditCardInput struct {
	CardBrandID string
	Number      string
	HolderName  string
	CVV         string
	IsPreferred bool
}

// CustomerFilter holds optional filters for listing customers.
type CustomerFilter struct {
	Name     string
	Email    string
	CPF      string
	IsActive *bool
}

// CustomerServicer defines the contract for customer-related business logic.
type CustomerServicer interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, input UpdateCustomerInput) (*models.Customer, error)
	DeactivateCustomer(ctx context.Context, customerID string) (*models.Customer, error)
	AddAddress(ctx context.Context, customerID string, input AddressInput) (*models.Address, error)
	AddPhone(ctx context.Context, customerID string, input PhoneInput) (*models.Phone, error)
	AddCreditCard(ctx context.Context, customerID string, input CreditCardInput) (*models.CreditCard, error)
	GetCustomerByID(customerID string) (*models.Customer, error)
	QueryCustomers(page pagination.PageRequest, filter CustomerFilter) (*pagination.PageResponse[models.Customer], error)
}

// SupplierInput holds the fields for registering a supplier.
type SupplierInput struct {
	Name      string
	LegalName string
	CNPJ      string
	Email     string
	Phone     string
}

// SupplierServicer defines the contract for supplier-related business logic.
type SupplierServicer interface {
	CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	DeactivateSupplier(ctx context.Context, supplierID string) (*models.Supplier, error)
	GetSupplierByID(supplierID string) (*models.Supplier, error)
	GetSuppliers(page pagination.PageRequest) (*pagination.PageResponse[models.Supplier], error)
}

// CreateProductInput holds the fields for registering a product.
type CreateProductInput struct {
	Name           string
	ProductTypeID  string
	CategoryIDs    []string
	PricingGroupID string
	Height         decimal.Decimal
	Width          decimal.Decimal
	Depth          decimal.Decimal
	Weight         decimal.Decimal
	Barcode        string
	SKU            string
	CostPrice      decimal.Decimal
}

// UpdateProductInput holds the updatable product fields.
type UpdateProductInput struct {
	Name        string
	CategoryIDs []string
	Height      decimal.Decimal
	Width       decimal.Decimal
	Depth       decimal.Decimal
	Weight      decimal.Decimal
}

// ProductFilter holds optional filters for listing products.
type ProductFilter struct {
	Name       string
	CategoryID string
	IsActive   *bool
}

// ProductServicer defines the contract for catalog business logic.
type ProductServicer interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*models.Product, error)
	ActivateProduct(ctx context.Context, productID, reason string) (*models.Product, error)
	DeactivateProduct(ctx context.Context, productID, reason string) (*models.Product, error)
	AutoDeactivateProducts(ctx context.Context, threshold decimal.Decimal) (int, error)
	GetProductByID(productID string) (*models.Product, error)
	QueryProducts(page pagination.PageRequest, filter ProductFilter) (*pagination.PageResponse[models.Product], error)
}

// StockEntryInput holds the fields for recording received stock.
type StockEntryInput struct {
	ProductID  string
	SupplierID string
	Quantity   int
	CostValue  decimal.Decimal
	EntryDate  time.Time
}

// StockServicer defines the contract for inventory business logic.
type StockServicer interface {
	CreateStockEntry(ctx context.Context, input StockEntryInput) (*models.StockEntry, error)
	CreateStockReentry(ctx context.Context, input StockEntryInput) (*models.StockEntry, error)
	GetProductStockEntries(productID string, page pagination.PageRequest) (*pagination.PageResponse[models.StockEntry], error)
}

// CartServicer defines the contract for shopping-cart business logic.
type CartServicer interface {
	AddItem(ctx context.Context, customerID, productID string, quantity int) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, customerID, productID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, customerID, productID string) error
	ClearCart(ctx context.Context, customerID string) error
	GetCart(customerID string) (*models.Cart, error)
	ReleaseExpiredItems(ctx context.Context) (int, error)
}

// CouponInput holds the fields for issuing a coupon.
type CouponInput struct {
	Code       string
	Type       models.CouponType
	Value      decimal.Decimal
	CustomerID *string
	ExpiresAt  *time.Time
}

// CouponFilter holds optional filters for listing coupons.
type CouponFilter struct {
	CustomerID string
	Type       *models.CouponType
	IsUsed     *bool
}

// CouponServicer defines the contract for coupon business logic.
type CouponServicer interface {
	CreateCoupon(ctx context.Context, input CouponInput) (*models.Coupon, error)
	GetCouponByID(couponID string) (*models.Coupon, error)
	QueryCoupons(page pagination.PageRequest, filter CouponFilter) (*pagination.PageResponse[models.Coupon], error)
}

// PaymentInput is one payment source on an order: a card, a coupon, or both.
type PaymentInput struct {
	CreditCardID *string
	CouponID     *string
	Amount       *decimal.Decimal
}

// PlaceOrderInput holds the fields for placing an order from the cart.
type PlaceOrderInput struct {
	CustomerID        string
	DeliveryAddressID string
	Payments          []PaymentInput
}

// OrderFilter holds optional filters for listing orders.
type OrderFilter struct {
	CustomerID string
	Status     *models.OrderStatus
}

// OrderServicer defines the contract for order business logic.
type OrderServicer interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	ApproveOrder(ctx context.Context, orderID string) (*models.Order, error)
	RejectOrder(ctx context.Context, orderID string) (*models.Order, error)
	DispatchOrder(ctx context.Context, orderID string) (*models.Order, error)
	DeliverOrder(ctx context.Context, orderID string) (*models.Order, error)
	GetOrderByID(orderID string) (*models.Order, error)
	QueryOrders(page pagination.PageRequest, filter OrderFilter) (*pagination.PageResponse[models.Order], error)
}

// ExchangeInput holds the fields for requesting an exchange.
type ExchangeInput struct {
	OrderID     string
	OrderItemID string
	Quantity    int
	Reason      string
}

// ExchangeFilter holds optional filters for listing exchange requests.
type ExchangeFilter struct {
	OrderID string
	Status  *models.ExchangeStatus
}

// ExchangeServicer defines the contract for exchange business logic.
type ExchangeServicer interface {
	RequestExchange(ctx context.Context, input ExchangeInput) (*models.ExchangeRequest, error)
	AuthorizeExchange(ctx context.Context, exchangeID string) (*models.ExchangeRequest, error)
	DenyExchange(ctx context.Context, exchangeID string) (*models.ExchangeRequest, error)
	ReceiveExchangeItems(ctx context.Context, exchangeID string, returnToStock bool) (*models.ExchangeRequest, error)
	GetExchangeByID(exchangeID string) (*models.ExchangeRequest, error)
	QueryExchanges(page pagination.PageRequest, filter ExchangeFilter) (*pagination.PageResponse[models.ExchangeRequest], error)
}

// AuditFilter holds optional filters for querying the audit trail.
type AuditFilter struct {
	EntityName string
	EntityID   string
	Operation  *models.OperationType
	Actor      string
	From       *time.Time
	To         *time.Time
}

// AuditServicer defines the read-only query contract over the audit trail.
// Records are appended through the audit package, never through a service.
type AuditServicer interface {
	FindByEntity(entityName, entityID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error)
	FindByFilters(filter AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error)
}

// AnalysisServicer defines read-only sales reporting. Every query ignores
// rejected orders and restricts to purchases made within the period.
type AnalysisServicer interface {
	SalesInPeriod(from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Order], error)
	ItemsByProductInPeriod(productID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.OrderItem], error)
	ItemsByCategoryInPeriod(categoryID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.OrderItem], error)
	QuantitySoldByProduct(productID string, from, to time.Time) (int64, error)
}
