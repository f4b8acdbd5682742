// Package errors provides custom error types for the RPG Shop API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrUserDeactivated    = &AppError{Code: "USER_DEACTIVATED", Message: "This user account is deactivated", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Customer errors.
var (
	ErrCustomerNotFound    = &AppError{Code: "CUSTOMER_NOT_FOUND", Message: "Customer not found", StatusCode: http.StatusNotFound}
	ErrAddressNotFound     = &AppError{Code: "ADDRESS_NOT_FOUND", Message: "Address not found", StatusCode: http.StatusNotFound}
	ErrAddressNotOwned     = &AppError{Code: "ADDRESS_NOT_OWNED", Message: "The delivery address does not belong to the customer", StatusCode: http.StatusBadRequest}
	ErrCreditCardNotFound  = &AppError{Code: "CREDIT_CARD_NOT_FOUND", Message: "Credit card not found", StatusCode: http.StatusNotFound}
	ErrCreditCardNotOwned  = &AppError{Code: "CREDIT_CARD_NOT_OWNED", Message: "The selected card does not belong to the customer", StatusCode: http.StatusBadRequest}
	ErrCardBrandNotFound   = &AppError{Code: "CARD_BRAND_NOT_FOUND", Message: "Card brand not found", StatusCode: http.StatusNotFound}
	ErrCustomerDeactivated = &AppError{Code: "CUSTOMER_DEACTIVATED", Message: "Customer is deactivated", StatusCode: http.StatusConflict}
)

// Supplier errors.
var (
	ErrSupplierNotFound = &AppError{Code: "SUPPLIER_NOT_FOUND", Message: "Supplier not found", StatusCode: http.StatusNotFound}
)

// Product errors.
var (
	ErrProductNotFound      = &AppError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found", StatusCode: http.StatusNotFound}
	ErrProductTypeNotFound  = &AppError{Code: "PRODUCT_TYPE_NOT_FOUND", Message: "Product type not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound     = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrPricingGroupNotFound = &AppError{Code: "PRICING_GROUP_NOT_FOUND", Message: "Pricing group not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSKU         = &AppError{Code: "DUPLICATE_SKU", Message: "A product with this SKU already exists", StatusCode: http.StatusConflict}
	ErrDuplicateBarcode     = &AppError{Code: "DUPLICATE_BARCODE", Message: "A product with this barcode already exists", StatusCode: http.StatusConflict}
	ErrProductInactive      = &AppError{Code: "PRODUCT_INACTIVE", Message: "Product is not active", StatusCode: http.StatusConflict}
	ErrProductActive        = &AppError{Code: "PRODUCT_ACTIVE", Message: "Product is already active", StatusCode: http.StatusConflict}
)

// Stock errors.
var (
	ErrStockEntryNotFound = &AppError{Code: "STOCK_ENTRY_NOT_FOUND", Message: "Stock entry not found", StatusCode: http.StatusNotFound}
	ErrInsufficientStock  = &AppError{Code: "INSUFFICIENT_STOCK", Message: "Insufficient stock", StatusCode: http.StatusConflict}
)

// Cart errors.
var (
	ErrCartNotFound     = &AppError{Code: "CART_NOT_FOUND", Message: "Cart not found", StatusCode: http.StatusNotFound}
	ErrCartItemNotFound = &AppError{Code: "CART_ITEM_NOT_FOUND", Message: "Cart item not found", StatusCode: http.StatusNotFound}
	ErrEmptyCart        = &AppError{Code: "EMPTY_CART", Message: "The cart is empty", StatusCode: http.StatusConflict}
)

// Coupon errors.
var (
	ErrCouponNotFound     = &AppError{Code: "COUPON_NOT_FOUND", Message: "Coupon not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCoupon    = &AppError{Code: "DUPLICATE_COUPON", Message: "A coupon with this code already exists", StatusCode: http.StatusConflict}
	ErrCouponUsed         = &AppError{Code: "COUPON_USED", Message: "Coupon has already been used", StatusCode: http.StatusConflict}
	ErrCouponExpired      = &AppError{Code: "COUPON_EXPIRED", Message: "Coupon has expired", StatusCode: http.StatusConflict}
	ErrCouponNotOwned     = &AppError{Code: "COUPON_NOT_OWNED", Message: "The coupon does not belong to the customer", StatusCode: http.StatusBadRequest}
	ErrDuplicatePromotion = &AppError{Code: "DUPLICATE_PROMOTION", Message: "Only one promotional coupon is allowed per order", StatusCode: http.StatusBadRequest}
)

// Order errors.
var (
	ErrOrderNotFound      = &AppError{Code: "ORDER_NOT_FOUND", Message: "Order not found", StatusCode: http.StatusNotFound}
	ErrOrderItemNotFound  = &AppError{Code: "ORDER_ITEM_NOT_FOUND", Message: "Order item not found", StatusCode: http.StatusNotFound}
	ErrInvalidOrderStatus = &AppError{Code: "INVALID_ORDER_STATUS", Message: "Operation not allowed for the current order status", StatusCode: http.StatusConflict}
	ErrPaymentRequired    = &AppError{Code: "PAYMENT_REQUIRED", Message: "At least one payment method is required", StatusCode: http.StatusBadRequest}
	ErrInvalidPayment     = &AppError{Code: "INVALID_PAYMENT", Message: "Invalid payment", StatusCode: http.StatusBadRequest}
	ErrPaymentShortfall   = &AppError{Code: "PAYMENT_SHORTFALL", Message: "Payments do not cover the order total", StatusCode: http.StatusBadRequest}
)

// Exchange errors.
var (
	ErrExchangeNotFound      = &AppError{Code: "EXCHANGE_NOT_FOUND", Message: "Exchange request not found", StatusCode: http.StatusNotFound}
	ErrExchangeAlreadyOpen   = &AppError{Code: "EXCHANGE_ALREADY_OPEN", Message: "An exchange request already exists for this item", StatusCode: http.StatusConflict}
	ErrInvalidExchangeStatus = &AppError{Code: "INVALID_EXCHANGE_STATUS", Message: "Operation not allowed for the current exchange status", StatusCode: http.StatusConflict}
)
