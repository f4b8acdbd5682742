package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// OrderHandler handles order requests.
type OrderHandler struct {
	orderService services.OrderServicer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService services.OrderServicer) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PaymentRequest is one payment source on the checkout payload
type PaymentRequest struct {
	CreditCardID *string          `json:"credit_card_id" binding:"omitempty,uuid"`
	CouponID     *string          `json:"coupon_id" binding:"omitempty,uuid"`
	Amount       *decimal.Decimal `json:"amount"`
}

// PlaceOrderRequest represents the checkout payload
type PlaceOrderRequest struct {
	DeliveryAddressID string           `json:"delivery_address_id" binding:"required,uuid"`
	Payments          []PaymentRequest `json:"payments" binding:"required,min=1"`
}

// Place checks out the authenticated customer's cart
func (h *OrderHandler) Place(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payments := make([]services.PaymentInput, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, services.PaymentInput{
			CreditCardID: p.CreditCardID,
			CouponID:     p.CouponID,
			Amount:       p.Amount,
		})
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), services.PlaceOrderInput{
		CustomerID:        customerID,
		DeliveryAddressID: req.DeliveryAddressID,
		Payments:          payments,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// Approve runs a processing order through payment authorization
func (h *OrderHandler) Approve(c *gin.Context) {
	h.transition(c, h.orderService.ApproveOrder)
}

// Reject refuses a processing order
func (h *OrderHandler) Reject(c *gin.Context) {
	h.transition(c, h.orderService.RejectOrder)
}

// Dispatch moves an approved order into transit
func (h *OrderHandler) Dispatch(c *gin.Context) {
	h.transition(c, h.orderService.DispatchOrder)
}

// Deliver marks an in-transit order delivered
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.orderService.DeliverOrder)
}

// Get retrieves one order. Customers only see their own orders.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if getRole(c) != models.RoleEmployee {
		customerID, err := getCustomerID(c)
		if err != nil || order.CustomerID != customerID {
			respondWithError(c, apperrors.ErrForbidden)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// List retrieves a paginated, filtered order listing. Customers are
// always scoped to their own orders.
func (h *OrderHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.OrderFilter{CustomerID: c.Query("customer_id")}
	if getRole(c) != models.RoleEmployee {
		customerID, err := getCustomerID(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		filter.CustomerID = customerID
	}
	if status := c.Query("status"); status != "" {
		value := models.OrderStatus(status)
		filter.Status = &value
	}

	result, err := h.orderService.QueryOrders(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) transition(c *gin.Context, operation func(ctx context.Context, orderID string) (*models.Order, error)) {
	orderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	order, err := operation(c.Request.Context(), orderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}
