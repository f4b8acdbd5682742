package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// ExchangeHandler handles exchange-request endpoints.
type ExchangeHandler struct {
	exchangeService services.ExchangeServicer
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchangeService services.ExchangeServicer) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// ExchangeRequestPayload represents the exchange request payload
type ExchangeRequestPayload struct {
	OrderID     string `json:"order_id" binding:"required,uuid"`
	OrderItemID string `json:"order_item_id" binding:"required,uuid"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	Reason      string `json:"reason" binding:"required,min=1,max=255"`
}

// ReceiveRequest represents the receive-items payload
type ReceiveRequest struct {
	ReturnToStock bool `json:"return_to_stock"`
}

// Request opens an exchange for a delivered order item
func (h *ExchangeHandler) Request(c *gin.Context) {
	var req ExchangeRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.exchangeService.RequestExchange(c.Request.Context(), services.ExchangeInput{
		OrderID:     req.OrderID,
		OrderItemID: req.OrderItemID,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"exchange": request})
}

// Authorize approves a requested exchange
func (h *ExchangeHandler) Authorize(c *gin.Context) {
	h.transition(c, h.exchangeService.AuthorizeExchange)
}

// Deny refuses a requested exchange
func (h *ExchangeHandler) Deny(c *gin.Context) {
	h.transition(c, h.exchangeService.DenyExchange)
}

// Receive closes an authorized exchange once the items arrive back
func (h *ExchangeHandler) Receive(c *gin.Context) {
	exchangeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	request, err := h.exchangeService.ReceiveExchangeItems(c.Request.Context(), exchangeID, req.ReturnToStock)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exchange": request})
}

// Get retrieves one exchange request
func (h *ExchangeHandler) Get(c *gin.Context) {
	exchangeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := h.exchangeService.GetExchangeByID(exchangeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exchange": request})
}

// List retrieves a paginated, filtered exchange listing
func (h *ExchangeHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.ExchangeFilter{OrderID: c.Query("order_id")}
	if status := c.Query("status"); status != "" {
		value := models.ExchangeStatus(status)
		filter.Status = &value
	}

	result, err := h.exchangeService.QueryExchanges(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ExchangeHandler) transition(c *gin.Context, operation func(ctx context.Context, exchangeID string) (*models.ExchangeRequest, error)) {
	exchangeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	request, err := operation(c.Request.Context(), exchangeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exchange": request})
}
