package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/services"
)

// CartHandler handles shopping-cart requests. All routes act on the
// authenticated customer's own cart.
type CartHandler struct {
	cartService services.CartServicer
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService services.CartServicer) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// CartItemRequest represents the add/update item payload
type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// AddItem puts a product in the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), customerID, req.ProductID, req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// UpdateItem changes a carted product's quantity
func (h *CartHandler) UpdateItem(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), customerID, req.ProductID, req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem drops a product from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	productID, err := parsePathID(c, "productId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cartService.RemoveItem(c.Request.Context(), customerID, productID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), customerID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

// Get retrieves the cart
func (h *CartHandler) Get(c *gin.Context) {
	customerID, err := getCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cart, err := h.cartService.GetCart(customerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// getCustomerID extracts the authenticated customer's ID from the Gin
// context. Employee tokens carry no customer and are rejected.
func getCustomerID(c *gin.Context) (string, error) {
	value, exists := c.Get("customerID")
	if !exists {
		return "", apperrors.ErrForbidden
	}
	return value.(string), nil
}
