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

// ProductHandler handles catalog requests.
type ProductHandler struct {
	productService services.ProductServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest represents the product registration payload
type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=255"`
	ProductTypeID  string          `json:"product_type_id" binding:"required,uuid"`
	CategoryIDs    []string        `json:"category_ids" binding:"required,min=1,dive,uuid"`
	PricingGroupID string          `json:"pricing_group_id" binding:"required,uuid"`
	Height         decimal.Decimal `json:"height"`
	Width          decimal.Decimal `json:"width"`
	Depth          decimal.Decimal `json:"depth"`
	Weight         decimal.Decimal `json:"weight" binding:"required"`
	Barcode        string          `json:"barcode" binding:"max=50"`
	SKU            string          `json:"sku" binding:"max=50"`
	CostPrice      decimal.Decimal `json:"cost_price" binding:"required"`
}

// UpdateProductRequest represents the product update payload
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"omitempty,min=1,max=255"`
	CategoryIDs []string        `json:"category_ids" binding:"omitempty,dive,uuid"`
	Height      decimal.Decimal `json:"height"`
	Width       decimal.Decimal `json:"width"`
	Depth       decimal.Decimal `json:"depth"`
	Weight      decimal.Decimal `json:"weight"`
}

// StatusChangeRequest represents the activate/deactivate payload
type StatusChangeRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=255"`
}

// Create registers a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), services.CreateProductInput{
		Name:           req.Name,
		ProductTypeID:  req.ProductTypeID,
		CategoryIDs:    req.CategoryIDs,
		PricingGroupID: req.PricingGroupID,
		Height:         req.Height,
		Width:          req.Width,
		Depth:          req.Depth,
		Weight:         req.Weight,
		Barcode:        req.Barcode,
		SKU:            req.SKU,
		CostPrice:      req.CostPrice,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// Update edits a product's descriptive fields
func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), productID, services.UpdateProductInput{
		Name:        req.Name,
		CategoryIDs: req.CategoryIDs,
		Height:      req.Height,
		Width:       req.Width,
		Depth:       req.Depth,
		Weight:      req.Weight,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Activate reactivates a product
func (h *ProductHandler) Activate(c *gin.Context) {
	h.changeStatus(c, h.productService.ActivateProduct)
}

// Deactivate deactivates a product
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.productService.DeactivateProduct)
}

// Get retrieves one product with its status history
func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// List retrieves a paginated, filtered product listing
func (h *ProductHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.ProductFilter{
		Name:       c.Query("name"),
		CategoryID: c.Query("category_id"),
	}
	if active := c.Query("is_active"); active != "" {
		value := active == "true"
		filter.IsActive = &value
	}

	result, err := h.productService.QueryProducts(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) changeStatus(c *gin.Context, operation func(ctx context.Context, productID, reason string) (*models.Product, error)) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	product, err := operation(c.Request.Context(), productID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}
