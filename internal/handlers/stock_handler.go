package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// StockHandler handles inventory requests.
type StockHandler struct {
	stockService services.StockServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// StockEntryRequest represents the stock entry payload
type StockEntryRequest struct {
	ProductID  string          `json:"product_id" binding:"required,uuid"`
	SupplierID string          `json:"supplier_id" binding:"required,uuid"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	CostValue  decimal.Decimal `json:"cost_value" binding:"required"`
	EntryDate  *time.Time      `json:"entry_date"`
}

// CreateEntry records received stock
func (h *StockHandler) CreateEntry(c *gin.Context) {
	h.create(c, h.stockService.CreateStockEntry)
}

// CreateReentry records returned stock
func (h *StockHandler) CreateReentry(c *gin.Context) {
	h.create(c, h.stockService.CreateStockReentry)
}

// ListByProduct retrieves a product's entry history
func (h *StockHandler) ListByProduct(c *gin.Context) {
	productID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.stockService.GetProductStockEntries(productID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *StockHandler) create(c *gin.Context, operation func(ctx context.Context, input services.StockEntryInput) (*models.StockEntry, error)) {
	var req StockEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	input := services.StockEntryInput{
		ProductID:  req.ProductID,
		SupplierID: req.SupplierID,
		Quantity:   req.Quantity,
		CostValue:  req.CostValue,
	}
	if req.EntryDate != nil {
		input.EntryDate = *req.EntryDate
	}

	entry, err := operation(c.Request.Context(), input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"stock_entry": entry})
}
