package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// SupplierHandler handles supplier-related requests.
type SupplierHandler struct {
	supplierService services.SupplierServicer
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(supplierService services.SupplierServicer) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// SupplierRequest represents the supplier registration payload
type SupplierRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=255"`
	LegalName string `json:"legal_name" binding:"max=255"`
	CNPJ      string `json:"cnpj" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	Phone     string `json:"phone" binding:"max=20"`
}

// Create registers a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), services.SupplierInput{
		Name:      req.Name,
		LegalName: req.LegalName,
		CNPJ:      req.CNPJ,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"supplier": supplier})
}

// Deactivate marks a supplier inactive
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	supplier, err := h.supplierService.DeactivateSupplier(c.Request.Context(), supplierID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// Get retrieves one supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	supplier, err := h.supplierService.GetSupplierByID(supplierID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"supplier": supplier})
}

// List retrieves a paginated supplier listing
func (h *SupplierHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.supplierService.GetSuppliers(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
