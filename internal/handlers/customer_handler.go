package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// CustomerHandler handles customer-related requests.
type CustomerHandler struct {
	customerService services.CustomerServicer
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerService services.CustomerServicer) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// RegisterCustomerRequest represents the customer registration payload
type RegisterCustomerRequest struct {
	Gender      models.Gender `json:"gender" binding:"omitempty,oneof=female male other undisclosed"`
	Name        string        `json:"name" binding:"required,min=1,max=255"`
	DateOfBirth *time.Time    `json:"date_of_birth"`
	CPF         string        `json:"cpf" binding:"required,cpf"`
	Email       string        `json:"email" binding:"required,email,max=255"`
	Password    string        `json:"password" binding:"required,min=8,max=128"`
}

// UpdateCustomerRequest represents the customer update payload
type UpdateCustomerRequest struct {
	Gender      models.Gender `json:"gender" binding:"omitempty,oneof=female male other undisclosed"`
	Name        string        `json:"name" binding:"omitempty,min=1,max=255"`
	DateOfBirth *time.Time    `json:"date_of_birth"`
	Email       string        `json:"email" binding:"omitempty,email,max=255"`
}

// AddressRequest represents the add-address payload
type AddressRequest struct {
	Label      string `json:"label" binding:"max=50"`
	Street     string `json:"street" binding:"required,max=255"`
	Number     string `json:"number" binding:"max=20"`
	Complement string `json:"complement" binding:"max=100"`
	District   string `json:"district" binding:"max=100"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=50"`
	Country    string `json:"country" binding:"required,max=50"`
	ZipCode    string `json:"zip_code" binding:"max=20"`
}

// PhoneRequest represents the add-phone payload
type PhoneRequest struct {
	Type     models.PhoneType `json:"type" binding:"omitempty,oneof=mobile home business"`
	AreaCode string           `json:"area_code" binding:"max=5"`
	Number   string           `json:"number" binding:"required,max=20"`
}

// CreditCardRequest represents the add-card payload
type CreditCardRequest struct {
	CardBrandID string `json:"card_brand_id" binding:"required,uuid"`
	Number      string `json:"number" binding:"required,min=13,max=19"`
	HolderName  string `json:"holder_name" binding:"required,max=100"`
	CVV         string `json:"cvv" binding:"required,min=3,max=4"`
	IsPreferred bool   `json:"is_preferred"`
}

// Register handles customer self-registration
func (h *CustomerHandler) Register(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), services.CreateCustomerInput{
		Gender:      req.Gender,
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		CPF:         req.CPF,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

// Update handles customer profile updates
func (h *CustomerHandler) Update(c *gin.Context) {
	customerID, err := h.resolveCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), customerID, services.UpdateCustomerInput{
		Gender:      req.Gender,
		Name:        req.Name,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// Deactivate handles customer deactivation
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	customerID, err := h.resolveCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	customer, err := h.customerService.DeactivateCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// AddAddress attaches an address to the customer
func (h *CustomerHandler) AddAddress(c *gin.Context) {
	customerID, err := h.resolveCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	address, err := h.customerService.AddAddress(c.Request.Context(), customerID, services.AddressInput{
		Label:      req.Label,
		Street:     req.Street,
		Number:     req.Number,
		Complement: req.Complement,
		District:   req.District,
		City:       req.City,
		State:      req.State,
		Country:    req.Country,
		ZipCode:    req.ZipCode,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address": address})
}

// AddPhone attaches a phone to the customer
func (h *CustomerHandler) AddPhone(c *gin.Context) {
	customerID, err := h.resolveCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	phone, err := h.customerService.AddPhone(c.Request.Context(), customerID, services.PhoneInput{
		Type:     req.Type,
		AreaCode: req.AreaCode,
		Number:   req.Number,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"phone": phone})
}

// AddCreditCard attaches a credit card to the customer
func (h *CustomerHandler) AddCreditCard(c *gin.Context) {
	customerID, err := h.resolveCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreditCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.customerService.AddCreditCard(c.Request.Context(), customerID, services.CreditCardInput{
		CardBrandID: req.CardBrandID,
		Number:      req.Number,
		HolderName:  req.HolderName,
		CVV:         req.CVV,
		IsPreferred: req.IsPreferred,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"credit_card": card})
}

// Get retrieves a customer profile
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, err := h.resolveCustomerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	customer, err := h.customerService.GetCustomerByID(customerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// List handles a paginated, filtered customer listing (employees only)
func (h *CustomerHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.CustomerFilter{
		Name:  c.Query("name"),
		Email: c.Query("email"),
		CPF:   c.Query("cpf"),
	}
	if active := c.Query("is_active"); active != "" {
		value := active == "true"
		filter.IsActive = &value
	}

	result, err := h.customerService.QueryCustomers(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// resolveCustomerID picks the customer being acted on: employees address
// any customer via the path parameter, customers only themselves.
func (h *CustomerHandler) resolveCustomerID(c *gin.Context) (string, error) {
	customerID, err := parsePathID(c, "id")
	if err != nil {
		return "", err
	}

	if getRole(c) == models.RoleEmployee {
		return customerID, nil
	}

	value, exists := c.Get("customerID")
	if !exists || value.(string) != customerID {
		return "", apperrors.ErrForbidden
	}
	return customerID, nil
}
