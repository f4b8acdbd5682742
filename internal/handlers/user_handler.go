package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// UserHandler handles login-account administration. Customer accounts are
// created through customer registration; this surface provisions employees.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateEmployeeRequest represents the employee provisioning payload
type CreateEmployeeRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// CreateEmployee provisions an employee login account
func (h *UserHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, models.RoleEmployee, nil)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// List retrieves a paginated, filtered account listing
func (h *UserHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.UserFilter{Email: c.Query("email")}
	if role := c.Query("role"); role != "" {
		value := models.UserRole(role)
		filter.Role = &value
	}
	if active := c.Query("is_active"); active != "" {
		value := active == "true"
		filter.IsActive = &value
	}

	result, err := h.userService.QueryUsers(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
