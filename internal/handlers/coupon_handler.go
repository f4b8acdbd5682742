package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/services"
)

// CouponHandler handles coupon administration requests.
type CouponHandler struct {
	couponService services.CouponServicer
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(couponService services.CouponServicer) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// CouponRequest represents the coupon creation payload
type CouponRequest struct {
	Code       string            `json:"code" binding:"required,min=3,max=50"`
	Type       models.CouponType `json:"type" binding:"required,coupon_type"`
	Value      decimal.Decimal   `json:"value" binding:"required"`
	CustomerID *string           `json:"customer_id" binding:"omitempty,uuid"`
	ExpiresAt  *time.Time        `json:"expires_at"`
}

// Create issues a coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), services.CouponInput{
		Code:       req.Code,
		Type:       req.Type,
		Value:      req.Value,
		CustomerID: req.CustomerID,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
}

// Get retrieves one coupon
func (h *CouponHandler) Get(c *gin.Context) {
	couponID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	coupon, err := h.couponService.GetCouponByID(couponID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}

// List retrieves a paginated, filtered coupon listing
func (h *CouponHandler) List(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.CouponFilter{
		CustomerID: c.Query("customer_id"),
	}
	if couponType := c.Query("type"); couponType != "" {
		value := models.CouponType(couponType)
		filter.Type = &value
	}
	if used := c.Query("is_used"); used != "" {
		value := used == "true"
		filter.IsUsed = &value
	}

	result, err := h.couponService.QueryCoupons(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
