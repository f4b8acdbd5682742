package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"rpgshop/internal/audit"
	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// couponService handles coupon business logic.
type couponService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewCouponService creates a new CouponServicer.
func NewCouponService(db *gorm.DB, recorder *audit.Recorder) CouponServicer {
	return &couponService{db: db, recorder: recorder}
}

// CreateCoupon issues a coupon. Promotional coupons may be unbound;
// exchange coupons always belong to a customer.
func (s *couponService) CreateCoupon(ctx context.Context, input CouponInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "coupon code is required")
	}
	if !input.Value.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "coupon value must be positive")
	}
	if input.Type != models.CouponTypePromotional && input.Type != models.CouponTypeExchange {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid coupon type")
	}
	if input.Type == models.CouponTypeExchange && input.CustomerID == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "exchange coupons must belong to a customer")
	}

	var count int64
	if err := s.db.Model(&models.Coupon{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCoupon
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := s.db.Where("id = ?", *input.CustomerID).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCustomerNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	coupon := &models.Coupon{
		Code:       code,
		Type:       input.Type,
		Value:      input.Value,
		CustomerID: input.CustomerID,
		ExpiresAt:  input.ExpiresAt,
	}

	saved, err := auditedSave(ctx, s.db, s.recorder, coupon)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// GetCouponByID retrieves a coupon.
func (s *couponService) GetCouponByID(couponID string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.Where("id = ?", couponID).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCouponNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &coupon, nil
}

// QueryCoupons retrieves a paginated, filtered coupon list.
func (s *couponService) QueryCoupons(page pagination.PageRequest, filter CouponFilter) (*pagination.PageResponse[models.Coupon], error) {
	page.Defaults()

	base := s.db.Model(&models.Coupon{})
	if filter.CustomerID != "" {
		base = base.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Type != nil {
		base = base.Where("type = ?", *filter.Type)
	}
	if filter.IsUsed != nil {
		base = base.Where("is_used = ?", *filter.IsUsed)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var coupons []models.Coupon
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(coupons, page.Page, page.PageSize, totalItems)
	return &result, nil
}
