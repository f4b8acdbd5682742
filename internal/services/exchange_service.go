package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rpgshop/internal/audit"
	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// exchangeService handles the return/exchange lifecycle.
type exchangeService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewExchangeService creates a new ExchangeServicer.
func NewExchangeService(db *gorm.DB, recorder *audit.Recorder) ExchangeServicer {
	return &exchangeService{db: db, recorder: recorder}
}

// RequestExchange opens an exchange for part of a delivered order. The
// order moves to IN_EXCHANGE while the request is open.
func (s *exchangeService) RequestExchange(ctx context.Context, input ExchangeInput) (*models.ExchangeRequest, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a reason is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}

	var order models.Order
	if err := s.db.Where("id = ?", input.OrderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	var item models.OrderItem
	if err := s.db.Where("id = ? AND order_id = ?", input.OrderItemID, order.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if input.Quantity > item.Quantity {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity exceeds the purchased quantity")
	}

	var open int64
	err := s.db.Model(&models.ExchangeRequest{}).
		Where("order_item_id = ? AND status <> ?", item.ID, models.ExchangeStatusCompleted).
		Where("status <> ?", models.ExchangeStatusDenied).
		Count(&open).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if open > 0 {
		return nil, apperrors.ErrExchangeAlreadyOpen
	}

	request := &models.ExchangeRequest{
		OrderID:     order.ID,
		OrderItemID: item.ID,
		Quantity:    input.Quantity,
		Status:      models.ExchangeStatusRequested,
		Reason:      input.Reason,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)

		var err error
		request, err = auditedSave(ctx, tx, rec, request)
		if err != nil {
			return err
		}

		order.Status = models.OrderStatusInExchange
		_, err = auditedSave(ctx, tx, rec, &order)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	return request, nil
}

// AuthorizeExchange approves a REQUESTED exchange.
func (s *exchangeService) AuthorizeExchange(ctx context.Context, exchangeID string) (*models.ExchangeRequest, error) {
	request, err := s.GetExchangeByID(exchangeID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.ExchangeStatusRequested {
		return nil, apperrors.ErrInvalidExchangeStatus
	}

	now := time.Now().UTC()
	request.Status = models.ExchangeStatusAuthorized
	request.AuthorizedAt = &now

	saved, err := auditedSave(ctx, s.db, s.recorder, request)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// DenyExchange refuses a REQUESTED exchange and puts the order back to
// DELIVERED.
func (s *exchangeService) DenyExchange(ctx context.Context, exchangeID string) (*models.ExchangeRequest, error) {
	request, err := s.GetExchangeByID(exchangeID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.ExchangeStatusRequested {
		return nil, apperrors.ErrInvalidExchangeStatus
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)

		request.Status = models.ExchangeStatusDenied
		var err error
		request, err = auditedSave(ctx, tx, rec, request)
		if err != nil {
			return err
		}

		var order models.Order
		if err := tx.Where("id = ?", request.OrderID).First(&order).Error; err != nil {
			return err
		}
		order.Status = models.OrderStatusDelivered
		_, err = auditedSave(ctx, tx, rec, &order)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	return request, nil
}

// ReceiveExchangeItems closes an AUTHORIZED exchange: optionally returns
// the quantity to stock, issues an exchange coupon worth the returned
// value to the order's customer, and marks the order EXCHANGED.
func (s *exchangeService) ReceiveExchangeItems(ctx context.Context, exchangeID string, returnToStock bool) (*models.ExchangeRequest, error) {
	request, err := s.GetExchangeByID(exchangeID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.ExchangeStatusAuthorized {
		return nil, apperrors.ErrInvalidExchangeStatus
	}

	var item models.OrderItem
	if err := s.db.Where("id = ?", request.OrderItemID).First(&item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var order models.Order
	if err := s.db.Where("id = ?", request.OrderID).First(&order).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)
		now := time.Now().UTC()

		if returnToStock {
			var product models.Product
			if err := tx.Where("id = ?", item.ProductID).First(&product).Error; err != nil {
				return err
			}
			product.StockQuantity += request.Quantity
			if _, err := auditedSave(ctx, tx, rec, &product); err != nil {
				return err
			}
		}

		expires := now.AddDate(0, 0, changeCouponDays)
		coupon := &models.Coupon{
			Code:       generateCouponCode("TROCA"),
			Type:       models.CouponTypeExchange,
			Value:      item.UnitPrice.Mul(decimal.NewFromInt(int64(request.Quantity))).Round(2),
			CustomerID: &order.CustomerID,
			ExpiresAt:  &expires,
		}
		if _, err := auditedSave(ctx, tx, rec, coupon); err != nil {
			return err
		}

		request.Status = models.ExchangeStatusCompleted
		request.ReceivedAt = &now
		request.ReturnToStock = returnToStock
		request.CouponID = &coupon.ID
		var err error
		request, err = auditedSave(ctx, tx, rec, request)
		if err != nil {
			return err
		}

		order.Status = models.OrderStatusExchanged
		_, err = auditedSave(ctx, tx, rec, &order)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	return request, nil
}

// GetExchangeByID retrieves an exchange request with its order context.
func (s *exchangeService) GetExchangeByID(exchangeID string) (*models.ExchangeRequest, error) {
	var request models.ExchangeRequest
	err := s.db.
		Preload("OrderItem").
		Preload("Coupon").
		Where("id = ?", exchangeID).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExchangeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &request, nil
}

// QueryExchanges retrieves a paginated, filtered exchange list.
func (s *exchangeService) QueryExchanges(page pagination.PageRequest, filter ExchangeFilter) (*pagination.PageResponse[models.ExchangeRequest], error) {
	page.Defaults()

	base := s.db.Model(&models.ExchangeRequest{})
	if filter.OrderID != "" {
		base = base.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var requests []models.ExchangeRequest
	err := base.
		Preload("OrderItem").
		Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(requests, page.Page, page.PageSize, totalItems)
	return &result, nil
}
