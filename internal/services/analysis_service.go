package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// analysisService answers sales questions over the order history. It
// only reads, so it is not wired to the audit recorder.
type analysisService struct {
	db *gorm.DB
}

// NewAnalysisService creates a new AnalysisServicer.
func NewAnalysisService(db *gorm.DB) AnalysisServicer {
	return &analysisService{db: db}
}

// SalesInPeriod retrieves the non-rejected orders purchased within the
// period, newest first.
func (s *analysisService) SalesInPeriod(from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Order], error) {
	page.Defaults()

	base := s.db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusRejected).
		Where("purchased_at BETWEEN ? AND ?", from, to)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var orders []models.Order
	err := base.
		Preload("Items").
		Scopes(pagination.Paginate(page)).
		Order("purchased_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(orders, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ItemsByProductInPeriod retrieves the order lines for one product on
// non-rejected orders purchased within the period.
func (s *analysisService) ItemsByProductInPeriod(productID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.OrderItem], error) {
	base := s.itemsInPeriod(from, to).
		Where("order_items.product_id = ?", productID)
	return s.pageItems(base, page)
}

// ItemsByCategoryInPeriod retrieves the order lines whose product belongs
// to the category, on non-rejected orders purchased within the period.
func (s *analysisService) ItemsByCategoryInPeriod(categoryID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.OrderItem], error) {
	base := s.itemsInPeriod(from, to).
		Joins("JOIN product_categories ON product_categories.product_id = order_items.product_id").
		Where("product_categories.category_id = ?", categoryID)
	return s.pageItems(base, page)
}

// QuantitySoldByProduct sums the units of one product sold on non-rejected
// orders purchased within the period.
func (s *analysisService) QuantitySoldByProduct(productID string, from, to time.Time) (int64, error) {
	var quantity int64
	err := s.itemsInPeriod(from, to).
		Where("order_items.product_id = ?", productID).
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Scan(&quantity).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return quantity, nil
}

func (s *analysisService) itemsInPeriod(from, to time.Time) *gorm.DB {
	return s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.OrderStatusRejected).
		Where("orders.purchased_at BETWEEN ? AND ?", from, to)
}

func (s *analysisService) pageItems(base *gorm.DB, page pagination.PageRequest) (*pagination.PageResponse[models.OrderItem], error) {
	page.Defaults()

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var items []models.OrderItem
	err := base.
		Preload("Product").
		Scopes(pagination.Paginate(page)).
		Order("order_items.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}
