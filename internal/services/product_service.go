package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rpgshop/internal/audit"
	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/logger"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// productService handles catalog business logic.
type productService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewProductService creates a new ProductServicer.
func NewProductService(db *gorm.DB, recorder *audit.Recorder) ProductServicer {
	return &productService{db: db, recorder: recorder}
}

// CreateProduct registers a product. The sale price is derived from the
// cost price and the pricing group's margin; stock starts at zero.
func (s *productService) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "product name is required")
	}
	if !input.CostPrice.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost price must be positive")
	}
	if !input.Weight.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "weight must be positive")
	}
	if input.Barcode == "" && input.SKU == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "barcode or sku is required")
	}
	if len(input.CategoryIDs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one category is required")
	}

	var productType models.ProductType
	if err := s.db.Where("id = ?", input.ProductTypeID).First(&productType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductTypeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var pricingGroup models.PricingGroup
	if err := s.db.Where("id = ?", input.PricingGroupID).First(&pricingGroup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPricingGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	categories, err := s.loadCategories(input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	if input.SKU != "" {
		var count int64
		if err := s.db.Model(&models.Product{}).Where("sku = ?", input.SKU).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateSKU
		}
	}
	if input.Barcode != "" {
		var count int64
		if err := s.db.Model(&models.Product{}).Where("barcode = ?", input.Barcode).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateBarcode
		}
	}

	product := &models.Product{
		Name:           input.Name,
		ProductTypeID:  productType.ID,
		PricingGroupID: pricingGroup.ID,
		Height:         input.Height,
		Width:          input.Width,
		Depth:          input.Depth,
		Weight:         input.Weight,
		Barcode:        input.Barcode,
		SKU:            input.SKU,
		CostPrice:      input.CostPrice,
		SalePrice:      salePrice(input.CostPrice, pricingGroup.MarginPercentage),
		StockQuantity:  0,
		IsActive:       true,
		Categories:     categories,
	}

	saved, err := auditedSave(ctx, s.db, s.recorder, product)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// UpdateProduct updates descriptive fields. Prices and stock are owned by
// the stock flow, not by product edits.
func (s *productService) UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Height.IsPositive() {
		product.Height = input.Height
	}
	if input.Width.IsPositive() {
		product.Width = input.Width
	}
	if input.Depth.IsPositive() {
		product.Depth = input.Depth
	}
	if input.Weight.IsPositive() {
		product.Weight = input.Weight
	}
	if len(input.CategoryIDs) > 0 {
		categories, err := s.loadCategories(input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.Model(product).Association("Categories").Replace(categories); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	saved, err := auditedSave(ctx, s.db, s.recorder, product)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// ActivateProduct reactivates a product, recording the reason.
func (s *productService) ActivateProduct(ctx context.Context, productID, reason string) (*models.Product, error) {
	return s.changeStatus(ctx, productID, reason, models.StatusChangeActivate, models.StatusCategoryManual)
}

// DeactivateProduct deactivates a product, recording the reason.
func (s *productService) DeactivateProduct(ctx context.Context, productID, reason string) (*models.Product, error) {
	return s.changeStatus(ctx, productID, reason, models.StatusChangeDeactivate, models.StatusCategoryManual)
}

func (s *productService) changeStatus(ctx context.Context, productID, reason string, changeType models.StatusChangeType, category models.StatusChangeCategory) (*models.Product, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a reason is required")
	}

	product, err := s.GetProductByID(productID)
	if err != nil {
		return nil, err
	}

	activating := changeType == models.StatusChangeActivate
	if activating && product.IsActive {
		return nil, apperrors.ErrProductActive
	}
	if !activating && !product.IsActive {
		return nil, apperrors.ErrProductInactive
	}

	var saved *models.Product
	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)

		change := &models.StatusChange{
			ProductID: product.ID,
			Type:      changeType,
			Category:  category,
			Reason:    reason,
		}
		if _, err := auditedSave(ctx, tx, rec, change); err != nil {
			return err
		}

		product.IsActive = activating
		var err error
		saved, err = auditedSave(ctx, tx, rec, product)
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// AutoDeactivateProducts deactivates every active product whose sale
// price is below threshold, tagging the change as an out-of-market
// withdrawal. Returns how many products were deactivated.
func (s *productService) AutoDeactivateProducts(ctx context.Context, threshold decimal.Decimal) (int, error) {
	var products []models.Product
	if err := s.db.Where("is_active = ?", true).Find(&products).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	deactivated := 0
	for i := range products {
		product := &products[i]
		if product.SalePrice.GreaterThanOrEqual(threshold) {
			continue
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			rec := txRecorder(tx)

			change := &models.StatusChange{
				ProductID: product.ID,
				Type:      models.StatusChangeDeactivate,
				Category:  models.StatusCategoryOutOfMarket,
				Reason:    "sale price below minimum threshold",
			}
			if _, err := auditedSave(ctx, tx, rec, change); err != nil {
				return err
			}

			product.IsActive = false
			_, err := auditedSave(ctx, tx, rec, product)
			return err
		})
		if err != nil {
			logger.Get().Errorw("failed to auto-deactivate product",
				"product_id", product.ID,
				"error", err)
			continue
		}
		deactivated++
	}

	return deactivated, nil
}

// GetProductByID retrieves a product with its type, pricing group,
// categories and status history.
func (s *productService) GetProductByID(productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.
		Preload("ProductType").
		Preload("PricingGroup").
		Preload("Categories").
		Preload("StatusChanges", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", productID).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &product, nil
}

// QueryProducts retrieves a paginated, filtered product list.
func (s *productService) QueryProducts(page pagination.PageRequest, filter ProductFilter) (*pagination.PageResponse[models.Product], error) {
	page.Defaults()

	base := s.db.Model(&models.Product{})
	if filter.Name != "" {
		base = base.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		base = base.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id = ?", filter.CategoryID)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var products []models.Product
	err := base.
		Preload("Categories").
		Scopes(pagination.Paginate(page)).
		Order("products.created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(products, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *productService) loadCategories(ids []string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(categories) != len(ids) {
		return nil, apperrors.ErrCategoryNotFound
	}
	return categories, nil
}

// salePrice applies the pricing group margin over cost, rounded to cents.
func salePrice(cost, marginPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(marginPct.Div(decimal.NewFromInt(100)))
	return cost.Mul(factor).Round(2)
}
