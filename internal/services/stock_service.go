package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rpgshop/internal/audit"
	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// stockService handles inventory business logic.
type stockService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewStockService creates a new StockServicer.
func NewStockService(db *gorm.DB, recorder *audit.Recorder) StockServicer {
	return &stockService{db: db, recorder: recorder}
}

// CreateStockEntry records units received from a supplier and reprices
// the product from its full entry history.
func (s *stockService) CreateStockEntry(ctx context.Context, input StockEntryInput) (*models.StockEntry, error) {
	return s.createEntry(ctx, input, false)
}

// CreateStockReentry records units returned to stock, typically from a
// received exchange.
func (s *stockService) CreateStockReentry(ctx context.Context, input StockEntryInput) (*models.StockEntry, error) {
	return s.createEntry(ctx, input, true)
}

func (s *stockService) createEntry(ctx context.Context, input StockEntryInput, reentry bool) (*models.StockEntry, error) {
	if input.Quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}
	if !input.CostValue.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost value must be positive")
	}

	var product models.Product
	if err := s.db.Preload("PricingGroup").Where("id = ?", input.ProductID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var supplier models.Supplier
	if err := s.db.Where("id = ?", input.SupplierID).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSupplierNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !supplier.IsActive {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "supplier is deactivated")
	}

	entryDate := input.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now().UTC()
	}

	entry := &models.StockEntry{
		ProductID:  product.ID,
		SupplierID: supplier.ID,
		Quantity:   input.Quantity,
		CostValue:  input.CostValue,
		EntryDate:  entryDate,
		IsReentry:  reentry,
	}

	var saved *models.StockEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)

		var err error
		saved, err = auditedSave(ctx, tx, rec, entry)
		if err != nil {
			return err
		}

		product.StockQuantity += entry.Quantity
		return repriceProduct(ctx, tx, rec, &product)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// GetProductStockEntries retrieves a product's entry history, newest first.
func (s *stockService) GetProductStockEntries(productID string, page pagination.PageRequest) (*pagination.PageResponse[models.StockEntry], error) {
	page.Defaults()

	base := s.db.Model(&models.StockEntry{}).Where("product_id = ?", productID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.StockEntry
	err := base.
		Preload("Supplier").
		Scopes(pagination.Paginate(page)).
		Order("entry_date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// repriceProduct recomputes a product's prices from its entry history:
// cost is the highest entry cost and the sale price follows from the
// pricing-group margin. Stock itself is adjusted incrementally by the
// caller so sales already deducted stay deducted.
func repriceProduct(ctx context.Context, tx *gorm.DB, rec *audit.Recorder, product *models.Product) error {
	var entries []models.StockEntry
	if err := tx.Where("product_id = ?", product.ID).Find(&entries).Error; err != nil {
		return err
	}

	maxCost := decimal.Zero
	for _, entry := range entries {
		if entry.CostValue.GreaterThan(maxCost) {
			maxCost = entry.CostValue
		}
	}

	if maxCost.IsPositive() {
		product.CostPrice = maxCost
	}
	if product.PricingGroup != nil {
		product.SalePrice = salePrice(product.CostPrice, product.PricingGroup.MarginPercentage)
	}

	_, err := auditedSave(ctx, tx, rec, product)
	return err
}
