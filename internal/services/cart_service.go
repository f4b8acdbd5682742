package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rpgshop/internal/audit"
	"rpgshop/internal/config"
	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/logger"
	"rpgshop/internal/models"
)

// cartService handles shopping-cart business logic, including the stock
// blocking window on cart items.
type cartService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewCartService creates a new CartServicer.
func NewCartService(db *gorm.DB, recorder *audit.Recorder) CartServicer {
	return &cartService{db: db, recorder: recorder}
}

// AddItem puts quantity units of a product in the customer's cart and
// blocks them against stock for the configured window. Re-adding an
// already carted product extends its quantity and restarts the block.
func (s *cartService) AddItem(ctx context.Context, customerID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}

	var product models.Product
	if err := s.db.Where("id = ?", productID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !product.IsActive {
		return nil, apperrors.ErrProductInactive
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)

		cart, err := s.findOrCreateCart(ctx, tx, rec, customerID)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		existing := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		newQuantity := quantity
		if existing {
			newQuantity += item.Quantity
		}

		available, err := availableStock(tx, &product, item.ID)
		if err != nil {
			return err
		}
		if newQuantity > available {
			return apperrors.ErrInsufficientStock
		}

		now := time.Now().UTC()
		expires := now.Add(config.Get().CartBlockDuration)

		if !existing {
			item = models.CartItem{CartID: cart.ID, ProductID: productID}
		}
		item.Quantity = newQuantity
		item.IsBlocked = true
		item.BlockedAt = &now
		item.ExpiresAt = &expires

		_, err = auditedSave(ctx, tx, rec, &item)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	return s.GetCart(customerID)
}

// UpdateItemQuantity sets the quantity of a carted product and restarts
// its blocking window.
func (s *cartService) UpdateItemQuantity(ctx context.Context, customerID, productID string, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be positive")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)

		_, item, err := s.findCartItem(tx, customerID, productID)
		if err != nil {
			return err
		}

		var product models.Product
		if err := tx.Where("id = ?", productID).First(&product).Error; err != nil {
			return err
		}

		available, err := availableStock(tx, &product, item.ID)
		if err != nil {
			return err
		}
		if quantity > available {
			return apperrors.ErrInsufficientStock
		}

		now := time.Now().UTC()
		expires := now.Add(config.Get().CartBlockDuration)

		item.Quantity = quantity
		item.IsBlocked = true
		item.BlockedAt = &now
		item.ExpiresAt = &expires

		_, err = auditedSave(ctx, tx, rec, item)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	return s.GetCart(customerID)
}

// RemoveItem drops a product from the cart, releasing its block.
func (s *cartService) RemoveItem(ctx context.Context, customerID, productID string) error {
	_, item, err := s.findCartItem(s.db, customerID, productID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ClearCart drops every item from the customer's cart.
func (s *cartService) ClearCart(ctx context.Context, customerID string) error {
	cart, err := s.GetCart(customerID)
	if err != nil {
		return err
	}
	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetCart retrieves the customer's cart with its items and products.
func (s *cartService) GetCart(customerID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.
		Preload("Items").
		Preload("Items.Product").
		Where("customer_id = ?", customerID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCartNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cart, nil
}

// ReleaseExpiredItems unblocks every cart item whose blocking window has
// elapsed, returning their quantities to the available pool. Returns how
// many items were released.
func (s *cartService) ReleaseExpiredItems(ctx context.Context) (int, error) {
	var items []models.CartItem
	err := s.db.
		Where("is_blocked = ? AND expires_at <= ?", true, time.Now().UTC()).
		Find(&items).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	released := 0
	for i := range items {
		item := &items[i]
		item.IsBlocked = false
		item.BlockedAt = nil
		item.ExpiresAt = nil

		if _, err := auditedSave(ctx, s.db, s.recorder, item); err != nil {
			logger.Get().Errorw("failed to release expired cart item",
				"cart_item_id", item.ID,
				"error", err)
			continue
		}
		released++
	}

	return released, nil
}

func (s *cartService) findOrCreateCart(ctx context.Context, tx *gorm.DB, rec *audit.Recorder, customerID string) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("customer_id = ?", customerID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var customer models.Customer
	if err := tx.Where("id = ?", customerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, err
	}

	return auditedSave(ctx, tx, rec, &models.Cart{CustomerID: customerID})
}

func (s *cartService) findCartItem(db *gorm.DB, customerID, productID string) (*models.Cart, *models.CartItem, error) {
	var cart models.Cart
	if err := db.Where("customer_id = ?", customerID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrCartNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var item models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrCartItemNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &cart, &item, nil
}

// availableStock computes how many units of product can still be carted:
// physical stock minus quantities currently blocked in other carts.
// excludeItemID keeps an item's own block from counting against itself.
func availableStock(tx *gorm.DB, product *models.Product, excludeItemID string) (int, error) {
	query := tx.Model(&models.CartItem{}).
		Where("product_id = ? AND is_blocked = ? AND expires_at > ?", product.ID, true, time.Now().UTC())
	if excludeItemID != "" {
		query = query.Where("id <> ?", excludeItemID)
	}

	var blocked int64
	if err := query.Select("COALESCE(SUM(quantity), 0)").Scan(&blocked).Error; err != nil {
		return 0, err
	}

	return product.StockQuantity - int(blocked), nil
}
