package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rpgshop/internal/audit"
	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/payment"
	"rpgshop/internal/uuid"
)

// Freight pricing. The store ships from São Paulo; anything outside the
// state pays the interstate factor, anything outside Brazil the
// international one.
var (
	freightPerKilo       = decimal.RequireFromString("2.50")
	freightHandlingFee   = decimal.RequireFromString("3.00")
	freightInterstate    = decimal.RequireFromString("1.25")
	freightInternational = decimal.RequireFromString("1.80")

	minCardPayment   = decimal.RequireFromString("10.00")
	changeCouponDays = 90

	rankingPerItem   = decimal.RequireFromString("0.10")
	rankingPerSource = decimal.RequireFromString("0.05")
	rankingCap       = decimal.RequireFromString("999.99")
)

// orderService handles order placement and lifecycle business logic.
type orderService struct {
	db       *gorm.DB
	recorder *audit.Recorder
	operator payment.Authorizer
}

// NewOrderService creates a new OrderServicer.
func NewOrderService(db *gorm.DB, recorder *audit.Recorder, operator payment.Authorizer) OrderServicer {
	return &orderService{db: db, recorder: recorder, operator: operator}
}

// PlaceOrder builds an order from the customer's cart. The cart must be
// non-empty, every item active with sufficient stock, and the payments
// must cover subtotal plus freight. The order is saved PROCESSING and the
// cart emptied; stock is only decremented at approval.
func (s *orderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	var customer models.Customer
	if err := s.db.Where("id = ?", input.CustomerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !customer.IsActive {
		return nil, apperrors.ErrCustomerDeactivated
	}

	var address models.Address
	if err := s.db.Where("id = ?", input.DeliveryAddressID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAddressNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if address.CustomerID != customer.ID {
		return nil, apperrors.ErrAddressNotOwned
	}

	var cart models.Cart
	err := s.db.Preload("Items").Preload("Items.Product").
		Where("customer_id = ?", customer.ID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmptyCart
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	subtotal := decimal.Zero
	totalWeight := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		product := cartItem.Product
		if product == nil || !product.IsActive {
			return nil, apperrors.ErrProductInactive
		}
		if cartItem.Quantity > product.StockQuantity {
			return nil, apperrors.ErrInsufficientStock
		}

		lineTotal := product.SalePrice.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		totalWeight = totalWeight.Add(product.Weight.Mul(decimal.NewFromInt(int64(cartItem.Quantity))))

		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			Quantity:   cartItem.Quantity,
			UnitPrice:  product.SalePrice,
			TotalPrice: lineTotal.Round(2),
		})
	}

	freight := freightCost(totalWeight, &address)
	total := subtotal.Add(freight).Round(2)

	payments, err := s.allocatePayments(customer.ID, total, input.Payments)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID:        customer.ID,
		Status:            models.OrderStatusProcessing,
		DeliveryAddressID: address.ID,
		Subtotal:          subtotal.Round(2),
		FreightCost:       freight,
		Total:             total,
		PurchasedAt:       time.Now().UTC(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)

		saved, err := auditedSave(ctx, tx, rec, order)
		if err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = saved.ID
			if _, err := auditedSave(ctx, tx, rec, &items[i]); err != nil {
				return err
			}
		}
		for i := range payments {
			payments[i].OrderID = saved.ID
			if _, err := auditedSave(ctx, tx, rec, &payments[i]); err != nil {
				return err
			}
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, asAppError(err)
	}

	return s.GetOrderByID(order.ID)
}

// ApproveOrder runs the PROCESSING order through the card operator. A
// declined authorization leaves the order REJECTED without an error;
// approval decrements stock, burns coupons, issues a change coupon when
// coupon value exceeded the total, and bumps the customer's ranking.
func (s *orderService) ApproveOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusProcessing {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	couponTotal := decimal.Zero
	for _, p := range order.Payments {
		if p.CouponID == nil {
			continue
		}
		coupon, err := s.validCoupon(order.CustomerID, *p.CouponID)
		if err != nil {
			return nil, err
		}
		couponTotal = couponTotal.Add(coupon.Value)
	}

	decision := s.operator.Authorize(order.CustomerID, order.Total, order.Payments)
	if !decision.Approved {
		order.Status = models.OrderStatusRejected
		saved, err := auditedSave(ctx, s.db, s.recorder, order)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return saved, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		rec := txRecorder(tx)
		now := time.Now().UTC()

		for _, item := range order.Items {
			var product models.Product
			if err := tx.Where("id = ?", item.ProductID).First(&product).Error; err != nil {
				return err
			}
			if product.StockQuantity < item.Quantity {
				return apperrors.ErrInsufficientStock
			}
			product.StockQuantity -= item.Quantity
			if _, err := auditedSave(ctx, tx, rec, &product); err != nil {
				return err
			}
		}

		for _, p := range order.Payments {
			if p.CouponID == nil {
				continue
			}
			var coupon models.Coupon
			if err := tx.Where("id = ?", *p.CouponID).First(&coupon).Error; err != nil {
				return err
			}
			coupon.IsUsed = true
			coupon.UsedAt = &now
			if _, err := auditedSave(ctx, tx, rec, &coupon); err != nil {
				return err
			}
		}

		if change := couponTotal.Sub(order.Total); change.IsPositive() {
			expires := now.AddDate(0, 0, changeCouponDays)
			changeCoupon := &models.Coupon{
				Code:       generateCouponCode("TROCO"),
				Type:       models.CouponTypeExchange,
				Value:      change.Round(2),
				CustomerID: &order.CustomerID,
				ExpiresAt:  &expires,
			}
			if _, err := auditedSave(ctx, tx, rec, changeCoupon); err != nil {
				return err
			}
		}

		var customer models.Customer
		if err := tx.Where("id = ?", order.CustomerID).First(&customer).Error; err != nil {
			return err
		}
		customer.Ranking = nextRanking(customer.Ranking, order)
		if _, err := auditedSave(ctx, tx, rec, &customer); err != nil {
			return err
		}

		order.Status = models.OrderStatusApproved
		_, err := auditedSave(ctx, tx, rec, order)
		return err
	})
	if err != nil {
		return nil, asAppError(err)
	}

	return s.GetOrderByID(order.ID)
}

// RejectOrder moves a PROCESSING order to REJECTED.
func (s *orderService) RejectOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.transition(ctx, orderID, models.OrderStatusProcessing, models.OrderStatusRejected, nil)
}

// DispatchOrder moves an APPROVED order into transit.
func (s *orderService) DispatchOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.transition(ctx, orderID, models.OrderStatusApproved, models.OrderStatusInTransit,
		func(order *models.Order, now time.Time) { order.DispatchedAt = &now })
}

// DeliverOrder marks an IN_TRANSIT order delivered.
func (s *orderService) DeliverOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.transition(ctx, orderID, models.OrderStatusInTransit, models.OrderStatusDelivered,
		func(order *models.Order, now time.Time) { order.DeliveredAt = &now })
}

func (s *orderService) transition(ctx context.Context, orderID string, from, to models.OrderStatus, stamp func(*models.Order, time.Time)) (*models.Order, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != from {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	order.Status = to
	if stamp != nil {
		stamp(order, time.Now().UTC())
	}

	saved, err := auditedSave(ctx, s.db, s.recorder, order)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// GetOrderByID retrieves an order with its items and payments.
func (s *orderService) GetOrderByID(orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Payments").
		Preload("Payments.CreditCard").
		Preload("DeliveryAddress").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &order, nil
}

// QueryOrders retrieves a paginated, filtered order list.
func (s *orderService) QueryOrders(page pagination.PageRequest, filter OrderFilter) (*pagination.PageResponse[models.Order], error) {
	page.Defaults()

	base := s.db.Model(&models.Order{})
	if filter.CustomerID != "" {
		base = base.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

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

// allocatePayments validates the requested payment sources and splits the
// order total across them: coupons first, highest value first, then cards
// capped at the remainder.
func (s *orderService) allocatePayments(customerID string, total decimal.Decimal, inputs []PaymentInput) ([]models.OrderPayment, error) {
	if len(inputs) == 0 {
		return nil, apperrors.ErrPaymentRequired
	}

	type cardPayment struct {
		card   models.CreditCard
		amount decimal.Decimal
	}

	var coupons []models.Coupon
	var cards []cardPayment
	seenCoupons := make(map[string]bool)
	promotional := 0

	for _, in := range inputs {
		switch {
		case in.CouponID != nil:
			if seenCoupons[*in.CouponID] {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidPayment, "duplicate coupon")
			}
			seenCoupons[*in.CouponID] = true

			coupon, err := s.validCoupon(customerID, *in.CouponID)
			if err != nil {
				return nil, err
			}
			if coupon.Type == models.CouponTypePromotional {
				promotional++
				if promotional > 1 {
					return nil, apperrors.ErrDuplicatePromotion
				}
			}
			coupons = append(coupons, *coupon)

		case in.CreditCardID != nil:
			var card models.CreditCard
			if err := s.db.Where("id = ?", *in.CreditCardID).First(&card).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, apperrors.ErrCreditCardNotFound
				}
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if card.CustomerID != customerID {
				return nil, apperrors.ErrCreditCardNotOwned
			}
			if in.Amount == nil || !in.Amount.IsPositive() {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidPayment, "card payments need a positive amount")
			}
			cards = append(cards, cardPayment{card: card, amount: *in.Amount})

		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidPayment, "payment needs a card or a coupon")
		}
	}

	sort.Slice(coupons, func(i, j int) bool {
		return coupons[i].Value.GreaterThan(coupons[j].Value)
	})

	// Coupons are recorded at their full face value; overshoot comes back
	// as a change coupon at approval. Coupons beyond coverage are simply
	// not used.
	var payments []models.OrderPayment
	remaining := total
	for i := range coupons {
		if !remaining.IsPositive() {
			break
		}
		coupon := coupons[i]
		remaining = remaining.Sub(coupon.Value)
		payments = append(payments, models.OrderPayment{
			CouponID: &coupon.ID,
			Amount:   coupon.Value,
		})
	}

	for i := range cards {
		if !remaining.IsPositive() {
			break
		}
		applied := decimal.Min(cards[i].amount, remaining)
		if applied.LessThan(minCardPayment) && len(coupons) == 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidPayment, "card payments below R$10.00 need a coupon on the order")
		}
		remaining = remaining.Sub(applied)
		payments = append(payments, models.OrderPayment{
			CreditCardID: &cards[i].card.ID,
			Amount:       applied.Round(2),
		})
	}

	if remaining.IsPositive() {
		return nil, apperrors.ErrPaymentShortfall
	}
	return payments, nil
}

// validCoupon checks ownership, expiry and single-use on a coupon.
func (s *orderService) validCoupon(customerID, couponID string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.Where("id = ?", couponID).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCouponNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if coupon.CustomerID != nil && *coupon.CustomerID != customerID {
		return nil, apperrors.ErrCouponNotOwned
	}
	if coupon.IsUsed {
		return nil, apperrors.ErrCouponUsed
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now().UTC()) {
		return nil, apperrors.ErrCouponExpired
	}
	return &coupon, nil
}

// freightCost prices shipping by weight plus handling, scaled up for
// interstate and international destinations.
func freightCost(totalWeight decimal.Decimal, address *models.Address) decimal.Decimal {
	cost := totalWeight.Mul(freightPerKilo).Add(freightHandlingFee)

	country := strings.ToUpper(strings.TrimSpace(address.Country))
	state := strings.ToUpper(strings.TrimSpace(address.State))

	switch {
	case country != "BR" && country != "BRASIL" && country != "BRAZIL":
		cost = cost.Mul(freightInternational)
	case state != "SP" && state != "SAO PAULO":
		cost = cost.Mul(freightInterstate)
	}
	return cost.Round(2)
}

// nextRanking bumps a customer's ranking for an approved order.
func nextRanking(current decimal.Decimal, order *models.Order) decimal.Decimal {
	quantity := 0
	for _, item := range order.Items {
		quantity += item.Quantity
	}

	bump := order.Total.Div(decimal.NewFromInt(100)).
		Add(rankingPerItem.Mul(decimal.NewFromInt(int64(quantity)))).
		Add(rankingPerSource.Mul(decimal.NewFromInt(int64(len(order.Payments)))))

	next := current.Add(bump).Round(2)
	if next.GreaterThan(rankingCap) {
		return rankingCap
	}
	return next
}

// generateCouponCode builds codes like TROCO-1A2B3C4D.
func generateCouponCode(prefix string) string {
	id := strings.ReplaceAll(uuid.New(), "-", "")
	return prefix + "-" + strings.ToUpper(id[len(id)-8:])
}
