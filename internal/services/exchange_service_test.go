package services

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rpgshop/internal/models"
	"rpgshop/internal/testutil"
)

func TestRequestExchange(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		request, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    1,
			Reason:      "damaged cover",
		})
		testutil.AssertNoError(t, err)

		if request.Status != models.ExchangeStatusRequested {
			t.Errorf("expected REQUESTED, got %q", request.Status)
		}

		var reloadedOrder models.Order
		if err := db.Where("id = ?", order.ID).First(&reloadedOrder).Error; err != nil {
			t.Fatalf("failed to reload order: %v", err)
		}
		if reloadedOrder.Status != models.OrderStatusInExchange {
			t.Errorf("expected the order IN_EXCHANGE, got %q", reloadedOrder.Status)
		}
	})

	t.Run("requires_reason", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		_, err := svc.RequestExchange(context.Background(), ExchangeInput{Quantity: 1})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("only_delivered_orders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusApproved)

		_, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    1,
			Reason:      "too soon",
		})
		testutil.AssertAppError(t, err, "INVALID_ORDER_STATUS")
	})

	t.Run("quantity_capped_at_purchased", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		_, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    5,
			Reason:      "asking for more than bought",
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("one_open_request_per_item", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		_, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    1,
			Reason:      "first request",
		})
		testutil.AssertNoError(t, err)

		// Put the order back to DELIVERED to isolate the open-request guard.
		if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", models.OrderStatusDelivered).Error; err != nil {
			t.Fatalf("failed to reset order status: %v", err)
		}

		_, err = svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    1,
			Reason:      "second request",
		})
		testutil.AssertAppError(t, err, "EXCHANGE_ALREADY_OPEN")
	})

	t.Run("item_must_belong_to_order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)
		otherOrder := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		_, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: otherOrder.Items[0].ID,
			Quantity:    1,
			Reason:      "wrong order",
		})
		testutil.AssertAppError(t, err, "ORDER_ITEM_NOT_FOUND")
	})
}

func TestAuthorizeExchange(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		request, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    1,
			Reason:      "damaged",
		})
		testutil.AssertNoError(t, err)

		authorized, err := svc.AuthorizeExchange(context.Background(), request.ID)
		testutil.AssertNoError(t, err)
		if authorized.Status != models.ExchangeStatusAuthorized {
			t.Errorf("expected AUTHORIZED, got %q", authorized.Status)
		}
		if authorized.AuthorizedAt == nil {
			t.Error("expected AuthorizedAt to be stamped")
		}
	})

	t.Run("only_requested", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		request, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    1,
			Reason:      "damaged",
		})
		testutil.AssertNoError(t, err)

		_, err = svc.AuthorizeExchange(context.Background(), request.ID)
		testutil.AssertNoError(t, err)

		_, err = svc.AuthorizeExchange(context.Background(), request.ID)
		testutil.AssertAppError(t, err, "INVALID_EXCHANGE_STATUS")
	})
}

func TestDenyExchange(t *testing.T) {
	t.Run("restores_delivered_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		request, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    1,
			Reason:      "changed my mind about exchanging",
		})
		testutil.AssertNoError(t, err)

		denied, err := svc.DenyExchange(context.Background(), request.ID)
		testutil.AssertNoError(t, err)
		if denied.Status != models.ExchangeStatusDenied {
			t.Errorf("expected DENIED, got %q", denied.Status)
		}

		var reloadedOrder models.Order
		if err := db.Where("id = ?", order.ID).First(&reloadedOrder).Error; err != nil {
			t.Fatalf("failed to reload order: %v", err)
		}
		if reloadedOrder.Status != models.OrderStatusDelivered {
			t.Errorf("expected the order back to DELIVERED, got %q", reloadedOrder.Status)
		}
	})
}

func TestReceiveExchangeItems(t *testing.T) {
	// authorize opens and authorizes an exchange for the full 2-unit item
	// of a fresh delivered order.
	authorize := func(t *testing.T, db *gorm.DB, svc ExchangeServicer) (*models.ExchangeRequest, *models.Order) {
		t.Helper()

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		request, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    2,
			Reason:      "wrong edition",
		})
		testutil.AssertNoError(t, err)

		request, err = svc.AuthorizeExchange(context.Background(), request.ID)
		testutil.AssertNoError(t, err)
		return request, order
	}

	t.Run("restock_and_coupon", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		request, order := authorize(t, db, svc)

		received, err := svc.ReceiveExchangeItems(context.Background(), request.ID, true)
		testutil.AssertNoError(t, err)

		if received.Status != models.ExchangeStatusCompleted {
			t.Errorf("expected COMPLETED, got %q", received.Status)
		}
		if received.ReceivedAt == nil {
			t.Error("expected ReceivedAt to be stamped")
		}
		if !received.ReturnToStock {
			t.Error("expected the restock decision to be recorded")
		}
		if received.CouponID == nil {
			t.Fatal("expected a coupon issued for the returned value")
		}

		var coupon models.Coupon
		if err := db.Where("id = ?", *received.CouponID).First(&coupon).Error; err != nil {
			t.Fatalf("failed to load the issued coupon: %v", err)
		}
		// 2 units at 30.00 each.
		if !coupon.Value.Equal(decimal.RequireFromString("60.00")) {
			t.Errorf("expected a 60.00 coupon, got %s", coupon.Value)
		}
		if !strings.HasPrefix(coupon.Code, "TROCA-") {
			t.Errorf("expected a TROCA- code, got %q", coupon.Code)
		}
		if coupon.CustomerID == nil || *coupon.CustomerID != order.CustomerID {
			t.Errorf("expected the coupon bound to the order's customer, got %v", coupon.CustomerID)
		}

		var product models.Product
		if err := db.Where("id = ?", order.Items[0].ProductID).First(&product).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if product.StockQuantity != 12 {
			t.Errorf("expected stock 12 after restocking 2 onto 10, got %d", product.StockQuantity)
		}

		var reloadedOrder models.Order
		if err := db.Where("id = ?", order.ID).First(&reloadedOrder).Error; err != nil {
			t.Fatalf("failed to reload order: %v", err)
		}
		if reloadedOrder.Status != models.OrderStatusExchanged {
			t.Errorf("expected the order EXCHANGED, got %q", reloadedOrder.Status)
		}
	})

	t.Run("without_restock", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		request, order := authorize(t, db, svc)

		received, err := svc.ReceiveExchangeItems(context.Background(), request.ID, false)
		testutil.AssertNoError(t, err)
		if received.ReturnToStock {
			t.Error("expected no restock recorded")
		}

		var product models.Product
		if err := db.Where("id = ?", order.Items[0].ProductID).First(&product).Error; err != nil {
			t.Fatalf("failed to reload product: %v", err)
		}
		if product.StockQuantity != 10 {
			t.Errorf("expected stock untouched, got %d", product.StockQuantity)
		}
	})

	t.Run("only_authorized", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExchangeService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)

		request, err := svc.RequestExchange(context.Background(), ExchangeInput{
			OrderID:     order.ID,
			OrderItemID: order.Items[0].ID,
			Quantity:    1,
			Reason:      "not yet authorized",
		})
		testutil.AssertNoError(t, err)

		_, err = svc.ReceiveExchangeItems(context.Background(), request.ID, true)
		testutil.AssertAppError(t, err, "INVALID_EXCHANGE_STATUS")
	})
}
