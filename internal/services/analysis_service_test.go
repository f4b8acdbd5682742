package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/testutil"
)

// backdateOrder moves an order's purchase timestamp, bypassing hooks.
func backdateOrder(t *testing.T, db *gorm.DB, orderID string, purchasedAt time.Time) {
	t.Helper()
	err := db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("purchased_at", purchasedAt).Error
	if err != nil {
		t.Fatalf("failed to backdate order: %v", err)
	}
}

func TestSalesInPeriod(t *testing.T) {
	t.Run("excludes_rejected_and_out_of_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalysisService(db)
		customer := testutil.CreateTestCustomer(t, db)

		inPeriod := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusApproved)
		testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusRejected)
		old := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)
		backdateOrder(t, db, old.ID, time.Now().UTC().AddDate(0, -2, 0))

		from := time.Now().UTC().AddDate(0, -1, 0)
		to := time.Now().UTC().Add(time.Hour)
		page, err := svc.SalesInPeriod(from, to, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 order in the period, got %d", page.TotalItems)
		}
		if page.Data[0].ID != inPeriod.ID {
			t.Errorf("expected order %s, got %s", inPeriod.ID, page.Data[0].ID)
		}
		if len(page.Data[0].Items) != 1 {
			t.Errorf("expected the order's items preloaded, got %d", len(page.Data[0].Items))
		}
	})

	t.Run("includes_processing_orders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalysisService(db)
		customer := testutil.CreateTestCustomer(t, db)

		testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusProcessing)

		from := time.Now().UTC().Add(-time.Hour)
		to := time.Now().UTC().Add(time.Hour)
		page, err := svc.SalesInPeriod(from, to, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Errorf("expected the processing order counted, got %d", page.TotalItems)
		}
	})
}

func TestItemsByProductInPeriod(t *testing.T) {
	t.Run("only_the_product_on_live_orders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalysisService(db)
		customer := testutil.CreateTestCustomer(t, db)

		sold := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)
		productID := sold.Items[0].ProductID

		// Same product on a rejected order must not count.
		rejected := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusRejected)
		rejectedItem := &models.OrderItem{
			OrderID:    rejected.ID,
			ProductID:  productID,
			Quantity:   5,
			UnitPrice:  sold.Items[0].UnitPrice,
			TotalPrice: sold.Items[0].UnitPrice.Mul(decimal.NewFromInt(5)),
		}
		if err := db.Create(rejectedItem).Error; err != nil {
			t.Fatalf("failed to create order item: %v", err)
		}

		from := time.Now().UTC().Add(-time.Hour)
		to := time.Now().UTC().Add(time.Hour)
		page, err := svc.ItemsByProductInPeriod(productID, from, to, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 line for the product, got %d", page.TotalItems)
		}
		if page.Data[0].Quantity != 2 {
			t.Errorf("expected the delivered line's quantity 2, got %d", page.Data[0].Quantity)
		}
		if page.Data[0].Product == nil {
			t.Error("expected the product preloaded on the line")
		}
	})
}

func TestItemsByCategoryInPeriod(t *testing.T) {
	t.Run("follows_the_category_join", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalysisService(db)
		customer := testutil.CreateTestCustomer(t, db)

		order := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusApproved)
		category := testutil.CreateTestCategory(t, db)

		var product models.Product
		if err := db.First(&product, "id = ?", order.Items[0].ProductID).Error; err != nil {
			t.Fatalf("failed to load product: %v", err)
		}
		if err := db.Model(&product).Association("Categories").Append(category); err != nil {
			t.Fatalf("failed to link category: %v", err)
		}

		// A second order whose product has no category.
		testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusApproved)

		from := time.Now().UTC().Add(-time.Hour)
		to := time.Now().UTC().Add(time.Hour)
		page, err := svc.ItemsByCategoryInPeriod(category.ID, from, to, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 line in the category, got %d", page.TotalItems)
		}
		if page.Data[0].ProductID != product.ID {
			t.Errorf("expected product %s, got %s", product.ID, page.Data[0].ProductID)
		}
	})
}

func TestQuantitySoldByProduct(t *testing.T) {
	t.Run("sums_across_orders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalysisService(db)
		customer := testutil.CreateTestCustomer(t, db)

		first := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusDelivered)
		productID := first.Items[0].ProductID

		second := testutil.CreateTestOrder(t, db, customer.ID, models.OrderStatusApproved)
		extra := &models.OrderItem{
			OrderID:    second.ID,
			ProductID:  productID,
			Quantity:   3,
			UnitPrice:  first.Items[0].UnitPrice,
			TotalPrice: first.Items[0].UnitPrice.Mul(decimal.NewFromInt(3)),
		}
		if err := db.Create(extra).Error; err != nil {
			t.Fatalf("failed to create order item: %v", err)
		}

		from := time.Now().UTC().Add(-time.Hour)
		to := time.Now().UTC().Add(time.Hour)
		quantity, err := svc.QuantitySoldByProduct(productID, from, to)
		testutil.AssertNoError(t, err)

		if quantity != 5 {
			t.Errorf("expected 5 units sold, got %d", quantity)
		}
	})

	t.Run("zero_when_nothing_sold", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAnalysisService(db)

		product := testutil.CreateTestProduct(t, db, "30.00", 10)

		from := time.Now().UTC().Add(-time.Hour)
		to := time.Now().UTC().Add(time.Hour)
		quantity, err := svc.QuantitySoldByProduct(product.ID, from, to)
		testutil.AssertNoError(t, err)

		if quantity != 0 {
			t.Errorf("expected 0 units sold, got %d", quantity)
		}
	})
}
