package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/testutil"
)

func TestCreateCoupon(t *testing.T) {
	t.Run("normalizes_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCouponService(db, testRecorder(db))

		coupon, err := svc.CreateCoupon(context.Background(), CouponInput{
			Code:  "  summer10  ",
			Type:  models.CouponTypePromotional,
			Value: decimal.RequireFromString("10.00"),
		})
		testutil.AssertNoError(t, err)

		if coupon.Code != "SUMMER10" {
			t.Errorf("expected the code trimmed and upper-cased, got %q", coupon.Code)
		}
		if coupon.IsUsed {
			t.Error("expected a fresh coupon to be unused")
		}
	})

	t.Run("duplicate_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCouponService(db, testRecorder(db))

		_, err := svc.CreateCoupon(context.Background(), CouponInput{
			Code:  "WELCOME",
			Type:  models.CouponTypePromotional,
			Value: decimal.RequireFromString("5.00"),
		})
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCoupon(context.Background(), CouponInput{
			Code:  "welcome",
			Type:  models.CouponTypePromotional,
			Value: decimal.RequireFromString("5.00"),
		})
		testutil.AssertAppError(t, err, "DUPLICATE_COUPON")
	})

	t.Run("exchange_coupon_needs_a_customer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCouponService(db, testRecorder(db))

		_, err := svc.CreateCoupon(context.Background(), CouponInput{
			Code:  "ORPHAN",
			Type:  models.CouponTypeExchange,
			Value: decimal.RequireFromString("5.00"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCouponService(db, testRecorder(db))

		_, err := svc.CreateCoupon(context.Background(), CouponInput{
			Code:  "BADTYPE",
			Type:  models.CouponType("giveaway"),
			Value: decimal.RequireFromString("5.00"),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("non_positive_value", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCouponService(db, testRecorder(db))

		_, err := svc.CreateCoupon(context.Background(), CouponInput{
			Code:  "FREE",
			Type:  models.CouponTypePromotional,
			Value: decimal.Zero,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_customer", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCouponService(db, testRecorder(db))

		missing := "aa6bb8a4-0000-0000-0000-000000000000"
		_, err := svc.CreateCoupon(context.Background(), CouponInput{
			Code:       "GHOST",
			Type:       models.CouponTypeExchange,
			Value:      decimal.RequireFromString("5.00"),
			CustomerID: &missing,
		})
		testutil.AssertAppError(t, err, "CUSTOMER_NOT_FOUND")
	})
}

func TestQueryCoupons(t *testing.T) {
	t.Run("filters_by_customer_and_usage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCouponService(db, testRecorder(db))

		customer := testutil.CreateTestCustomer(t, db)
		other := testutil.CreateTestCustomer(t, db)

		mine := testutil.CreateTestCoupon(t, db, customer.ID, models.CouponTypeExchange, "10.00")
		used := testutil.CreateTestCoupon(t, db, customer.ID, models.CouponTypeExchange, "20.00")
		used.IsUsed = true
		if err := db.Save(used).Error; err != nil {
			t.Fatalf("failed to burn coupon: %v", err)
		}
		testutil.CreateTestCoupon(t, db, other.ID, models.CouponTypeExchange, "30.00")

		unused := false
		page, err := svc.QueryCoupons(pagination.PageRequest{}, CouponFilter{
			CustomerID: customer.ID,
			IsUsed:     &unused,
		})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 coupon, got %d", page.TotalItems)
		}
		if page.Data[0].ID != mine.ID {
			t.Errorf("expected coupon %s, got %s", mine.ID, page.Data[0].ID)
		}
	})
}
