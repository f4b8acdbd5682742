package services

import (
	"context"
	"testing"
	"time"

	"rpgshop/internal/audit"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/testutil"
)

func TestFindByEntity(t *testing.T) {
	t.Run("full_history_newest_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		customers := NewCustomerService(db, testRecorder(db))
		svc := NewAuditService(db)

		created, err := customers.CreateCustomer(context.Background(), CreateCustomerInput{
			Name:     "History Customer",
			Email:    "history@example.com",
			CPF:      "123.456.789-09",
			Password: "secret123",
		})
		testutil.AssertNoError(t, err)

		_, err = customers.UpdateCustomer(context.Background(), created.ID, UpdateCustomerInput{Name: "Renamed"})
		testutil.AssertNoError(t, err)

		page, err := svc.FindByEntity("Customer", created.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 2 {
			t.Fatalf("expected 2 records, got %d", page.TotalItems)
		}
		if page.Data[0].Operation != models.OperationUpdate {
			t.Errorf("expected the update first, got %s", page.Data[0].Operation)
		}
		if page.Data[1].Operation != models.OperationInsert {
			t.Errorf("expected the insert last, got %s", page.Data[1].Operation)
		}
	})
}

func TestFindByFilters(t *testing.T) {
	t.Run("by_actor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		suppliers := NewSupplierService(db, testRecorder(db))
		svc := NewAuditService(db)

		ctx := audit.WithActor(context.Background(), "employee-7")
		_, err := suppliers.CreateSupplier(ctx, SupplierInput{Name: "Traced", CNPJ: "11.222.333/0001-44"})
		testutil.AssertNoError(t, err)

		_, err = suppliers.CreateSupplier(context.Background(), SupplierInput{Name: "Untraced", CNPJ: "55.666.777/0001-88"})
		testutil.AssertNoError(t, err)

		page, err := svc.FindByFilters(AuditFilter{Actor: "employee-7"}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 record for the actor, got %d", page.TotalItems)
		}
	})

	t.Run("by_operation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		suppliers := NewSupplierService(db, testRecorder(db))
		svc := NewAuditService(db)

		created, err := suppliers.CreateSupplier(context.Background(), SupplierInput{Name: "Round Trip", CNPJ: "99.888.777/0001-66"})
		testutil.AssertNoError(t, err)
		_, err = suppliers.DeactivateSupplier(context.Background(), created.ID)
		testutil.AssertNoError(t, err)

		update := models.OperationUpdate
		page, err := svc.FindByFilters(AuditFilter{Operation: &update}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected 1 UPDATE record, got %d", page.TotalItems)
		}
		if page.Data[0].PreviousState == nil {
			t.Error("expected the update to carry a previous-state snapshot")
		}
	})

	t.Run("by_time_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		suppliers := NewSupplierService(db, testRecorder(db))
		svc := NewAuditService(db)

		_, err := suppliers.CreateSupplier(context.Background(), SupplierInput{Name: "Recent", CNPJ: "10.203.040/0001-50"})
		testutil.AssertNoError(t, err)

		future := time.Now().UTC().Add(time.Hour)
		page, err := svc.FindByFilters(AuditFilter{From: &future}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 0 {
			t.Errorf("expected no records after the cutoff, got %d", page.TotalItems)
		}

		past := time.Now().UTC().Add(-time.Hour)
		page, err = svc.FindByFilters(AuditFilter{From: &past}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 1 {
			t.Errorf("expected 1 record since the cutoff, got %d", page.TotalItems)
		}
	})
}
