package services

import (
	"context"
	"testing"

	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
	"rpgshop/internal/testutil"
)

func TestCreateSupplier(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSupplierService(db, testRecorder(db))

		supplier, err := svc.CreateSupplier(context.Background(), SupplierInput{
			Name:      "Dados & Cia",
			LegalName: "Dados e Companhia LTDA",
			CNPJ:      "12.345.678/0001-95",
			Email:     "vendas@dadosecia.com.br",
		})
		testutil.AssertNoError(t, err)

		if !supplier.IsActive {
			t.Error("expected new supplier to be active")
		}

		var records int64
		db.Model(&models.AuditRecord{}).Where("entity_name = ?", "Supplier").Count(&records)
		if records != 1 {
			t.Errorf("expected 1 Supplier audit record, got %d", records)
		}
	})

	t.Run("missing_cnpj", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSupplierService(db, testRecorder(db))

		_, err := svc.CreateSupplier(context.Background(), SupplierInput{Name: "No Papers"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_cnpj", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSupplierService(db, testRecorder(db))

		existing := testutil.CreateTestSupplier(t, db)
		_, err := svc.CreateSupplier(context.Background(), SupplierInput{
			Name: "Copycat",
			CNPJ: existing.CNPJ,
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeactivateSupplier(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSupplierService(db, testRecorder(db))

		supplier := testutil.CreateTestSupplier(t, db)
		deactivated, err := svc.DeactivateSupplier(context.Background(), supplier.ID)
		testutil.AssertNoError(t, err)

		if deactivated.IsActive {
			t.Error("expected supplier to be inactive")
		}
		if deactivated.DeactivatedAt == nil {
			t.Error("expected DeactivatedAt to be set")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSupplierService(db, testRecorder(db))

		_, err := svc.DeactivateSupplier(context.Background(), "aa6bb8a4-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "SUPPLIER_NOT_FOUND")
	})
}

func TestGetSuppliers(t *testing.T) {
	t.Run("ordered_by_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSupplierService(db, testRecorder(db))

		first := testutil.CreateTestSupplier(t, db)
		second := testutil.CreateTestSupplier(t, db)

		page, err := svc.GetSuppliers(pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 2 {
			t.Fatalf("expected 2 suppliers, got %d", page.TotalItems)
		}
		// Fixture names are sequential, so creation order is name order.
		if page.Data[0].ID != first.ID || page.Data[1].ID != second.ID {
			t.Errorf("expected suppliers ordered by name")
		}
	})
}
