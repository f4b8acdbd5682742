package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"rpgshop/internal/audit"
	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// supplierService handles supplier-related business logic.
type supplierService struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewSupplierService creates a new SupplierServicer.
func NewSupplierService(db *gorm.DB, recorder *audit.Recorder) SupplierServicer {
	return &supplierService{db: db, recorder: recorder}
}

// CreateSupplier registers a new supplier.
func (s *supplierService) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "supplier name is required")
	}
	if strings.TrimSpace(input.CNPJ) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cnpj is required")
	}

	var count int64
	if err := s.db.Model(&models.Supplier{}).Where("cnpj = ?", input.CNPJ).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a supplier with this CNPJ already exists")
	}

	supplier := &models.Supplier{
		Name:      input.Name,
		LegalName: input.LegalName,
		CNPJ:      input.CNPJ,
		Email:     input.Email,
		Phone:     input.Phone,
		IsActive:  true,
	}

	saved, err := auditedSave(ctx, s.db, s.recorder, supplier)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// DeactivateSupplier marks the supplier inactive. Existing stock entries
// referencing it are untouched.
func (s *supplierService) DeactivateSupplier(ctx context.Context, supplierID string) (*models.Supplier, error) {
	supplier, err := s.GetSupplierByID(supplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.IsActive {
		return supplier, nil
	}

	now := time.Now().UTC()
	supplier.IsActive = false
	supplier.DeactivatedAt = &now

	saved, err := auditedSave(ctx, s.db, s.recorder, supplier)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return saved, nil
}

// GetSupplierByID retrieves a supplier.
func (s *supplierService) GetSupplierByID(supplierID string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.Where("id = ?", supplierID).First(&supplier).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSupplierNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &supplier, nil
}

// GetSuppliers retrieves a paginated supplier list.
func (s *supplierService) GetSuppliers(page pagination.PageRequest) (*pagination.PageResponse[models.Supplier], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Supplier{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var suppliers []models.Supplier
	if err := s.db.Scopes(pagination.Paginate(page)).Order("name ASC").Find(&suppliers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(suppliers, page.Page, page.PageSize, totalItems)
	return &result, nil
}
