package services

import (
	"gorm.io/gorm"

	apperrors "rpgshop/internal/errors"
	"rpgshop/internal/models"
	"rpgshop/internal/pagination"
)

// auditService exposes read-only queries over the audit trail. Writes
// only ever happen through the audit package's store.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// FindByEntity retrieves the audit history of one entity, newest first.
func (s *auditService) FindByEntity(entityName, entityID string, page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error) {
	return s.query(AuditFilter{EntityName: entityName, EntityID: entityID}, page)
}

// FindByFilters retrieves audit records matching the given filters,
// newest first.
func (s *auditService) FindByFilters(filter AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error) {
	return s.query(filter, page)
}

func (s *auditService) query(filter AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditRecord], error) {
	page.Defaults()

	base := s.db.Model(&models.AuditRecord{})
	if filter.EntityName != "" {
		base = base.Where("entity_name = ?", filter.EntityName)
	}
	if filter.EntityID != "" {
		base = base.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Operation != nil {
		base = base.Where("operation = ?", *filter.Operation)
	}
	if filter.Actor != "" {
		base = base.Where("actor = ?", filter.Actor)
	}
	if filter.From != nil {
		base = base.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		base = base.Where("timestamp <= ?", *filter.To)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var records []models.AuditRecord
	if err := base.Scopes(pagination.Paginate(page)).Order("timestamp DESC").Find(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(records, page.Page, page.PageSize, totalItems)
	return &result, nil
}
