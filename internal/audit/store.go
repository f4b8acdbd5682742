package audit

import (
	"context"

	"gorm.io/gorm"

	"rpgshop/internal/models"
)

// Store is the GORM-backed audit sink. Its own appends are never routed
// through Intercept, which keeps the interceptor from recursing into the
// log it writes.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store over db. Pass a transaction handle to make the
// append share the caller's transactional boundary.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Append writes one audit record. Records are write-once; the store
// exposes no update or delete.
func (s *Store) Append(ctx context.Context, record *models.AuditRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}
