package models

import (
	"time"

	"rpgshop/internal/uuid"

	"gorm.io/gorm"
)

// OperationType classifies the mutation an audit record describes.
type OperationType string

const (
	OperationInsert OperationType = "INSERT"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
)

// AuditRecord is one immutable fact about an entity mutation. Records are
// written once and never updated or deleted by business logic, so this
// model does not embed Base: there is no UpdatedAt and no soft delete.
type AuditRecord struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	EntityName    string        `gorm:"not null;index:idx_audit_entity" json:"entity_name"`
	EntityID      *string       `gorm:"type:uuid;index:idx_audit_entity" json:"entity_id,omitempty"`
	Operation     OperationType `gorm:"not null" json:"operation"`
	Actor         *string       `gorm:"type:uuid" json:"actor,omitempty"`
	Timestamp     time.Time     `gorm:"not null;index" json:"timestamp"`
	PreviousState *string       `json:"previous_state,omitempty"`
	NewState      string        `gorm:"not null" json:"new_state"`
}

// BeforeCreate assigns the identifier and the write-time timestamp.
// The timestamp is server-assigned and never client-supplied.
func (r *AuditRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return nil
}
