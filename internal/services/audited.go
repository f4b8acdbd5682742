package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rpgshop/internal/audit"
)

// findCurrent builds the audit lookup for an entity type: fetch the
// current persisted row by primary key, reporting absence without error.
func findCurrent[T any, PT interface {
	*T
	audit.Identifiable
}](db *gorm.DB) audit.LookupFunc[PT] {
	return func(ctx context.Context, id string) (PT, bool, error) {
		var entity T
		err := db.WithContext(ctx).First(&entity, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return PT(&entity), true, nil
	}
}

// auditedSave persists entity through the audit interceptor. Every
// tracked-entity save in the service layer goes through here; the audit
// store and the user store are the deliberate exceptions.
func auditedSave[T any, PT interface {
	*T
	audit.Identifiable
}](ctx context.Context, db *gorm.DB, recorder *audit.Recorder, entity PT) (PT, error) {
	return audit.Intercept(ctx, recorder, findCurrent[T, PT](db), entity,
		func(ctx context.Context, target PT) (PT, error) {
			if err := db.WithContext(ctx).Save(target).Error; err != nil {
				return nil, err
			}
			return target, nil
		})
}

// txRecorder returns a recorder whose appends share tx's transactional
// boundary, so a business rollback also rolls back the audit rows.
func txRecorder(tx *gorm.DB) *audit.Recorder {
	return audit.NewRecorder(audit.NewStore(tx))
}
