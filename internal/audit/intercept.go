// Package audit produces one immutable AuditRecord for every successful
// create-or-update of a tracked entity. Persistence code opts in by
// wrapping its save in Intercept; the decorator classifies the mutation
// as insert or update by looking up the entity's current state, runs the
// mutation, and appends a record to the sink. Auditing is advisory: its
// own failures are logged and swallowed, and the wrapped mutation's
// outcome is never changed.
package audit

import (
	"context"
	"time"

	"rpgshop/internal/logger"
	"rpgshop/internal/models"
)

// Identifiable is the capability every tracked entity exposes: a primary
// identifier, empty when the entity has not been assigned one yet.
type Identifiable interface {
	EntityID() string
}

// LookupFunc fetches the current persisted state for an identifier.
// It reports found=false, err=nil when no record exists.
type LookupFunc[T Identifiable] func(ctx context.Context, id string) (T, bool, error)

// MutationFunc performs the deferred persistence operation on target and
// returns the persisted result.
type MutationFunc[T Identifiable] func(ctx context.Context, target T) (T, error)

// Sink is an append-only store for audit records. No update or delete
// operation is exposed.
type Sink interface {
	Append(ctx context.Context, record *models.AuditRecord) error
}

// Recorder appends audit records to a sink.
type Recorder struct {
	sink Sink
}

// NewRecorder creates a Recorder over the given sink.
func NewRecorder(sink Sink) *Recorder {
	return &Recorder{sink: sink}
}

// Intercept wraps a persistence mutation with audit bookkeeping.
//
// The prior-state lookup is not transactionally isolated from the
// mutation: concurrent updates to the same entity may record a
// previousState that is stale relative to true commit order. This is a
// known, accepted race.
//
// Exactly two outcomes are visible to the caller: the mutation's result,
// or the mutation's error. Lookup, serialization and append failures are
// logged and absorbed.
func Intercept[T Identifiable](
	ctx context.Context,
	recorder *Recorder,
	lookup LookupFunc[T],
	target T,
	mutate MutationFunc[T],
) (T, error) {
	entityName := EntityName(target)
	priorID := target.EntityID()

	operation := models.OperationInsert
	var previousState *string

	if priorID != "" && lookup != nil {
		current, found, err := lookup(ctx, priorID)
		if err != nil {
			logger.Get().Warnw("audit prior-state lookup failed",
				"entity", entityName,
				"entity_id", priorID,
				"error", err,
			)
		} else if found {
			operation = models.OperationUpdate
			snapshot := Serialize(current)
			previousState = &snapshot
		}
	}

	result, err := mutate(ctx, target)
	if err != nil {
		// The mutation failed: propagate unchanged, write nothing.
		return result, err
	}

	recorder.record(ctx, entityName, priorID, operation, previousState, result)
	return result, nil
}

// record builds and appends the audit record for a successful mutation.
// Failures here must not reach the caller.
func (r *Recorder) record(
	ctx context.Context,
	entityName string,
	priorID string,
	operation models.OperationType,
	previousState *string,
	result Identifiable,
) {
	id := result.EntityID()
	if id == "" {
		id = priorID
	}
	var entityID *string
	if id != "" {
		entityID = &id
	}

	var actor *string
	if actorID, ok := ActorFrom(ctx); ok {
		actor = &actorID
	}

	record := &models.AuditRecord{
		EntityName:    entityName,
		EntityID:      entityID,
		Operation:     operation,
		Actor:         actor,
		Timestamp:     time.Now().UTC(),
		PreviousState: previousState,
		NewState:      Serialize(result),
	}

	if err := r.sink.Append(ctx, record); err != nil {
		logger.Get().Errorw("failed to append audit record",
			"entity", entityName,
			"entity_id", id,
			"operation", operation,
			"error", err,
		)
	}
}
