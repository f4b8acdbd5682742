package audit

import (
	"encoding/json"
	"fmt"
	"reflect"

	"rpgshop/internal/logger"
)

// Serialize converts an entity into its canonical text snapshot: JSON with
// struct fields emitted in declaration order. It never fails outward; when
// marshalling errors, it degrades to a best-effort textual form so the
// audit record can still be written.
func Serialize(entity any) string {
	data, err := json.Marshal(entity)
	if err != nil {
		logger.Get().Warnw("failed to serialize entity snapshot", "entity", EntityName(entity), "error", err)
		return fmt.Sprintf("%+v", entity)
	}
	return string(data)
}

// EntityName resolves the logical type name of an entity for audit records.
func EntityName(entity any) string {
	if entity == nil {
		return "Unknown"
	}
	t := reflect.TypeOf(entity)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "Unknown"
	}
	return t.Name()
}
