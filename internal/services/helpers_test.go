package services

import (
	"gorm.io/gorm"

	"rpgshop/internal/audit"
)

// testRecorder builds a recorder writing to the same test database.
func testRecorder(db *gorm.DB) *audit.Recorder {
	return audit.NewRecorder(audit.NewStore(db))
}
