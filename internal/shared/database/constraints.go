package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the finalizer relies on
func MigrateConstraints(db *gorm.DB) error {
	// One booking record per session. Finalization is idempotent; a second
	// insert for the same session must fail at the database as well.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_record_per_session
		ON booking_records (session_id);
	`).Error
	if err != nil {
		return err
	}

	// Fast lookup of finalized records by booking reference
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_records_booking_ref
		ON booking_records (booking_ref);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
