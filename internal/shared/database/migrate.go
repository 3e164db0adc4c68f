package database

import (
	"tourly/internal/booking"
	"tourly/internal/catalog"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&catalog.Tour{},
		&catalog.TourOption{},
		&booking.BookingRecord{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
