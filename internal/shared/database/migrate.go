package database

import (
	"stagepass/internal/notifications"
	"stagepass/internal/orders"
	"stagepass/internal/seats"
	"stagepass/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&seats.Seat{},
		&orders.Order{},
		&notifications.NotificationLog{},
	); err != nil {
		return err
	}

	return migrateConstraints(db)
}

// migrateConstraints adds indexes the booking hot path depends on
func migrateConstraints(db *gorm.DB) error {
	// Lock resolution scans by holder and expiry on every read
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_locked_by_till
		ON seats (locked_by_user_id, locked_till);
	`).Error
	if err != nil {
		return err
	}

	// Section lookups group by physical placement
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_row_column
		ON seats ("row", "column", index_from_left);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
