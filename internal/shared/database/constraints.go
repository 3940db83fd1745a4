package database

import (
	"fmt"

	"fieldbook/internal/bookings"

	"gorm.io/gorm"
)

const exclusionConstraint = bookings.ExclusionConstraintName

var constraintStatements = []string{
	// storage-level backstop for the row-locked availability check
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + exclusionConstraint + `') THEN
			ALTER TABLE bookings ADD CONSTRAINT ` + exclusionConstraint + `
			EXCLUDE USING gist (
				field_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			) WHERE (status <> 'CANCELLED');
		END IF;
	END $$;`,

	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_time_order') THEN
			ALTER TABLE bookings ADD CONSTRAINT bookings_time_order CHECK (start_time < end_time);
		END IF;
	END $$;`,

	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'field_prices_hour_range') THEN
			ALTER TABLE field_prices ADD CONSTRAINT field_prices_hour_range
			CHECK (start_hour BETWEEN 0 AND 23 AND end_hour BETWEEN 1 AND 24 AND end_hour > start_hour AND price >= 0);
		END IF;
	END $$;`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_field_window ON bookings (field_id, start_time, end_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_customer_created ON bookings (customer_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments (status)`,
}

// MigrateConstraints adds constraints and indexes AutoMigrate cannot express
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}
