package database

import (
	"fmt"

	"fieldbook/internal/admins"
	"fieldbook/internal/bookings"
	"fieldbook/internal/customers"
	"fieldbook/internal/fields"
	"fieldbook/internal/roles"
	"fieldbook/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	for _, ext := range []string{"uuid-ossp", "btree_gist"} {
		if err := db.Exec(fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS "%s"`, ext)).Error; err != nil {
			return fmt.Errorf("create extension %s: %w", ext, err)
		}
	}

	return db.AutoMigrate(
		&roles.Role{},
		&venues.Venue{},
		&admins.Admin{},
		&customers.Customer{},
		&fields.Field{},
		&fields.FieldImage{},
		&fields.FieldPrice{},
		&bookings.Booking{},
		&bookings.Payment{},
	)
}
