package main

import (
	"context"
	"fmt"
	"os"

	"fieldbook/internal/admins"
	"fieldbook/internal/customers"
	"fieldbook/internal/fields"
	"fieldbook/internal/pricing"
	"fieldbook/internal/roles"
	"fieldbook/internal/shared/config"
	"fieldbook/internal/shared/database"
	"fieldbook/internal/shared/middleware"
	"fieldbook/internal/venues"
	"fieldbook/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "qwerty123"

type Seeder struct {
	db  *database.DB
	log *logger.Logger
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New().WithComponent("seed")

	db, err := database.InitDB(cfg, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	seeder := &Seeder{db: db, log: log}

	log.Info("Cleaning database")
	if err := seeder.CleanDatabase(); err != nil {
		log.WithError(err).Error("Failed to clean database")
		os.Exit(1)
	}

	log.Info("Seeding database")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.WithError(err).Error("Failed to seed database")
		os.Exit(1)
	}

	log.Info("Seeding completed", "password", seedPassword)
}

// CleanDatabase truncates every table, dependents first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"bookings",
		"field_prices",
		"field_images",
		"fields",
		"admins",
		"customers",
		"venues",
		"roles",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Seeder) SeedAll(ctx context.Context) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.db.PostgreSQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleIDs, err := s.seedRoles(tx)
		if err != nil {
			return err
		}
		venue, err := s.seedVenue(tx)
		if err != nil {
			return err
		}
		if err := s.seedAdmins(tx, roleIDs, venue, string(hashed)); err != nil {
			return err
		}
		if err := s.seedCustomers(tx, string(hashed)); err != nil {
			return err
		}
		return s.seedFields(tx, venue)
	})
	if err != nil {
		return err
	}

	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			s.log.WithError(err).Warn("Failed to clear Redis cache")
		}
	}
	return nil
}

func (s *Seeder) seedRoles(tx *gorm.DB) (map[string]*roles.Role, error) {
	out := map[string]*roles.Role{}
	for _, name := range []string{middleware.RoleSuperAdmin, middleware.RoleAdministrator, middleware.RoleAdmin} {
		role := &roles.Role{Name: name}
		if err := tx.Create(role).Error; err != nil {
			return nil, fmt.Errorf("failed to create role %s: %w", name, err)
		}
		out[name] = role
	}
	s.log.Info("Seeded roles", "count", len(out))
	return out, nil
}

func (s *Seeder) seedVenue(tx *gorm.DB) (*venues.Venue, error) {
	desc := "Indoor futsal arena with vinyl and synthetic grass courts"
	lat, lng := -6.2297, 106.8295
	venue := &venues.Venue{
		Name:        "Arena Futsal Kuningan",
		Address:     "Jl. HR Rasuna Said Kav. 10, Jakarta Selatan",
		Description: &desc,
		Latitude:    &lat,
		Longitude:   &lng,
	}
	if err := tx.Create(venue).Error; err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	s.log.Info("Seeded venue", "name", venue.Name)
	return venue, nil
}

func (s *Seeder) seedAdmins(tx *gorm.DB, roleIDs map[string]*roles.Role, venue *venues.Venue, password string) error {
	data := []struct {
		email, name, role string
		scoped            bool
	}{
		{"superadmin@fieldbook.id", "Super Admin", middleware.RoleSuperAdmin, false},
		{"manager@fieldbook.id", "Venue Manager", middleware.RoleAdministrator, true},
		{"staff@fieldbook.id", "Front Desk", middleware.RoleAdmin, true},
	}

	for _, d := range data {
		admin := &admins.Admin{
			Email:    d.email,
			Password: password,
			Name:     d.name,
			RoleID:   roleIDs[d.role].ID,
		}
		if d.scoped {
			admin.VenueID = &venue.ID
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin %s: %w", d.email, err)
		}
		s.log.Info("Seeded admin", "email", d.email, "role", d.role)
	}
	return nil
}

func (s *Seeder) seedCustomers(tx *gorm.DB, password string) error {
	phone := "081234567890"
	for _, c := range []*customers.Customer{
		{Email: "rani@example.com", Name: "Rani Putri", Phone: &phone, Password: password},
		{Email: "budi@example.com", Name: "Budi Santoso", Password: password},
	} {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("failed to create customer %s: %w", c.Email, err)
		}
	}
	s.log.Info("Seeded customers", "count", 2)
	return nil
}

// weekday days are cheap until 17:00, weekends cost the peak rate all day
func seedTiers(offPeak, peak int64) []pricing.Tier {
	return []pricing.Tier{
		{DayType: pricing.Weekday, StartHour: 6, EndHour: 17, Price: offPeak},
		{DayType: pricing.Weekday, StartHour: 17, EndHour: 24, Price: peak},
		{DayType: pricing.Weekend, StartHour: 6, EndHour: 24, Price: peak},
	}
}

func (s *Seeder) seedFields(tx *gorm.DB, venue *venues.Venue) error {
	length, width := 25.0, 15.0
	data := []struct {
		name          string
		fieldType     fields.FieldType
		active        bool
		offPeak, peak int64
	}{
		{"Lapangan A (Vinyl)", fields.TypeFutsal, true, 120000, 180000},
		{"Lapangan B (Sintetis)", fields.TypeFutsal, true, 100000, 150000},
		{"Lapangan C (Mini Soccer)", fields.TypeMiniSoccer, true, 250000, 350000},
		{"Lapangan D (Renovasi)", fields.TypeFutsal, false, 100000, 150000},
	}

	for _, d := range data {
		tiers := seedTiers(d.offPeak, d.peak)
		if err := pricing.ValidateTiers(tiers); err != nil {
			return fmt.Errorf("invalid seed tiers for %s: %w", d.name, err)
		}

		field := &fields.Field{
			VenueID:     venue.ID,
			Name:        d.name,
			Type:        d.fieldType,
			IsActive:    d.active,
			LengthMeter: &length,
			WidthMeter:  &width,
		}
		for _, t := range tiers {
			field.Prices = append(field.Prices, fields.FieldPrice{
				DayType:   t.DayType,
				StartHour: t.StartHour,
				EndHour:   t.EndHour,
				Price:     t.Price,
			})
		}

		// Create with associations also inserts the price rows
		if err := tx.Create(field).Error; err != nil {
			return fmt.Errorf("failed to create field %s: %w", d.name, err)
		}
		s.log.Info("Seeded field", "name", d.name, "active", d.active)
	}
	return nil
}
