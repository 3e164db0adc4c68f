package main

import (
	"fmt"
	"log"

	"tourly/internal/catalog"
	"tourly/internal/shared/config"
	"tourly/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Tourly Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedTours(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Catalog is ready for bookings.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"booking_records",
		"tour_options",
		"tours",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedTours inserts the demo tour catalog. Option codes must exist in the
// pricing tariff table or trip validation will reject them.
func (s *Seeder) SeedTours() error {
	tours := []catalog.Tour{
		{
			Reference:        "bali-discovery",
			Name:             "Bali Discovery",
			Description:      "Temples, rice terraces and the best beaches of the island.",
			Country:          "ID",
			BasePackagePrice: 1200,
			DefaultDuration:  7,
			Active:           true,
			Options: []catalog.TourOption{
				{Code: "scuba-diving", Name: "Scuba Diving Day", Kind: "ACTIVITY", UnitPrice: 75},
				{Code: "cooking-class", Name: "Balinese Cooking Class", Kind: "ACTIVITY", UnitPrice: 55},
				{Code: "airport-pickup", Name: "Airport Pickup", Kind: "ADDON", UnitPrice: 20},
				{Code: "travel-insurance", Name: "Travel Insurance", Kind: "ADDON", UnitPrice: 30},
			},
		},
		{
			Reference:        "andes-trek",
			Name:             "Andes Highland Trek",
			Description:      "Nine days across the Sacred Valley with local guides.",
			Country:          "PE",
			BasePackagePrice: 1800,
			DefaultDuration:  9,
			Active:           true,
			Options: []catalog.TourOption{
				{Code: "mountain-hike", Name: "Extra Summit Hike", Kind: "ACTIVITY", UnitPrice: 40},
				{Code: "photo-package", Name: "Professional Photo Package", Kind: "ADDON", UnitPrice: 45},
				{Code: "travel-insurance", Name: "Travel Insurance", Kind: "ADDON", UnitPrice: 30},
			},
		},
		{
			Reference:        "kyoto-classic",
			Name:             "Kyoto Classic",
			Description:      "Gardens, shrines and tea houses at an easy pace.",
			Country:          "JP",
			BasePackagePrice: 2100,
			DefaultDuration:  5,
			Active:           true,
			Options: []catalog.TourOption{
				{Code: "city-tour", Name: "Guided City Tour", Kind: "ACTIVITY", UnitPrice: 25},
				{Code: "cooking-class", Name: "Kaiseki Cooking Class", Kind: "ACTIVITY", UnitPrice: 55},
				{Code: "airport-pickup", Name: "Airport Pickup", Kind: "ADDON", UnitPrice: 20},
			},
		},
		{
			Reference:        "amalfi-escape",
			Name:             "Amalfi Coast Escape",
			Description:      "Cliffside villages, boat days and long dinners.",
			Country:          "IT",
			BasePackagePrice: 1500,
			DefaultDuration:  6,
			Active:           true,
			Options: []catalog.TourOption{
				{Code: "city-tour", Name: "Positano Walking Tour", Kind: "ACTIVITY", UnitPrice: 25},
				{Code: "photo-package", Name: "Coastal Photo Package", Kind: "ADDON", UnitPrice: 45},
				{Code: "travel-insurance", Name: "Travel Insurance", Kind: "ADDON", UnitPrice: 30},
			},
		},
		{
			Reference:        "safari-premier",
			Name:             "Serengeti Safari Premier",
			Description:      "Big five game drives with luxury tented camps.",
			Country:          "TZ",
			BasePackagePrice: 3400,
			DefaultDuration:  8,
			Active:           true,
			Options: []catalog.TourOption{
				{Code: "photo-package", Name: "Wildlife Photo Package", Kind: "ADDON", UnitPrice: 45},
				{Code: "airport-pickup", Name: "Airstrip Transfer", Kind: "ADDON", UnitPrice: 20},
				{Code: "travel-insurance", Name: "Travel Insurance", Kind: "ADDON", UnitPrice: 30},
			},
		},
	}

	for i := range tours {
		if err := s.db.GetPostgreSQL().Create(&tours[i]).Error; err != nil {
			return fmt.Errorf("failed to create tour %s: %w", tours[i].Reference, err)
		}
		fmt.Printf("  Created tour: %s (%s)\n", tours[i].Name, tours[i].Reference)
	}

	return nil
}
