package config

import (
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/core/domain"
	"pawndesk-backend/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedGoldPrices(); err != nil {
		log.Printf("⚠️ Gold price seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		FullName: "Administrator",
		Email:    "admin@pawndesk.local",
		Password: hashedPassword,
		Role:     "ADMIN",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}

// seedGoldPrices seeds one price row per known purity so the valuation screen
// works on a fresh database. The figures are placeholders an admin is expected
// to overwrite on day one.
func (s *Seeder) seedGoldPrices() error {
	var count int64
	s.db.Model(&models.GoldPrice{}).Count(&count)
	if count > 0 {
		return nil // Price table already populated
	}

	placeholder := map[string]string{
		domain.Purity999: "330.00",
		domain.Purity916: "300.00",
		domain.Purity875: "285.00",
		domain.Purity750: "245.00",
		domain.Purity585: "190.00",
		domain.Purity375: "120.00",
	}

	for _, purity := range domain.KnownPurities {
		price, err := decimal.NewFromString(placeholder[purity])
		if err != nil {
			return err
		}
		row := &models.GoldPrice{
			Purity:       purity,
			PricePerGram: price,
			Source:       "seed",
		}
		if err := s.db.Create(row).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Gold price table seeded with %d purities", len(domain.KnownPurities))
	return nil
}
