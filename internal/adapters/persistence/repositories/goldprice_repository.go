package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pawndesk-backend/internal/adapters/persistence/models"
)

// GoldPriceRepository handles the purity price table
type GoldPriceRepository struct {
	db *gorm.DB
}

// NewGoldPriceRepository creates a new gold price repository
func NewGoldPriceRepository(db *gorm.DB) *GoldPriceRepository {
	return &GoldPriceRepository{db: db}
}

// GetAll returns the full price table ordered by purity
func (r *GoldPriceRepository) GetAll(ctx context.Context) ([]*models.GoldPrice, error) {
	var prices []*models.GoldPrice
	err := r.db.WithContext(ctx).Order("purity DESC").Find(&prices).Error
	return prices, err
}

// GetByPurity gets the price row for one purity
func (r *GoldPriceRepository) GetByPurity(ctx context.Context, purity string) (*models.GoldPrice, error) {
	var price models.GoldPrice
	err := r.db.WithContext(ctx).Where("purity = ?", purity).First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// Upsert inserts or updates the price row keyed by purity
func (r *GoldPriceRepository) Upsert(ctx context.Context, price *models.GoldPrice) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "purity"}},
			DoUpdates: clause.AssignmentColumns([]string{"price_per_gram", "source", "updated_by", "updated_at"}),
		}).
		Create(price).Error
}

// Count returns the number of price rows, used by the seeder
func (r *GoldPriceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GoldPrice{}).Count(&count).Error
	return count, err
}
