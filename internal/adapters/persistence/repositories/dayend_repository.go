package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pawndesk-backend/internal/adapters/persistence/models"
)

// DayEndRepository handles day-end reconciliation records
type DayEndRepository struct {
	db *gorm.DB
}

// NewDayEndRepository creates a new day-end repository
func NewDayEndRepository(db *gorm.DB) *DayEndRepository {
	return &DayEndRepository{db: db}
}

// GetByDate gets the record for one calendar date
func (r *DayEndRepository) GetByDate(ctx context.Context, date time.Time) (*models.DayEndRecord, error) {
	var record models.DayEndRecord
	err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetLatestBefore gets the most recent record strictly before a date, used to
// carry the previous closing balance forward as today's opening balance.
func (r *DayEndRepository) GetLatestBefore(ctx context.Context, date time.Time) (*models.DayEndRecord, error) {
	var record models.DayEndRecord
	err := r.db.WithContext(ctx).
		Where("date < ?", date.Format("2006-01-02")).
		Order("date DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save inserts or overwrites the record for its date (last write wins)
func (r *DayEndRepository) Save(ctx context.Context, record *models.DayEndRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"opening_balance", "cash_in", "cash_out",
				"expected_closing", "closing_balance_actual", "variance",
				"pledge_count", "renewal_count", "redemption_count",
				"notes", "closed_by", "closed_at", "updated_at",
			}),
		}).
		Create(record).Error
}

// DeleteByDate removes the record for a date (reopen)
func (r *DayEndRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Delete(&models.DayEndRecord{}).Error
}

// List lists records within [from, to], newest first
func (r *DayEndRepository) List(ctx context.Context, from, to time.Time, offset, limit int) ([]*models.DayEndRecord, int64, error) {
	var records []*models.DayEndRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DayEndRecord{}).
		Where("date >= ? AND date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("date DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error

	return records, total, err
}
