package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/core/domain"
)

// PledgeRepository handles pledge data access
type PledgeRepository struct {
	db *gorm.DB
}

// NewPledgeRepository creates a new pledge repository
func NewPledgeRepository(db *gorm.DB) *PledgeRepository {
	return &PledgeRepository{db: db}
}

// Create creates a new pledge together with its items
func (r *PledgeRepository) Create(ctx context.Context, pledge *models.Pledge) error {
	return r.db.WithContext(ctx).Create(pledge).Error
}

// GetByID gets a pledge by ID with relations
func (r *PledgeRepository) GetByID(ctx context.Context, id uint) (*models.Pledge, error) {
	var pledge models.Pledge
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Renewals").
		First(&pledge, id).Error
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

// GetByPledgeNo gets a pledge by its human-readable number
func (r *PledgeRepository) GetByPledgeNo(ctx context.Context, pledgeNo string) (*models.Pledge, error) {
	var pledge models.Pledge
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Renewals").
		Where("pledge_no = ?", pledgeNo).
		First(&pledge).Error
	if err != nil {
		return nil, err
	}
	return &pledge, nil
}

// List lists pledges with pagination and optional filters
func (r *PledgeRepository) List(ctx context.Context, status string, customerID uint, offset, limit int) ([]*models.Pledge, int64, error) {
	var pledges []*models.Pledge
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Pledge{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID != 0 {
		query = query.Where("customer_id = ?", customerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Customer").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&pledges).Error

	return pledges, total, err
}

// ListByCustomer lists a customer's pledges, newest first
func (r *PledgeRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*models.Pledge, error) {
	var pledges []*models.Pledge
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Renewals").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&pledges).Error
	return pledges, err
}

// ListCreatedBetween lists pledges originated within [from, to)
func (r *PledgeRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*models.Pledge, error) {
	var pledges []*models.Pledge
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&pledges).Error
	return pledges, err
}

// ListRedeemedBetween lists pledges redeemed within [from, to)
func (r *PledgeRepository) ListRedeemedBetween(ctx context.Context, from, to time.Time) ([]*models.Pledge, error) {
	var pledges []*models.Pledge
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.StatusRedeemed)).
		Where("redeemed_at >= ? AND redeemed_at < ?", from, to).
		Find(&pledges).Error
	return pledges, err
}

// Update updates a pledge
func (r *PledgeRepository) Update(ctx context.Context, pledge *models.Pledge) error {
	return r.db.WithContext(ctx).Save(pledge).Error
}

// CountByYear counts pledges originated in a given year, used to derive the
// next sequential pledge number. Includes soft-deleted rows so numbers are
// never reissued.
func (r *PledgeRepository) CountByYear(ctx context.Context, year int) (int64, error) {
	var count int64
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(1, 0, 0)
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Pledge{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// MarkOverdue flips every lapsed active pledge to overdue and returns the
// number of rows touched. The stored column is a cache for SQL filters; the
// derived status stays authoritative on reads.
func (r *PledgeRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Pledge{}).
		Where("status = ?", string(domain.StatusActive)).
		Where("due_date < ?", now).
		Update("status", string(domain.StatusOverdue))
	return res.RowsAffected, res.Error
}

// RenewalRepository handles renewal data access
type RenewalRepository struct {
	db *gorm.DB
}

// NewRenewalRepository creates a new renewal repository
func NewRenewalRepository(db *gorm.DB) *RenewalRepository {
	return &RenewalRepository{db: db}
}

// Create appends a renewal record
func (r *RenewalRepository) Create(ctx context.Context, renewal *models.Renewal) error {
	return r.db.WithContext(ctx).Create(renewal).Error
}

// ListBetween lists renewals recorded within [from, to)
func (r *RenewalRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Renewal, error) {
	var renewals []*models.Renewal
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Find(&renewals).Error
	return renewals, err
}
