package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawndesk-backend/internal/adapters/persistence/models"
)

// CustomerRepository handles customer data access
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create creates a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// GetByID gets a customer by ID
func (r *CustomerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByICNumber gets a customer by IC number
func (r *CustomerRepository) GetByICNumber(ctx context.Context, icNumber string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("ic_number = ?", icNumber).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ExistsByICNumber checks if an IC number is already registered
func (r *CustomerRepository) ExistsByICNumber(ctx context.Context, icNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("ic_number = ?", icNumber).Count(&count).Error
	return count > 0, err
}

// List lists customers with pagination, optionally filtered by a search term
// matching name, IC number or phone.
func (r *CustomerRepository) List(ctx context.Context, search string, offset, limit int) ([]*models.Customer, int64, error) {
	var customers []*models.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR ic_number LIKE ? OR phone LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&customers).Error

	return customers, total, err
}

// Update updates a customer
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete soft deletes a customer
func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Customer{}, id).Error
}

// RecordNewPledge bumps the aggregate counters when a pledge is created.
func (r *CustomerRepository) RecordNewPledge(ctx context.Context, id uint, loanAmount decimal.Decimal, visitedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active_pledges": gorm.Expr("active_pledges + 1"),
			"total_pledges":  gorm.Expr("total_pledges + 1"),
			"total_amount":   gorm.Expr("total_amount + ?", loanAmount),
			"last_visit":     visitedAt,
		}).Error
}

// RecordVisit updates the last-visit timestamp (renewals).
func (r *CustomerRepository) RecordVisit(ctx context.Context, id uint, visitedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Update("last_visit", visitedAt).Error
}

// RecordPledgeClosed decrements the active pledge counter, floored at zero,
// and stamps the visit (redemptions).
func (r *CustomerRepository) RecordPledgeClosed(ctx context.Context, id uint, visitedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active_pledges": gorm.Expr("CASE WHEN active_pledges > 0 THEN active_pledges - 1 ELSE 0 END"),
			"last_visit":     visitedAt,
		}).Error
}
