package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pawndesk-backend/internal/adapters/persistence/models"
)

// TransactionRepository handles the append-only audit trail
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends an audit row
func (r *TransactionRepository) Create(ctx context.Context, tx *models.PawnTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListByPledge lists the audit history of one pledge, oldest first
func (r *TransactionRepository) ListByPledge(ctx context.Context, pledgeID uint) ([]*models.PawnTransaction, error) {
	var txs []*models.PawnTransaction
	err := r.db.WithContext(ctx).
		Preload("Performer").
		Where("pledge_id = ?", pledgeID).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}

// ListBetween lists audit rows recorded within [from, to), optionally filtered
// by transaction type.
func (r *TransactionRepository) ListBetween(ctx context.Context, from, to time.Time, txType string) ([]*models.PawnTransaction, error) {
	var txs []*models.PawnTransaction
	query := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to)
	if txType != "" {
		query = query.Where("transaction_type = ?", txType)
	}
	err := query.Order("created_at ASC").Find(&txs).Error
	return txs, err
}
