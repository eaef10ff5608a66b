package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pawndesk-backend/internal/adapters/persistence/models"
)

// UserRepository defines staff user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// PledgeStore is the pledge persistence surface the lifecycle service needs
type PledgeStore interface {
	Create(ctx context.Context, pledge *models.Pledge) error
	GetByID(ctx context.Context, id uint) (*models.Pledge, error)
	GetByPledgeNo(ctx context.Context, pledgeNo string) (*models.Pledge, error)
	List(ctx context.Context, status string, customerID uint, offset, limit int) ([]*models.Pledge, int64, error)
	Update(ctx context.Context, pledge *models.Pledge) error
	CountByYear(ctx context.Context, year int) (int64, error)
}

// RenewalStore is the renewal persistence surface the lifecycle service needs
type RenewalStore interface {
	Create(ctx context.Context, renewal *models.Renewal) error
}

// CustomerStore is the customer persistence surface the lifecycle service needs
type CustomerStore interface {
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	RecordNewPledge(ctx context.Context, id uint, loanAmount decimal.Decimal, visitedAt time.Time) error
	RecordVisit(ctx context.Context, id uint, visitedAt time.Time) error
	RecordPledgeClosed(ctx context.Context, id uint, visitedAt time.Time) error
}

// TransactionStore is the audit trail surface the lifecycle service needs
type TransactionStore interface {
	Create(ctx context.Context, tx *models.PawnTransaction) error
	ListByPledge(ctx context.Context, pledgeID uint) ([]*models.PawnTransaction, error)
}

var (
	_ PledgeStore      = (*PledgeRepository)(nil)
	_ RenewalStore     = (*RenewalRepository)(nil)
	_ CustomerStore    = (*CustomerRepository)(nil)
	_ TransactionStore = (*TransactionRepository)(nil)
)
