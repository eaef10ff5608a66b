package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/adapters/persistence/repositories"
	"pawndesk-backend/internal/core/domain"
	"pawndesk-backend/internal/core/pawncalc"
)

// GoldPriceService handles the purity price table
type GoldPriceService struct {
	priceRepo       *repositories.GoldPriceRepository
	transactionRepo *repositories.TransactionRepository
}

// NewGoldPriceService creates a new gold price service
func NewGoldPriceService(
	priceRepo *repositories.GoldPriceRepository,
	transactionRepo *repositories.TransactionRepository,
) *GoldPriceService {
	return &GoldPriceService{
		priceRepo:       priceRepo,
		transactionRepo: transactionRepo,
	}
}

// List returns the full price table
func (s *GoldPriceService) List(ctx context.Context) ([]*models.GoldPrice, error) {
	return s.priceRepo.GetAll(ctx)
}

// PriceTable snapshots the stored prices into the map the valuation engine
// consumes. Every valuation uses one snapshot, so a price update mid-request
// cannot produce a pledge valued against two different tables.
func (s *GoldPriceService) PriceTable(ctx context.Context) (pawncalc.PriceTable, error) {
	rows, err := s.priceRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrPriceUnavailable
	}

	table := make(pawncalc.PriceTable, len(rows))
	for _, row := range rows {
		table[row.Purity] = row.PricePerGram
	}
	return table, nil
}

// UpdatePriceInput represents a price update for one purity
type UpdatePriceInput struct {
	Purity       string          `json:"purity" validate:"required"`
	PricePerGram decimal.Decimal `json:"price_per_gram" validate:"required"`
	Source       string          `json:"source,omitempty"`
}

// Update upserts the price for one purity and audits the change
func (s *GoldPriceService) Update(ctx context.Context, input *UpdatePriceInput, userID uint, ipAddress string) (*models.GoldPrice, error) {
	if input.Purity == "" {
		return nil, fmt.Errorf("%w: purity is required", domain.ErrValidation)
	}
	if input.PricePerGram.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: price per gram must be positive", domain.ErrValidation)
	}

	row := &models.GoldPrice{
		Purity:       input.Purity,
		PricePerGram: input.PricePerGram.Round(2),
		Source:       input.Source,
		UpdatedBy:    &userID,
	}

	if err := s.priceRepo.Upsert(ctx, row); err != nil {
		return nil, err
	}

	tx := &models.PawnTransaction{
		TransactionType: models.TxTypePriceUpdate,
		Amount:          &row.PricePerGram,
		Description:     fmt.Sprintf("Gold price %s set to %s/g", row.Purity, row.PricePerGram),
		PerformedBy:     userID,
		IPAddress:       ipAddress,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		log.Printf("⚠️ Audit write failed (%s): %v", tx.TransactionType, err)
	}

	log.Printf("💰 Gold price updated: %s = %s/g", row.Purity, row.PricePerGram)

	stored, err := s.priceRepo.GetByPurity(ctx, input.Purity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, nil
		}
		return nil, err
	}
	return stored, nil
}
