package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/adapters/persistence/repositories"
	"pawndesk-backend/internal/core/domain"
	"pawndesk-backend/internal/core/pawncalc"
)

// DayEndService handles the day-end cash reconciliation: aggregating the
// day's pledge/renewal/redemption cash movement, reconciling against the
// counted drawer, and closing or reopening the day.
type DayEndService struct {
	dayEndRepo      *repositories.DayEndRepository
	pledgeRepo      *repositories.PledgeRepository
	renewalRepo     *repositories.RenewalRepository
	transactionRepo *repositories.TransactionRepository
	now             func() time.Time
}

// NewDayEndService creates a new day-end service
func NewDayEndService(
	dayEndRepo *repositories.DayEndRepository,
	pledgeRepo *repositories.PledgeRepository,
	renewalRepo *repositories.RenewalRepository,
	transactionRepo *repositories.TransactionRepository,
) *DayEndService {
	return &DayEndService{
		dayEndRepo:      dayEndRepo,
		pledgeRepo:      pledgeRepo,
		renewalRepo:     renewalRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// DaySummary is the computed (not yet closed) picture of one trading day
type DaySummary struct {
	Date            string               `json:"date"`
	OpeningBalance  decimal.Decimal      `json:"opening_balance"`
	Totals          pawncalc.DayTotals   `json:"totals"`
	ExpectedClosing decimal.Decimal      `json:"expected_closing"`
	Closed          bool                 `json:"closed"`
	Record          *models.DayEndRecord `json:"record,omitempty"`
}

// Summary aggregates one day's cash movement. The opening balance carries
// forward from the previous closed day's counted drawer; the first day ever
// opens at zero.
func (s *DayEndService) Summary(ctx context.Context, date time.Time) (*DaySummary, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	totals, err := s.totalsFor(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if prev, err := s.dayEndRepo.GetLatestBefore(ctx, dayStart); err == nil {
		opening = prev.ClosingBalanceActual
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	summary := &DaySummary{
		Date:            dayStart.Format("2006-01-02"),
		OpeningBalance:  opening,
		Totals:          totals,
		ExpectedClosing: opening.Add(totals.CashIn).Sub(totals.CashOut),
	}

	if record, err := s.dayEndRepo.GetByDate(ctx, dayStart); err == nil {
		summary.Closed = true
		summary.Record = record
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return summary, nil
}

// CloseDayInput represents day-end close input
type CloseDayInput struct {
	Date           string           `json:"date" validate:"required"`
	ClosingActual  decimal.Decimal  `json:"closing_actual" validate:"required"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// Close reconciles and closes a trading day. Closing an already-closed day
// overwrites the earlier record; both writes land in the audit trail, so the
// overwrite is visible.
func (s *DayEndService) Close(ctx context.Context, input *CloseDayInput, userID uint, ipAddress string) (*models.DayEndRecord, error) {
	date, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", domain.ErrValidation)
	}

	summary, err := s.Summary(ctx, date)
	if err != nil {
		return nil, err
	}

	opening := summary.OpeningBalance
	if input.OpeningBalance != nil {
		opening = *input.OpeningBalance
	}

	recon := pawncalc.Reconcile(opening, summary.Totals.CashIn, summary.Totals.CashOut, input.ClosingActual)

	now := s.now()
	record := &models.DayEndRecord{
		Date:                 date,
		OpeningBalance:       recon.OpeningBalance,
		CashIn:               recon.CashIn,
		CashOut:              recon.CashOut,
		ExpectedClosing:      recon.ExpectedClosing,
		ClosingBalanceActual: recon.ClosingActual,
		Variance:             recon.Variance,
		PledgeCount:          summary.Totals.PledgeCount,
		RenewalCount:         summary.Totals.RenewalCount,
		RedemptionCount:      summary.Totals.RedemptionCount,
		Notes:                input.Notes,
		ClosedBy:             userID,
		ClosedAt:             now,
	}

	if err := s.dayEndRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	tx := &models.PawnTransaction{
		TransactionType: models.TxTypeDayEndClose,
		Amount:          &record.Variance,
		Description:     fmt.Sprintf("Day %s closed, variance %s", input.Date, record.Variance),
		PerformedBy:     userID,
		IPAddress:       ipAddress,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		log.Printf("⚠️ Audit write failed (%s): %v", tx.TransactionType, err)
	}

	if recon.Balanced() {
		log.Printf("🏁 Day closed: %s (balanced)", input.Date)
	} else {
		log.Printf("🏁 Day closed: %s (variance %s)", input.Date, record.Variance)
	}

	return record, nil
}

// Reopen deletes a closed day's record so it can be corrected and closed
// again. The deletion itself is audited; nothing disappears silently.
func (s *DayEndService) Reopen(ctx context.Context, dateStr string, userID uint, ipAddress string) error {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", domain.ErrValidation)
	}

	record, err := s.dayEndRepo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDayEndNotFound
		}
		return err
	}

	if err := s.dayEndRepo.DeleteByDate(ctx, date); err != nil {
		return err
	}

	tx := &models.PawnTransaction{
		TransactionType: models.TxTypeDayEndReopen,
		Amount:          &record.Variance,
		Description:     fmt.Sprintf("Day %s reopened (was closed with variance %s)", dateStr, record.Variance),
		PerformedBy:     userID,
		IPAddress:       ipAddress,
	}
	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		log.Printf("⚠️ Audit write failed (%s): %v", tx.TransactionType, err)
	}

	log.Printf("🔓 Day reopened: %s", dateStr)
	return nil
}

// Get returns the closed record for a date
func (s *DayEndService) Get(ctx context.Context, dateStr string) (*models.DayEndRecord, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, use YYYY-MM-DD", domain.ErrValidation)
	}

	record, err := s.dayEndRepo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDayEndNotFound
		}
		return nil, err
	}
	return record, nil
}

// ListDayEndsInput represents list input
type ListDayEndsInput struct {
	From  string
	To    string
	Page  int
	Limit int
}

// ListDayEndsOutput represents list output
type ListDayEndsOutput struct {
	Records    []*models.DayEndRecord `json:"records"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// List lists closed records within a date range
func (s *DayEndService) List(ctx context.Context, input *ListDayEndsInput) (*ListDayEndsOutput, error) {
	now := s.now()
	from := now.AddDate(0, -1, 0)
	to := now

	if input.From != "" {
		parsed, err := time.ParseInLocation("2006-01-02", input.From, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid from date", domain.ErrValidation)
		}
		from = parsed
	}
	if input.To != "" {
		parsed, err := time.ParseInLocation("2006-01-02", input.To, time.Local)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid to date", domain.ErrValidation)
		}
		to = parsed
	}

	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 31
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit

	records, total, err := s.dayEndRepo.List(ctx, from, to, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListDayEndsOutput{
		Records:    records,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// totalsFor aggregates cash movement within [from, to). Cash out is principal
// disbursed on new pledges; cash in is renewal interest collected plus
// redemption payoffs.
func (s *DayEndService) totalsFor(ctx context.Context, from, to time.Time) (pawncalc.DayTotals, error) {
	totals := pawncalc.DayTotals{
		CashIn:  decimal.Zero,
		CashOut: decimal.Zero,
	}

	created, err := s.pledgeRepo.ListCreatedBetween(ctx, from, to)
	if err != nil {
		return totals, err
	}
	totals.PledgeCount = len(created)
	for _, p := range created {
		totals.CashOut = totals.CashOut.Add(p.LoanAmount)
	}

	renewals, err := s.renewalRepo.ListBetween(ctx, from, to)
	if err != nil {
		return totals, err
	}
	totals.RenewalCount = len(renewals)
	for _, r := range renewals {
		totals.CashIn = totals.CashIn.Add(r.AmountReceived)
	}

	redeemed, err := s.pledgeRepo.ListRedeemedBetween(ctx, from, to)
	if err != nil {
		return totals, err
	}
	totals.RedemptionCount = len(redeemed)
	for _, p := range redeemed {
		totals.CashIn = totals.CashIn.Add(p.RedemptionAmount)
	}

	return totals, nil
}
