package pawncalc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawndesk-backend/internal/core/domain"
)

var principal = dec("1890")

func day(offset int) (createdAt, asOf time.Time) {
	asOf = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return asOf.AddDate(0, 0, -offset), asOf
}

func TestElapsedMonths(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{0, 1},   // same day still accrues one month
		{1, 1},
		{29, 1},
		{30, 1},
		{31, 2},
		{40, 2},  // ceil(40/30) = 2
		{60, 2},
		{61, 3},
		{180, 6}, // last month of the low tier
		{181, 7}, // first month of the high tier
		{365, 13},
	}
	for _, tt := range tests {
		created, asOf := day(tt.days)
		assert.Equal(t, tt.want, ElapsedMonths(created, asOf), "days=%d", tt.days)
	}

	// asOf before createdAt floors at one month, never negative
	created, asOf := day(-10)
	assert.Equal(t, 1, ElapsedMonths(created, asOf))
}

func TestAccrueInterestTwoMonths(t *testing.T) {
	created, asOf := day(40)

	q, err := AccrueInterest(principal, created, asOf, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, 2, q.ElapsedMonths)
	assert.True(t, q.AccruedInterest.Equal(dec("18.90")), "accrued = %s", q.AccruedInterest)
	assert.True(t, q.OutstandingInterest.Equal(dec("18.90")))
	assert.True(t, q.TotalDue.Equal(dec("1908.90")), "total due = %s", q.TotalDue)
}

func TestAccrueInterestTierBoundary(t *testing.T) {
	// six months stay entirely in the 0.5% tier
	created, asOf := day(180)
	q, err := AccrueInterest(principal, created, asOf, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, q.AccruedInterest.Equal(dec("56.70")), "6 months = %s", q.AccruedInterest)

	// month seven adds 1.5%
	created, asOf = day(181)
	q, err = AccrueInterest(principal, created, asOf, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, q.AccruedInterest.Equal(dec("85.05")), "7 months = %s", q.AccruedInterest)
}

func TestAccrueInterestNetsOutPaid(t *testing.T) {
	created, asOf := day(40)

	q, err := AccrueInterest(principal, created, asOf, dec("9.45"))
	require.NoError(t, err)
	assert.True(t, q.OutstandingInterest.Equal(dec("9.45")))
	assert.True(t, q.TotalDue.Equal(dec("1899.45")))

	// overpayment never produces negative outstanding interest
	q, err = AccrueInterest(principal, created, asOf, dec("100"))
	require.NoError(t, err)
	assert.True(t, q.OutstandingInterest.IsZero())
	assert.True(t, q.TotalDue.Equal(principal))
}

func TestAccrueInterestMonotonic(t *testing.T) {
	prev := decimal.Zero
	for days := 0; days <= 400; days += 7 {
		created, asOf := day(days)
		q, err := AccrueInterest(principal, created, asOf, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, q.AccruedInterest.GreaterThanOrEqual(prev),
			"interest decreased at day %d: %s < %s", days, q.AccruedInterest, prev)
		prev = q.AccruedInterest
	}
}

func TestAccrueInterestValidation(t *testing.T) {
	created, asOf := day(40)

	_, err := AccrueInterest(decimal.Zero, created, asOf, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = AccrueInterest(dec("-100"), created, asOf, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = AccrueInterest(principal, time.Time{}, asOf, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = AccrueInterest(principal, created, asOf, dec("-1"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestQuoteRenewalAtTierBoundary(t *testing.T) {
	// pledge in its seventh month: the one-month extension lands on month
	// index 8, which prices at the 1.5% tier
	created, asOf := day(190)
	dueDate := asOf.AddDate(0, 0, -10)

	q, err := QuoteRenewal(principal, created, asOf, dueDate, dec("56.70"), 1)
	require.NoError(t, err)

	assert.Equal(t, 7, q.ElapsedMonths)
	assert.True(t, q.ExtensionInterest.Equal(dec("28.35")), "extension = %s", q.ExtensionInterest)
	assert.True(t, q.TotalPayable.Equal(q.OutstandingInterest.Add(dec("28.35"))))
	// due date advances from the existing due date, not from now
	assert.Equal(t, dueDate.AddDate(0, 1, 0), q.NewDueDate)
}

func TestQuoteRenewalEarlyExtension(t *testing.T) {
	// two months in, a three-month extension stays inside the low tier:
	// months 3, 4, 5 at 0.5% each
	created, asOf := day(40)
	dueDate := created.AddDate(0, 6, 0)

	q, err := QuoteRenewal(principal, created, asOf, dueDate, decimal.Zero, 3)
	require.NoError(t, err)

	assert.True(t, q.ExtensionInterest.Equal(dec("28.35")), "extension = %s", q.ExtensionInterest)
	assert.True(t, q.TotalPayable.Equal(dec("47.25")))
	assert.Equal(t, dueDate.AddDate(0, 3, 0), q.NewDueDate)
}

func TestQuoteRenewalSpansTiers(t *testing.T) {
	// five months in, a three-month extension pays months 6 (0.5%) then
	// 7 and 8 (1.5% each)
	created, asOf := day(150)
	dueDate := created.AddDate(0, 6, 0)

	q, err := QuoteRenewal(principal, created, asOf, dueDate, decimal.Zero, 3)
	require.NoError(t, err)
	assert.True(t, q.ExtensionInterest.Equal(dec("66.15")), "extension = %s", q.ExtensionInterest)
}

func TestQuoteRenewalValidation(t *testing.T) {
	created, asOf := day(40)
	dueDate := created.AddDate(0, 6, 0)

	_, err := QuoteRenewal(principal, created, asOf, dueDate, decimal.Zero, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = QuoteRenewal(principal, created, asOf, time.Time{}, decimal.Zero, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestQuoteRedemption(t *testing.T) {
	created, asOf := day(40)

	// exact payment, no change
	q, err := QuoteRedemption(principal, created, asOf, decimal.Zero, dec("1908.90"))
	require.NoError(t, err)
	assert.True(t, q.Change.IsZero())
	assert.True(t, q.TotalDue.Equal(dec("1908.90")))

	// overpayment returns change
	q, err = QuoteRedemption(principal, created, asOf, decimal.Zero, dec("1950"))
	require.NoError(t, err)
	assert.True(t, q.Change.Equal(dec("41.10")), "change = %s", q.Change)
}

func TestQuoteRedemptionRejectsInsufficientPayment(t *testing.T) {
	created, asOf := day(40)

	_, err := QuoteRedemption(principal, created, asOf, decimal.Zero, dec("1900"))
	require.ErrorIs(t, err, domain.ErrInsufficientPayment)
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  domain.PledgeStatus
		dueDate time.Time
		want    domain.PledgeStatus
	}{
		{"active before due", domain.StatusActive, now.AddDate(0, 1, 0), domain.StatusActive},
		{"active on due date", domain.StatusActive, now, domain.StatusActive},
		{"active past due reads overdue", domain.StatusActive, now.AddDate(0, 0, -1), domain.StatusOverdue},
		{"redeemed never flips", domain.StatusRedeemed, now.AddDate(0, -1, 0), domain.StatusRedeemed},
		{"forfeited never flips", domain.StatusForfeited, now.AddDate(0, -1, 0), domain.StatusForfeited},
		{"auctioned never flips", domain.StatusAuctioned, now.AddDate(0, -1, 0), domain.StatusAuctioned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStatus(tt.status, tt.dueDate, now))
		})
	}
}
