package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawndesk-backend/internal/adapters/persistence/models"
	"pawndesk-backend/internal/config"
	"pawndesk-backend/internal/core/domain"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================================
// In-memory stores
// ============================================================

type stubPledgeStore struct {
	pledge  *models.Pledge
	updated *models.Pledge
}

func (s *stubPledgeStore) Create(_ context.Context, p *models.Pledge) error { s.pledge = p; return nil }
func (s *stubPledgeStore) GetByID(_ context.Context, _ uint) (*models.Pledge, error) {
	return s.pledge, nil
}
func (s *stubPledgeStore) GetByPledgeNo(_ context.Context, _ string) (*models.Pledge, error) {
	return s.pledge, nil
}
func (s *stubPledgeStore) List(_ context.Context, _ string, _ uint, _, _ int) ([]*models.Pledge, int64, error) {
	return nil, 0, nil
}
func (s *stubPledgeStore) Update(_ context.Context, p *models.Pledge) error {
	s.updated = p
	return nil
}
func (s *stubPledgeStore) CountByYear(_ context.Context, _ int) (int64, error) { return 0, nil }

type stubRenewalStore struct {
	created *models.Renewal
}

func (s *stubRenewalStore) Create(_ context.Context, r *models.Renewal) error {
	s.created = r
	return nil
}

type stubCustomerStore struct {
	err error
}

func (s *stubCustomerStore) GetByID(_ context.Context, id uint) (*models.Customer, error) {
	return &models.Customer{ID: id, ICNumber: "900101-01-1234", Name: "Test Customer"}, nil
}
func (s *stubCustomerStore) RecordNewPledge(_ context.Context, _ uint, _ decimal.Decimal, _ time.Time) error {
	return s.err
}
func (s *stubCustomerStore) RecordVisit(_ context.Context, _ uint, _ time.Time) error { return s.err }
func (s *stubCustomerStore) RecordPledgeClosed(_ context.Context, _ uint, _ time.Time) error {
	return s.err
}

type stubTransactionStore struct {
	rows []*models.PawnTransaction
}

func (s *stubTransactionStore) Create(_ context.Context, tx *models.PawnTransaction) error {
	s.rows = append(s.rows, tx)
	return nil
}
func (s *stubTransactionStore) ListByPledge(_ context.Context, _ uint) ([]*models.PawnTransaction, error) {
	return s.rows, nil
}

type pledgeFixture struct {
	svc       *PledgeService
	pledges   *stubPledgeStore
	renewals  *stubRenewalStore
	customers *stubCustomerStore
	txns      *stubTransactionStore
}

func newPledgeFixture(pledge *models.Pledge) *pledgeFixture {
	f := &pledgeFixture{
		pledges:   &stubPledgeStore{pledge: pledge},
		renewals:  &stubRenewalStore{},
		customers: &stubCustomerStore{},
		txns:      &stubTransactionStore{},
	}

	cfg := &config.Config{Pawn: config.PawnConfig{InitialTermMonths: 6, DefaultLoanPercentage: 70}}
	f.svc = NewPledgeService(f.pledges, f.renewals, f.customers, f.txns, nil, cfg)
	f.svc.now = func() time.Time { return testNow }
	return f
}

// pledgeWith builds a 40-day-old pledge with principal 1890
func pledgeWith(status domain.PledgeStatus, dueDate time.Time) *models.Pledge {
	return &models.Pledge{
		ID:         1,
		PledgeNo:   "PW-2026-0001",
		CustomerID: 7,
		LoanAmount: dec("1890"),
		Status:     string(status),
		DueDate:    dueDate,
		CreatedAt:  testNow.AddDate(0, 0, -40),
	}
}

// ============================================================
// Renewal transitions
// ============================================================

func TestRenewResetsOverdueToActive(t *testing.T) {
	oldDue := testNow.AddDate(0, 0, -10)
	f := newPledgeFixture(pledgeWith(domain.StatusOverdue, oldDue))

	out, err := f.svc.Renew(context.Background(), "PW-2026-0001",
		&RenewInput{ExtensionMonths: 1, AmountReceived: dec("100")}, 1, "10.0.0.1")
	require.NoError(t, err)

	// two months elapsed: outstanding 18.90 plus one extension month at
	// month index 3 (0.5%) = 9.45, payable 28.35
	assert.True(t, out.Quote.TotalPayable.Equal(dec("28.35")), "payable = %s", out.Quote.TotalPayable)
	assert.True(t, out.Change.Equal(dec("71.65")), "change = %s", out.Change)

	// status resets to active and the due date advances from the existing
	// due date, not from now
	require.NotNil(t, f.pledges.updated)
	assert.Equal(t, string(domain.StatusActive), f.pledges.updated.Status)
	assert.Equal(t, oldDue.AddDate(0, 1, 0), f.pledges.updated.DueDate)
	assert.Equal(t, "active", out.Pledge.Status)

	require.NotNil(t, f.renewals.created)
	assert.True(t, strings.HasPrefix(f.renewals.created.ReceiptNo, "RN-"))
	assert.Equal(t, oldDue, f.renewals.created.OldDueDate)
}

func TestRenewRejectsRedeemedPledge(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusRedeemed, testNow.AddDate(0, 1, 0)))

	_, err := f.svc.Renew(context.Background(), "PW-2026-0001",
		&RenewInput{ExtensionMonths: 1, AmountReceived: dec("100")}, 1, "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Nil(t, f.pledges.updated)
	assert.Nil(t, f.renewals.created)
}

func TestRenewRejectsInsufficientPayment(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusActive, testNow.AddDate(0, 4, 0)))

	_, err := f.svc.Renew(context.Background(), "PW-2026-0001",
		&RenewInput{ExtensionMonths: 1, AmountReceived: dec("28.34")}, 1, "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrInsufficientPayment)
	assert.Nil(t, f.pledges.updated)
}

func TestRenewSurvivesCounterFailure(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusActive, testNow.AddDate(0, 4, 0)))
	f.customers.err = errors.New("connection lost")

	// a failed customer counter update is logged, never returned: the cash
	// was already collected
	out, err := f.svc.Renew(context.Background(), "PW-2026-0001",
		&RenewInput{ExtensionMonths: 1, AmountReceived: dec("100")}, 1, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "active", out.Pledge.Status)
}

// ============================================================
// Redemption transitions
// ============================================================

func TestRedeemClosesPledgeWithReceipt(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusActive, testNow.AddDate(0, 4, 0)))

	out, err := f.svc.Redeem(context.Background(), "PW-2026-0001",
		&RedeemInput{AmountReceived: dec("1950"), ICVerified: true, ItemsVerified: true}, 1, "10.0.0.1")
	require.NoError(t, err)

	assert.True(t, out.Quote.TotalDue.Equal(dec("1908.90")), "total due = %s", out.Quote.TotalDue)
	assert.True(t, out.Quote.Change.Equal(dec("41.10")), "change = %s", out.Quote.Change)

	require.NotNil(t, f.pledges.updated)
	assert.Equal(t, string(domain.StatusRedeemed), f.pledges.updated.Status)
	require.NotNil(t, f.pledges.updated.RedeemedAt)

	assert.True(t, strings.HasPrefix(out.ReceiptNo, "RD-"))
	assert.Equal(t, out.ReceiptNo, f.pledges.updated.RedemptionReceiptNo)
}

func TestRedeemRequiresVerification(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusActive, testNow.AddDate(0, 4, 0)))

	_, err := f.svc.Redeem(context.Background(), "PW-2026-0001",
		&RedeemInput{AmountReceived: dec("5000"), ICVerified: true, ItemsVerified: false}, 1, "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrVerificationRequired)
	assert.Nil(t, f.pledges.updated)
}

func TestRedeemRejectsForfeitedStock(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusForfeited, testNow.AddDate(0, 0, -10)))

	_, err := f.svc.Redeem(context.Background(), "PW-2026-0001",
		&RedeemInput{AmountReceived: dec("5000"), ICVerified: true, ItemsVerified: true}, 1, "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Nil(t, f.pledges.updated)
}

// ============================================================
// Forfeit and auction transitions
// ============================================================

func TestForfeitOnlyFromOverdue(t *testing.T) {
	// an active pledge still belongs to the customer
	f := newPledgeFixture(pledgeWith(domain.StatusActive, testNow.AddDate(0, 4, 0)))
	_, err := f.svc.Forfeit(context.Background(), "PW-2026-0001", &ForfeitInput{}, 1, "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Nil(t, f.pledges.updated)

	// a lapsed pledge reads overdue through the derivation even while the
	// stored column still says active
	f = newPledgeFixture(pledgeWith(domain.StatusActive, testNow.AddDate(0, 0, -1)))
	pledge, err := f.svc.Forfeit(context.Background(), "PW-2026-0001", &ForfeitInput{Remark: "no contact"}, 1, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusForfeited), pledge.Status)
	require.NotNil(t, pledge.ForfeitedAt)
	assert.Equal(t, "no contact", pledge.Remark)
}

func TestAuctionOnlyFromForfeited(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusOverdue, testNow.AddDate(0, 0, -10)))
	_, err := f.svc.Auction(context.Background(), "PW-2026-0001",
		&AuctionInput{Price: dec("2000"), Buyer: "Dealer"}, 1, "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Nil(t, f.pledges.updated)

	f = newPledgeFixture(pledgeWith(domain.StatusForfeited, testNow.AddDate(0, 0, -10)))
	pledge, err := f.svc.Auction(context.Background(), "PW-2026-0001",
		&AuctionInput{Price: dec("2000.005"), Buyer: "Dealer"}, 1, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusAuctioned), pledge.Status)
	assert.True(t, pledge.AuctionPrice.Equal(dec("2000.01")), "price = %s", pledge.AuctionPrice)
	assert.Equal(t, "Dealer", pledge.AuctionBuyer)
	require.NotNil(t, pledge.AuctionedAt)
}

func TestAuctionRejectsRedeemedPledge(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusRedeemed, testNow.AddDate(0, 4, 0)))

	_, err := f.svc.Auction(context.Background(), "PW-2026-0001",
		&AuctionInput{Price: dec("2000"), Buyer: "Dealer"}, 1, "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestMoveRackRejectsReleasedItems(t *testing.T) {
	f := newPledgeFixture(pledgeWith(domain.StatusAuctioned, testNow.AddDate(0, 0, -10)))

	_, err := f.svc.MoveRack(context.Background(), "PW-2026-0001",
		&MoveRackInput{RackLocation: "B-12"}, 1, "10.0.0.1")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
	assert.Nil(t, f.pledges.updated)
}

// ============================================================
// Ticket numbers
// ============================================================

func TestFormatPledgeNo(t *testing.T) {
	assert.Equal(t, "PW-2026-0001", formatPledgeNo(2026, 1))
	assert.Equal(t, "PW-2026-0042", formatPledgeNo(2026, 42))

	// the counter keeps going past four digits
	assert.Equal(t, "PW-2026-10001", formatPledgeNo(2026, 10001))
}
