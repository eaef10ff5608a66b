package pawncalc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pawndesk-backend/internal/core/domain"
)

// InterestQuote is the result of accruing tiered interest on a pledge.
type InterestQuote struct {
	Principal           decimal.Decimal `json:"principal"`
	ElapsedMonths       int             `json:"elapsed_months"`
	AccruedInterest     decimal.Decimal `json:"accrued_interest"`
	PaidInterest        decimal.Decimal `json:"paid_interest"`
	OutstandingInterest decimal.Decimal `json:"outstanding_interest"`
	TotalDue            decimal.Decimal `json:"total_due"`
}

// RenewalQuote extends an InterestQuote with the prepaid interest for an
// extension period and the due date the renewal produces.
type RenewalQuote struct {
	InterestQuote
	ExtensionMonths   int             `json:"extension_months"`
	ExtensionInterest decimal.Decimal `json:"extension_interest"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
	NewDueDate        time.Time       `json:"new_due_date"`
}

// RedemptionQuote is the payoff for closing a pledge.
type RedemptionQuote struct {
	InterestQuote
	AmountReceived decimal.Decimal `json:"amount_received"`
	Change         decimal.Decimal `json:"change"`
}

// AccrueInterest computes interest owed on the fixed principal as of a given
// instant, net of interest already collected through prior renewals.
//
// Interest is simple, tiered by elapsed-month index (not calendar date):
// each month i in 1..elapsed contributes principal x rate(i). Outstanding
// interest never goes negative when prior payments exceed the accrual.
func AccrueInterest(principal decimal.Decimal, createdAt, asOf time.Time, paidToDate decimal.Decimal) (InterestQuote, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return InterestQuote{}, fmt.Errorf("%w: principal must be positive", domain.ErrValidation)
	}
	if createdAt.IsZero() || asOf.IsZero() {
		return InterestQuote{}, fmt.Errorf("%w: invalid accrual dates", domain.ErrValidation)
	}
	if paidToDate.IsNegative() {
		return InterestQuote{}, fmt.Errorf("%w: paid interest must not be negative", domain.ErrValidation)
	}

	elapsed := ElapsedMonths(createdAt, asOf)

	accrued := decimal.Zero
	for i := 1; i <= elapsed; i++ {
		accrued = accrued.Add(principal.Mul(MonthlyRate(i)))
	}
	accrued = round2(accrued)

	outstanding := accrued.Sub(paidToDate)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return InterestQuote{
		Principal:           principal,
		ElapsedMonths:       elapsed,
		AccruedInterest:     accrued,
		PaidInterest:        paidToDate,
		OutstandingInterest: outstanding,
		TotalDue:            principal.Add(outstanding),
	}, nil
}

// QuoteRenewal prices a renewal: the interest outstanding as of now plus the
// prepaid interest for the extension period. Extension months are priced at
// the month indexes they will occupy (elapsed+1 .. elapsed+n), so a renewal
// crossing the month-6 boundary pays the higher tier for the later months.
//
// The new due date advances from the existing due date, not from now: a
// renewal on an overdue pledge still extends from the original due date.
func QuoteRenewal(principal decimal.Decimal, createdAt, asOf, dueDate time.Time, paidToDate decimal.Decimal, extensionMonths int) (RenewalQuote, error) {
	if extensionMonths < 1 {
		return RenewalQuote{}, fmt.Errorf("%w: extension months must be at least 1", domain.ErrValidation)
	}
	if dueDate.IsZero() {
		return RenewalQuote{}, fmt.Errorf("%w: invalid due date", domain.ErrValidation)
	}

	quote, err := AccrueInterest(principal, createdAt, asOf, paidToDate)
	if err != nil {
		return RenewalQuote{}, err
	}

	extension := decimal.Zero
	for j := 1; j <= extensionMonths; j++ {
		extension = extension.Add(principal.Mul(MonthlyRate(quote.ElapsedMonths + j)))
	}
	extension = round2(extension)

	return RenewalQuote{
		InterestQuote:     quote,
		ExtensionMonths:   extensionMonths,
		ExtensionInterest: extension,
		TotalPayable:      quote.OutstandingInterest.Add(extension),
		NewDueDate:        dueDate.AddDate(0, extensionMonths, 0),
	}, nil
}

// QuoteRedemption prices a full payoff (principal plus outstanding interest)
// and computes the change for the amount tendered. Insufficient payment is
// rejected here so no caller can record a partial redemption.
func QuoteRedemption(principal decimal.Decimal, createdAt, asOf time.Time, paidToDate, amountReceived decimal.Decimal) (RedemptionQuote, error) {
	quote, err := AccrueInterest(principal, createdAt, asOf, paidToDate)
	if err != nil {
		return RedemptionQuote{}, err
	}

	if amountReceived.LessThan(quote.TotalDue) {
		return RedemptionQuote{}, fmt.Errorf("%w: received %s, due %s", domain.ErrInsufficientPayment, amountReceived, quote.TotalDue)
	}

	return RedemptionQuote{
		InterestQuote:  quote,
		AmountReceived: amountReceived,
		Change:         amountReceived.Sub(quote.TotalDue),
	}, nil
}
