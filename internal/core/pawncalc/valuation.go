package pawncalc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pawndesk-backend/internal/core/domain"
)

// Valuation is the computed worth of a single pledged item.
type Valuation struct {
	GrossValue      decimal.Decimal `json:"gross_value"`
	DeductionAmount decimal.Decimal `json:"deduction_amount"`
	NetValue        decimal.Decimal `json:"net_value"`
}

// ValueItem converts an item's weight, purity and deduction into gross and
// net value against the supplied price snapshot.
//
//	gross = weight x price(purity)
//	net   = max(0, gross - deduction)
//
// An unknown purity falls back to the 916 price. A deduction can never drive
// the net value negative, and a negative deduction is clamped to zero so the
// net never exceeds the gross. Zero weight values to zero; negative weight is
// rejected outright rather than clamped, so data-entry mistakes surface.
func ValueItem(weightGrams decimal.Decimal, purity string, deduction decimal.Decimal, deductionType domain.DeductionType, prices PriceTable) (Valuation, error) {
	if weightGrams.IsNegative() {
		return Valuation{}, fmt.Errorf("%w: weight must not be negative", domain.ErrValidation)
	}
	if weightGrams.IsZero() {
		return Valuation{
			GrossValue:      decimal.Zero,
			DeductionAmount: decimal.Zero,
			NetValue:        decimal.Zero,
		}, nil
	}

	price, ok := prices[purity]
	if !ok {
		price, ok = prices[domain.FallbackPurity]
		if !ok {
			return Valuation{}, fmt.Errorf("%w: no price for purity %q and no %s fallback", domain.ErrPriceUnavailable, purity, domain.FallbackPurity)
		}
	}
	if price.IsNegative() {
		return Valuation{}, fmt.Errorf("%w: negative price for purity %q", domain.ErrValidation, purity)
	}

	gross := round2(weightGrams.Mul(price))

	if deduction.IsNegative() {
		deduction = decimal.Zero
	}

	var deductionAmount decimal.Decimal
	switch deductionType {
	case domain.DeductionPercent:
		deductionAmount = round2(gross.Mul(deduction).Div(oneHundred))
	case domain.DeductionAmount, "":
		deductionAmount = round2(deduction)
	default:
		return Valuation{}, fmt.Errorf("%w: unknown deduction type %q", domain.ErrValidation, deductionType)
	}

	net := gross.Sub(deductionAmount)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Valuation{
		GrossValue:      gross,
		DeductionAmount: deductionAmount,
		NetValue:        net,
	}, nil
}

// LoanAmount applies a loan-to-value percentage to the aggregate net value of
// a pledge's items. The aggregate must be the sum of per-item net values, not
// aggregate gross minus aggregate deduction, so per-item rounding stays
// consistent with the stored item snapshots. Percentage must be in (0, 100].
func LoanAmount(netTotal, loanPercentage decimal.Decimal) (decimal.Decimal, error) {
	if loanPercentage.LessThanOrEqual(decimal.Zero) || loanPercentage.GreaterThan(oneHundred) {
		return decimal.Zero, fmt.Errorf("%w: loan percentage must be in (0,100], got %s", domain.ErrValidation, loanPercentage)
	}
	if netTotal.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: net value must not be negative", domain.ErrValidation)
	}
	return round2(netTotal.Mul(loanPercentage).Div(oneHundred)), nil
}
