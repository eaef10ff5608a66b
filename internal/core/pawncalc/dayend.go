package pawncalc

import "github.com/shopspring/decimal"

// DayTotals aggregates one calendar day's cash movement.
//
//	CashOut = loan principal disbursed for pledges created that day
//	CashIn  = renewal interest collected + redemption payoffs completed that day
type DayTotals struct {
	PledgeCount     int             `json:"pledge_count"`
	RenewalCount    int             `json:"renewal_count"`
	RedemptionCount int             `json:"redemption_count"`
	CashOut         decimal.Decimal `json:"cash_out"`
	CashIn          decimal.Decimal `json:"cash_in"`
}

// Reconciliation compares the expected drawer balance against the physical
// count at close.
type Reconciliation struct {
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	CashIn          decimal.Decimal `json:"cash_in"`
	CashOut         decimal.Decimal `json:"cash_out"`
	ExpectedClosing decimal.Decimal `json:"expected_closing"`
	ClosingActual   decimal.Decimal `json:"closing_actual"`
	Variance        decimal.Decimal `json:"variance"`
}

// Balanced reports a zero variance day.
func (r Reconciliation) Balanced() bool {
	return r.Variance.IsZero()
}

// Reconcile computes the expected closing balance and the variance against
// the physically counted drawer:
//
//	expected = opening + cashIn - cashOut
//	variance = closingActual - expected
//
// Positive variance is surplus, negative is shortage.
func Reconcile(opening, cashIn, cashOut, closingActual decimal.Decimal) Reconciliation {
	expected := opening.Add(cashIn).Sub(cashOut)
	return Reconciliation{
		OpeningBalance:  opening,
		CashIn:          cashIn,
		CashOut:         cashOut,
		ExpectedClosing: expected,
		ClosingActual:   closingActual,
		Variance:        closingActual.Sub(expected),
	}
}
