// Package pawncalc holds the pledge financial model: gold valuation, loan
// amount, tiered interest accrual, renewal and redemption payoff, and day-end
// cash reconciliation.
//
// Everything here is pure. Functions take an explicit as-of instant instead of
// reading the wall clock, take price tables as snapshots instead of fetching
// them, and never touch storage. Callers (the service layer) fetch data, call
// into this package, and persist the results.
package pawncalc

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"pawndesk-backend/internal/core/domain"
)

// PriceTable maps a purity tier (e.g. "916") to the market price per gram.
type PriceTable map[string]decimal.Decimal

// Monthly interest tiers. Simple interest on the fixed principal: months 1-6
// accrue at 0.5%/month, month 7 onward at 1.5%/month.
const lowTierMonths = 6

var (
	lowTierRate  = decimal.New(5, -3)  // 0.5% per month
	highTierRate = decimal.New(15, -3) // 1.5% per month

	oneHundred = decimal.NewFromInt(100)
)

// MonthlyRate returns the interest rate fraction applied to the given
// 1-based elapsed-month index.
func MonthlyRate(monthIndex int) decimal.Decimal {
	if monthIndex <= lowTierMonths {
		return lowTierRate
	}
	return highTierRate
}

// ElapsedMonths counts accrual months between createdAt and asOf using the
// 30-day month approximation: max(1, ceil(days/30)). A pledge accrues at
// least one month even when queried on the day it was created, and an asOf
// before createdAt floors at one month rather than going negative.
func ElapsedMonths(createdAt, asOf time.Time) int {
	if !asOf.After(createdAt) {
		return 1
	}
	days := asOf.Sub(createdAt).Hours() / 24
	months := int(math.Ceil(days / 30))
	if months < 1 {
		months = 1
	}
	return months
}

// EffectiveStatus derives the status a pledge should present as of now.
// An active pledge past its due date reads as overdue; nothing is mutated.
// Stored status columns are a cache, this derivation is authoritative.
func EffectiveStatus(status domain.PledgeStatus, dueDate, now time.Time) domain.PledgeStatus {
	if status == domain.StatusActive && now.After(dueDate) {
		return domain.StatusOverdue
	}
	return status
}

// round2 rounds to currency precision (two decimal places)
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
