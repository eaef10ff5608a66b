package pawncalc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawndesk-backend/internal/core/domain"
)

func testPrices() PriceTable {
	return PriceTable{
		domain.Purity999: decimal.NewFromInt(330),
		domain.Purity916: decimal.NewFromInt(300),
		domain.Purity875: decimal.NewFromInt(280),
		domain.Purity750: decimal.NewFromInt(240),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValueItem(t *testing.T) {
	tests := []struct {
		name          string
		weight        string
		purity        string
		deduction     string
		deductionType domain.DeductionType
		wantGross     string
		wantDeduction string
		wantNet       string
	}{
		{
			// 10g of 916 at RM300/g with a 10% stone deduction
			name:   "percent deduction",
			weight: "10", purity: domain.Purity916,
			deduction: "10", deductionType: domain.DeductionPercent,
			wantGross: "3000", wantDeduction: "300", wantNet: "2700",
		},
		{
			name:   "absolute deduction",
			weight: "5", purity: domain.Purity999,
			deduction: "150.50", deductionType: domain.DeductionAmount,
			wantGross: "1650", wantDeduction: "150.5", wantNet: "1499.5",
		},
		{
			name:   "no deduction",
			weight: "2.5", purity: domain.Purity750,
			deduction: "0", deductionType: domain.DeductionAmount,
			wantGross: "600", wantDeduction: "0", wantNet: "600",
		},
		{
			// deduction larger than gross must floor net at zero
			name:   "oversized deduction floors at zero",
			weight: "1", purity: domain.Purity916,
			deduction: "500", deductionType: domain.DeductionAmount,
			wantGross: "300", wantDeduction: "500", wantNet: "0",
		},
		{
			// negative deductions are clamped so net never exceeds gross
			name:   "negative deduction clamped",
			weight: "1", purity: domain.Purity916,
			deduction: "-50", deductionType: domain.DeductionAmount,
			wantGross: "300", wantDeduction: "0", wantNet: "300",
		},
		{
			// unknown purity falls back to the 916 price
			name:   "unknown purity falls back to 916",
			weight: "10", purity: "850",
			deduction: "10", deductionType: domain.DeductionPercent,
			wantGross: "3000", wantDeduction: "300", wantNet: "2700",
		},
		{
			name:   "zero weight values to zero",
			weight: "0", purity: domain.Purity916,
			deduction: "10", deductionType: domain.DeductionPercent,
			wantGross: "0", wantDeduction: "0", wantNet: "0",
		},
		{
			name:   "fractional weight rounds to currency precision",
			weight: "3.333", purity: domain.Purity916,
			deduction: "0", deductionType: domain.DeductionAmount,
			wantGross: "999.9", wantDeduction: "0", wantNet: "999.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueItem(dec(tt.weight), tt.purity, dec(tt.deduction), tt.deductionType, testPrices())
			require.NoError(t, err)
			assert.True(t, v.GrossValue.Equal(dec(tt.wantGross)), "gross = %s, want %s", v.GrossValue, tt.wantGross)
			assert.True(t, v.DeductionAmount.Equal(dec(tt.wantDeduction)), "deduction = %s, want %s", v.DeductionAmount, tt.wantDeduction)
			assert.True(t, v.NetValue.Equal(dec(tt.wantNet)), "net = %s, want %s", v.NetValue, tt.wantNet)

			// invariants regardless of inputs
			assert.False(t, v.NetValue.IsNegative())
			assert.True(t, v.NetValue.LessThanOrEqual(v.GrossValue))
		})
	}
}

func TestValueItemRejectsNegativeWeight(t *testing.T) {
	_, err := ValueItem(dec("-1"), domain.Purity916, decimal.Zero, domain.DeductionAmount, testPrices())
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestValueItemRejectsUnknownDeductionType(t *testing.T) {
	_, err := ValueItem(dec("1"), domain.Purity916, decimal.Zero, "markup", testPrices())
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestValueItemNoFallbackPrice(t *testing.T) {
	prices := PriceTable{domain.Purity999: decimal.NewFromInt(330)}
	_, err := ValueItem(dec("1"), "850", decimal.Zero, domain.DeductionAmount, prices)
	require.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestLoanAmount(t *testing.T) {
	// single item net 2700 at 70% loan-to-value
	amount, err := LoanAmount(dec("2700"), dec("70"))
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("1890")), "loan amount = %s", amount)

	// custom percentage outside the preset list is fine as long as it is in range
	amount, err = LoanAmount(dec("1000"), dec("62.5"))
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("625")))

	// full value loan
	amount, err = LoanAmount(dec("1234.56"), dec("100"))
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("1234.56")))
}

func TestLoanAmountRejectsOutOfRangePercentage(t *testing.T) {
	for _, pct := range []string{"0", "-10", "100.01", "150"} {
		_, err := LoanAmount(dec("1000"), dec(pct))
		assert.ErrorIs(t, err, domain.ErrValidation, "pct=%s", pct)
	}
}
