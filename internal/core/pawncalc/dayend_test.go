package pawncalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileBalancedDay(t *testing.T) {
	// opening 5000, one new pledge disbursed 1890, one redemption collected
	// 1908.90, drawer counted at exactly the expected closing
	r := Reconcile(dec("5000"), dec("1908.90"), dec("1890"), dec("5018.90"))

	assert.True(t, r.ExpectedClosing.Equal(dec("5018.90")), "expected = %s", r.ExpectedClosing)
	assert.True(t, r.Variance.IsZero())
	assert.True(t, r.Balanced())
}

func TestReconcileShortage(t *testing.T) {
	r := Reconcile(dec("5000"), dec("1908.90"), dec("1890"), dec("5000"))

	assert.True(t, r.Variance.Equal(dec("-18.90")), "variance = %s", r.Variance)
	assert.False(t, r.Balanced())
}

func TestReconcileSurplus(t *testing.T) {
	r := Reconcile(dec("1000"), dec("0"), dec("0"), dec("1050"))

	assert.True(t, r.Variance.Equal(dec("50")))
	assert.False(t, r.Balanced())
}

func TestReconcileQuietDay(t *testing.T) {
	// no transactions: expected closing is the opening balance
	r := Reconcile(dec("2500"), dec("0"), dec("0"), dec("2500"))

	assert.True(t, r.ExpectedClosing.Equal(dec("2500")))
	assert.True(t, r.Balanced())
}
