package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_DeliveryFeeFor(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		subtotalRupees int64
		expectedRupees int64
	}{
		{0, 40},
		{499, 40},
		{500, 40},
		{501, 0},
	}

	for _, tt := range tests {
		fee := policy.DeliveryFeeFor(tt.subtotalRupees * 100)
		assert.Equal(t, tt.expectedRupees*100, fee, "subtotal %d", tt.subtotalRupees)
	}
}

func TestNewPolicy(t *testing.T) {
	assert.Equal(t, DefaultPolicy(), NewPolicy(500, 40))
}

func TestPolicy_Quote(t *testing.T) {
	policy := DefaultPolicy()

	q := policy.Quote(60000, 5000)
	assert.Equal(t, Quote{Subtotal: 60000, DeliveryFee: 0, Discount: 5000, Total: 55000}, q)

	// Fee is decided before the discount.
	q = policy.Quote(52000, 5000)
	assert.Equal(t, int64(0), q.DeliveryFee)

	q = policy.Quote(30000, 0)
	assert.Equal(t, int64(34000), q.Total)

	// Discount is capped at the subtotal.
	q = policy.Quote(1000, 5000)
	assert.Equal(t, int64(1000), q.Discount)
	assert.Equal(t, int64(4000), q.Total)
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"849.00", 84900},
		{"849.005", 84901},
		{"849.004", 84900},
		{"0.015", 2},
		{"40", 4000},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ToMinorUnits(d))
		})
	}
}

func TestToMinorUnits_FromJSONNumber(t *testing.T) {
	var d decimal.Decimal
	require.NoError(t, d.UnmarshalJSON([]byte(`849.005`)))
	assert.Equal(t, int64(84901), ToMinorUnits(d))
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, "849", FromMinorUnits(84900).String())
	assert.Equal(t, "12.5", FromMinorUnits(1250).String())
	assert.Equal(t, int64(1250), ToMinorUnits(FromMinorUnits(1250)))
}
