package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/slikapay/payment-engine/internal/domain/error"
)

func TestToMinorUnits(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		expected int64
		err      error
	}{
		{"whole number", "100", 10000, nil},
		{"one decimal", "100.5", 10050, nil},
		{"two decimals", "100.50", 10050, nil},
		{"trailing point", "100.", 10000, nil},
		{"small amount", "0.01", 1, nil},
		{"zero", "0", 0, nil},
		{"with whitespace", " 42.00 ", 4200, nil},
		{"negative", "-10", 0, errs.ErrNegativeAmount},
		{"three decimals", "10.505", 0, errs.ErrInvalidAmount},
		{"two points", "10.5.0", 0, errs.ErrInvalidAmount},
		{"not a number", "ten", 0, errs.ErrInvalidAmount},
		{"empty", "", 0, errs.ErrInvalidAmount},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToMinorUnits(tc.amount)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestValidateAmount(t *testing.T) {
	t.Run("within bounds", func(t *testing.T) {
		minor, err := ValidateAmount("100.50", 20000)
		assert.NoError(t, err)
		assert.Equal(t, int64(10050), minor)
	})

	t.Run("zero rejected", func(t *testing.T) {
		_, err := ValidateAmount("0.00", 20000)
		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
	})

	t.Run("above ceiling", func(t *testing.T) {
		_, err := ValidateAmount("200.01", 20000)
		assert.ErrorIs(t, err, errs.ErrAmountTooLarge)
	})

	t.Run("ceiling disabled", func(t *testing.T) {
		_, err := ValidateAmount("99999999.99", 0)
		assert.NoError(t, err)
	})
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, "100.50", FromMinorUnits(10050))
	assert.Equal(t, "10.00", FromMinorUnits(1000))
	assert.Equal(t, "0.05", FromMinorUnits(5))
	assert.Equal(t, "0.00", FromMinorUnits(0))
	assert.Equal(t, "-1.25", FromMinorUnits(-125))
}

// Amounts must round-trip exactly to two decimal places
func TestMinorUnitsRoundTrip(t *testing.T) {
	for _, amount := range []string{"0.01", "1.00", "100.50", "999.99", "12345.67"} {
		minor, err := ToMinorUnits(amount)
		assert.NoError(t, err)
		assert.Equal(t, amount, FromMinorUnits(minor))
	}
}

func TestEnsureTwoDecimalPlaces(t *testing.T) {
	assert.Equal(t, "10.00", EnsureTwoDecimalPlaces("10"))
	assert.Equal(t, "10.10", EnsureTwoDecimalPlaces("10.1"))
	assert.Equal(t, "10.15", EnsureTwoDecimalPlaces("10.15"))
	assert.Equal(t, "10.15", EnsureTwoDecimalPlaces("10.156"))
	assert.Equal(t, "10.00", EnsureTwoDecimalPlaces("10."))
	assert.Equal(t, "0.00", EnsureTwoDecimalPlaces(""))
}
