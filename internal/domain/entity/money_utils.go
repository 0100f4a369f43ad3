package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/slikapay/payment-engine/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// ToMinorUnits converts a major-unit amount string to minor currency units.
// Uses a string-based approach to avoid floating point drift:
// - If no decimal point: appends "00"
// - If one digit after the decimal: appends "0"
// - If two digits after the decimal: just drops the point
// Returns an error for negative values, malformed numbers, or more than
// two decimal places.
func ToMinorUnits(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}

	var integerValue string
	if len(parts) == 1 {
		integerValue = parts[0] + "00"
	} else {
		switch len(parts[1]) {
		case 0:
			integerValue = parts[0] + "00"
		case 1:
			integerValue = parts[0] + parts[1] + "0"
		case 2:
			integerValue = parts[0] + parts[1]
		default:
			return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
		}
	}

	value, err := strconv.ParseInt(integerValue, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	return value, nil
}

// ValidateAmount converts amount to minor units and enforces the business
// bounds: strictly positive and no larger than maxMinor (0 disables the
// ceiling check).
func ValidateAmount(amount string, maxMinor int64) (int64, error) {
	minor, err := ToMinorUnits(amount)
	if err != nil {
		return 0, err
	}
	if minor == 0 {
		return 0, errs.ErrNegativeAmount
	}
	if maxMinor > 0 && minor > maxMinor {
		return 0, fmt.Errorf("%w: %s", errs.ErrAmountTooLarge, EnsureTwoDecimalPlaces(amount))
	}
	return minor, nil
}

// FromMinorUnits converts minor currency units back to a major-unit string.
// For example 10015 becomes "100.15" and 1000 becomes "10.00".
func FromMinorUnits(minor int64) string {
	isNegative := minor < 0
	if isNegative {
		minor = -minor
	}

	s := strconv.FormatInt(minor, 10)
	for len(s) < 3 {
		s = "0" + s
	}

	decimalPos := len(s) - 2
	result := s[:decimalPos] + "." + s[decimalPos:]
	if isNegative {
		return "-" + result
	}
	return result
}

// EnsureTwoDecimalPlaces normalizes a money string to exactly two decimal
// places. "10.1" becomes "10.10", "10" becomes "10.00", extra digits are
// truncated rather than rounded.
func EnsureTwoDecimalPlaces(amount string) string {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return "0.00"
	}

	parts := strings.Split(amount, ".")
	if len(parts) == 1 {
		return parts[0] + ".00"
	}

	wholePart := parts[0]
	decimalPart := parts[1]

	switch len(decimalPart) {
	case 0:
		return wholePart + ".00"
	case 1:
		return wholePart + "." + decimalPart + "0"
	case 2:
		return wholePart + "." + decimalPart
	default:
		return wholePart + "." + decimalPart[:2]
	}
}
