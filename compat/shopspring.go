package compat

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stutxo/units"
)

var maxUnits = decimal.NewFromInt(units.MaxUnits)

// toSats converts a decimal number of units of denomination denom to satoshi.
func toSats(d decimal.Decimal, denom units.Denomination) (int64, error) {
	s := d.Shift(int32(denom.Exponent())) //nolint:gosec
	if !s.IsInteger() {
		return 0, fmt.Errorf("more than %v digit(s) after the decimal point: %w", denom.Exponent(), units.ErrTooPrecise)
	}
	if s.Abs().GreaterThan(maxUnits) {
		return 0, fmt.Errorf("%v satoshi exceeds %v: %w", s, maxUnits, units.ErrOutOfRange)
	}
	return s.IntPart(), nil
}

// FromDecimal converts a shopspring decimal number of units of denomination
// denom to an amount.
//
// FromDecimal returns an error wrapping:
//   - [units.ErrTooPrecise] if the number is not a whole number of satoshi;
//   - [units.ErrOutOfRange] if the number is negative or exceeds [units.MaxUnits].
func FromDecimal(d decimal.Decimal, denom units.Denomination) (units.Amount, error) {
	if d.IsNegative() {
		return units.Amount{}, fmt.Errorf("converting decimal %v %v: negative amount: %w", d, denom, units.ErrOutOfRange)
	}
	sats, err := toSats(d, denom)
	if err != nil {
		return units.Amount{}, fmt.Errorf("converting decimal %v %v: %w", d, denom, err)
	}
	return units.MustNewAmount(uint64(sats)), nil //nolint:gosec
}

// FromDecimalSigned is like [FromDecimal] but accepts negative numbers.
func FromDecimalSigned(d decimal.Decimal, denom units.Denomination) (units.SignedAmount, error) {
	sats, err := toSats(d, denom)
	if err != nil {
		return units.SignedAmount{}, fmt.Errorf("converting decimal %v %v: %w", d, denom, err)
	}
	return units.MustNewSignedAmount(sats), nil
}

// ToDecimal returns the amount as a shopspring decimal number of units of
// denomination denom.
// Use [decimal.Decimal.StringFixed] with [units.Denomination.Exponent] to get
// the same text as [units.Amount.StringIn].
func ToDecimal(a units.Amount, denom units.Denomination) decimal.Decimal {
	return decimal.New(int64(a.Sats()), -int32(denom.Exponent())) //nolint:gosec
}

// ToDecimalSigned is like [ToDecimal] but for signed amounts.
func ToDecimalSigned(a units.SignedAmount, denom units.Denomination) decimal.Decimal {
	return decimal.New(a.Sats(), -int32(denom.Exponent())) //nolint:gosec
}
