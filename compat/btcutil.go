// Package compat converts amounts to and from the types of other Go libraries
// commonly used for bitcoin values.
// All conversions are exact, floating-point numbers are never involved.
package compat

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stutxo/units"
)

// btcExponent is the exponent of [units.BTC], btcutil counts units relative to it.
const btcExponent = 8

// FromBTCUtil converts a btcutil amount to a signed amount.
//
// FromBTCUtil returns an error wrapping [units.ErrOutOfRange] if the absolute
// value of the amount exceeds [units.MaxUnits].
// btcutil itself allows any int64.
func FromBTCUtil(a btcutil.Amount) (units.SignedAmount, error) {
	s, err := units.NewSignedAmount(int64(a))
	if err != nil {
		return units.SignedAmount{}, fmt.Errorf("converting %v: %w", a, err)
	}
	return s, nil
}

// AmountFromBTCUtil is like [FromBTCUtil] but also rejects negative amounts.
func AmountFromBTCUtil(a btcutil.Amount) (units.Amount, error) {
	if a < 0 {
		return units.Amount{}, fmt.Errorf("converting %v: negative amount: %w", a, units.ErrOutOfRange)
	}
	u, err := units.NewAmount(uint64(a))
	if err != nil {
		return units.Amount{}, fmt.Errorf("converting %v: %w", a, err)
	}
	return u, nil
}

// ToBTCUtil converts a signed amount to a btcutil amount.
// The conversion cannot fail.
func ToBTCUtil(a units.SignedAmount) btcutil.Amount {
	return btcutil.Amount(a.Sats())
}

// DenomFromUnit returns the denomination matching a btcutil amount unit.
//
// DenomFromUnit returns an error wrapping [units.ErrUnknownDenomination] for
// units without a denomination, such as [btcutil.AmountMegaBTC].
func DenomFromUnit(u btcutil.AmountUnit) (units.Denomination, error) {
	for _, d := range []units.Denomination{units.BTC, units.CBTC, units.MBTC, units.Bit, units.Sat} {
		if DenomToUnit(d) == u {
			return d, nil
		}
	}
	return units.BTC, fmt.Errorf("converting %v: %w", u, units.ErrUnknownDenomination)
}

// DenomToUnit returns the btcutil amount unit matching a denomination.
// [units.CBTC] has no named constant in btcutil and maps to AmountUnit(-2).
func DenomToUnit(d units.Denomination) btcutil.AmountUnit {
	return btcutil.AmountUnit(d.Exponent() - btcExponent)
}
