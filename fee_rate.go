package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/govalues/decimal"
)

// satPerVBScale is the number of sat/kwu in one sat/vB: 1000 / WitnessScaleFactor.
const satPerVBScale = 1000 / WitnessScaleFactor

// FeeRate type represents a fee rate in satoshi per 1000 weight units (sat/kwu).
// There is no upper bound beyond the range of uint64.
// The zero value is 0 sat/kwu.
type FeeRate struct {
	satPerKWU uint64
}

var (
	// BroadcastMinFeeRate is the minimum fee rate required to broadcast
	// a transaction under the default relay policy, 1 sat/vB.
	BroadcastMinFeeRate = FeeRate{satPerKWU: 1 * satPerVBScale}
	// DustFeeRate is the fee rate used to compute the dust limit, 3 sat/vB.
	DustFeeRate = FeeRate{satPerKWU: 3 * satPerVBScale}
)

// NewFeeRateFromSatPerKWU returns a fee rate of r sat/kwu.
func NewFeeRateFromSatPerKWU(r uint64) FeeRate {
	return FeeRate{satPerKWU: r}
}

// NewFeeRateFromSatPerVB returns a fee rate of r sat/vB.
//
// NewFeeRateFromSatPerVB returns an error wrapping [ErrOverflow] if the rate
// in sat/kwu does not fit into uint64.
func NewFeeRateFromSatPerVB(r uint64) (FeeRate, error) {
	k, ok := mul64(r, satPerVBScale)
	if !ok {
		return FeeRate{}, fmt.Errorf("converting %v sat/vB: %w", r, ErrOverflow)
	}
	return FeeRate{satPerKWU: k}, nil
}

// NewFeeRateFromSatPerKVB returns a fee rate of r satoshi per 1000 virtual bytes,
// rounded down to a whole sat/kwu.
func NewFeeRateFromSatPerKVB(r uint64) FeeRate {
	return FeeRate{satPerKWU: r / WitnessScaleFactor}
}

// ParseFeeRate converts a string to a fee rate.
// The string must be in one of the following formats:
//
//	253 sat/kwu
//	1.5 sat/vB
//
// A rate in sat/vB may have up to 3 digits after the decimal point, and it must
// be an exact number of sat/kwu, otherwise ParseFeeRate returns an error
// wrapping [ErrTooPrecise].
func ParseFeeRate(rate string) (FeeRate, error) {
	r, err := parseFeeRate(rate)
	if err != nil {
		return FeeRate{}, fmt.Errorf("parsing fee rate %q: %w", rate, err)
	}
	return r, nil
}

func parseFeeRate(rate string) (FeeRate, error) {
	num, unit, ok := strings.Cut(rate, " ")
	if !ok {
		return FeeRate{}, fmt.Errorf("no unit: %w", ErrInvalidFormat)
	}
	switch unit {
	case "sat/kwu":
		neg, r, err := parseSats(num, Sat)
		if err != nil {
			return FeeRate{}, err
		}
		if neg {
			return FeeRate{}, fmt.Errorf("negative rate: %w", ErrOutOfRange)
		}
		return FeeRate{satPerKWU: r}, nil
	case "sat/vB":
		// 1 sat/kwu is 0.004 sat/vB, so the rate is read in millisatoshi per vB.
		neg, whole, milli, err := parseFixed(num, 3)
		if err != nil {
			return FeeRate{}, err
		}
		if neg {
			return FeeRate{}, fmt.Errorf("negative rate: %w", ErrOutOfRange)
		}
		if milli%WitnessScaleFactor != 0 {
			return FeeRate{}, fmt.Errorf("%v sat/vB is not a whole number of sat/kwu: %w", num, ErrTooPrecise)
		}
		r, ok := mul64(whole, satPerVBScale)
		if !ok {
			return FeeRate{}, fmt.Errorf("integer part: %w", ErrTooBig)
		}
		r, ok = add64(r, milli/WitnessScaleFactor)
		if !ok {
			return FeeRate{}, fmt.Errorf("fractional part: %w", ErrTooBig)
		}
		return FeeRate{satPerKWU: r}, nil
	default:
		return FeeRate{}, fmt.Errorf("unit %q: %w", unit, ErrUnknownDenomination)
	}
}

// SatPerKWU returns the fee rate in sat/kwu.
func (r FeeRate) SatPerKWU() uint64 {
	return r.satPerKWU
}

// SatPerVBFloor returns the fee rate in sat/vB rounded down.
func (r FeeRate) SatPerVBFloor() uint64 {
	return r.satPerKWU / satPerVBScale
}

// SatPerVBCeil returns the fee rate in sat/vB rounded up.
func (r FeeRate) SatPerVBCeil() uint64 {
	v := r.satPerKWU / satPerVBScale
	if r.satPerKWU%satPerVBScale != 0 {
		v++
	}
	return v
}

// SatPerVB returns the exact fee rate in sat/vB as a decimal,
// with trailing zeros removed.
//
// SatPerVB returns an error wrapping [ErrOverflow] if the rate is too large
// to be represented as a decimal.
func (r FeeRate) SatPerVB() (decimal.Decimal, error) {
	// r sat/kwu = r * 4 / 1000 sat/vB
	if r.satPerKWU > math.MaxInt64/WitnessScaleFactor {
		return decimal.Decimal{}, fmt.Errorf("converting %v to sat/vB: %w", r, ErrOverflow)
	}
	d, err := decimal.New(int64(r.satPerKWU*WitnessScaleFactor), 3) //nolint:gosec
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("converting %v to sat/vB: %w", r, err)
	}
	return d.Trim(0), nil
}

// IsZero returns true if the fee rate is 0.
func (r FeeRate) IsZero() bool {
	return r.satPerKWU == 0
}

// Cmp compares fee rates and returns -1, 0, or +1.
func (r FeeRate) Cmp(q FeeRate) int {
	switch {
	case r.satPerKWU < q.satPerKWU:
		return -1
	case r.satPerKWU > q.satPerKWU:
		return 1
	default:
		return 0
	}
}

// Add returns the sum of fee rates r and q.
// It returns an error wrapping [ErrOverflow] if the sum does not fit into uint64.
func (r FeeRate) Add(q FeeRate) (FeeRate, error) {
	s, ok := add64(r.satPerKWU, q.satPerKWU)
	if !ok {
		return FeeRate{}, fmt.Errorf("computing [%v + %v]: %w", r, q, ErrOverflow)
	}
	return FeeRate{satPerKWU: s}, nil
}

// Sub returns the difference between fee rates r and q.
// It returns an error wrapping [ErrOverflow] if q is greater than r.
func (r FeeRate) Sub(q FeeRate) (FeeRate, error) {
	if q.satPerKWU > r.satPerKWU {
		return FeeRate{}, fmt.Errorf("computing [%v - %v]: %w", r, q, ErrOverflow)
	}
	return FeeRate{satPerKWU: r.satPerKWU - q.satPerKWU}, nil
}

// Mul returns the product of fee rate r and factor k.
// It returns an error wrapping [ErrOverflow] if the product does not fit into uint64.
func (r FeeRate) Mul(k uint64) (FeeRate, error) {
	p, ok := mul64(r.satPerKWU, k)
	if !ok {
		return FeeRate{}, fmt.Errorf("computing [%v * %v]: %w", r, k, ErrOverflow)
	}
	return FeeRate{satPerKWU: p}, nil
}

// Quo returns the quotient of fee rate r and divisor k, rounded down.
// It returns an error wrapping [ErrDivisionByZero] if the divisor is 0.
func (r FeeRate) Quo(k uint64) (FeeRate, error) {
	if k == 0 {
		return FeeRate{}, fmt.Errorf("computing [%v / %v]: %w", r, k, ErrDivisionByZero)
	}
	return FeeRate{satPerKWU: r.satPerKWU / k}, nil
}

// Fee returns the absolute fee for a transaction of weight w at fee rate r.
// A fractional satoshi is always rounded up, so the fee never falls short
// of the nominal rate:
//
//	fee = ⌈r * w / 1000⌉
//
// Fee returns an error wrapping [ErrOverflow] if the product does not fit
// into uint64 or the fee exceeds [MaxUnits].
func (r FeeRate) Fee(w Weight) (Amount, error) {
	a, err := r.fee(w)
	if err != nil {
		return Amount{}, fmt.Errorf("computing fee [%v * %v]: %w", r, w, err)
	}
	return a, nil
}

func (r FeeRate) fee(w Weight) (Amount, error) {
	p, ok := mul64(r.satPerKWU, w.wu)
	if !ok {
		return Amount{}, ErrOverflow
	}
	sats := p / 1000
	if p%1000 != 0 {
		sats++
	}
	if sats > MaxUnits {
		return Amount{}, ErrOverflow
	}
	return Amount{sats: sats}, nil
}

// FeeVB is like [FeeRate.Fee] but takes the size in virtual bytes.
func (r FeeRate) FeeVB(vb uint64) (Amount, error) {
	w, err := NewWeightFromVB(vb)
	if err != nil {
		return Amount{}, fmt.Errorf("computing fee: %w", err)
	}
	return r.Fee(w)
}

// FeeRate returns the fee rate of a transaction of weight w paying fee a,
// rounded down to a whole sat/kwu.
//
// FeeRate returns an error wrapping [ErrDivisionByZero] if the weight is 0.
func (a Amount) FeeRate(w Weight) (FeeRate, error) {
	if w.wu == 0 {
		return FeeRate{}, fmt.Errorf("computing [%v / %v]: %w", a, w, ErrDivisionByZero)
	}
	// a.sats <= MaxUnits, so the product fits into uint64.
	return FeeRate{satPerKWU: a.sats * 1000 / w.wu}, nil
}

// String implements the [fmt.Stringer] interface, e.g. "253 sat/kwu".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (r FeeRate) String() string {
	return strconv.FormatUint(r.satPerKWU, 10) + " sat/kwu"
}

// appendSatPerVB appends the exact rate in sat/vB, without trailing zeros.
func appendSatPerVB(buf []byte, satPerKWU uint64) []byte {
	buf = strconv.AppendUint(buf, satPerKWU/satPerVBScale, 10)
	milli := (satPerKWU % satPerVBScale) * WitnessScaleFactor
	if milli == 0 {
		return buf
	}
	digits := [3]byte{byte(milli/100) + '0', byte(milli/10%10) + '0', byte(milli%10) + '0'}
	n := len(digits)
	for digits[n-1] == '0' {
		n--
	}
	buf = append(buf, '.')
	return append(buf, digits[:n]...)
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example       | Description          |
//	| ------ | ------------- | -------------------- |
//	| %s, %v | 253 sat/kwu   | sat/kwu with unit    |
//	| %q     | "253 sat/kwu" | Quoted sat/kwu       |
//	| %d     | 253           | sat/kwu without unit |
//	| %f     | 1.012         | Exact sat/vB         |
//
// The '-' format flag can be used with all verbs.
// The '0' format flag can be used with %d and %f verbs.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (r FeeRate) Format(state fmt.State, verb rune) {
	// Number and unit
	var num []byte
	unit := ""
	switch verb {
	case 'f', 'F':
		num = appendSatPerVB(num, r.satPerKWU)
	case 'd', 'D':
		num = strconv.AppendUint(num, r.satPerKWU, 10)
	default:
		num = strconv.AppendUint(num, r.satPerKWU, 10)
		unit = " sat/kwu"
	}

	// Opening and closing quotes
	quote := ""
	if verb == 'q' || verb == 'Q' {
		quote = `"`
	}

	// Calculating padding
	width := len(quote) + len(num) + len(unit) + len(quote)
	lspaces, lzeros, tspaces := 0, 0, 0
	if w, ok := state.Width(); ok && w > width {
		switch {
		case state.Flag('-'):
			tspaces = w - width
		case state.Flag('0') && unit == "":
			lzeros = w - width
		default:
			lspaces = w - width
		}
		width = w
	}

	buf := make([]byte, 0, width)
	buf = appendSpaces(buf, lspaces)
	buf = append(buf, quote...)
	for i := 0; i < lzeros; i++ {
		buf = append(buf, '0')
	}
	buf = append(buf, num...)
	buf = append(buf, unit...)
	buf = append(buf, quote...)
	buf = appendSpaces(buf, tspaces)

	// Writing result
	//nolint:errcheck
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V', 'f', 'F', 'd', 'D':
		state.Write(buf)
	default:
		writeBadVerb(state, verb, "FeeRate", buf)
	}
}
