package units

import (
	"fmt"

	"github.com/govalues/decimal"
)

// MaxUnits is the maximum number of satoshi an amount can hold,
// equal to the total supply of 21 million bitcoin.
const MaxUnits = 21_000_000 * 100_000_000

// Amount type represents a non-negative monetary amount counted in satoshi.
// Its value is always within the range [0, MaxUnits].
// The zero value corresponds to "0.00000000 BTC".
// Amount is designed to be safe for concurrent use by multiple goroutines.
type Amount struct {
	sats uint64 // number of satoshi
}

var (
	// ZeroAmount is an amount of 0 satoshi.
	ZeroAmount = Amount{}
	// OneSat is an amount of 1 satoshi.
	OneSat = Amount{sats: 1}
	// OneBTC is an amount of 1 bitcoin.
	OneBTC = Amount{sats: 100_000_000}
	// MaxAmount is an amount of [MaxUnits] satoshi.
	MaxAmount = Amount{sats: MaxUnits}
)

// newAmountSafe creates a new amount and checks the range.
func newAmountSafe(sats uint64) (Amount, error) {
	if sats > MaxUnits {
		return Amount{}, fmt.Errorf("%v satoshi exceeds %v: %w", sats, uint64(MaxUnits), ErrOutOfRange)
	}
	return Amount{sats: sats}, nil
}

// NewAmount returns an amount of the given number of satoshi.
// See also method [Amount.Sats].
//
// NewAmount returns an error wrapping [ErrOutOfRange] if sats is greater than [MaxUnits].
func NewAmount(sats uint64) (Amount, error) {
	a, err := newAmountSafe(sats)
	if err != nil {
		return Amount{}, fmt.Errorf("converting satoshi: %w", err)
	}
	return a, nil
}

// MustNewAmount is like [NewAmount] but panics if the amount cannot be constructed.
// It is meant for constants known to be in range, a panic indicates a bug
// in the calling code.
func MustNewAmount(sats uint64) Amount {
	a, err := NewAmount(sats)
	if err != nil {
		panic(fmt.Sprintf("NewAmount(%v) failed: %v", sats, err))
	}
	return a
}

// NewAmountFromDecimal converts a decimal number of units of denomination d
// to an amount.
// Trailing zeros after the decimal point are ignored, any other digit beyond
// [Denomination.Exponent] results in an error wrapping [ErrTooPrecise].
// See also method [Amount.Decimal].
func NewAmountFromDecimal(amount decimal.Decimal, d Denomination) (Amount, error) {
	a, err := parseAmount(amount.Trim(0).String(), d)
	if err != nil {
		return Amount{}, fmt.Errorf("converting decimal %v in %v: %w", amount, d, err)
	}
	return a, nil
}

// Sats returns the number of satoshi.
// See also constructor [NewAmount].
func (a Amount) Sats() uint64 {
	return a.sats
}

// Decimal returns the amount as an exact decimal number of units of denomination d.
// The scale of the result is equal to [Denomination.Exponent].
// See also constructor [NewAmountFromDecimal].
func (a Amount) Decimal(d Denomination) decimal.Decimal {
	return decimal.MustNew(int64(a.sats), d.Exponent()) //nolint:gosec
}

// IsZero returns:
//
//	true  if a = 0
//	false otherwise
func (a Amount) IsZero() bool {
	return a.sats == 0
}

// IsPos returns:
//
//	true  if a > 0
//	false otherwise
func (a Amount) IsPos() bool {
	return a.sats != 0
}

// Signed converts the amount to a signed amount.
// The conversion cannot fail since [MaxUnits] is within the range of
// [SignedAmount], the error is returned for symmetry with [SignedAmount.Unsigned].
func (a Amount) Signed() (SignedAmount, error) {
	return SignedAmount{sats: int64(a.sats)}, nil //nolint:gosec
}

// Add returns the sum of amounts a and b.
//
// Add returns an error wrapping [ErrOverflow] if the sum exceeds [MaxUnits].
func (a Amount) Add(b Amount) (Amount, error) {
	c, err := a.add(b)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v + %v]: %w", a, b, err)
	}
	return c, nil
}

func (a Amount) add(b Amount) (Amount, error) {
	// Both operands are at most MaxUnits, so uint64 cannot overflow here.
	s := a.sats + b.sats
	if s > MaxUnits {
		return Amount{}, ErrOverflow
	}
	return Amount{sats: s}, nil
}

// Sub returns the difference between amounts a and b.
//
// Sub returns an error wrapping [ErrOverflow] if b is greater than a.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b.sats > a.sats {
		return Amount{}, fmt.Errorf("computing [%v - %v]: %w", a, b, ErrOverflow)
	}
	return Amount{sats: a.sats - b.sats}, nil
}

// SaturatingAdd returns the sum of amounts a and b, or [MaxAmount] if the sum
// exceeds [MaxUnits].
func (a Amount) SaturatingAdd(b Amount) Amount {
	c, err := a.add(b)
	if err != nil {
		return MaxAmount
	}
	return c
}

// SaturatingSub returns the difference between amounts a and b, or zero if b
// is greater than a.
func (a Amount) SaturatingSub(b Amount) Amount {
	if b.sats > a.sats {
		return Amount{}
	}
	return Amount{sats: a.sats - b.sats}
}

// Mul returns the product of amount a and factor k.
//
// Mul returns an error wrapping [ErrOverflow] if the product exceeds [MaxUnits].
func (a Amount) Mul(k uint64) (Amount, error) {
	c, err := a.mul(k)
	if err != nil {
		return Amount{}, fmt.Errorf("computing [%v * %v]: %w", a, k, err)
	}
	return c, nil
}

func (a Amount) mul(k uint64) (Amount, error) {
	p, ok := mul64(a.sats, k)
	if !ok || p > MaxUnits {
		return Amount{}, ErrOverflow
	}
	return Amount{sats: p}, nil
}

// Quo returns the quotient of amount a and divisor k, rounded toward zero.
// See also methods [Amount.Rem], [Amount.QuoRem], and [Amount.Split].
//
// Quo returns an error wrapping [ErrDivisionByZero] if the divisor is 0.
func (a Amount) Quo(k uint64) (Amount, error) {
	if k == 0 {
		return Amount{}, fmt.Errorf("computing [%v / %v]: %w", a, k, ErrDivisionByZero)
	}
	return Amount{sats: a.sats / k}, nil
}

// Rem returns the remainder of the division of amount a by divisor k.
//
// Rem returns an error wrapping [ErrDivisionByZero] if the divisor is 0.
func (a Amount) Rem(k uint64) (Amount, error) {
	if k == 0 {
		return Amount{}, fmt.Errorf("computing [%v mod %v]: %w", a, k, ErrDivisionByZero)
	}
	return Amount{sats: a.sats % k}, nil
}

// QuoRem returns the quotient q and remainder r of amount a and divisor k
// such that a = k * q + r.
//
// QuoRem returns an error wrapping [ErrDivisionByZero] if the divisor is 0.
func (a Amount) QuoRem(k uint64) (q, r Amount, err error) {
	if k == 0 {
		return Amount{}, Amount{}, fmt.Errorf("computing [%v div %v] and [%v mod %v]: %w", a, k, a, k, ErrDivisionByZero)
	}
	return Amount{sats: a.sats / k}, Amount{sats: a.sats % k}, nil
}

// Split returns a slice of amounts that sum up to the original amount,
// ensuring the parts are as equal as possible.
// If the original amount cannot be divided equally among the specified number
// of parts, the remainder is distributed among the first parts of the slice,
// one satoshi each.
// See also methods [Amount.Quo] and [Amount.QuoRem].
//
// Split returns an error if the number of parts is not a positive integer.
func (a Amount) Split(parts int) ([]Amount, error) {
	r, err := a.split(parts)
	if err != nil {
		return nil, fmt.Errorf("splitting %v into %v parts: %w", a, parts, err)
	}
	return r, nil
}

func (a Amount) split(parts int) ([]Amount, error) {
	if parts <= 0 {
		return nil, fmt.Errorf("number of parts must be positive")
	}
	quo, rem, err := a.QuoRem(uint64(parts))
	if err != nil {
		return nil, err
	}
	res := make([]Amount, parts)
	for i := range res {
		res[i] = quo
		// Reminder distribution
		if rem.sats > 0 {
			res[i].sats++
			rem.sats--
		}
	}
	return res, nil
}

// SumAmounts returns the sum of the given amounts.
// The sum of no amounts is zero.
//
// SumAmounts returns an error wrapping [ErrOverflow] if the sum exceeds [MaxUnits].
func SumAmounts(amounts ...Amount) (Amount, error) {
	var sum Amount
	for i, a := range amounts {
		var err error
		sum, err = sum.add(a)
		if err != nil {
			return Amount{}, fmt.Errorf("summing amount #%v: %w", i, err)
		}
	}
	return sum, nil
}

// Cmp compares amounts and returns:
//
//	-1 if a < b
//	 0 if a = b
//	+1 if a > b
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.sats < b.sats:
		return -1
	case a.sats > b.sats:
		return 1
	default:
		return 0
	}
}

// Min returns the smaller amount.
// See also method [Amount.Cmp].
func (a Amount) Min(b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger amount.
// See also method [Amount.Cmp].
func (a Amount) Max(b Amount) Amount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Clamp compares amounts and returns:
//
//	lo if a < lo
//	hi if a > hi
//	 a otherwise
//
// Clamp returns an error if lo is greater than hi.
func (a Amount) Clamp(lo, hi Amount) (Amount, error) {
	if lo.Cmp(hi) > 0 {
		return Amount{}, fmt.Errorf("clamping %v: invalid range [%v, %v]", a, lo, hi)
	}
	return a.Max(lo).Min(hi), nil
}

// StringIn returns the amount as a decimal number of units of denomination d,
// without the suffix.
// The number of digits after the decimal point is always [Denomination.Exponent],
// so that [ParseAmount] can restore the exact amount.
//
//	MustNewAmount(100_000_000).StringIn(BTC) // "1.00000000"
//	MustNewAmount(100_000_000).StringIn(Sat) // "100000000"
func (a Amount) StringIn(d Denomination) string {
	return string(appendSats(make([]byte, 0, 24), false, a.sats, d))
}

// StringWithDenom is like [Amount.StringIn] but appends a space and the
// suffix of denomination d. See also constructor [ParseAmountWithDenom].
func (a Amount) StringWithDenom(d Denomination) string {
	buf := appendSats(make([]byte, 0, 32), false, a.sats, d)
	buf = append(buf, ' ')
	buf = append(buf, d.Suffix()...)
	return string(buf)
}

// String implements the [fmt.Stringer] interface and returns the amount
// in bitcoin, e.g. "0.00001000 BTC".
// See also methods [Amount.StringWithDenom] and [Amount.Format].
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (a Amount) String() string {
	return a.StringWithDenom(BTC)
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb   | Example               | Description                    |
//	| ------ | --------------------- | ------------------------------ |
//	| %s, %v | 0.00005678 BTC        | Amount and denomination        |
//	| %q     | "0.00005678 BTC"      | Quoted amount and denomination |
//	| %f     | 0.00005678            | Amount in bitcoin              |
//	| %d     | 5678                  | Amount in satoshi              |
//	| %c     | BTC                   | Denomination                   |
//
// The '-' format flag can be used with all verbs.
// The '+', ' ', '0' format flags can be used with all verbs except %c.
// Precision is not supported, amounts are never rounded.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (a Amount) Format(state fmt.State, verb rune) {
	formatSats(state, verb, false, a.sats, "Amount")
}
