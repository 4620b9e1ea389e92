package units

import (
	"fmt"
	"math"

	"github.com/govalues/decimal"
)

// SignedAmount type represents a monetary amount counted in satoshi that can
// be negative, such as a balance change.
// Its value is always within the range [-MaxUnits, MaxUnits].
// The zero value corresponds to "0.00000000 BTC".
// SignedAmount is designed to be safe for concurrent use by multiple goroutines.
type SignedAmount struct {
	sats int64 // number of satoshi
}

// abs64 returns |v| as uint64, it is correct for [math.MinInt64] too.
func abs64(v int64) uint64 {
	if v < 0 {
		return uint64(-v) //nolint:gosec
	}
	return uint64(v)
}

func newSignedAmountSafe(sats int64) (SignedAmount, error) {
	if abs64(sats) > MaxUnits {
		return SignedAmount{}, fmt.Errorf("%v satoshi is outside [-%v, %v]: %w", sats, uint64(MaxUnits), uint64(MaxUnits), ErrOutOfRange)
	}
	return SignedAmount{sats: sats}, nil
}

// NewSignedAmount returns a signed amount of the given number of satoshi.
//
// NewSignedAmount returns an error wrapping [ErrOutOfRange] if the absolute
// value of sats is greater than [MaxUnits].
func NewSignedAmount(sats int64) (SignedAmount, error) {
	a, err := newSignedAmountSafe(sats)
	if err != nil {
		return SignedAmount{}, fmt.Errorf("converting satoshi: %w", err)
	}
	return a, nil
}

// MustNewSignedAmount is like [NewSignedAmount] but panics if the amount
// cannot be constructed.
func MustNewSignedAmount(sats int64) SignedAmount {
	a, err := NewSignedAmount(sats)
	if err != nil {
		panic(fmt.Sprintf("NewSignedAmount(%v) failed: %v", sats, err))
	}
	return a
}

// NewSignedAmountFromDecimal is like [NewAmountFromDecimal] but accepts negative decimals.
func NewSignedAmountFromDecimal(amount decimal.Decimal, d Denomination) (SignedAmount, error) {
	a, err := parseSignedAmount(amount.Trim(0).String(), d)
	if err != nil {
		return SignedAmount{}, fmt.Errorf("converting decimal %v in %v: %w", amount, d, err)
	}
	return a, nil
}

// Sats returns the number of satoshi.
func (a SignedAmount) Sats() int64 {
	return a.sats
}

// Decimal returns the amount as an exact decimal number of units of denomination d.
func (a SignedAmount) Decimal(d Denomination) decimal.Decimal {
	return decimal.MustNew(a.sats, d.Exponent())
}

// Unsigned converts the amount to an unsigned amount.
//
// Unsigned returns an error wrapping [ErrOutOfRange] if the amount is negative.
func (a SignedAmount) Unsigned() (Amount, error) {
	if a.sats < 0 {
		return Amount{}, fmt.Errorf("converting %v to %T: negative amount: %w", a, Amount{}, ErrOutOfRange)
	}
	return Amount{sats: uint64(a.sats)}, nil
}

// Sign returns:
//
//	-1 if a < 0
//	 0 if a = 0
//	+1 if a > 0
func (a SignedAmount) Sign() int {
	switch {
	case a.sats < 0:
		return -1
	case a.sats > 0:
		return 1
	default:
		return 0
	}
}

// IsNeg returns:
//
//	true  if a < 0
//	false otherwise
func (a SignedAmount) IsNeg() bool {
	return a.sats < 0
}

// IsPos returns:
//
//	true  if a > 0
//	false otherwise
func (a SignedAmount) IsPos() bool {
	return a.sats > 0
}

// IsZero returns:
//
//	true  if a = 0
//	false otherwise
func (a SignedAmount) IsZero() bool {
	return a.sats == 0
}

// Abs returns the absolute value of the amount.
func (a SignedAmount) Abs() SignedAmount {
	if a.sats < 0 {
		return SignedAmount{sats: -a.sats}
	}
	return a
}

// Neg returns an amount with the opposite sign.
// The range is symmetric, so the result is always valid.
func (a SignedAmount) Neg() SignedAmount {
	return SignedAmount{sats: -a.sats}
}

// Add returns the sum of amounts a and b.
//
// Add returns an error wrapping [ErrOverflow] if the absolute value of the
// sum exceeds [MaxUnits].
func (a SignedAmount) Add(b SignedAmount) (SignedAmount, error) {
	c, err := a.add(b)
	if err != nil {
		return SignedAmount{}, fmt.Errorf("computing [%v + %v]: %w", a, b, err)
	}
	return c, nil
}

func (a SignedAmount) add(b SignedAmount) (SignedAmount, error) {
	// Both operands are within ±MaxUnits, so int64 cannot overflow here.
	s := a.sats + b.sats
	if abs64(s) > MaxUnits {
		return SignedAmount{}, ErrOverflow
	}
	return SignedAmount{sats: s}, nil
}

// Sub returns the difference between amounts a and b.
//
// Sub returns an error wrapping [ErrOverflow] if the absolute value of the
// difference exceeds [MaxUnits].
func (a SignedAmount) Sub(b SignedAmount) (SignedAmount, error) {
	c, err := a.add(b.Neg())
	if err != nil {
		return SignedAmount{}, fmt.Errorf("computing [%v - %v]: %w", a, b, err)
	}
	return c, nil
}

// SaturatingAdd returns the sum of amounts a and b clamped to [-MaxUnits, MaxUnits].
func (a SignedAmount) SaturatingAdd(b SignedAmount) SignedAmount {
	return clampSats(a.sats + b.sats)
}

// SaturatingSub returns the difference between amounts a and b clamped to
// [-MaxUnits, MaxUnits].
func (a SignedAmount) SaturatingSub(b SignedAmount) SignedAmount {
	return clampSats(a.sats - b.sats)
}

func clampSats(sats int64) SignedAmount {
	switch {
	case sats > MaxUnits:
		return SignedAmount{sats: MaxUnits}
	case sats < -MaxUnits:
		return SignedAmount{sats: -MaxUnits}
	default:
		return SignedAmount{sats: sats}
	}
}

// Mul returns the product of amount a and factor k.
//
// Mul returns an error wrapping [ErrOverflow] if the absolute value of the
// product exceeds [MaxUnits].
func (a SignedAmount) Mul(k int64) (SignedAmount, error) {
	c, err := a.mul(k)
	if err != nil {
		return SignedAmount{}, fmt.Errorf("computing [%v * %v]: %w", a, k, err)
	}
	return c, nil
}

func (a SignedAmount) mul(k int64) (SignedAmount, error) {
	p, ok := mul64(abs64(a.sats), abs64(k))
	if !ok || p > MaxUnits {
		return SignedAmount{}, ErrOverflow
	}
	v := int64(p) //nolint:gosec
	if (a.sats < 0) != (k < 0) {
		v = -v
	}
	return SignedAmount{sats: v}, nil
}

// Quo returns the quotient of amount a and divisor k, rounded toward zero.
//
// Quo returns an error wrapping [ErrDivisionByZero] if the divisor is 0.
func (a SignedAmount) Quo(k int64) (SignedAmount, error) {
	if k == 0 {
		return SignedAmount{}, fmt.Errorf("computing [%v / %v]: %w", a, k, ErrDivisionByZero)
	}
	return SignedAmount{sats: a.sats / k}, nil
}

// Rem returns the remainder of the division of amount a by divisor k.
// The sign of the remainder is the same as the sign of a.
//
// Rem returns an error wrapping [ErrDivisionByZero] if the divisor is 0.
func (a SignedAmount) Rem(k int64) (SignedAmount, error) {
	if k == 0 {
		return SignedAmount{}, fmt.Errorf("computing [%v mod %v]: %w", a, k, ErrDivisionByZero)
	}
	return SignedAmount{sats: a.sats % k}, nil
}

// QuoRem returns the quotient q and remainder r of amount a and divisor k
// such that a = k * q + r, where the sign of r is the same as the sign of a.
//
// QuoRem returns an error wrapping [ErrDivisionByZero] if the divisor is 0.
func (a SignedAmount) QuoRem(k int64) (q, r SignedAmount, err error) {
	if k == 0 {
		return SignedAmount{}, SignedAmount{}, fmt.Errorf("computing [%v div %v] and [%v mod %v]: %w", a, k, a, k, ErrDivisionByZero)
	}
	return SignedAmount{sats: a.sats / k}, SignedAmount{sats: a.sats % k}, nil
}

// SumSignedAmounts returns the sum of the given amounts.
// Intermediate sums may leave the range as long as the final sum does not.
//
// SumSignedAmounts returns an error wrapping [ErrOverflow] if the absolute
// value of the sum exceeds [MaxUnits].
func SumSignedAmounts(amounts ...SignedAmount) (SignedAmount, error) {
	// Each term is within ±MaxUnits, adding one more term to a sum below
	// this bound cannot overflow int64.
	const bound = math.MaxInt64 - MaxUnits
	var sum int64
	for i, a := range amounts {
		sum += a.sats
		if abs64(sum) > bound {
			return SignedAmount{}, fmt.Errorf("summing amount #%v: %w", i, ErrOverflow)
		}
	}
	s, err := newSignedAmountSafe(sum)
	if err != nil {
		return SignedAmount{}, fmt.Errorf("summing amounts: %w", ErrOverflow)
	}
	return s, nil
}

// Cmp compares amounts and returns:
//
//	-1 if a < b
//	 0 if a = b
//	+1 if a > b
func (a SignedAmount) Cmp(b SignedAmount) int {
	switch {
	case a.sats < b.sats:
		return -1
	case a.sats > b.sats:
		return 1
	default:
		return 0
	}
}

// CmpAbs compares absolute values of amounts and returns:
//
//	-1 if |a| < |b|
//	 0 if |a| = |b|
//	+1 if |a| > |b|
func (a SignedAmount) CmpAbs(b SignedAmount) int {
	return a.Abs().Cmp(b.Abs())
}

// Min returns the smaller amount.
func (a SignedAmount) Min(b SignedAmount) SignedAmount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger amount.
func (a SignedAmount) Max(b SignedAmount) SignedAmount {
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
func (a SignedAmount) Clamp(lo, hi SignedAmount) (SignedAmount, error) {
	if lo.Cmp(hi) > 0 {
		return SignedAmount{}, fmt.Errorf("clamping %v: invalid range [%v, %v]", a, lo, hi)
	}
	return a.Max(lo).Min(hi), nil
}

// StringIn returns the amount as a decimal number of units of denomination d,
// without the suffix. Negative amounts have a leading minus sign.
// See also [Amount.StringIn].
func (a SignedAmount) StringIn(d Denomination) string {
	return string(appendSats(make([]byte, 0, 24), a.sats < 0, abs64(a.sats), d))
}

// StringWithDenom is like [SignedAmount.StringIn] but appends a space and the
// suffix of denomination d.
func (a SignedAmount) StringWithDenom(d Denomination) string {
	buf := appendSats(make([]byte, 0, 32), a.sats < 0, abs64(a.sats), d)
	buf = append(buf, ' ')
	buf = append(buf, d.Suffix()...)
	return string(buf)
}

// String implements the [fmt.Stringer] interface and returns the amount
// in bitcoin, e.g. "-0.00001000 BTC".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (a SignedAmount) String() string {
	return a.StringWithDenom(BTC)
}

// Format implements the [fmt.Formatter] interface.
// The verbs and flags are the same as for [Amount.Format].
//
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (a SignedAmount) Format(state fmt.State, verb rune) {
	formatSats(state, verb, a.sats < 0, abs64(a.sats), "SignedAmount")
}
