package units

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// add64 calculates x + y and checks overflow.
func add64(x, y uint64) (z uint64, ok bool) {
	z, carry := bits.Add64(x, y, 0)
	return z, carry == 0
}

// mul64 calculates x * y and checks overflow.
func mul64(x, y uint64) (z uint64, ok bool) {
	hi, lo := bits.Mul64(x, y)
	return lo, hi == 0
}

// fsa (Fused Shift and Addition) calculates x * 10 + b and checks overflow.
func fsa(x uint64, b byte) (z uint64, ok bool) {
	z, ok = mul64(x, 10)
	if !ok {
		return 0, false
	}
	return add64(z, uint64(b))
}

// ParseAmount converts a decimal string, expressed in denomination d, to an amount.
// The string must be in the following format:
//
//	sign   ::= '+'
//	digits ::= { '0' | '1' | '2' | '3' | '4' | '5' | '6' | '7' | '8' | '9' }
//	amount ::= [sign] digits ['.' [digits]] | [sign] '.' digits
//
// The number of digits after the decimal point must not exceed [Denomination.Exponent].
// Trailing zeros count as digits.
//
// ParseAmount returns an error wrapping:
//   - [ErrInvalidCharacter] if the string is empty or contains anything except
//     digits, signs, and a decimal point;
//   - [ErrInvalidFormat] if signs or decimal points are misplaced or repeated,
//     or there are no digits;
//   - [ErrTooPrecise] if there are too many digits after the decimal point;
//   - [ErrTooBig] if the number of satoshi does not fit into uint64;
//   - [ErrOutOfRange] if the string has a minus sign or the amount exceeds [MaxUnits].
func ParseAmount(amount string, d Denomination) (Amount, error) {
	a, err := parseAmount(amount, d)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing %q in %v: %w", amount, d, err)
	}
	return a, nil
}

func parseAmount(amount string, d Denomination) (Amount, error) {
	neg, sats, err := parseSats(amount, d)
	if err != nil {
		return Amount{}, err
	}
	// "-0" is rejected as well
	if neg {
		return Amount{}, fmt.Errorf("negative amount: %w", ErrOutOfRange)
	}
	return newAmountSafe(sats)
}

// MustParseAmount is like [ParseAmount] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding amounts.
func MustParseAmount(amount string, d Denomination) Amount {
	a, err := ParseAmount(amount, d)
	if err != nil {
		panic(fmt.Sprintf("ParseAmount(%q, %v) failed: %v", amount, d, err))
	}
	return a
}

// ParseSignedAmount is like [ParseAmount] but accepts a leading minus sign.
// It returns an error wrapping [ErrOutOfRange] if the absolute value of the
// amount exceeds [MaxUnits].
func ParseSignedAmount(amount string, d Denomination) (SignedAmount, error) {
	a, err := parseSignedAmount(amount, d)
	if err != nil {
		return SignedAmount{}, fmt.Errorf("parsing %q in %v: %w", amount, d, err)
	}
	return a, nil
}

func parseSignedAmount(amount string, d Denomination) (SignedAmount, error) {
	neg, sats, err := parseSats(amount, d)
	if err != nil {
		return SignedAmount{}, err
	}
	if sats > MaxUnits {
		return SignedAmount{}, fmt.Errorf("%v satoshi exceeds %v: %w", sats, uint64(MaxUnits), ErrOutOfRange)
	}
	v := int64(sats) //nolint:gosec
	if neg {
		v = -v
	}
	return SignedAmount{sats: v}, nil
}

// MustParseSignedAmount is like [ParseSignedAmount] but panics if the string cannot be parsed.
func MustParseSignedAmount(amount string, d Denomination) SignedAmount {
	a, err := ParseSignedAmount(amount, d)
	if err != nil {
		panic(fmt.Sprintf("ParseSignedAmount(%q, %v) failed: %v", amount, d, err))
	}
	return a
}

// ParseAmountWithDenom converts a string with a denomination suffix, such as
// "1.5 BTC" or "1000sat", to an amount.
// At most one space may separate the number from the suffix.
// See also [ParseAmount] and [ParseDenom].
func ParseAmountWithDenom(amount string) (Amount, error) {
	num, d, err := splitDenom(amount)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing %q: %w", amount, err)
	}
	a, err := parseAmount(num, d)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing %q: %w", amount, err)
	}
	return a, nil
}

// ParseSignedAmountWithDenom is like [ParseAmountWithDenom] but accepts a leading minus sign.
func ParseSignedAmountWithDenom(amount string) (SignedAmount, error) {
	num, d, err := splitDenom(amount)
	if err != nil {
		return SignedAmount{}, fmt.Errorf("parsing %q: %w", amount, err)
	}
	a, err := parseSignedAmount(num, d)
	if err != nil {
		return SignedAmount{}, fmt.Errorf("parsing %q: %w", amount, err)
	}
	return a, nil
}

// splitDenom separates the numeric part of the string from its denomination suffix.
func splitDenom(s string) (string, Denomination, error) {
	pos := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != '+' && r != '-'
	})
	if pos < 0 {
		return "", BTC, fmt.Errorf("no denomination: %w", ErrInvalidFormat)
	}
	num, suffix := s[:pos], s[pos:]
	suffix = strings.TrimPrefix(suffix, " ")
	d, err := ParseDenom(suffix)
	if err != nil {
		return "", BTC, err
	}
	return num, d, nil
}

// parseSats converts a decimal string in denomination d to a sign and
// a number of satoshi.
// The result is not checked against [MaxUnits].
func parseSats(amount string, d Denomination) (neg bool, sats uint64, err error) {
	neg, whole, frac, err := parseFixed(amount, d.Exponent())
	if err != nil {
		return false, 0, err
	}
	sats, ok := mul64(whole, d.unit())
	if !ok {
		return false, 0, fmt.Errorf("integer part: %w", ErrTooBig)
	}
	sats, ok = add64(sats, frac)
	if !ok {
		return false, 0, fmt.Errorf("fractional part: %w", ErrTooBig)
	}
	return neg, sats, nil
}

// parseFixed splits a decimal string into a sign, its integer part, and its
// fractional part scaled to exactly exp digits.
// More than exp digits after the decimal point is an error wrapping [ErrTooPrecise].
func parseFixed(amount string, exp int) (neg bool, whole, frac uint64, err error) {
	// Characters
	if amount == "" {
		return false, 0, 0, fmt.Errorf("empty string: %w", ErrInvalidCharacter)
	}
	for i := 0; i < len(amount); i++ {
		switch c := amount[i]; {
		case c >= '0' && c <= '9', c == '.', c == '+', c == '-':
			// ok
		default:
			return false, 0, 0, fmt.Errorf("%q at position %v: %w", c, i, ErrInvalidCharacter)
		}
	}

	// Sign
	switch amount[0] {
	case '-':
		neg = true
		amount = amount[1:]
	case '+':
		amount = amount[1:]
	}
	if strings.ContainsAny(amount, "+-") {
		return false, 0, 0, fmt.Errorf("misplaced sign: %w", ErrInvalidFormat)
	}

	// Integer and fraction
	wdigits, fdigits, _ := strings.Cut(amount, ".")
	if strings.Contains(fdigits, ".") {
		return false, 0, 0, fmt.Errorf("multiple decimal points: %w", ErrInvalidFormat)
	}
	if wdigits == "" && fdigits == "" {
		return false, 0, 0, fmt.Errorf("no digits: %w", ErrInvalidFormat)
	}
	if len(fdigits) > exp {
		return false, 0, 0, fmt.Errorf("%v digit(s) after the decimal point, at most %v allowed: %w", len(fdigits), exp, ErrTooPrecise)
	}

	// Scaling
	var ok bool
	for i := 0; i < len(wdigits); i++ {
		whole, ok = fsa(whole, wdigits[i]-'0')
		if !ok {
			return false, 0, 0, fmt.Errorf("integer part: %w", ErrTooBig)
		}
	}
	for i := 0; i < len(fdigits); i++ {
		frac = frac*10 + uint64(fdigits[i]-'0')
	}
	frac *= pow10[exp-len(fdigits)]

	return neg, whole, frac, nil
}

// appendSats appends the decimal representation of a number of satoshi in
// denomination d.
// The fractional part always has exactly [Denomination.Exponent] digits,
// the decimal point is omitted only when the exponent is zero.
func appendSats(buf []byte, neg bool, sats uint64, d Denomination) []byte {
	exp := d.Exponent()
	unit := d.unit()

	// Sign
	if neg && sats != 0 {
		buf = append(buf, '-')
	}

	// Integer part
	buf = strconv.AppendUint(buf, sats/unit, 10)

	// Fractional part
	if exp > 0 {
		var frac [8]byte
		rem := sats % unit
		for i := exp - 1; i >= 0; i-- {
			frac[i] = byte(rem%10) + '0'
			rem /= 10
		}
		buf = append(buf, '.')
		buf = append(buf, frac[:exp]...)
	}
	return buf
}

// formatSats implements the [fmt.Formatter] interface for amount types.
//
//gocyclo:ignore
func formatSats(state fmt.State, verb rune, neg bool, sats uint64, typ string) {
	// Number
	var num []byte
	switch verb {
	case 'c', 'C':
		// skip
	case 'd', 'D':
		num = strconv.AppendUint(num, sats, 10)
	default:
		num = appendSats(num, false, sats, BTC)
	}

	// Arithmetic sign
	rsign := ""
	if verb != 'c' && verb != 'C' {
		switch {
		case neg && sats != 0:
			rsign = "-"
		case state.Flag('+'):
			rsign = "+"
		case state.Flag(' '):
			rsign = " "
		}
	}

	// Denomination suffix and delimiter
	suffix, del := "", ""
	switch verb {
	case 'f', 'F', 'd', 'D':
		// skip
	case 'c', 'C':
		suffix = BTC.Suffix()
	default:
		suffix, del = BTC.Suffix(), " "
	}

	// Opening and closing quotes
	quote := ""
	if verb == 'q' || verb == 'Q' {
		quote = `"`
	}

	// Calculating padding
	width := len(quote) + len(rsign) + len(num) + len(del) + len(suffix) + len(quote)
	lspaces, lzeros, tspaces := 0, 0, 0
	if w, ok := state.Width(); ok && w > width {
		switch {
		case state.Flag('-'):
			tspaces = w - width
		case state.Flag('0') && verb != 'c' && verb != 'C':
			lzeros = w - width
		default:
			lspaces = w - width
		}
		width = w
	}

	buf := make([]byte, 0, width)
	buf = appendSpaces(buf, lspaces)
	buf = append(buf, quote...)
	buf = append(buf, rsign...)
	for i := 0; i < lzeros; i++ {
		buf = append(buf, '0')
	}
	buf = append(buf, num...)
	buf = append(buf, del...)
	buf = append(buf, suffix...)
	buf = append(buf, quote...)
	buf = appendSpaces(buf, tspaces)

	// Writing result
	//nolint:errcheck
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V', 'f', 'F', 'd', 'D', 'c', 'C':
		state.Write(buf)
	default:
		writeBadVerb(state, verb, typ, buf)
	}
}

func appendSpaces(buf []byte, n int) []byte {
	for i := 0; i < n; i++ {
		buf = append(buf, ' ')
	}
	return buf
}

// writeBadVerb writes buf the way package fmt reports an unsupported verb,
// e.g. "%!x(units.Amount=0.00000001 BTC)".
func writeBadVerb(state fmt.State, verb rune, typ string, buf []byte) {
	//nolint:errcheck
	fmt.Fprintf(state, "%%!%c(units.%s=%s)", verb, typ, buf)
}
