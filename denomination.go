package units

import (
	"database/sql/driver"
	"fmt"
)

// Denomination type represents a named decimal scale of the satoshi used for
// parsing and displaying amounts.
// The zero value is [BTC].
//
// Denomination is implemented as an integer index into in-memory tables
// holding the suffix and the exponent of each denomination.
// This design ensures safe concurrency for multiple goroutines accessing
// the same Denomination value.
//
// Denominations are a display concern only and never part of a stored amount.
// When persisting a denomination, use the suffix returned by the
// [Denomination.Suffix] method rather than the integer index.
type Denomination uint8

const (
	BTC  Denomination = iota // Bitcoin, 10^8 satoshi
	CBTC                     // Centi-bitcoin, 10^6 satoshi
	MBTC                     // Milli-bitcoin, 10^5 satoshi
	Bit                      // Micro-bitcoin, 10^2 satoshi
	Sat                      // Satoshi
)

var (
	suffixLookup = [...]string{
		BTC:  "BTC",
		CBTC: "cBTC",
		MBTC: "mBTC",
		Bit:  "bit",
		Sat:  "sat",
	}
	exponentLookup = [...]int8{
		BTC:  8,
		CBTC: 6,
		MBTC: 5,
		Bit:  2,
		Sat:  0,
	}
	denomLookup = map[string]Denomination{
		"BTC":  BTC,
		"cBTC": CBTC,
		"mBTC": MBTC,
		"bit":  Bit,
		"sat":  Sat,
	}
)

// pow10 is a cache of powers of 10, where pow10[x] = 10^x.
// It covers every exponent in exponentLookup.
var pow10 = [...]uint64{
	1,           // 10^0
	10,          // 10^1
	100,         // 10^2
	1_000,       // 10^3
	10_000,      // 10^4
	100_000,     // 10^5
	1_000_000,   // 10^6
	10_000_000,  // 10^7
	100_000_000, // 10^8
}

// ParseDenom converts a suffix to a denomination.
// Matching is exact and case-sensitive, the following suffixes are recognized:
//
//	BTC
//	cBTC
//	mBTC
//	bit
//	sat
//
// ParseDenom returns an error wrapping [ErrUnknownDenomination] if the string
// is not one of them.
func ParseDenom(denom string) (Denomination, error) {
	d, ok := denomLookup[denom]
	if !ok {
		return BTC, fmt.Errorf("parsing %q: %w", denom, ErrUnknownDenomination)
	}
	return d, nil
}

// MustParseDenom is like [ParseDenom] but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables holding denominations.
func MustParseDenom(denom string) Denomination {
	d, err := ParseDenom(denom)
	if err != nil {
		panic(fmt.Sprintf("ParseDenom(%q) failed: %v", denom, err))
	}
	return d
}

// Exponent returns e such that one unit of the denomination equals 10^e satoshi.
// It is also the maximum number of digits after the decimal point accepted
// when parsing an amount in this denomination.
func (d Denomination) Exponent() int {
	return int(exponentLookup[d])
}

// Suffix returns the unit suffix of the denomination, e.g. "BTC" or "sat".
func (d Denomination) Suffix() string {
	return suffixLookup[d]
}

// unit returns the number of satoshi in one unit of the denomination.
func (d Denomination) unit() uint64 {
	return pow10[d.Exponent()]
}

// String method implements the [fmt.Stringer] interface and returns
// the suffix of the denomination.
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (d Denomination) String() string {
	return d.Suffix()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also constructor [ParseDenom].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (d *Denomination) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		return nil
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var err error
	*d, err = ParseDenom(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", BTC, err)
	}
	return nil
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Denomination.Suffix].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (d Denomination) MarshalJSON() ([]byte, error) {
	text := make([]byte, 0, 6)
	text = append(text, '"')
	text = append(text, d.Suffix()...)
	text = append(text, '"')
	return text, nil
}

// UnmarshalText implements [encoding.TextUnmarshaler] interface.
// See also constructor [ParseDenom].
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (d *Denomination) UnmarshalText(text []byte) error {
	var err error
	*d, err = ParseDenom(string(text))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", BTC, err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (d Denomination) AppendText(text []byte) ([]byte, error) {
	return append(text, d.Suffix()...), nil
}

// MarshalText implements [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (d Denomination) MarshalText() ([]byte, error) {
	return []byte(d.Suffix()), nil
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (d *Denomination) UnmarshalBinary(data []byte) error {
	return d.UnmarshalText(data)
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
// The binary form is the suffix.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (d Denomination) MarshalBinary() ([]byte, error) {
	return d.MarshalText()
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (d *Denomination) UnmarshalBSONValue(typ byte, data []byte) error {
	// constants are from https://bsonspec.org/spec.html
	var err error
	switch typ {
	case bsonString:
		*d, err = parseBSONString(data)
	case bsonNull:
		// null, do nothing
	default:
		err = fmt.Errorf("BSON type %d is not supported", typ)
	}
	if err != nil {
		err = fmt.Errorf("converting from BSON type %d to %T: %w", typ, BTC, err)
	}
	return err
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (d Denomination) MarshalBSONValue() (typ byte, data []byte, err error) {
	return bsonString, d.bsonString(), nil
}

// parseBSONString parses a little-endian length-prefixed BSON string.
func parseBSONString(data []byte) (Denomination, error) {
	if len(data) < 4 {
		return BTC, fmt.Errorf("invalid data length %v", len(data))
	}
	u := uint32(data[0])
	u |= uint32(data[1]) << 8
	u |= uint32(data[2]) << 16
	u |= uint32(data[3]) << 24
	l := int(int32(u)) //nolint:gosec
	if l < 1 || len(data) < l+4 {
		return BTC, fmt.Errorf("invalid string length %v", l)
	}
	if data[l+4-1] != 0 {
		return BTC, fmt.Errorf("invalid null terminator %v", data[l+4-1])
	}
	return ParseDenom(string(data[4 : l+4-1]))
}

func (d Denomination) bsonString() []byte {
	s := d.Suffix()
	l := len(s) + 1
	data := make([]byte, 4+l)
	data[0] = byte(l)
	data[1] = byte(l >> 8)
	data[2] = byte(l >> 16)
	data[3] = byte(l >> 24)
	copy(data[4:], s)
	data[4+l-1] = 0
	return data
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (d *Denomination) Scan(value any) error {
	var err error
	switch value := value.(type) {
	case string:
		*d, err = ParseDenom(value)
	case []byte:
		*d, err = ParseDenom(string(value))
	case nil:
		err = fmt.Errorf("%T does not support null values, use %T or *%T", BTC, NullDenomination{}, BTC)
	default:
		err = fmt.Errorf("type %T is not supported", value)
	}
	if err != nil {
		err = fmt.Errorf("converting from %T to %T: %w", value, BTC, err)
	}
	return err
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (d Denomination) Value() (driver.Value, error) {
	return d.Suffix(), nil
}

// Format implements the [fmt.Formatter] interface.
// The following [format verbs] are available:
//
//	| Verb       | Example | Description    |
//	| ---------- | ------- | -------------- |
//	| %c, %s, %v | mBTC    | Suffix         |
//	| %q         | "mBTC"  | Quoted suffix  |
//
// The '-' format flag can be used with all verbs.
//
// [format verbs]: https://pkg.go.dev/fmt#hdr-Printing
// [fmt.Formatter]: https://pkg.go.dev/fmt#Formatter
func (d Denomination) Format(state fmt.State, verb rune) {
	// Opening and closing quotes
	quote := ""
	if verb == 'q' || verb == 'Q' {
		quote = `"`
	}

	// Calculating padding
	width := len(quote) + len(d.Suffix()) + len(quote)
	lspaces, tspaces := 0, 0
	if w, ok := state.Width(); ok && w > width {
		if state.Flag('-') {
			tspaces = w - width
		} else {
			lspaces = w - width
		}
		width = w
	}

	buf := make([]byte, 0, width)
	buf = appendSpaces(buf, lspaces)
	buf = append(buf, quote...)
	buf = append(buf, d.Suffix()...)
	buf = append(buf, quote...)
	buf = appendSpaces(buf, tspaces)

	// Writing result
	//nolint:errcheck
	switch verb {
	case 'q', 'Q', 's', 'S', 'v', 'V', 'c', 'C':
		state.Write(buf)
	default:
		writeBadVerb(state, verb, "Denomination", buf)
	}
}

// NullDenomination represents a denomination that can be null.
// Its zero value is null.
// NullDenomination is not thread-safe.
type NullDenomination struct {
	Denomination Denomination
	Valid        bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Denomination.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullDenomination) Scan(value any) error {
	if value == nil {
		n.Denomination = BTC
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Denomination.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// See also method [Denomination.Value].
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullDenomination) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Denomination.Value()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Denomination.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullDenomination) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		n.Denomination = BTC
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Denomination.UnmarshalJSON(text)
}

// MarshalJSON implements the [json.Marshaler] interface.
// See also method [Denomination.MarshalJSON].
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullDenomination) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Denomination.MarshalJSON()
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// See also method [Denomination.UnmarshalBSONValue].
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (n *NullDenomination) UnmarshalBSONValue(typ byte, data []byte) error {
	if typ == bsonNull {
		n.Denomination = BTC
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Denomination.UnmarshalBSONValue(typ, data)
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// See also method [Denomination.MarshalBSONValue].
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (n NullDenomination) MarshalBSONValue() (typ byte, data []byte, err error) {
	if !n.Valid {
		return bsonNull, nil, nil
	}
	return n.Denomination.MarshalBSONValue()
}
