package units

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Amounts, fee rates and weights are encoded as their raw integer values.
// Denominations are never part of an encoded amount.

// BSON element types, see https://bsonspec.org/spec.html
const (
	bsonString = 0x02
	bsonNull   = 0x0A
	bsonInt32  = 0x10
	bsonInt64  = 0x12
)

// intErr maps errors of the strconv package to the errors of this package.
func intErr(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return ErrOutOfRange
	}
	return ErrInvalidFormat
}

func parseUint(text []byte) (uint64, error) {
	u, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", text, intErr(err))
	}
	return u, nil
}

func parseInt(text []byte) (int64, error) {
	i, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", text, intErr(err))
	}
	return i, nil
}

// parseBSONInt parses a little-endian BSON int32 or int64 value.
func parseBSONInt(typ byte, data []byte) (int64, error) {
	switch typ {
	case bsonInt32:
		if len(data) != 4 {
			return 0, fmt.Errorf("invalid data length %v", len(data))
		}
		return int64(int32(binary.LittleEndian.Uint32(data))), nil //nolint:gosec
	case bsonInt64:
		if len(data) != 8 {
			return 0, fmt.Errorf("invalid data length %v", len(data))
		}
		return int64(binary.LittleEndian.Uint64(data)), nil //nolint:gosec
	default:
		return 0, fmt.Errorf("BSON type %d is not supported", typ)
	}
}

// scanInt converts a database value to an integer.
// Floating-point values are rejected.
func scanInt(value any) (int64, error) {
	switch value := value.(type) {
	case int64:
		return value, nil
	case []byte:
		return parseInt(value)
	case string:
		return parseInt([]byte(value))
	default:
		return 0, fmt.Errorf("type %T is not supported", value)
	}
}

func (a *Amount) setInt(i int64) error {
	if i < 0 {
		return fmt.Errorf("negative amount %v: %w", i, ErrOutOfRange)
	}
	var err error
	*a, err = newAmountSafe(uint64(i))
	return err
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// The JSON value must be a number of satoshi, null leaves the amount unchanged.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return a.UnmarshalText(data)
}

// MarshalJSON implements the [json.Marshaler] interface.
// The amount is encoded as a number of satoshi.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (a Amount) MarshalJSON() ([]byte, error) {
	return a.MarshalText()
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// The text must be a base-10 number of satoshi.
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (a *Amount) UnmarshalText(text []byte) error {
	u, err := parseUint(text)
	if err == nil {
		*a, err = newAmountSafe(u)
	}
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Amount{}, err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (a Amount) AppendText(text []byte) ([]byte, error) {
	return strconv.AppendUint(text, a.sats, 10), nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (a Amount) MarshalText() ([]byte, error) {
	return a.AppendText(make([]byte, 0, 16))
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
// The data must be 8 bytes, a little-endian number of satoshi.
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (a *Amount) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("unmarshaling %T: invalid data length %v", Amount{}, len(data))
	}
	var err error
	*a, err = newAmountSafe(binary.LittleEndian.Uint64(data))
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Amount{}, err)
	}
	return nil
}

// AppendBinary implements the [encoding.BinaryAppender] interface.
//
// [encoding.BinaryAppender]: https://pkg.go.dev/encoding#BinaryAppender
func (a Amount) AppendBinary(data []byte) ([]byte, error) {
	return binary.LittleEndian.AppendUint64(data, a.sats), nil
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (a Amount) MarshalBinary() ([]byte, error) {
	return a.AppendBinary(make([]byte, 0, 8))
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// BSON int32 and int64 values are supported, null leaves the amount unchanged.
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (a *Amount) UnmarshalBSONValue(typ byte, data []byte) error {
	if typ == bsonNull {
		return nil
	}
	i, err := parseBSONInt(typ, data)
	if err == nil {
		err = a.setInt(i)
	}
	if err != nil {
		return fmt.Errorf("converting from BSON type %d to %T: %w", typ, Amount{}, err)
	}
	return nil
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// The amount is encoded as BSON int64.
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (a Amount) MarshalBSONValue() (typ byte, data []byte, err error) {
	return bsonInt64, binary.LittleEndian.AppendUint64(make([]byte, 0, 8), a.sats), nil
}

// Scan implements the [sql.Scanner] interface.
// Integers and their string representations are supported.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (a *Amount) Scan(value any) error {
	var err error
	if value == nil {
		err = fmt.Errorf("%T does not support null values, use %T or *%T", Amount{}, NullAmount{}, Amount{})
	} else {
		var i int64
		i, err = scanInt(value)
		if err == nil {
			err = a.setInt(i)
		}
	}
	if err != nil {
		return fmt.Errorf("converting from %T to %T: %w", value, Amount{}, err)
	}
	return nil
}

// Value implements the [driver.Valuer] interface.
// The amount is stored as a number of satoshi.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (a Amount) Value() (driver.Value, error) {
	return int64(a.sats), nil //nolint:gosec
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// See also method [Amount.UnmarshalJSON].
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (a *SignedAmount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return a.UnmarshalText(data)
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (a SignedAmount) MarshalJSON() ([]byte, error) {
	return a.MarshalText()
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (a *SignedAmount) UnmarshalText(text []byte) error {
	i, err := parseInt(text)
	if err == nil {
		*a, err = newSignedAmountSafe(i)
	}
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", SignedAmount{}, err)
	}
	return nil
}

// AppendText implements the [encoding.TextAppender] interface.
//
// [encoding.TextAppender]: https://pkg.go.dev/encoding#TextAppender
func (a SignedAmount) AppendText(text []byte) ([]byte, error) {
	return strconv.AppendInt(text, a.sats, 10), nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (a SignedAmount) MarshalText() ([]byte, error) {
	return a.AppendText(make([]byte, 0, 17))
}

// UnmarshalBinary implements the [encoding.BinaryUnmarshaler] interface.
// The data must be 8 bytes, a little-endian two's complement number of satoshi.
//
// [encoding.BinaryUnmarshaler]: https://pkg.go.dev/encoding#BinaryUnmarshaler
func (a *SignedAmount) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("unmarshaling %T: invalid data length %v", SignedAmount{}, len(data))
	}
	var err error
	*a, err = newSignedAmountSafe(int64(binary.LittleEndian.Uint64(data))) //nolint:gosec
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", SignedAmount{}, err)
	}
	return nil
}

// AppendBinary implements the [encoding.BinaryAppender] interface.
//
// [encoding.BinaryAppender]: https://pkg.go.dev/encoding#BinaryAppender
func (a SignedAmount) AppendBinary(data []byte) ([]byte, error) {
	return binary.LittleEndian.AppendUint64(data, uint64(a.sats)), nil //nolint:gosec
}

// MarshalBinary implements the [encoding.BinaryMarshaler] interface.
//
// [encoding.BinaryMarshaler]: https://pkg.go.dev/encoding#BinaryMarshaler
func (a SignedAmount) MarshalBinary() ([]byte, error) {
	return a.AppendBinary(make([]byte, 0, 8))
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (a *SignedAmount) UnmarshalBSONValue(typ byte, data []byte) error {
	if typ == bsonNull {
		return nil
	}
	i, err := parseBSONInt(typ, data)
	if err == nil {
		*a, err = newSignedAmountSafe(i)
	}
	if err != nil {
		return fmt.Errorf("converting from BSON type %d to %T: %w", typ, SignedAmount{}, err)
	}
	return nil
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (a SignedAmount) MarshalBSONValue() (typ byte, data []byte, err error) {
	data, _ = a.AppendBinary(make([]byte, 0, 8))
	return bsonInt64, data, nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (a *SignedAmount) Scan(value any) error {
	var err error
	if value == nil {
		err = fmt.Errorf("%T does not support null values, use %T or *%T", SignedAmount{}, NullSignedAmount{}, SignedAmount{})
	} else {
		var i int64
		i, err = scanInt(value)
		if err == nil {
			*a, err = newSignedAmountSafe(i)
		}
	}
	if err != nil {
		return fmt.Errorf("converting from %T to %T: %w", value, SignedAmount{}, err)
	}
	return nil
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (a SignedAmount) Value() (driver.Value, error) {
	return a.sats, nil
}

// NullAmount represents an amount that can be null.
// Its zero value is null.
// NullAmount is not thread-safe.
type NullAmount struct {
	Amount Amount
	Valid  bool
}

// Scan implements the [sql.Scanner] interface.
// See also method [Amount.Scan].
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullAmount) Scan(value any) error {
	if value == nil {
		n.Amount = Amount{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Amount.Scan(value)
}

// Value implements the [driver.Valuer] interface.
// See also method [Amount.Value].
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullAmount) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Amount.Value()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullAmount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Amount = Amount{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Amount.UnmarshalJSON(data)
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullAmount) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Amount.MarshalJSON()
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// See also method [Amount.UnmarshalBSONValue].
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (n *NullAmount) UnmarshalBSONValue(typ byte, data []byte) error {
	if typ == bsonNull {
		n.Amount = Amount{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.Amount.UnmarshalBSONValue(typ, data)
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// See also method [Amount.MarshalBSONValue].
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (n NullAmount) MarshalBSONValue() (typ byte, data []byte, err error) {
	if !n.Valid {
		return bsonNull, nil, nil
	}
	return n.Amount.MarshalBSONValue()
}

// NullSignedAmount represents a signed amount that can be null.
// Its zero value is null.
// NullSignedAmount is not thread-safe.
type NullSignedAmount struct {
	SignedAmount SignedAmount
	Valid        bool
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (n *NullSignedAmount) Scan(value any) error {
	if value == nil {
		n.SignedAmount = SignedAmount{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.SignedAmount.Scan(value)
}

// Value implements the [driver.Valuer] interface.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (n NullSignedAmount) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.SignedAmount.Value()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (n *NullSignedAmount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.SignedAmount = SignedAmount{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.SignedAmount.UnmarshalJSON(data)
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (n NullSignedAmount) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.SignedAmount.MarshalJSON()
}

// UnmarshalBSONValue implements the [v2/bson.ValueUnmarshaler] interface.
// See also method [SignedAmount.UnmarshalBSONValue].
//
// [v2/bson.ValueUnmarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueUnmarshaler
func (n *NullSignedAmount) UnmarshalBSONValue(typ byte, data []byte) error {
	if typ == bsonNull {
		n.SignedAmount = SignedAmount{}
		n.Valid = false
		return nil
	}
	n.Valid = true
	return n.SignedAmount.UnmarshalBSONValue(typ, data)
}

// MarshalBSONValue implements the [v2/bson.ValueMarshaler] interface.
// See also method [SignedAmount.MarshalBSONValue].
//
// [v2/bson.ValueMarshaler]: https://pkg.go.dev/go.mongodb.org/mongo-driver/v2/bson#ValueMarshaler
func (n NullSignedAmount) MarshalBSONValue() (typ byte, data []byte, err error) {
	if !n.Valid {
		return bsonNull, nil, nil
	}
	return n.SignedAmount.MarshalBSONValue()
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// The JSON value must be a number of sat/kwu.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (r *FeeRate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return r.UnmarshalText(data)
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (r FeeRate) MarshalJSON() ([]byte, error) {
	return r.MarshalText()
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (r *FeeRate) UnmarshalText(text []byte) error {
	u, err := parseUint(text)
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", FeeRate{}, err)
	}
	*r = FeeRate{satPerKWU: u}
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (r FeeRate) MarshalText() ([]byte, error) {
	return strconv.AppendUint(make([]byte, 0, 20), r.satPerKWU, 10), nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (r *FeeRate) Scan(value any) error {
	i, err := scanInt(value)
	if err == nil && i < 0 {
		err = fmt.Errorf("negative rate %v: %w", i, ErrOutOfRange)
	}
	if err != nil {
		return fmt.Errorf("converting from %T to %T: %w", value, FeeRate{}, err)
	}
	*r = FeeRate{satPerKWU: uint64(i)}
	return nil
}

// Value implements the [driver.Valuer] interface.
// Rates above [math.MaxInt64] sat/kwu cannot be stored.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (r FeeRate) Value() (driver.Value, error) {
	if r.satPerKWU > math.MaxInt64 {
		return nil, fmt.Errorf("converting %v: %w", r, ErrOutOfRange)
	}
	return int64(r.satPerKWU), nil
}

// UnmarshalJSON implements the [json.Unmarshaler] interface.
// The JSON value must be a number of weight units.
//
// [json.Unmarshaler]: https://pkg.go.dev/encoding/json#Unmarshaler
func (w *Weight) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	return w.UnmarshalText(data)
}

// MarshalJSON implements the [json.Marshaler] interface.
//
// [json.Marshaler]: https://pkg.go.dev/encoding/json#Marshaler
func (w Weight) MarshalJSON() ([]byte, error) {
	return w.MarshalText()
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
//
// [encoding.TextUnmarshaler]: https://pkg.go.dev/encoding#TextUnmarshaler
func (w *Weight) UnmarshalText(text []byte) error {
	u, err := parseUint(text)
	if err != nil {
		return fmt.Errorf("unmarshaling %T: %w", Weight{}, err)
	}
	*w = Weight{wu: u}
	return nil
}

// MarshalText implements the [encoding.TextMarshaler] interface.
//
// [encoding.TextMarshaler]: https://pkg.go.dev/encoding#TextMarshaler
func (w Weight) MarshalText() ([]byte, error) {
	return strconv.AppendUint(make([]byte, 0, 20), w.wu, 10), nil
}

// Scan implements the [sql.Scanner] interface.
//
// [sql.Scanner]: https://pkg.go.dev/database/sql#Scanner
func (w *Weight) Scan(value any) error {
	i, err := scanInt(value)
	if err == nil && i < 0 {
		err = fmt.Errorf("negative weight %v: %w", i, ErrOutOfRange)
	}
	if err != nil {
		return fmt.Errorf("converting from %T to %T: %w", value, Weight{}, err)
	}
	*w = Weight{wu: uint64(i)}
	return nil
}

// Value implements the [driver.Valuer] interface.
// Weights above [math.MaxInt64] cannot be stored.
//
// [driver.Valuer]: https://pkg.go.dev/database/sql/driver#Valuer
func (w Weight) Value() (driver.Value, error) {
	if w.wu > math.MaxInt64 {
		return nil, fmt.Errorf("converting %v: %w", w, ErrOutOfRange)
	}
	return int64(w.wu), nil
}
