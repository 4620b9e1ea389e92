package units

import "errors"

// Errors returned by the package.
// They are always wrapped with additional context, use [errors.Is] to test for them.
var (
	// ErrInvalidCharacter is returned when a string contains a character
	// that cannot appear in an amount.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrInvalidFormat is returned when a string consists of valid characters
	// arranged in an invalid way, e.g. two decimal points.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrTooPrecise is returned when a string has more digits after the
	// decimal point than the denomination allows.
	ErrTooPrecise = errors.New("too precise")
	// ErrTooBig is returned when an intermediate value overflows uint64 during parsing.
	ErrTooBig = errors.New("too big")
	// ErrOutOfRange is returned when a value is outside the range of its type.
	ErrOutOfRange = errors.New("out of range")
	// ErrOverflow is returned when the result of an arithmetic operation
	// cannot be represented.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrUnknownDenomination is returned for unrecognized denomination suffixes.
	ErrUnknownDenomination = errors.New("unknown denomination")
	// ErrDivisionByZero is returned when dividing by zero.
	ErrDivisionByZero = errors.New("division by zero")
)
