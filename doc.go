/*
Package units implements exact bitcoin amounts, fee rates, and transaction weights.
All values are fixed-width integers counting the smallest indivisible unit,
the satoshi. Floating-point numbers are never used.

# Features

  - Immutable value types, safe for concurrent use by multiple goroutines
  - Checked arithmetic that never wraps around and never leaves the valid range
  - Saturating arithmetic for callers that explicitly ask for it
  - Exact parsing and formatting of decimal strings in several denominations
  - Fee calculation from a fee rate and a transaction weight, rounded up
  - Raw integer encoding for JSON, text, binary, BSON, and SQL

# Representation

[Amount] holds a number of satoshi in the range [0, MaxUnits].
[SignedAmount] holds a number of satoshi in the range [-MaxUnits, MaxUnits].
[MaxUnits] is the total supply of 21 million bitcoin, 2 100 000 000 000 000 satoshi.
Both types wrap the integer in a struct, so a raw integer cannot become an
amount without passing through a validating constructor such as [NewAmount]
or [ParseAmount].

[FeeRate] holds satoshi per 1000 weight units and [Weight] holds weight units.
Multiplying them with [FeeRate.Fee] produces an [Amount].

# Denominations

A [Denomination] is a power-of-ten multiple of the satoshi used only for
parsing and display:

	| Denomination | Suffix | Satoshi |
	| ------------ | ------ | ------- |
	| BTC          | BTC    | 10^8    |
	| CBTC         | cBTC   | 10^6    |
	| MBTC         | mBTC   | 10^5    |
	| Bit          | bit    | 10^2    |
	| Sat          | sat    | 1       |

Parsing never rounds: a string with more digits after the decimal point than the
denomination allows is rejected. Formatting always prints exactly as many
fractional digits as the denomination has, so [ParseAmount] restores the
amount printed by [Amount.StringIn] for every amount and every denomination.

# Errors

Constructors, parsers, and arithmetic methods return errors wrapping one of
the sentinel errors of this package, such as [ErrOverflow] or [ErrTooPrecise].
Use [errors.Is] to inspect them.
Only the Must functions panic. They are meant for values that are known to
be valid when the program is written.
*/
package units
