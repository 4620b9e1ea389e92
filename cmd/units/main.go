// Command units parses, converts, and prints bitcoin amounts and fees.
//
// Usage:
//
//	units parse <amount> [denom]
//	units convert <amount> [from] <to>
//	units fee <rate> <weight>
//
// An amount may carry its own suffix, e.g. "1.5 mBTC" or "1000sat", otherwise
// it is read in the denomination given on the command line or in
// UNITS_DENOMINATION. A rate is written as "253 sat/kwu" or "1.5 sat/vB",
// a weight in weight units.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/stutxo/units"
	"github.com/stutxo/units/internal/config"
	"go.uber.org/zap"
)

var errUsage = errors.New("usage: units parse <amount> [denom] | convert <amount> [from] <to> | fee <rate> <weight>")

var denoms = []units.Denomination{units.BTC, units.CBTC, units.MBTC, units.Bit, units.Sat}

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "units: %v\n", err)
		os.Exit(2)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "units: building logger: %v\n", err)
		os.Exit(2)
	}

	err = run(os.Args[1:], cfg, os.Stdout, logger)
	if err != nil {
		logger.Error("command failed", zap.Strings("args", os.Args[1:]), zap.Error(err))
	}
	_ = logger.Sync()
	switch {
	case errors.Is(err, errUsage):
		os.Exit(2)
	case err != nil:
		os.Exit(1)
	}
}

func run(args []string, cfg *config.Config, w io.Writer, logger *zap.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	logger.Debug("running command", zap.String("command", cmd), zap.Strings("args", args))

	switch cmd {
	case "parse":
		return runParse(args, cfg, w, logger)
	case "convert":
		return runConvert(args, cfg, w, logger)
	case "fee":
		return runFee(args, cfg, w, logger)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

// parseAmount reads an amount with its own suffix, or in denomination d
// when the string ends with a digit or a decimal point.
func parseAmount(s string, d units.Denomination) (units.SignedAmount, error) {
	if s != "" && strings.ContainsRune("0123456789.", rune(s[len(s)-1])) {
		return units.ParseSignedAmount(s, d)
	}
	return units.ParseSignedAmountWithDenom(s)
}

func runParse(args []string, cfg *config.Config, w io.Writer, logger *zap.Logger) error {
	d := cfg.Denomination
	switch len(args) {
	case 1:
	case 2:
		var err error
		d, err = units.ParseDenom(args[1])
		if err != nil {
			return err
		}
	default:
		return errUsage
	}

	a, err := parseAmount(args[0], d)
	if err != nil {
		return err
	}
	logger.Debug("parsed amount", zap.Int64("sats", a.Sats()), zap.Stringer("denomination", d))

	for _, den := range denoms {
		if _, err := fmt.Fprintln(w, a.StringWithDenom(den)); err != nil {
			return err
		}
	}
	return nil
}

func runConvert(args []string, cfg *config.Config, w io.Writer, logger *zap.Logger) error {
	from := cfg.Denomination
	var amount, to string
	switch len(args) {
	case 2:
		amount, to = args[0], args[1]
	case 3:
		var err error
		from, err = units.ParseDenom(args[1])
		if err != nil {
			return err
		}
		amount, to = args[0], args[2]
	default:
		return errUsage
	}

	d, err := units.ParseDenom(to)
	if err != nil {
		return err
	}
	a, err := parseAmount(amount, from)
	if err != nil {
		return err
	}
	logger.Debug("converting amount", zap.Int64("sats", a.Sats()), zap.Stringer("to", d))

	_, err = fmt.Fprintln(w, a.StringWithDenom(d))
	return err
}

func runFee(args []string, cfg *config.Config, w io.Writer, logger *zap.Logger) error {
	if len(args) != 2 {
		return errUsage
	}
	r, err := units.ParseFeeRate(args[0])
	if err != nil {
		return err
	}
	wu, err := strconv.ParseUint(strings.TrimSuffix(args[1], " wu"), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing weight %q: %w", args[1], units.ErrInvalidFormat)
	}
	weight := units.NewWeight(wu)

	fee, err := r.Fee(weight)
	if err != nil {
		return err
	}
	logger.Debug("computed fee",
		zap.Stringer("rate", r),
		zap.Stringer("weight", weight),
		zap.Uint64("sats", fee.Sats()),
	)

	_, err = fmt.Fprintf(w, "%v (%d sat)\n", fee.StringWithDenom(cfg.Denomination), fee)
	return err
}
