package units

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/govalues/decimal"
)

func TestFeeRate_ZeroValue(t *testing.T) {
	r := FeeRate{}
	if !r.IsZero() {
		t.Errorf("FeeRate{}.IsZero() = false, want true")
	}
	if got, want := r.String(), "0 sat/kwu"; got != want {
		t.Errorf("FeeRate{}.String() = %q, want %q", got, want)
	}
}

func TestFeeRate_Size(t *testing.T) {
	r := FeeRate{}
	got := unsafe.Sizeof(r)
	want := uintptr(8)
	if got != want {
		t.Errorf("unsafe.Sizeof(%v) = %v, want %v", r, got, want)
	}
}

func TestFeeRate_Constants(t *testing.T) {
	tests := []struct {
		r    FeeRate
		want uint64
	}{
		{BroadcastMinFeeRate, 250},
		{DustFeeRate, 750},
	}
	for _, tt := range tests {
		if got := tt.r.SatPerKWU(); got != tt.want {
			t.Errorf("%v.SatPerKWU() = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestNewFeeRate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, err := NewFeeRateFromSatPerVB(10)
		if err != nil {
			t.Fatalf("NewFeeRateFromSatPerVB(10) failed: %v", err)
		}
		if got, want := r.SatPerKWU(), uint64(2500); got != want {
			t.Errorf("NewFeeRateFromSatPerVB(10) = %v, want %v", got, want)
		}
		if got, want := NewFeeRateFromSatPerKVB(10).SatPerKWU(), uint64(2); got != want {
			t.Errorf("NewFeeRateFromSatPerKVB(10) = %v, want %v", got, want)
		}
		if got, want := NewFeeRateFromSatPerKVB(1000).SatPerKWU(), uint64(250); got != want {
			t.Errorf("NewFeeRateFromSatPerKVB(1000) = %v, want %v", got, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		_, err := NewFeeRateFromSatPerVB(math.MaxUint64)
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("NewFeeRateFromSatPerVB(math.MaxUint64) = %v, want %v", err, ErrOverflow)
		}
	})
}

func TestParseFeeRate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			s    string
			want uint64
		}{
			{"0 sat/kwu", 0},
			{"253 sat/kwu", 253},
			{"18446744073709551615 sat/kwu", math.MaxUint64},
			{"1 sat/vB", 250},
			{"1.0 sat/vB", 250},
			{"1.5 sat/vB", 375},
			{"0.004 sat/vB", 1},
			{"0 sat/vB", 0},
			{"1.012 sat/vB", 253},
			{"73786976294838206.46 sat/vB", math.MaxUint64},
		}
		for _, tt := range tests {
			got, err := ParseFeeRate(tt.s)
			if err != nil {
				t.Errorf("ParseFeeRate(%q) failed: %v", tt.s, err)
				continue
			}
			if got.SatPerKWU() != tt.want {
				t.Errorf("ParseFeeRate(%q) = %v, want %v", tt.s, got.SatPerKWU(), tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]struct {
			s    string
			want error
		}{
			"unit 1":      {"1", ErrInvalidFormat},
			"unit 2":      {"1 sat/kvB", ErrUnknownDenomination},
			"unit 3":      {"1 sat/vb", ErrUnknownDenomination},
			"unit 4":      {"1 BTC", ErrUnknownDenomination},
			"format 1":    {"1.2.3 sat/vB", ErrInvalidFormat},
			"format 2":    {"1..5 sat/kwu", ErrInvalidFormat},
			"format 3":    {". sat/vB", ErrInvalidFormat},
			"character 1": {"1e3 sat/kwu", ErrInvalidCharacter},
			"character 2": {"abc sat/vB", ErrInvalidCharacter},
			"precision 1": {"1.5 sat/kwu", ErrTooPrecise},
			"precision 2": {"0.001 sat/vB", ErrTooPrecise},
			"precision 3": {"4000000000000000.001 sat/vB", ErrTooPrecise},
			"precision 4": {"1.00000000000000000001 sat/vB", ErrTooPrecise},
			"precision 5": {"0.0000000000000000000001 sat/vB", ErrTooPrecise},
			"precision 6": {"1.0040 sat/vB", ErrTooPrecise},
			"too big 1":   {"18446744073709551616 sat/kwu", ErrTooBig},
			"too big 2":   {"73786976294838206464 sat/vB", ErrTooBig},
			"too big 3":   {"73786976294838207 sat/vB", ErrTooBig},
			"too big 4":   {"73786976294838206.464 sat/vB", ErrTooBig},
			"range 1":     {"-1 sat/kwu", ErrOutOfRange},
			"range 2":     {"-1 sat/vB", ErrOutOfRange},
		}
		for name, tt := range tests {
			t.Run(name, func(t *testing.T) {
				_, err := ParseFeeRate(tt.s)
				if !errors.Is(err, tt.want) {
					t.Errorf("ParseFeeRate(%q) = %v, want %v", tt.s, err, tt.want)
				}
			})
		}
	})
}

func TestFeeRate_SatPerVB(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			r           uint64
			floor, ceil uint64
			exact       string
		}{
			{0, 0, 0, "0"},
			{1, 0, 1, "0.004"},
			{250, 1, 1, "1"},
			{253, 1, 2, "1.012"},
			{333, 1, 2, "1.332"},
			{375, 1, 2, "1.5"},
			{2500, 10, 10, "10"},
		}
		for _, tt := range tests {
			r := NewFeeRateFromSatPerKWU(tt.r)
			if got := r.SatPerVBFloor(); got != tt.floor {
				t.Errorf("%v.SatPerVBFloor() = %v, want %v", r, got, tt.floor)
			}
			if got := r.SatPerVBCeil(); got != tt.ceil {
				t.Errorf("%v.SatPerVBCeil() = %v, want %v", r, got, tt.ceil)
			}
			got, err := r.SatPerVB()
			if err != nil {
				t.Errorf("%v.SatPerVB() failed: %v", r, err)
				continue
			}
			want := decimal.MustParse(tt.exact)
			if got.Cmp(want) != 0 || got.String() != tt.exact {
				t.Errorf("%v.SatPerVB() = %v, want %v", r, got, want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		r := NewFeeRateFromSatPerKWU(math.MaxInt64/WitnessScaleFactor + 1)
		_, err := r.SatPerVB()
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("%v.SatPerVB() = %v, want %v", r, err, ErrOverflow)
		}
	})
}

func TestFeeRate_Format(t *testing.T) {
	tests := []struct {
		r            uint64
		format, want string
	}{
		// %T verb
		{253, "%T", "units.FeeRate"},
		// %v and %s verbs
		{253, "%v", "253 sat/kwu"},
		{253, "%s", "253 sat/kwu"},
		{253, "%14v", "   253 sat/kwu"},
		{253, "%-14v", "253 sat/kwu   "},
		{253, "%014v", "   253 sat/kwu"}, // '0' is ignored
		// %q verb
		{253, "%q", "\"253 sat/kwu\""},
		{253, "%15q", "  \"253 sat/kwu\""},
		// %d verb
		{253, "%d", "253"},
		{253, "%6d", "   253"},
		{253, "%06d", "000253"},
		{253, "%-6d", "253   "},
		// %f verb
		{0, "%f", "0"},
		{1, "%f", "0.004"},
		{10, "%f", "0.04"},
		{250, "%f", "1"},
		{253, "%f", "1.012"},
		{375, "%f", "1.5"},
		{1000, "%f", "4"},
		{375, "%08f", "000001.5"},
		{375, "%-6f", "1.5   "},
		{math.MaxUint64, "%f", "73786976294838206.46"},
		// wrong verbs
		{253, "%x", "%!x(units.FeeRate=253 sat/kwu)"},
	}
	for _, tt := range tests {
		r := NewFeeRateFromSatPerKWU(tt.r)
		got := fmt.Sprintf(tt.format, r)
		if got != tt.want {
			t.Errorf("fmt.Sprintf(%q, %v) = %q, want %q", tt.format, tt.r, got, tt.want)
		}
	}
}

func TestFeeRate_FormatSatPerVB(t *testing.T) {
	rates := []uint64{0, 1, 2, 3, 4, 249, 250, 251, 253, 375, 864, 2500, 1_000_001, math.MaxInt64 / WitnessScaleFactor}
	for _, v := range rates {
		r := NewFeeRateFromSatPerKWU(v)
		got := fmt.Sprintf("%f", r)
		d, err := r.SatPerVB()
		if err != nil {
			t.Errorf("%v.SatPerVB() failed: %v", r, err)
			continue
		}
		if want := d.String(); got != want {
			t.Errorf("fmt.Sprintf(\"%%f\", %v) = %q, want %q", r, got, want)
		}
	}

	rates = append(rates, math.MaxUint64, math.MaxUint64-1)
	for _, v := range rates {
		r := NewFeeRateFromSatPerKWU(v)
		s := fmt.Sprintf("%f sat/vB", r)
		got, err := ParseFeeRate(s)
		if err != nil {
			t.Errorf("ParseFeeRate(%q) failed: %v", s, err)
			continue
		}
		if got != r {
			t.Errorf("ParseFeeRate(%q) = %v, want %v", s, got, r)
		}
	}
}

func TestFeeRate_Fee(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			rate, wu, want uint64
		}{
			{0, 0, 0},
			{0, MaxBlockWeight, 0},
			{1000, 0, 0},
			{250, 3, 1}, // 1 sat/vB, 0.75 sat rounded up
			{250, 4, 1},
			{250, 5, 2},
			{864, 381, 330},
			{1, 1, 1},
			{1000, 1, 1},
			{1001, 1, 2},
			{253, MinTransactionWeight, 61},
			{MaxUnits, 1000, MaxUnits},
			{1000, MaxUnits, MaxUnits},
		}
		for _, tt := range tests {
			r, w := NewFeeRateFromSatPerKWU(tt.rate), NewWeight(tt.wu)
			got, err := r.Fee(w)
			if err != nil {
				t.Errorf("%v.Fee(%v) failed: %v", r, w, err)
				continue
			}
			if got.Sats() != tt.want {
				t.Errorf("%v.Fee(%v) = %v, want %v", r, w, got.Sats(), tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := []struct {
			rate, wu uint64
		}{
			{math.MaxUint64, 2},
			{2, math.MaxUint64},
			{MaxUnits, 1001},
			{1000, MaxUnits + 1},
		}
		for _, tt := range tests {
			r, w := NewFeeRateFromSatPerKWU(tt.rate), NewWeight(tt.wu)
			_, err := r.Fee(w)
			if !errors.Is(err, ErrOverflow) {
				t.Errorf("%v.Fee(%v) = %v, want %v", r, w, err, ErrOverflow)
			}
		}
	})
}

func TestFeeRate_FeeVB(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			satPerVB, vb, want uint64
		}{
			{10, 10, 100},
			{3, 3, 9},
			{1, 141, 141},
		}
		for _, tt := range tests {
			r, err := NewFeeRateFromSatPerVB(tt.satPerVB)
			if err != nil {
				t.Errorf("NewFeeRateFromSatPerVB(%v) failed: %v", tt.satPerVB, err)
				continue
			}
			got, err := r.FeeVB(tt.vb)
			if err != nil {
				t.Errorf("%v.FeeVB(%v) failed: %v", r, tt.vb, err)
				continue
			}
			if got.Sats() != tt.want {
				t.Errorf("%v.FeeVB(%v) = %v, want %v", r, tt.vb, got.Sats(), tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		_, err := BroadcastMinFeeRate.FeeVB(math.MaxUint64)
		if !errors.Is(err, ErrOverflow) {
			t.Errorf("%v.FeeVB(math.MaxUint64) = %v, want %v", BroadcastMinFeeRate, err, ErrOverflow)
		}
	})
}

func TestAmount_FeeRate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tests := []struct {
			sats, wu, want uint64
		}{
			{329, 381, 863},
			{330, 381, 866},
			{0, 381, 0},
			{100, 400, 250},
			{MaxUnits, 1, MaxUnits * 1000},
		}
		for _, tt := range tests {
			a, w := MustNewAmount(tt.sats), NewWeight(tt.wu)
			got, err := a.FeeRate(w)
			if err != nil {
				t.Errorf("%v.FeeRate(%v) failed: %v", a, w, err)
				continue
			}
			if got.SatPerKWU() != tt.want {
				t.Errorf("%v.FeeRate(%v) = %v, want %v", a, w, got.SatPerKWU(), tt.want)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		a := MustNewAmount(100)
		_, err := a.FeeRate(Weight{})
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("%v.FeeRate(0 wu) = %v, want %v", a, err, ErrDivisionByZero)
		}
	})
}

// The fee computed from a rate derived from a fee never falls short of
// the rate, and never exceeds the original fee.
func TestFeeRate_FeeRoundTrip(t *testing.T) {
	for _, sats := range []uint64{1, 99, 141, 330, 5_000, 1_000_000} {
		for _, wu := range []uint64{1, 3, MinTransactionWeight, 381, 561, MaxBlockWeight} {
			a, w := MustNewAmount(sats), NewWeight(wu)
			r, err := a.FeeRate(w)
			if err != nil {
				t.Errorf("%v.FeeRate(%v) failed: %v", a, w, err)
				continue
			}
			fee, err := r.Fee(w)
			if err != nil {
				t.Errorf("%v.Fee(%v) failed: %v", r, w, err)
				continue
			}
			if fee.Cmp(a) > 0 {
				t.Errorf("%v.Fee(%v) = %v, exceeds %v", r, w, fee, a)
			}
		}
	}
}

func TestFeeRate_Arithmetic(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r, q := NewFeeRateFromSatPerKWU(750), NewFeeRateFromSatPerKWU(250)
		if got, err := r.Add(q); err != nil || got.SatPerKWU() != 1000 {
			t.Errorf("%v.Add(%v) = %v, %v, want 1000", r, q, got, err)
		}
		if got, err := r.Sub(q); err != nil || got.SatPerKWU() != 500 {
			t.Errorf("%v.Sub(%v) = %v, %v, want 500", r, q, got, err)
		}
		if got, err := r.Mul(4); err != nil || got.SatPerKWU() != 3000 {
			t.Errorf("%v.Mul(4) = %v, %v, want 3000", r, got, err)
		}
		if got, err := r.Quo(4); err != nil || got.SatPerKWU() != 187 {
			t.Errorf("%v.Quo(4) = %v, %v, want 187", r, got, err)
		}
		if got := r.Cmp(q); got != 1 {
			t.Errorf("%v.Cmp(%v) = %v, want 1", r, q, got)
		}
		if got := q.Cmp(r); got != -1 {
			t.Errorf("%v.Cmp(%v) = %v, want -1", q, r, got)
		}
		if got := r.Cmp(r); got != 0 {
			t.Errorf("%v.Cmp(%v) = %v, want 0", r, r, got)
		}
	})

	t.Run("error", func(t *testing.T) {
		r, q := NewFeeRateFromSatPerKWU(math.MaxUint64), NewFeeRateFromSatPerKWU(1)
		if _, err := r.Add(q); !errors.Is(err, ErrOverflow) {
			t.Errorf("%v.Add(%v) = %v, want %v", r, q, err, ErrOverflow)
		}
		if _, err := q.Sub(r); !errors.Is(err, ErrOverflow) {
			t.Errorf("%v.Sub(%v) = %v, want %v", q, r, err, ErrOverflow)
		}
		if _, err := r.Mul(2); !errors.Is(err, ErrOverflow) {
			t.Errorf("%v.Mul(2) = %v, want %v", r, err, ErrOverflow)
		}
		if _, err := r.Quo(0); !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("%v.Quo(0) = %v, want %v", r, err, ErrDivisionByZero)
		}
	})
}
