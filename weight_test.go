package units

import (
	"errors"
	"math"
	"testing"
)

func TestWeight_Constants(t *testing.T) {
	if MinTransactionWeight != 240 {
		t.Errorf("MinTransactionWeight = %v, want 240", MinTransactionWeight)
	}
	w := NewWeight(MaxBlockWeight)
	if got, want := w.VBFloor(), uint64(1_000_000); got != want {
		t.Errorf("%v.VBFloor() = %v, want %v", w, got, want)
	}
}

func TestNewWeight(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w, err := NewWeightFromVB(10)
		if err != nil {
			t.Fatalf("NewWeightFromVB(10) failed: %v", err)
		}
		if got, want := w.WU(), uint64(40); got != want {
			t.Errorf("NewWeightFromVB(10) = %v, want %v", got, want)
		}
		w, err = NewWeightFromKWU(2)
		if err != nil {
			t.Fatalf("NewWeightFromKWU(2) failed: %v", err)
		}
		if got, want := w.WU(), uint64(2000); got != want {
			t.Errorf("NewWeightFromKWU(2) = %v, want %v", got, want)
		}
	})

	t.Run("error", func(t *testing.T) {
		if _, err := NewWeightFromVB(math.MaxUint64/WitnessScaleFactor + 1); !errors.Is(err, ErrOverflow) {
			t.Errorf("NewWeightFromVB(overflow) = %v, want %v", err, ErrOverflow)
		}
		if _, err := NewWeightFromKWU(math.MaxUint64/1000 + 1); !errors.Is(err, ErrOverflow) {
			t.Errorf("NewWeightFromKWU(overflow) = %v, want %v", err, ErrOverflow)
		}
	})
}

func TestWeight_Conversions(t *testing.T) {
	tests := []struct {
		wu              uint64
		vbFloor, vbCeil uint64
		kwuFloor        uint64
		isZero          bool
		str             string
	}{
		{0, 0, 0, 0, true, "0 wu"},
		{1, 0, 1, 0, false, "1 wu"},
		{4, 1, 1, 0, false, "4 wu"},
		{561, 140, 141, 0, false, "561 wu"},
		{2500, 625, 625, 2, false, "2500 wu"},
		{math.MaxUint64, math.MaxUint64 / 4, math.MaxUint64/4 + 1, math.MaxUint64 / 1000, false, "18446744073709551615 wu"},
	}
	for _, tt := range tests {
		w := NewWeight(tt.wu)
		if got := w.VBFloor(); got != tt.vbFloor {
			t.Errorf("%v.VBFloor() = %v, want %v", w, got, tt.vbFloor)
		}
		if got := w.VBCeil(); got != tt.vbCeil {
			t.Errorf("%v.VBCeil() = %v, want %v", w, got, tt.vbCeil)
		}
		if got := w.KWUFloor(); got != tt.kwuFloor {
			t.Errorf("%v.KWUFloor() = %v, want %v", w, got, tt.kwuFloor)
		}
		if got := w.IsZero(); got != tt.isZero {
			t.Errorf("%v.IsZero() = %v, want %v", w, got, tt.isZero)
		}
		if got := w.String(); got != tt.str {
			t.Errorf("%v.String() = %q, want %q", tt.wu, got, tt.str)
		}
	}
}

func TestWeight_Arithmetic(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w, v := NewWeight(561), NewWeight(240)
		if got, err := w.Add(v); err != nil || got.WU() != 801 {
			t.Errorf("%v.Add(%v) = %v, %v, want 801 wu", w, v, got, err)
		}
		if got, err := w.Sub(v); err != nil || got.WU() != 321 {
			t.Errorf("%v.Sub(%v) = %v, %v, want 321 wu", w, v, got, err)
		}
		if got, err := w.Mul(3); err != nil || got.WU() != 1683 {
			t.Errorf("%v.Mul(3) = %v, %v, want 1683 wu", w, got, err)
		}
		if got, err := w.Quo(2); err != nil || got.WU() != 280 {
			t.Errorf("%v.Quo(2) = %v, %v, want 280 wu", w, got, err)
		}
		if got := w.Cmp(v); got != 1 {
			t.Errorf("%v.Cmp(%v) = %v, want 1", w, v, got)
		}
		if got := v.Cmp(w); got != -1 {
			t.Errorf("%v.Cmp(%v) = %v, want -1", v, w, got)
		}
		if got := w.Cmp(w); got != 0 {
			t.Errorf("%v.Cmp(%v) = %v, want 0", w, w, got)
		}
	})

	t.Run("error", func(t *testing.T) {
		w, v := NewWeight(math.MaxUint64), NewWeight(1)
		if _, err := w.Add(v); !errors.Is(err, ErrOverflow) {
			t.Errorf("%v.Add(%v) = %v, want %v", w, v, err, ErrOverflow)
		}
		if _, err := v.Sub(w); !errors.Is(err, ErrOverflow) {
			t.Errorf("%v.Sub(%v) = %v, want %v", v, w, err, ErrOverflow)
		}
		if _, err := w.Mul(2); !errors.Is(err, ErrOverflow) {
			t.Errorf("%v.Mul(2) = %v, want %v", w, err, ErrOverflow)
		}
		if _, err := w.Quo(0); !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("%v.Quo(0) = %v, want %v", w, err, ErrDivisionByZero)
		}
	})
}
