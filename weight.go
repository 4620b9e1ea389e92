package units

import (
	"fmt"
	"strconv"
)

const (
	// WitnessScaleFactor is the number of weight units in one virtual byte.
	WitnessScaleFactor = 4
	// MaxBlockWeight is the maximum weight of a block.
	MaxBlockWeight = 4_000_000
	// MinTransactionWeight is the weight of the smallest possible transaction.
	MinTransactionWeight = WitnessScaleFactor * 60
)

// Weight type represents the weight of a transaction or a block in weight units.
// There is no upper bound beyond the range of uint64.
// The zero value is 0 weight units.
type Weight struct {
	wu uint64 // weight units
}

// NewWeight returns a weight of wu weight units.
func NewWeight(wu uint64) Weight {
	return Weight{wu: wu}
}

// NewWeightFromVB returns the weight of vb virtual bytes.
//
// NewWeightFromVB returns an error wrapping [ErrOverflow] if the result does
// not fit into uint64.
func NewWeightFromVB(vb uint64) (Weight, error) {
	wu, ok := mul64(vb, WitnessScaleFactor)
	if !ok {
		return Weight{}, fmt.Errorf("converting %v vB: %w", vb, ErrOverflow)
	}
	return Weight{wu: wu}, nil
}

// NewWeightFromKWU returns a weight of kwu thousand weight units.
//
// NewWeightFromKWU returns an error wrapping [ErrOverflow] if the result does
// not fit into uint64.
func NewWeightFromKWU(kwu uint64) (Weight, error) {
	wu, ok := mul64(kwu, 1000)
	if !ok {
		return Weight{}, fmt.Errorf("converting %v kwu: %w", kwu, ErrOverflow)
	}
	return Weight{wu: wu}, nil
}

// WU returns the number of weight units.
func (w Weight) WU() uint64 {
	return w.wu
}

// KWUFloor returns the number of thousand weight units rounded down.
func (w Weight) KWUFloor() uint64 {
	return w.wu / 1000
}

// VBFloor returns the number of virtual bytes rounded down.
func (w Weight) VBFloor() uint64 {
	return w.wu / WitnessScaleFactor
}

// VBCeil returns the number of virtual bytes rounded up.
func (w Weight) VBCeil() uint64 {
	vb := w.wu / WitnessScaleFactor
	if w.wu%WitnessScaleFactor != 0 {
		vb++
	}
	return vb
}

// IsZero returns true if the weight is 0.
func (w Weight) IsZero() bool {
	return w.wu == 0
}

// Cmp compares weights and returns -1, 0, or +1.
func (w Weight) Cmp(v Weight) int {
	switch {
	case w.wu < v.wu:
		return -1
	case w.wu > v.wu:
		return 1
	default:
		return 0
	}
}

// Add returns the sum of weights w and v.
// It returns an error wrapping [ErrOverflow] if the sum does not fit into uint64.
func (w Weight) Add(v Weight) (Weight, error) {
	s, ok := add64(w.wu, v.wu)
	if !ok {
		return Weight{}, fmt.Errorf("computing [%v + %v]: %w", w, v, ErrOverflow)
	}
	return Weight{wu: s}, nil
}

// Sub returns the difference between weights w and v.
// It returns an error wrapping [ErrOverflow] if v is greater than w.
func (w Weight) Sub(v Weight) (Weight, error) {
	if v.wu > w.wu {
		return Weight{}, fmt.Errorf("computing [%v - %v]: %w", w, v, ErrOverflow)
	}
	return Weight{wu: w.wu - v.wu}, nil
}

// Mul returns the product of weight w and factor k.
// It returns an error wrapping [ErrOverflow] if the product does not fit into uint64.
func (w Weight) Mul(k uint64) (Weight, error) {
	p, ok := mul64(w.wu, k)
	if !ok {
		return Weight{}, fmt.Errorf("computing [%v * %v]: %w", w, k, ErrOverflow)
	}
	return Weight{wu: p}, nil
}

// Quo returns the quotient of weight w and divisor k, rounded down.
// It returns an error wrapping [ErrDivisionByZero] if the divisor is 0.
func (w Weight) Quo(k uint64) (Weight, error) {
	if k == 0 {
		return Weight{}, fmt.Errorf("computing [%v / %v]: %w", w, k, ErrDivisionByZero)
	}
	return Weight{wu: w.wu / k}, nil
}

// String implements the [fmt.Stringer] interface, e.g. "561 wu".
//
// [fmt.Stringer]: https://pkg.go.dev/fmt#Stringer
func (w Weight) String() string {
	return strconv.FormatUint(w.wu, 10) + " wu"
}
