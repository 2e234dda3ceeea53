package common

import (
	"errors"
	"math"
)

// ErrCounterOverflow indicates an unsigned counter or amount would wrap if the
// operation proceeded. Guarded operations fail rather than saturate silently.
var ErrCounterOverflow = errors.New("counter overflow")

// CheckedAdd returns a+b or ErrCounterOverflow when the sum would exceed the
// uint64 range.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrCounterOverflow
	}
	return a + b, nil
}

// CheckedMul returns a*b or ErrCounterOverflow when the product would exceed
// the uint64 range.
func CheckedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, ErrCounterOverflow
	}
	return a * b, nil
}
