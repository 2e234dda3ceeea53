package raydium

import (
	"errors"
	"math"
	"testing"
)

func TestMinimumAmountOutBounds(t *testing.T) {
	cases := []struct {
		expected uint64
		bps      uint64
		want     uint64
	}{
		{expected: 10_000, bps: 0, want: 10_000},
		{expected: 10_000, bps: 100, want: 9_900},
		{expected: 10_000, bps: 1_000, want: 9_000},
		{expected: 3, bps: 1, want: 2}, // integer division truncates down
	}
	for _, tc := range cases {
		got, err := MinimumAmountOut(tc.expected, tc.bps)
		if err != nil {
			t.Fatalf("minimum out (%d, %d): %v", tc.expected, tc.bps, err)
		}
		if got != tc.want {
			t.Fatalf("minimum out (%d, %d): got %d want %d", tc.expected, tc.bps, got, tc.want)
		}
		if got > tc.expected {
			t.Fatalf("minimum out must never exceed expected: %d > %d", got, tc.expected)
		}
	}
}

func TestMinimumAmountOutSlippageProperty(t *testing.T) {
	// For any tolerance within the cap: expected*0.9 ≤ minimumOut ≤ expected.
	for bps := uint64(0); bps <= MaxSlippageBps; bps += 37 {
		expected := uint64(1_000_000_000)
		got, err := MinimumAmountOut(expected, bps)
		if err != nil {
			t.Fatalf("bps %d: %v", bps, err)
		}
		if got > expected || got < expected*9/10 {
			t.Fatalf("bps %d: %d outside [%d, %d]", bps, got, expected*9/10, expected)
		}
	}
}

func TestMinimumAmountOutRejectsExcessTolerance(t *testing.T) {
	if _, err := MinimumAmountOut(10_000, MaxSlippageBps+1); !errors.Is(err, ErrSlippageTooHigh) {
		t.Fatalf("expected ErrSlippageTooHigh, got %v", err)
	}
}

func TestMinimumAmountOutRejectsOverflow(t *testing.T) {
	// expected*multiplier leaves the uint64 domain; the quote is refused
	// rather than widened.
	if _, err := MinimumAmountOut(math.MaxUint64, 500); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow, got %v", err)
	}
	// Zero tolerance keeps the multiplier at full scale, so the same input
	// still overflows.
	if _, err := MinimumAmountOut(math.MaxUint64, 0); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow, got %v", err)
	}
	// The largest expected that survives the scale-up is fine.
	if _, err := MinimumAmountOut(math.MaxUint64/10_000, 0); err != nil {
		t.Fatalf("in-range expected: %v", err)
	}
}

func TestExpectedOutputConstantProduct(t *testing.T) {
	// 1_000 in against 1_000_000/2_000_000 reserves: 1000*2000000/1001000 = 1998.
	got, err := ExpectedOutput(1_000, 1_000_000, 2_000_000)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got != 1_998 {
		t.Fatalf("unexpected quote: %d", got)
	}
}

func TestExpectedOutputEdgeCases(t *testing.T) {
	if got, err := ExpectedOutput(0, 1, 1); err != nil || got != 0 {
		t.Fatalf("zero input: %d %v", got, err)
	}
	if _, err := ExpectedOutput(1, 0, 1); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
	if _, err := ExpectedOutput(1, math.MaxUint64, 1); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow, got %v", err)
	}
}

func TestQuoteOneToOne(t *testing.T) {
	if QuoteOneToOne(42) != 42 {
		t.Fatal("one-to-one quote must echo the input")
	}
}
