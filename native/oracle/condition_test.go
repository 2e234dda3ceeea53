package oracle

import (
	"errors"
	"testing"
)

func obsAt(price int64) PriceObservation {
	return PriceObservation{Price: price, Conf: 10, PublishTime: testNow.Unix()}
}

func TestCheckThresholdStrictComparison(t *testing.T) {
	met, err := CheckThreshold(obsAt(45_000), 40_000)
	if err != nil || !met {
		t.Fatalf("expected threshold met: %v %v", met, err)
	}
	// Equality at the boundary is not a match.
	met, err = CheckThreshold(obsAt(40_000), 40_000)
	if err != nil || met {
		t.Fatalf("boundary equality must not match: %v %v", met, err)
	}
	met, err = CheckThreshold(obsAt(39_999), 40_000)
	if err != nil || met {
		t.Fatalf("below threshold must not match: %v %v", met, err)
	}
}

func TestCheckThresholdValidatesInput(t *testing.T) {
	for _, threshold := range []int64{0, -5, MaxPriceMantissa} {
		if _, err := CheckThreshold(obsAt(100), threshold); !errors.Is(err, ErrInvalidThreshold) {
			t.Fatalf("threshold %d: expected ErrInvalidThreshold, got %v", threshold, err)
		}
	}
}

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		price int64
		want  Condition
	}{
		{price: 29_999, want: ConditionShort},
		{price: 30_000, want: ConditionMid}, // boundary belongs to mid
		{price: 45_000, want: ConditionMid},
		{price: 50_000, want: ConditionMid}, // boundary belongs to mid
		{price: 50_001, want: ConditionLong},
	}
	for _, tc := range cases {
		got, err := Classify(obsAt(tc.price), 30_000, 50_000)
		if err != nil {
			t.Fatalf("classify %d: %v", tc.price, err)
		}
		if got != tc.want {
			t.Fatalf("classify %d: got %s want %s", tc.price, got, tc.want)
		}
	}
}

func TestClassifyRejectsInvertedBand(t *testing.T) {
	if _, err := Classify(obsAt(100), 50_000, 30_000); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
	if _, err := Classify(obsAt(100), 30_000, 30_000); !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("equal bounds: expected ErrInvalidThreshold, got %v", err)
	}
}

func TestEvaluateThresholdPolicy(t *testing.T) {
	policy := Policy{Kind: PolicyThreshold, Threshold: 40_000}
	met, _, err := Evaluate(policy, obsAt(45_000))
	if err != nil || !met {
		t.Fatalf("expected policy met: %v %v", met, err)
	}
	met, _, err = Evaluate(policy, obsAt(40_000))
	if err != nil || met {
		t.Fatalf("expected policy not met: %v %v", met, err)
	}
}

func TestEvaluateRangePolicy(t *testing.T) {
	policy := Policy{Kind: PolicyRange, ShortThreshold: 30_000, LongThreshold: 50_000, Target: ConditionLong}
	met, cond, err := Evaluate(policy, obsAt(55_000))
	if err != nil || !met || cond != ConditionLong {
		t.Fatalf("expected long match: met=%v cond=%s err=%v", met, cond, err)
	}
	met, cond, err = Evaluate(policy, obsAt(45_000))
	if err != nil || met || cond != ConditionMid {
		t.Fatalf("mid classification must not match long target: met=%v cond=%s err=%v", met, cond, err)
	}
}

func TestEvaluateUnknownKind(t *testing.T) {
	if _, _, err := Evaluate(Policy{Kind: PolicyKind(9)}, obsAt(100)); err == nil {
		t.Fatal("expected error for unknown policy kind")
	}
}
