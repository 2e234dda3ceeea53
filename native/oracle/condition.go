package oracle

import "fmt"

// PolicyKind selects how a policy is evaluated against an observation.
type PolicyKind uint8

const (
	// PolicyThreshold evaluates a strict price > threshold comparison.
	PolicyThreshold PolicyKind = iota
	// PolicyRange classifies the price into short/mid/long against a band.
	PolicyRange
)

// Policy is an immutable trading condition configured at trader setup.
type Policy struct {
	Kind PolicyKind

	// Threshold applies to PolicyThreshold.
	Threshold int64

	// ShortThreshold/LongThreshold bound the band for PolicyRange; Target is
	// the classification that permits execution.
	ShortThreshold int64
	LongThreshold  int64
	Target         Condition
}

func validateThreshold(threshold int64) error {
	if threshold <= 0 {
		return fmt.Errorf("%w: must be positive", ErrInvalidThreshold)
	}
	if threshold >= MaxPriceMantissa {
		return fmt.Errorf("%w: %d exceeds maximum", ErrInvalidThreshold, threshold)
	}
	return nil
}

// CheckThreshold reports whether the observed price strictly exceeds the
// threshold. Equality is not a match.
func CheckThreshold(obs PriceObservation, threshold int64) (bool, error) {
	if err := validateThreshold(threshold); err != nil {
		return false, err
	}
	return obs.Price > threshold, nil
}

// Classify buckets the observed price against a short/long band. Both
// boundaries belong to the mid bucket.
func Classify(obs PriceObservation, shortThreshold, longThreshold int64) (Condition, error) {
	if err := validateThreshold(shortThreshold); err != nil {
		return ConditionMid, err
	}
	if err := validateThreshold(longThreshold); err != nil {
		return ConditionMid, err
	}
	if longThreshold <= shortThreshold {
		return ConditionMid, fmt.Errorf("%w: long %d must exceed short %d", ErrInvalidThreshold, longThreshold, shortThreshold)
	}
	switch {
	case obs.Price < shortThreshold:
		return ConditionShort, nil
	case obs.Price > longThreshold:
		return ConditionLong, nil
	default:
		return ConditionMid, nil
	}
}

// Evaluate applies the policy to a validated observation. The returned
// condition reflects the classification for range policies; for threshold
// policies it is ConditionLong when met and ConditionMid otherwise. A policy
// that is not met is a successful non-match, not an error.
func Evaluate(policy Policy, obs PriceObservation) (bool, Condition, error) {
	switch policy.Kind {
	case PolicyThreshold:
		met, err := CheckThreshold(obs, policy.Threshold)
		if err != nil {
			return false, ConditionMid, err
		}
		if met {
			return true, ConditionLong, nil
		}
		return false, ConditionMid, nil
	case PolicyRange:
		cond, err := Classify(obs, policy.ShortThreshold, policy.LongThreshold)
		if err != nil {
			return false, ConditionMid, err
		}
		return cond == policy.Target, cond, nil
	default:
		return false, ConditionMid, fmt.Errorf("oracle: unknown policy kind %d", policy.Kind)
	}
}
