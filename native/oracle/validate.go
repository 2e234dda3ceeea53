package oracle

import (
	"fmt"
	"time"

	"vectai/native/common"
)

// Validator applies the trust checks that turn a raw price update into a usable
// observation. All checks are pure and short-circuit on the first failure; a
// rejected update is never reused, the caller re-queries the source instead.
type Validator struct {
	maxAge           time.Duration
	maxPrice         int64
	maxConfidenceBps uint64
	clock            func() time.Time
}

// ValidatorOption customises validator guardrails.
type ValidatorOption func(*Validator)

// WithMaxAge overrides the staleness window.
func WithMaxAge(maxAge time.Duration) ValidatorOption {
	return func(v *Validator) {
		if maxAge > 0 {
			v.maxAge = maxAge
		}
	}
}

// WithMaxConfidenceBps overrides the relative uncertainty ceiling.
func WithMaxConfidenceBps(bps uint64) ValidatorOption {
	return func(v *Validator) {
		if bps > 0 {
			v.maxConfidenceBps = bps
		}
	}
}

// NewValidator constructs a validator with the default guardrails, applying
// any supplied overrides.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		maxAge:           DefaultMaxAge,
		maxPrice:         MaxPriceMantissa,
		maxConfidenceBps: DefaultMaxConfidenceBps,
		clock:            time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetClock overrides the time source, enabling deterministic unit tests.
func (v *Validator) SetClock(clock func() time.Time) {
	if v == nil || clock == nil {
		return
	}
	v.clock = clock
}

// MaxAge reports the configured staleness window.
func (v *Validator) MaxAge() time.Duration {
	if v == nil {
		return 0
	}
	return v.maxAge
}

// Validate checks the raw update and returns the trusted observation. Checks
// run in a fixed order: payload shape, feed presence, staleness, future
// timestamp, positive price, price cap, confidence ratio.
func (v *Validator) Validate(update *PriceUpdate) (PriceObservation, error) {
	if v == nil {
		return PriceObservation{}, fmt.Errorf("oracle: validator not configured")
	}
	if update == nil {
		return PriceObservation{}, ErrInvalidPriceUpdate
	}
	if len(update.Feeds) == 0 {
		return PriceObservation{}, ErrNoPriceFeedFound
	}
	obs := update.Feeds[0]
	now := v.clock().Unix()
	age := now - obs.PublishTime
	if age < 0 {
		return PriceObservation{}, ErrFuturePrice
	}
	if age > int64(v.maxAge/time.Second) {
		return PriceObservation{}, fmt.Errorf("%w: observation %ds old", ErrStalePrice, age)
	}
	if obs.Price <= 0 {
		return PriceObservation{}, ErrInvalidPrice
	}
	if obs.Price >= v.maxPrice {
		return PriceObservation{}, fmt.Errorf("%w: mantissa %d", ErrPriceTooBig, obs.Price)
	}
	// conf/price ≤ maxBps/10000, kept in integer space: conf*10000 ≤ price*maxBps.
	// The right side fits in uint64 given the price cap above; a left side
	// that overflows always exceeds the ratio.
	scaledConf, err := common.CheckedMul(obs.Conf, 10_000)
	if err != nil || scaledConf > uint64(obs.Price)*v.maxConfidenceBps {
		return PriceObservation{}, fmt.Errorf("%w: conf %d against price %d", ErrLowConfidence, obs.Conf, obs.Price)
	}
	return obs, nil
}
