package oracle

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Default guardrails applied when a validator is constructed without explicit
// overrides. The values match the production deployment parameters.
const (
	// DefaultMaxAge is the staleness window for price observations.
	DefaultMaxAge = 120 * time.Second
	// MaxPriceMantissa is the exclusive upper bound on the price mantissa.
	MaxPriceMantissa int64 = 1_000_000_000_000
	// DefaultMaxConfidenceBps caps the relative uncertainty at 5%.
	DefaultMaxConfidenceBps uint64 = 500
)

var (
	// ErrInvalidPriceUpdate indicates the raw payload was missing or malformed.
	ErrInvalidPriceUpdate = errors.New("oracle: invalid price update")
	// ErrNoPriceFeedFound indicates the update carried no feed entries.
	ErrNoPriceFeedFound = errors.New("oracle: no price feed found")
	// ErrStalePrice indicates the observation exceeded the freshness window.
	ErrStalePrice = errors.New("oracle: stale price")
	// ErrFuturePrice indicates the observation is timestamped ahead of now.
	ErrFuturePrice = errors.New("oracle: future-dated price")
	// ErrInvalidPrice indicates a non-positive price mantissa.
	ErrInvalidPrice = errors.New("oracle: invalid price")
	// ErrPriceTooBig indicates the price mantissa exceeded the absolute cap.
	ErrPriceTooBig = errors.New("oracle: price exceeds maximum")
	// ErrLowConfidence indicates the uncertainty band is too wide relative to price.
	ErrLowConfidence = errors.New("oracle: confidence too low")
	// ErrInvalidThreshold indicates a policy threshold outside the accepted domain.
	ErrInvalidThreshold = errors.New("oracle: invalid threshold")
)

// PriceObservation is a single validated price sample. The represented value is
// Price*10^Expo with an uncertainty band of ±Conf*10^Expo. Observations are
// transient; they are consumed immediately and never persisted.
type PriceObservation struct {
	Price       int64
	Conf        uint64
	Expo        int32
	PublishTime int64
}

// Value renders the observation as a float for logging. Guard decisions never
// use this; all policy math stays on the integer mantissa.
func (o PriceObservation) Value() float64 {
	return float64(o.Price) * math.Pow10(int(o.Expo))
}

// PriceUpdate is the raw payload delivered by a price source before
// validation. A production update carries exactly one feed per tracked market;
// the slice shape mirrors the upstream account layout.
type PriceUpdate struct {
	Feeds []PriceObservation
}

// Condition classifies a price against a low/high band.
type Condition uint8

const (
	// ConditionShort indicates the price closed below the short threshold.
	ConditionShort Condition = iota
	// ConditionMid indicates the price sits inside the band, boundaries included.
	ConditionMid
	// ConditionLong indicates the price closed above the long threshold.
	ConditionLong
)

// String renders the condition for logs and errors.
func (c Condition) String() string {
	switch c {
	case ConditionShort:
		return "short"
	case ConditionMid:
		return "mid"
	case ConditionLong:
		return "long"
	default:
		return fmt.Sprintf("condition(%d)", uint8(c))
	}
}
