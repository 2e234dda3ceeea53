package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// GuardMetrics aggregates the counters emitted by the trader and token
// engines.
type GuardMetrics struct {
	swapsExecuted prometheus.Counter
	swapsSkipped  prometheus.Counter
	swapsRejected *prometheus.CounterVec
	mints         prometheus.Counter
	mintsRejected *prometheus.CounterVec
}

var (
	guardOnce     sync.Once
	guardRegistry *GuardMetrics
)

// Guard returns the process-wide guard metrics, registering them on first use.
func Guard() *GuardMetrics {
	guardOnce.Do(func() {
		guardRegistry = &GuardMetrics{
			swapsExecuted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "guard_swaps_executed_total",
				Help: "Count of conditional swaps that reached the venue.",
			}),
			swapsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "guard_swaps_skipped_total",
				Help: "Count of swap attempts that exited because the policy was not met.",
			}),
			swapsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "guard_swaps_rejected_total",
				Help: "Count of swap attempts rejected by a guard check, by reason.",
			}, []string{"reason"}),
			mints: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "guard_mints_total",
				Help: "Count of authorised mint operations.",
			}),
			mintsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "guard_mints_rejected_total",
				Help: "Count of mint requests rejected by the supply guard, by reason.",
			}, []string{"reason"}),
		}
		prometheus.MustRegister(
			guardRegistry.swapsExecuted,
			guardRegistry.swapsSkipped,
			guardRegistry.swapsRejected,
			guardRegistry.mints,
			guardRegistry.mintsRejected,
		)
	})
	return guardRegistry
}

// SwapExecuted records a swap that was submitted to the venue.
func SwapExecuted() { Guard().swapsExecuted.Inc() }

// SwapSkipped records a policy-not-met early exit.
func SwapSkipped() { Guard().swapsSkipped.Inc() }

// SwapRejected records a guard rejection with its reason label.
func SwapRejected(reason string) { Guard().swapsRejected.WithLabelValues(reason).Inc() }

// MintAuthorized records a successful mint authorisation.
func MintAuthorized() { Guard().mints.Inc() }

// MintRejected records a supply-guard rejection with its reason label.
func MintRejected(reason string) { Guard().mintsRejected.WithLabelValues(reason).Inc() }
