package routeros

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// CircuitBreaker guards exchanges with a router.
// *gobreaker.CircuitBreaker[[]string] satisfies it.
type CircuitBreaker interface {
	Execute(req func() ([]string, error)) ([]string, error)
	State() gobreaker.State
}

var _ CircuitBreaker = (*gobreaker.CircuitBreaker[[]string])(nil)

// NewCircuitBreakerConfig returns a Config.NewCircuitBreaker function with
// common settings. The breaker opens after at least 3 exchanges with a 60%
// failure ratio. Router-side refusals (login rejected, !trap) do not count as
// failures: the router answered. Neither do caller cancellations.
func NewCircuitBreakerConfig(maxRequests uint32, interval, timeout time.Duration) func(string) CircuitBreaker {
	return func(addr string) CircuitBreaker {
		settings := gobreaker.Settings{
			Name:        addr,
			MaxRequests: maxRequests,
			Interval:    interval,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			IsSuccessful: func(err error) bool {
				if errors.Is(err, context.Canceled) {
					return true
				}
				switch KindOf(err) {
				case "", KindLogin, KindTrap, KindWrite, KindCanceled:
					return true
				default:
					return false
				}
			},
		}
		return gobreaker.NewCircuitBreaker[[]string](settings)
	}
}
