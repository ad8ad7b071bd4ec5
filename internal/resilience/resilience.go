// Package resilience provides a circuit breaker for calls to upstream
// services.
package resilience

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned without calling the operation while the
// breaker is open.
var ErrCircuitOpen = gobreaker.ErrOpenState

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	Name string
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int
	// Cooldown is how long the circuit stays open before a trial call.
	Cooldown time.Duration
	// Trips reports whether an error counts as a failure. Nil counts every
	// error.
	Trips func(error) bool
}

// CircuitBreaker wraps gobreaker with context-aware operations and
// error classification.
type CircuitBreaker struct {
	cb    *gobreaker.CircuitBreaker
	trips func(error) bool
}

// NewCircuitBreaker creates a circuit breaker. State changes are logged.
func NewCircuitBreaker(cfg CircuitBreakerConfig, log *slog.Logger) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.Trips == nil {
		cfg.Trips = func(error) bool { return true }
	}
	if log == nil {
		log = slog.Default()
	}

	maxFailures := uint32(cfg.MaxFailures)
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(settings), trips: cfg.Trips}
}

// Execute runs operation through the breaker. Errors for which Trips is
// false are returned to the caller but recorded as successes.
func (c *CircuitBreaker) Execute(ctx context.Context, operation func(context.Context) error) error {
	var passthrough error
	_, err := c.cb.Execute(func() (interface{}, error) {
		err := operation(ctx)
		if err != nil && !c.trips(err) {
			passthrough = err
			return nil, nil
		}
		return nil, err
	})
	if err != nil {
		return err
	}
	return passthrough
}

// State returns the current breaker state name: closed, half-open or open.
func (c *CircuitBreaker) State() string {
	return c.cb.State().String()
}
