package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned while the breaker rejects calls after repeated
// provider failures.
var ErrCircuitOpen = errors.New("llm circuit breaker is open")

type BreakerSettings struct {
	// MaxFailures is the number of consecutive failures that trips the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial call.
	OpenTimeout time.Duration
	// CallTimeout bounds each Generate call; zero leaves the caller's deadline alone.
	CallTimeout time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

// BreakerClient guards another LLMClient with a circuit breaker so a failing
// provider is not hammered on every report request.
type BreakerClient struct {
	next    LLMClient
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

func NewBreakerClient(next LLMClient, settings BreakerSettings, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFailures := settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("llm circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerClient{next: next, breaker: cb, timeout: settings.CallTimeout}
}

func (b *BreakerClient) Generate(ctx context.Context, prompt string) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	out, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state, mainly for health output.
func (b *BreakerClient) State() string {
	return b.breaker.State().String()
}
