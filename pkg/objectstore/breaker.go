package objectstore

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// Breaker short-circuits calls to a failing backend so uploads fail fast instead of
// waiting on the client timeout for every request.
type Breaker struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next. The breaker opens after five consecutive failures and probes again after timeout.
func NewBreaker(name string, next Store, timeout time.Duration) *Breaker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	}
	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// State exposes the breaker state for diagnostics.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Put(ctx, name, contentType, data)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (b *Breaker) Get(ctx context.Context, url string) ([]byte, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Get(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (b *Breaker) Delete(ctx context.Context, url string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, url)
	})
	return err
}
