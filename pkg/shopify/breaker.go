package shopify

import (
	"errors"
	"sync"
	"time"
)

// BreakerState circuit state
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half-open"
)

var (
	// ErrCircuitOpen the shop has failed repeatedly and calls are short-circuited
	ErrCircuitOpen = errors.New("shopify: circuit breaker is open")
	// ErrHalfOpenBusy a probe request is already in flight
	ErrHalfOpenBusy = errors.New("shopify: circuit breaker probe in flight")
)

// Breaker stops hammering a shop that keeps failing. Only transport errors,
// 429 and 5xx count as failures; a 401 or 404 is an answer, not an outage.
type Breaker struct {
	maxFailures  int
	resetTimeout time.Duration
	now          func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	openedAt    time.Time
	probeActive bool
}

// NewBreaker opens after maxFailures consecutive failures and probes again after resetTimeout.
func NewBreaker(maxFailures int, resetTimeout time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	return &Breaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
		state:        BreakerClosed,
	}
}

// Call runs fn unless the circuit is open.
func (b *Breaker) Call(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return nil
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if b.now().Sub(b.openedAt) < b.resetTimeout {
			return ErrCircuitOpen
		}
		b.state = BreakerHalfOpen
		b.probeActive = false
	}
	if b.state == BreakerHalfOpen {
		if b.probeActive {
			return ErrHalfOpenBusy
		}
		b.probeActive = true
	}
	return nil
}

func (b *Breaker) onFailure() {
	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.maxFailures {
		b.state = BreakerOpen
		b.openedAt = b.now()
		b.probeActive = false
	}
}

func (b *Breaker) onSuccess() {
	b.state = BreakerClosed
	b.failures = 0
	b.probeActive = false
}

// State current circuit state
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
