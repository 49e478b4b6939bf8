package commands

import (
	"sync"
	"time"

	"venue-booking-gateway/internal/domain/payment"
	"venue-booking-gateway/internal/pkg/clock"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/errs"
)

var ErrAttemptNotFound = errs.New("payment attempt not found or expired")

// AttemptRegistry holds attempts between Begin and Settle when the checkout runs
// outside this process and reports back over HTTP.
type AttemptRegistry struct {
	mu    sync.Mutex
	items map[string]*payment.Attempt
	ttl   time.Duration
	clock clock.Clock
}

func NewAttemptRegistry(cfg config.Config, clk clock.Clock) *AttemptRegistry {
	return &AttemptRegistry{
		items: make(map[string]*payment.Attempt),
		ttl:   cfg.Payment.AttemptTTL,
		clock: clk,
	}
}

func (r *AttemptRegistry) Put(a *payment.Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.items[a.Order().OrderID] = a
}

// Take removes and returns the attempt, so an order settles at most once.
func (r *AttemptRegistry) Take(orderID string) (*payment.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[orderID]
	if !ok {
		return nil, errs.Mark(errs.New("no attempt for order "+orderID), ErrAttemptNotFound)
	}
	delete(r.items, orderID)
	if a.Expired(r.clock.Now(), r.ttl) {
		return nil, errs.Mark(errs.New("attempt for order "+orderID+" expired"), ErrAttemptNotFound)
	}
	return a, nil
}

func (r *AttemptRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *AttemptRegistry) sweepLocked() {
	now := r.clock.Now()
	for id, a := range r.items {
		if a.Expired(now, r.ttl) {
			delete(r.items, id)
		}
	}
}
