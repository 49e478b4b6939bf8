package payment

import (
	"context"
	"sync"
	"time"
)

// Callbacks is the contract handed to the checkout collaborator. Only the collaborator
// invokes these; the first call settles the attempt and later calls are dropped.
type Callbacks struct {
	OnUserSuccess           func(SuccessPayload)
	OnUserCancelledOrFailed func(*GatewayErrorPayload)
	OnGatewayFailure        func(GatewayErrorPayload)
}

// Attempt is one hand-off of an order to the checkout collaborator.
type Attempt struct {
	order      Order
	descriptor OrderDescriptor
	createdAt  time.Time

	once     sync.Once
	outcome  chan Outcome
	onIgnore func(Outcome)
}

func NewAttempt(order Order, prefill Prefill, createdAt time.Time) *Attempt {
	return &Attempt{
		order:      order,
		descriptor: order.Descriptor(prefill),
		createdAt:  createdAt,
		outcome:    make(chan Outcome, 1),
	}
}

// OnIgnoredOutcome registers a hook for callbacks that arrive after settlement.
func (a *Attempt) OnIgnoredOutcome(fn func(Outcome)) {
	a.onIgnore = fn
}

func (a *Attempt) Callbacks() Callbacks {
	return Callbacks{
		OnUserSuccess: func(p SuccessPayload) {
			a.Resolve(Succeeded(p))
		},
		OnUserCancelledOrFailed: func(p *GatewayErrorPayload) {
			a.Resolve(Cancelled(p))
		},
		OnGatewayFailure: func(p GatewayErrorPayload) {
			a.Resolve(GatewayFailed(p))
		},
	}
}

// Resolve records the outcome. It returns false if the attempt was already settled.
func (a *Attempt) Resolve(o Outcome) bool {
	resolved := false
	a.once.Do(func() {
		a.outcome <- o
		resolved = true
	})
	if !resolved && a.onIgnore != nil {
		a.onIgnore(o)
	}
	return resolved
}

func (a *Attempt) Wait(ctx context.Context) (Outcome, error) {
	select {
	case o := <-a.outcome:
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (a *Attempt) Order() Order                { return a.order }
func (a *Attempt) Descriptor() OrderDescriptor { return a.descriptor }
func (a *Attempt) CreatedAt() time.Time        { return a.createdAt }

func (a *Attempt) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(a.createdAt) > ttl
}
