package apiclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"venue-booking-gateway/internal/domain/credential"
	"venue-booking-gateway/internal/pkg/errs"
)

type (
	RenewFunc  func(ctx context.Context) (credential.Credential, error)
	ReplayFunc func(ctx context.Context, req *Request) (*Response, error)
)

type renewalState int

const (
	stateIdle renewalState = iota
	stateRenewing
)

type result struct {
	resp *Response
	err  error
}

type pendingRequest struct {
	ctx  context.Context
	req  *Request
	done chan result
}

type Stats struct {
	RenewalsStarted   int64
	RenewalsSucceeded int64
	RenewalsFailed    int64
	Replayed          int64
	Rejected          int64
}

// Coordinator makes sure at most one renewal exchange is in flight and replays,
// in arrival order, every request that hit a 401 while it was running.
type Coordinator struct {
	renew    RenewFunc
	replay   ReplayFunc
	store    CredentialStore
	observer SessionObserver
	logger   *slog.Logger

	mu    sync.Mutex
	state renewalState
	queue []*pendingRequest
	stats Stats
}

func NewCoordinator(renew RenewFunc, replay ReplayFunc, store CredentialStore, observer SessionObserver, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		renew:    renew,
		replay:   replay,
		store:    store,
		observer: observer,
		logger:   logger,
	}
}

// Handle queues req behind the current renewal, starting one if none is running,
// and blocks until the request is replayed or rejected. Cancelling ctx stops the
// wait but does not withdraw the queued request.
//
// With no renewal running, a request sent with a token the store no longer holds
// is replayed at once, and one arriving after the session ended is rejected.
func (c *Coordinator) Handle(ctx context.Context, req *Request) (*Response, error) {
	p := &pendingRequest{
		ctx:  context.WithoutCancel(ctx),
		req:  req,
		done: make(chan result, 1),
	}

	c.mu.Lock()
	if c.state == stateIdle {
		current := c.store.Current()
		if current.IsZero() {
			c.stats.Rejected++
			c.mu.Unlock()
			return nil, errs.Mark(errs.Newf("session ended before %s could be renewed", req), errs.ErrNotAuthenticated)
		}
		if current.Token() != req.sentWith {
			c.stats.Replayed++
			c.mu.Unlock()
			c.logger.DebugContext(ctx, "credential already renewed, replaying", "request", req.String())
			return c.replay(ctx, req)
		}
	}
	c.queue = append(c.queue, p)
	start := c.state == stateIdle
	if start {
		c.state = stateRenewing
		c.stats.RenewalsStarted++
	}
	c.mu.Unlock()

	if start {
		c.logger.InfoContext(ctx, "credential renewal started", "trigger", req.String())
		go c.run(context.WithoutCancel(ctx))
	}

	select {
	case r := <-p.done:
		return r.resp, r.err
	case <-ctx.Done():
		return nil, errs.Wrapf(ctx.Err(), "gave up waiting for renewal of %s", req)
	}
}

func (c *Coordinator) run(ctx context.Context) {
	started := time.Now()
	cred, err := c.renew(ctx)
	if err == nil {
		err = c.store.Set(ctx, cred)
	}
	if err != nil {
		c.fail(ctx, err)
		return
	}

	queue := c.drain(func(s *Stats) { s.RenewalsSucceeded++ })
	c.logger.InfoContext(ctx, "credential renewed",
		"credential", cred.String(),
		"replaying", len(queue),
		"elapsed", time.Since(started),
	)

	for _, p := range queue {
		resp, err := c.replay(p.ctx, p.req)
		p.done <- result{resp: resp, err: err}
		c.mu.Lock()
		c.stats.Replayed++
		c.mu.Unlock()
	}
}

func (c *Coordinator) fail(ctx context.Context, cause error) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.ErrorContext(ctx, "failed to clear credential after renewal failure", "error", err)
	}

	rejection := errs.Mark(errs.Wrap(cause, "credential renewal failed"), errs.ErrRenewalFailed)
	// observers run before the coordinator goes idle so no later request can renew
	if c.observer != nil {
		c.observer.SessionTerminated(ctx, rejection)
	}

	queue := c.drain(func(s *Stats) {
		s.RenewalsFailed++
		s.Rejected += int64(len(c.queue))
	})
	c.logger.WarnContext(ctx, "credential renewal failed, terminating session",
		"error", cause,
		"rejected", len(queue),
	)

	for _, p := range queue {
		p.done <- result{err: rejection}
	}
}

// drain takes the whole queue and returns to idle in one critical section.
func (c *Coordinator) drain(record func(*Stats)) []*pendingRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	record(&c.stats)
	queue := c.queue
	c.queue = nil
	c.state = stateIdle
	return queue
}

func (c *Coordinator) Renewing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateRenewing
}

func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
