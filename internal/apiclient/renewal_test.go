//go:build unit

package apiclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"venue-booking-gateway/internal/domain/credential"
	"venue-booking-gateway/internal/infra/credstore"
	"venue-booking-gateway/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	terminated chan error
}

func (o *recordingObserver) SessionTerminated(_ context.Context, cause error) {
	o.terminated <- cause
}

type coordinatorFixture struct {
	store    *credstore.Store
	observer *recordingObserver
	release  chan error
	coord    *Coordinator

	mu       sync.Mutex
	replayed []string
	renewals int
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &coordinatorFixture{
		store:    credstore.NewStore(credstore.NewMemoryPersister(), "", logger),
		observer: &recordingObserver{terminated: make(chan error, 1)},
		release:  make(chan error),
	}
	old, err := credential.New("expired-token")
	require.NoError(t, err)
	require.NoError(t, f.store.Set(context.Background(), old))

	renew := func(ctx context.Context) (credential.Credential, error) {
		f.mu.Lock()
		f.renewals++
		f.mu.Unlock()
		if err := <-f.release; err != nil {
			return credential.Credential{}, err
		}
		return credential.New("fresh-token")
	}
	replay := func(ctx context.Context, req *Request) (*Response, error) {
		f.mu.Lock()
		f.replayed = append(f.replayed, req.Path)
		f.mu.Unlock()
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{"data":{"path":"` + req.Path + `"}}`)}, nil
	}
	f.coord = NewCoordinator(renew, replay, f.store, f.observer, logger)
	return f
}

func requestWith(path, token string) *Request {
	req := NewRequest(http.MethodGet, path, nil)
	req.sentWith = token
	return req
}

// submit queues n requests one after another so their arrival order is fixed.
// Each carries the token currently held by the store.
func (f *coordinatorFixture) submit(t *testing.T, n int) []chan result {
	t.Helper()
	out := make([]chan result, n)
	token := f.store.Current().Token()
	for i := 0; i < n; i++ {
		ch := make(chan result, 1)
		out[i] = ch
		req := requestWith("/bookings/"+string(rune('A'+i)), token)
		go func() {
			resp, err := f.coord.Handle(context.Background(), req)
			ch <- result{resp: resp, err: err}
		}()
		require.Eventually(t, func() bool { return f.coord.Pending() == i+1 }, time.Second, time.Millisecond)
	}
	return out
}

func TestCoordinator_SingleRenewalFIFOReplay(t *testing.T) {
	f := newCoordinatorFixture(t)
	const n = 5

	results := f.submit(t, n)
	assert.True(t, f.coord.Renewing())

	f.release <- nil

	for i, ch := range results {
		r := <-ch
		require.NoError(t, r.err, "request %d", i)
		assert.Equal(t, http.StatusOK, r.resp.StatusCode)
	}

	assert.Equal(t, 1, f.renewals)
	assert.Equal(t, []string{"/bookings/A", "/bookings/B", "/bookings/C", "/bookings/D", "/bookings/E"}, f.replayed)
	assert.Equal(t, "fresh-token", f.store.Current().Token())
	assert.False(t, f.coord.Renewing())

	stats := f.coord.Stats()
	assert.Equal(t, int64(1), stats.RenewalsStarted)
	assert.Equal(t, int64(1), stats.RenewalsSucceeded)
	assert.Equal(t, int64(n), stats.Replayed)
}

func TestCoordinator_RenewalFailureRejectsAll(t *testing.T) {
	f := newCoordinatorFixture(t)
	const n = 4

	results := f.submit(t, n)
	f.release <- errors.New("refresh cookie expired")

	for i, ch := range results {
		r := <-ch
		require.Error(t, r.err, "request %d", i)
		assert.True(t, errs.Is(r.err, errs.ErrRenewalFailed), "request %d: %v", i, r.err)
		assert.Nil(t, r.resp)
	}

	assert.True(t, f.store.Current().IsZero())
	assert.Empty(t, f.replayed)

	select {
	case cause := <-f.observer.terminated:
		assert.True(t, errs.Is(cause, errs.ErrRenewalFailed))
	case <-time.After(time.Second):
		t.Fatal("session terminated event was not emitted")
	}

	stats := f.coord.Stats()
	assert.Equal(t, int64(1), stats.RenewalsFailed)
	assert.Equal(t, int64(n), stats.Rejected)
}

func TestCoordinator_CancelledCallerStaysQueued(t *testing.T) {
	f := newCoordinatorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.coord.Handle(ctx, requestWith("/bookings/X", "expired-token"))
		done <- err
	}()
	require.Eventually(t, func() bool { return f.coord.Pending() == 1 }, time.Second, time.Millisecond)

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.coord.Pending())

	f.release <- nil
	require.Eventually(t, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return len(f.replayed) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, "/bookings/X", f.replayed[0])
}

func TestCoordinator_NewRenewalAfterSettle(t *testing.T) {
	f := newCoordinatorFixture(t)

	first := f.submit(t, 1)
	f.release <- nil
	require.NoError(t, (<-first[0]).err)

	second := f.submit(t, 1)
	f.release <- nil
	require.NoError(t, (<-second[0]).err)

	assert.Equal(t, 2, f.renewals)
	assert.Equal(t, int64(2), f.coord.Stats().RenewalsSucceeded)
}

func TestCoordinator_StaleTokenReplaysWithoutRenewal(t *testing.T) {
	f := newCoordinatorFixture(t)

	first := f.submit(t, 1)
	f.release <- nil
	require.NoError(t, (<-first[0]).err)

	// sent before the renewal above, rejected after it settled
	resp, err := f.coord.Handle(context.Background(), requestWith("/bookings/late", "expired-token"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, f.renewals)
	assert.Equal(t, []string{"/bookings/A", "/bookings/late"}, f.replayed)
	assert.Equal(t, int64(1), f.coord.Stats().RenewalsStarted)
}

func TestCoordinator_EndedSessionIsNotRenewed(t *testing.T) {
	f := newCoordinatorFixture(t)
	require.NoError(t, f.store.Clear(context.Background()))

	resp, err := f.coord.Handle(context.Background(), requestWith("/bookings/A", "expired-token"))

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, errs.Is(err, errs.ErrNotAuthenticated), "got %v", err)
	assert.Equal(t, 0, f.renewals)
	assert.False(t, f.coord.Renewing())
	assert.Equal(t, int64(0), f.coord.Stats().RenewalsStarted)
}
