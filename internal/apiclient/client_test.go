//go:build unit

package apiclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"venue-booking-gateway/internal/apiclient"
	"venue-booking-gateway/internal/domain/credential"
	"venue-booking-gateway/internal/infra/credstore"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/pkg/reqid"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

// fakeUpstream accepts only validToken and renews it through the refresh cookie.
type fakeUpstream struct {
	mu          sync.Mutex
	validToken  string
	refreshOK   bool
	alwaysDeny  bool
	authHeaders []string
	requestIDs  []string

	refreshCalls   atomic.Int32
	beforeRefresh  func()
	refreshCookies []string
}

func (u *fakeUpstream) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/auth/login", func(c *gin.Context) {
		var in apiclient.LoginRequest
		if err := c.ShouldBindJSON(&in); err != nil || in.Password != "password123" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
			return
		}
		c.SetCookie("refresh_token", "refresh-1", 3600, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"accessToken": "token-v1",
			"user":        gin.H{"id": "U1", "email": in.Email, "name": "Asha"},
		}})
	})

	r.POST("/auth/refresh-token", func(c *gin.Context) {
		u.refreshCalls.Add(1)
		u.mu.Lock()
		u.refreshCookies = append(u.refreshCookies, c.GetHeader("Cookie"))
		u.authHeaders = append(u.authHeaders, "refresh:"+c.GetHeader("Authorization"))
		u.mu.Unlock()
		if u.beforeRefresh != nil {
			u.beforeRefresh()
		}
		if _, err := c.Cookie("refresh_token"); err != nil || !u.refreshOK {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "refresh token expired"})
			return
		}
		u.mu.Lock()
		u.validToken = "token-v2"
		u.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"accessToken": "token-v2"}})
	})

	r.POST("/auth/logout", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"loggedOut": true}})
	})

	r.GET("/bookings/:id", func(c *gin.Context) {
		u.mu.Lock()
		valid := "Bearer " + u.validToken
		u.authHeaders = append(u.authHeaders, c.GetHeader("Authorization"))
		u.requestIDs = append(u.requestIDs, c.GetHeader(reqid.Header))
		u.mu.Unlock()
		if u.alwaysDeny || c.GetHeader("Authorization") != valid {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "token expired"})
			return
		}
		if c.Param("id") == "missing" {
			c.JSON(http.StatusNotFound, gin.H{"message": "booking not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": c.Param("id")}})
	})

	return r
}

type sessionEvents struct {
	count atomic.Int32
}

func (s *sessionEvents) SessionTerminated(context.Context, error) {
	s.count.Add(1)
}

type ClientTestSuite struct {
	suite.Suite
	upstream *fakeUpstream
	server   *httptest.Server
	store    *credstore.Store
	events   *sessionEvents
	client   *apiclient.Client
}

func (s *ClientTestSuite) SetupTest() {
	s.upstream = &fakeUpstream{validToken: "token-v1", refreshOK: true}
	s.server = httptest.NewServer(s.upstream.router())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = credstore.NewStore(credstore.NewMemoryPersister(), "", logger)
	s.events = &sessionEvents{}

	cfg := config.NewTestConfig().Upstream
	cfg.BaseURL = s.server.URL

	client, err := apiclient.NewClient(cfg, s.store, s.events, logger)
	s.Require().NoError(err)
	s.client = client

	_, err = s.client.Login(context.Background(), apiclient.LoginRequest{Email: "asha@example.com", Password: "password123"})
	s.Require().NoError(err)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

type bookingData struct {
	ID string `json:"id"`
}

func (s *ClientTestSuite) TestSend_AttachesCredential() {
	var out bookingData
	err := s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, &out)

	s.Require().NoError(err)
	s.Equal("B1", out.ID)
	s.Equal([]string{"Bearer token-v1"}, s.upstream.authHeaders)
	s.Equal(int32(0), s.upstream.refreshCalls.Load())
}

func (s *ClientTestSuite) TestSend_PropagatesRequestID() {
	ctx := reqid.With(context.Background(), "req-from-gateway")
	s.Require().NoError(s.client.DoJSON(ctx, http.MethodGet, "/bookings/B1", nil, nil))
	s.Require().NoError(s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil))

	s.Require().Len(s.upstream.requestIDs, 2)
	s.Equal("req-from-gateway", s.upstream.requestIDs[0])
	s.NotEmpty(s.upstream.requestIDs[1])
	s.NotEqual("req-from-gateway", s.upstream.requestIDs[1])
}

func (s *ClientTestSuite) TestSend_NonAuthErrorReturnedUnchanged() {
	err := s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/missing", nil, nil)

	se, ok := apiclient.AsStatusError(err)
	s.Require().True(ok, "expected StatusError, got %v", err)
	s.Equal(http.StatusNotFound, se.StatusCode)
	s.Equal("booking not found", se.Message)
	s.Equal(int32(0), s.upstream.refreshCalls.Load())
}

func (s *ClientTestSuite) TestSend_ConcurrentExpiryRenewsOnce() {
	const n = 8
	s.upstream.validToken = "token-v0"

	// hold the refresh until every request has seen its 401 and queued
	s.upstream.beforeRefresh = func() {
		deadline := time.Now().Add(2 * time.Second)
		for s.client.PendingReplays() < n && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
	}

	g, ctx := errgroup.WithContext(context.Background())
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			var out bookingData
			if err := s.client.DoJSON(ctx, http.MethodGet, "/bookings/B1", nil, &out); err != nil {
				return err
			}
			ids[i] = out.ID
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	s.Equal(int32(1), s.upstream.refreshCalls.Load())
	for _, id := range ids {
		s.Equal("B1", id)
	}
	s.Equal("token-v2", s.store.Current().Token())

	stats := s.client.RenewalStats()
	s.Equal(int64(1), stats.RenewalsStarted)
	s.Equal(int64(n), stats.Replayed)
}

func (s *ClientTestSuite) TestSend_RefreshUsesCookieNotBearer() {
	s.upstream.validToken = "token-v0"

	err := s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)
	s.Require().NoError(err)

	s.Require().Len(s.upstream.refreshCookies, 1)
	s.Contains(s.upstream.refreshCookies[0], "refresh_token=refresh-1")
	s.Contains(s.upstream.authHeaders, "refresh:")
}

func (s *ClientTestSuite) TestSend_RenewalFailureTerminatesSession() {
	const n = 3
	s.upstream.validToken = "token-v0"
	s.upstream.refreshOK = false
	s.upstream.beforeRefresh = func() {
		deadline := time.Now().Add(2 * time.Second)
		for s.client.PendingReplays() < n && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
	}

	var wg sync.WaitGroup
	errsCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errsCh <- s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)
		}()
	}
	wg.Wait()
	close(errsCh)

	for err := range errsCh {
		s.True(errs.Is(err, errs.ErrRenewalFailed), "got %v", err)
	}
	s.True(s.store.Current().IsZero())
	s.False(s.client.Authenticated())
	s.Equal(int32(1), s.upstream.refreshCalls.Load())
	s.Eventually(func() bool { return s.events.count.Load() == 1 }, time.Second, time.Millisecond)
}

func (s *ClientTestSuite) TestSend_SessionStaysEndedAfterRenewalFailure() {
	s.upstream.validToken = "token-v0"
	s.upstream.refreshOK = false

	err := s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)
	s.Require().True(errs.Is(err, errs.ErrRenewalFailed), "got %v", err)
	s.Require().False(s.client.Authenticated())

	s.upstream.refreshOK = true
	err = s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)

	s.True(errs.Is(err, errs.ErrNotAuthenticated), "got %v", err)
	s.False(errs.Is(err, errs.ErrRenewalFailed))
	s.False(s.client.Authenticated())
	s.Equal(int32(1), s.upstream.refreshCalls.Load())
	s.Equal("", s.upstream.authHeaders[len(s.upstream.authHeaders)-1])
}

func (s *ClientTestSuite) TestSend_RenewalFailureDropsRefreshCookie() {
	s.upstream.validToken = "token-v0"
	s.upstream.refreshOK = false
	err := s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)
	s.Require().True(errs.Is(err, errs.ErrRenewalFailed), "got %v", err)

	// a stale credential restored from elsewhere still cannot renew
	s.upstream.refreshOK = true
	stale, err := credential.New("token-v1")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Set(context.Background(), stale))

	err = s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)

	s.True(errs.Is(err, errs.ErrRenewalFailed), "got %v", err)
	s.Require().Len(s.upstream.refreshCookies, 2)
	s.NotContains(s.upstream.refreshCookies[1], "refresh_token")
}

func (s *ClientTestSuite) TestSend_SecondUnauthorizedIsReplayFailure() {
	s.upstream.alwaysDeny = true

	err := s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)

	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrReplayFailed), "got %v", err)
	s.False(errs.Is(err, errs.ErrRenewalFailed))
	s.Equal(int32(1), s.upstream.refreshCalls.Load())
	// initial attempt and one replay, never a third
	s.Len(s.upstream.authHeaders, 3)
}

func (s *ClientTestSuite) TestLogin_BadPassword() {
	_, err := s.client.Login(context.Background(), apiclient.LoginRequest{Email: "asha@example.com", Password: "nope"})

	s.True(errs.Is(err, errs.ErrNotAuthenticated), "got %v", err)
	s.Equal(int32(0), s.upstream.refreshCalls.Load())
}

func (s *ClientTestSuite) TestLogout_ClearsCredential() {
	s.Require().True(s.client.Authenticated())

	s.Require().NoError(s.client.Logout(context.Background()))

	s.False(s.client.Authenticated())
}

func (s *ClientTestSuite) TestLogout_DropsRefreshCookie() {
	s.Require().NoError(s.client.Logout(context.Background()))

	err := s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)
	s.True(errs.Is(err, errs.ErrNotAuthenticated), "got %v", err)

	stale, err := credential.New("token-v0")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Set(context.Background(), stale))

	err = s.client.DoJSON(context.Background(), http.MethodGet, "/bookings/B1", nil, nil)

	s.True(errs.Is(err, errs.ErrRenewalFailed), "got %v", err)
	s.Require().Len(s.upstream.refreshCookies, 1)
	s.NotContains(s.upstream.refreshCookies[0], "refresh_token")
}

func (s *ClientTestSuite) TestDecode_MalformedEnvelope() {
	resp := &apiclient.Response{StatusCode: http.StatusOK, Body: []byte(`{"id":"B1"}`)}
	var out bookingData
	err := resp.Decode(&out)
	s.True(errs.Is(err, errs.ErrMalformedEnvelope))
}

var _ apiclient.CredentialStore = (*credstore.Store)(nil)
