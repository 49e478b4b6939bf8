package apiclient

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"venue-booking-gateway/internal/domain/credential"
	"venue-booking-gateway/internal/pkg/config"
	"venue-booking-gateway/internal/pkg/errs"
	"venue-booking-gateway/internal/pkg/reqid"
)

const (
	pathLogin   = "/auth/login"
	pathLogout  = "/auth/logout"
	pathRefresh = "/auth/refresh-token"
)

// CredentialStore holds the process-wide bearer credential.
type CredentialStore interface {
	Current() credential.Credential
	Set(ctx context.Context, c credential.Credential) error
	Clear(ctx context.Context) error
}

// SessionObserver is told when renewal fails and the session is gone.
type SessionObserver interface {
	SessionTerminated(ctx context.Context, cause error)
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	jar        *sessionJar
	store      CredentialStore
	observer   SessionObserver
	renewal    *Coordinator
	logger     *slog.Logger
}

func NewClient(cfg config.UpstreamConfig, store CredentialStore, observer SessionObserver, logger *slog.Logger) (*Client, error) {
	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout, Jar: jar},
		jar:        jar,
		store:      store,
		observer:   observer,
		logger:     logger,
	}
	c.renewal = NewCoordinator(c.refresh, c.replay, store, c, logger)
	return c, nil
}

// Send dispatches req with the current credential. A 401 on a first attempt is
// resolved by the renewal coordinator; a 401 on a replay is final. A request that
// went out without a credential is never renewed.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !req.Anonymous {
		expired := errs.Mark(newStatusError(req, resp), errs.ErrExpiredCredential)
		if req.retried {
			c.logger.WarnContext(ctx, "replayed request rejected again", "request", req.String())
			return nil, errs.Mark(errs.Wrapf(expired, "replay of %s", req), errs.ErrReplayFailed)
		}
		if req.sentWith == "" {
			return nil, errs.Mark(errs.Wrapf(newStatusError(req, resp), "no session for %s", req), errs.ErrNotAuthenticated)
		}
		c.logger.DebugContext(ctx, "credential expired, handing request to renewal", "request", req.String())
		return c.renewal.Handle(ctx, req)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(req, resp)
	}
	return resp, nil
}

// DoJSON sends in as JSON and decodes the data envelope into out. A nil out skips decoding.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := NewJSONRequest(method, path, in)
	if err != nil {
		return err
	}
	resp, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResponse struct {
	AccessToken string  `json:"accessToken"`
	User        Account `json:"user"`
}

// Login exchanges credentials for a bearer token. The refresh cookie set by the
// server stays in the client's cookie jar for later renewals.
func (c *Client) Login(ctx context.Context, in LoginRequest) (Account, error) {
	req, err := NewJSONRequest(http.MethodPost, pathLogin, in)
	if err != nil {
		return Account{}, err
	}
	req.Anonymous = true

	resp, err := c.Send(ctx, req)
	if err != nil {
		if HasStatus(err, http.StatusUnauthorized) {
			return Account{}, errs.Mark(err, errs.ErrNotAuthenticated)
		}
		return Account{}, err
	}

	var out loginResponse
	if err := resp.Decode(&out); err != nil {
		return Account{}, err
	}
	cred, err := credential.New(out.AccessToken)
	if err != nil {
		return Account{}, errs.Mark(errs.Wrap(err, "login returned no access token"), errs.ErrMalformedEnvelope)
	}
	if err := c.store.Set(ctx, cred); err != nil {
		return Account{}, errs.Wrap(err, "failed to store credential")
	}

	c.logger.InfoContext(ctx, "logged in", "account_id", out.User.ID, "credential", cred.String())
	return out.User, nil
}

// Logout tells the server and always clears the local credential and refresh
// cookie, even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	req := NewRequest(http.MethodPost, pathLogout, nil)
	_, sendErr := c.Send(ctx, req)
	if sendErr != nil {
		c.logger.WarnContext(ctx, "server logout failed, clearing local session anyway", "error", sendErr)
	}
	if err := c.store.Clear(ctx); err != nil {
		return errs.Wrap(err, "failed to clear credential")
	}
	return c.jar.Reset()
}

// SessionTerminated drops the refresh cookie once renewal has failed, then
// forwards the event to the configured observer.
func (c *Client) SessionTerminated(ctx context.Context, cause error) {
	if err := c.jar.Reset(); err != nil {
		c.logger.ErrorContext(ctx, "failed to drop refresh cookie", "error", err)
	}
	if c.observer != nil {
		c.observer.SessionTerminated(ctx, cause)
	}
}

func (c *Client) Authenticated() bool {
	return !c.store.Current().IsZero()
}

func (c *Client) RenewalStats() Stats {
	return c.renewal.Stats()
}

// PendingReplays is the number of requests waiting on an in-flight renewal.
func (c *Client) PendingReplays() int {
	return c.renewal.Pending()
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// refresh performs the renewal exchange. It relies on the session cookie in the jar,
// never on the expired bearer.
func (c *Client) refresh(ctx context.Context) (credential.Credential, error) {
	req := NewRequest(http.MethodPost, pathRefresh, nil)
	req.Anonymous = true

	resp, err := c.Send(ctx, req)
	if err != nil {
		return credential.Credential{}, err
	}
	var out refreshResponse
	if err := resp.Decode(&out); err != nil {
		return credential.Credential{}, err
	}
	cred, err := credential.New(out.AccessToken)
	if err != nil {
		return credential.Credential{}, errs.Wrap(err, "refresh returned no access token")
	}
	return cred, nil
}

func (c *Client) replay(ctx context.Context, req *Request) (*Response, error) {
	return c.Send(ctx, req.forReplay())
}

func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, errs.Wrapf(err, "failed to build request %s", req)
	}

	for k, v := range req.Header {
		for _, vv := range v {
			httpReq.Header.Add(k, vv)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if httpReq.Header.Get(reqid.Header) == "" {
		httpReq.Header.Set(reqid.Header, reqid.FromOrNew(ctx))
	}
	req.sentWith = ""
	if !req.Anonymous {
		if cred := c.store.Current(); !cred.IsZero() {
			httpReq.Header.Set("Authorization", cred.AuthorizationHeader())
			req.sentWith = cred.Token()
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "upstream call %s failed", req), errs.ErrUpstreamUnavailable)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "failed to read response of %s", req), errs.ErrUpstreamUnavailable)
	}
	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}
