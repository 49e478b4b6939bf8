package apiclient

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"venue-booking-gateway/internal/pkg/errs"
)

// sessionJar holds the refresh cookie. Reset drops every cookie so a terminated
// session cannot be renewed again without a fresh login.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to create cookie jar")
	}
	return &sessionJar{jar: jar}, nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

func (j *sessionJar) Reset() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return errs.Wrap(err, "failed to reset cookie jar")
	}
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
	return nil
}
