//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Request describes one call against an in-process router. Body is sent as JSON when non-nil.
type Request struct {
	Method  string
	Path    string
	Body    any
	Bearer  string
	Headers map[string]string
	Cookies []*http.Cookie
}

func Do(t *testing.T, router http.Handler, r Request) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if r.Body != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(r.Body), "Failed to encode request body to JSON")
	}
	req := httptest.NewRequest(r.Method, r.Path, &body)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.Bearer)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	for _, c := range r.Cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	return Do(t, router, Request{Method: method, Path: path, Body: body, Bearer: bearer})
}

func PerformRequestWithCookies(t *testing.T, router *gin.Engine, method, path string, body any, cookies []*http.Cookie, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	return Do(t, router, Request{Method: method, Path: path, Body: body, Bearer: bearer, Cookies: cookies})
}

func ExtractCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// envelope is the server of record's wire shape: {data} on success, {message} on error.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to decode envelope: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out), "Failed to decode envelope data: %s", w.Body.String())
}

func EnvelopeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to decode envelope: %s", w.Body.String())
	return env.Message
}
