package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"venue-booking-gateway/internal/pkg/errs"
)

// Request is a buffered upstream call. The body is held as bytes so the request
// can be replayed after a credential renewal.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte

	// Anonymous requests carry no bearer credential and never enter renewal.
	Anonymous bool

	retried bool
	// token the last attempt carried, empty when none was attached
	sentWith string
}

func NewRequest(method, path string, body []byte) *Request {
	return &Request{Method: method, Path: path, Body: body, Header: make(http.Header)}
}

// NewJSONRequest marshals in as the request body. A nil in sends no body.
func NewJSONRequest(method, path string, in any) (*Request, error) {
	req := NewRequest(method, path, nil)
	if in == nil {
		return req, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode request body")
	}
	req.Body = body
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (r *Request) Retried() bool {
	return r.retried
}

func (r *Request) String() string {
	return r.Method + " " + r.Path
}

// forReplay returns a copy flagged as already retried.
func (r *Request) forReplay() *Request {
	cp := *r
	cp.Header = r.Header.Clone()
	cp.retried = true
	return &cp
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Decode unwraps exactly one {"data": ...} level into out.
func (r *Response) Decode(out any) error {
	var env envelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to decode response envelope"), errs.ErrMalformedEnvelope)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return errs.Mark(errs.New("response envelope has no data"), errs.ErrMalformedEnvelope)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to decode response data"), errs.ErrMalformedEnvelope)
	}
	return nil
}

// StatusError is a non-2xx upstream answer, returned to the caller unchanged.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func newStatusError(req *Request, resp *Response) *StatusError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(resp.Body, &payload)
	return &StatusError{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: resp.StatusCode,
		Message:    payload.Message,
		Body:       resp.Body,
	}
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// AsStatusError finds a StatusError anywhere in err's chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errs.As(err, &se) {
		return se, true
	}
	return nil, false
}

func HasStatus(err error, code int) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode == code
}
