package credential

import (
	"errors"
	"strings"
)

var ErrEmptyCredential = errors.New("credential cannot be empty")

// Credential is an opaque bearer token. Its expiry is never inspected locally;
// the server of record reports it by answering 401.
type Credential struct {
	token string
}

func New(token string) (Credential, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Credential{}, ErrEmptyCredential
	}
	return Credential{token: token}, nil
}

func (c Credential) IsZero() bool {
	return c.token == ""
}

// Token returns the raw value for the Authorization header and persistence.
func (c Credential) Token() string {
	return c.token
}

func (c Credential) AuthorizationHeader() string {
	if c.IsZero() {
		return ""
	}
	return "Bearer " + c.token
}

// String redacts the token so credentials never leak through logs.
func (c Credential) String() string {
	if c.IsZero() {
		return "<none>"
	}
	if len(c.token) <= 8 {
		return "****"
	}
	return c.token[:4] + "…" + c.token[len(c.token)-4:]
}

func (c Credential) Equal(other Credential) bool {
	return c.token == other.token
}
