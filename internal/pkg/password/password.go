// Package password hashes the sandbox's account passwords.
package password

import (
	"venue-booking-gateway/internal/pkg/errs"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmpty    = errs.New("password is empty")
	ErrMismatch = errs.New("password does not match")
)

// Cost is low enough for the sandbox to seed accounts on every start.
const Cost = bcrypt.MinCost + 2

func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", errs.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

// Verify returns nil when plain matches hash and ErrMismatch when it does not.
func Verify(hash, plain string) error {
	if hash == "" || plain == "" {
		return ErrMismatch
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errs.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return errs.Wrap(err, "verify password")
}
