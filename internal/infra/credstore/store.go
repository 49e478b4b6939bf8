package credstore

import (
	"context"
	"log/slog"
	"sync"

	"venue-booking-gateway/internal/domain/credential"
	"venue-booking-gateway/internal/pkg/errs"
)

const DefaultKey = "accessToken"

// Persister is the durable backing for the credential. Load returns "" and no
// error when nothing is stored.
type Persister interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store is the single owner of the process-wide bearer credential.
type Store struct {
	persister Persister
	key       string
	logger    *slog.Logger

	mu      sync.RWMutex
	current credential.Credential
}

func NewStore(persister Persister, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{persister: persister, key: key, logger: logger}
}

// Rehydrate loads the persisted credential, if any, into memory.
func (s *Store) Rehydrate(ctx context.Context) error {
	raw, err := s.persister.Load(ctx, s.key)
	if err != nil {
		return errs.Wrap(err, "failed to load persisted credential")
	}
	if raw == "" {
		s.logger.InfoContext(ctx, "no persisted credential, starting logged out")
		return nil
	}
	cred, err := credential.New(raw)
	if err != nil {
		return errs.Wrap(err, "persisted credential is invalid")
	}

	s.mu.Lock()
	s.current = cred
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "credential rehydrated", "credential", cred.String())
	return nil
}

func (s *Store) Current() credential.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the credential in memory and then persists it. The in-memory value
// is kept even when persisting fails.
func (s *Store) Set(ctx context.Context, c credential.Credential) error {
	if c.IsZero() {
		return credential.ErrEmptyCredential
	}
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()

	if err := s.persister.Save(ctx, s.key, c.Token()); err != nil {
		return errs.Wrap(err, "failed to persist credential")
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.current = credential.Credential{}
	s.mu.Unlock()

	if err := s.persister.Delete(ctx, s.key); err != nil {
		return errs.Wrap(err, "failed to delete persisted credential")
	}
	return nil
}
