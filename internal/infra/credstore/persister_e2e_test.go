//go:build e2e

package credstore_test

import (
	"context"
	"testing"

	"venue-booking-gateway/internal/domain/credential"
	"venue-booking-gateway/internal/infra/credstore"
	"venue-booking-gateway/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PersisterSuite struct {
	suite.Suite
	newPersister func(t *testing.T) credstore.Persister
}

func TestPostgresPersister(t *testing.T) {
	suite.Run(t, &PersisterSuite{newPersister: func(t *testing.T) credstore.Persister {
		pool, _ := e2e.SetupPostgres(t)
		return credstore.NewPostgresPersister(pool)
	}})
}

func TestRedisPersister(t *testing.T) {
	suite.Run(t, &PersisterSuite{newPersister: func(t *testing.T) credstore.Persister {
		p, err := credstore.NewRedisPersister(e2e.SetupRedis(t))
		require.NoError(t, err)
		t.Cleanup(func() { _ = p.Close() })
		require.NoError(t, p.Ping(context.Background()))
		return p
	}})
}

func (s *PersisterSuite) TestRoundTrip() {
	ctx := context.Background()
	p := s.newPersister(s.T())

	v, err := p.Load(ctx, credstore.DefaultKey)
	s.Require().NoError(err)
	s.Empty(v)

	s.Require().NoError(p.Save(ctx, credstore.DefaultKey, "first"))
	s.Require().NoError(p.Save(ctx, credstore.DefaultKey, "second"))
	v, err = p.Load(ctx, credstore.DefaultKey)
	s.Require().NoError(err)
	s.Equal("second", v)

	s.Require().NoError(p.Delete(ctx, credstore.DefaultKey))
	v, err = p.Load(ctx, credstore.DefaultKey)
	s.Require().NoError(err)
	s.Empty(v)

	// deleting twice is not an error
	s.NoError(p.Delete(ctx, credstore.DefaultKey))
}

func (s *PersisterSuite) TestStoreSurvivesRestart() {
	ctx := context.Background()
	p := s.newPersister(s.T())

	first := credstore.NewStore(p, "", discardLogger())
	cred, err := credential.New("durable-token-123456")
	s.Require().NoError(err)
	s.Require().NoError(first.Set(ctx, cred))

	restarted := credstore.NewStore(p, "", discardLogger())
	s.Require().NoError(restarted.Rehydrate(ctx))
	s.True(restarted.Current().Equal(cred))

	s.Require().NoError(restarted.Clear(ctx))
	again := credstore.NewStore(p, "", discardLogger())
	s.Require().NoError(again.Rehydrate(ctx))
	s.True(again.Current().IsZero())
}
