package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/sentinel"
)

// BackendSuite runs the same behaviour checks against every CredentialBackend.
type BackendSuite struct {
	suite.Suite
	newBackend func(t *testing.T) CredentialBackend
	backend    CredentialBackend
	ctx        context.Context
}

func (s *BackendSuite) SetupTest() {
	s.backend = s.newBackend(s.T())
	s.ctx = context.Background()
}

func TestInMemoryBackendSuite(t *testing.T) {
	suite.Run(t, &BackendSuite{newBackend: func(*testing.T) CredentialBackend {
		return NewInMemoryBackend()
	}})
}

func TestRedisBackendSuite(t *testing.T) {
	suite.Run(t, &BackendSuite{newBackend: func(t *testing.T) CredentialBackend {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewRedisBackend(client)
	}})
}

func (s *BackendSuite) TestLookups() {
	sid := domain.NewSessionID()

	s.Run("missing key returns ErrNotFound", func() {
		_, err := s.backend.Get(s.ctx, sid, "token")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("stores and reads back", func() {
		s.Require().NoError(s.backend.Set(s.ctx, sid, "token", "abc"))
		s.Require().NoError(s.backend.Set(s.ctx, sid, "userType", "bloodbank"))

		v, err := s.backend.Get(s.ctx, sid, "token")
		s.Require().NoError(err)
		s.Equal("abc", v)
	})

	s.Run("overwrites", func() {
		s.Require().NoError(s.backend.Set(s.ctx, sid, "token", "def"))
		v, err := s.backend.Get(s.ctx, sid, "token")
		s.Require().NoError(err)
		s.Equal("def", v)
	})
}

func (s *BackendSuite) TestSessionsAreIsolated() {
	a, b := domain.NewSessionID(), domain.NewSessionID()
	s.Require().NoError(s.backend.Set(s.ctx, a, "token", "for-a"))

	_, err := s.backend.Get(s.ctx, b, "token")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *BackendSuite) TestDelete() {
	sid := domain.NewSessionID()
	s.Require().NoError(s.backend.Set(s.ctx, sid, "token", "abc"))
	s.Require().NoError(s.backend.Set(s.ctx, sid, "userType", "bloodbank"))

	s.Require().NoError(s.backend.Delete(s.ctx, sid, "token", "userType"))

	_, err := s.backend.Get(s.ctx, sid, "token")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.backend.Get(s.ctx, sid, "userType")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.backend.Delete(s.ctx, sid), "deleting nothing is fine")
	s.Require().NoError(s.backend.Delete(s.ctx, domain.NewSessionID(), "token"))
}

func TestRedisBackend_ExpiresAfterTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	backend := NewRedisBackend(client, WithTTL(time.Minute))
	ctx := context.Background()
	sid := domain.NewSessionID()

	if err := backend.Set(ctx, sid, "token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL(credentialKey(sid)); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := backend.Get(ctx, sid, "token"); err != sentinel.ErrNotFound {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRedisBackend_UnavailableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisBackend(client).Get(context.Background(), domain.NewSessionID(), "token")
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	if err == sentinel.ErrNotFound {
		t.Fatal("connection failure must not look like a missing key")
	}
}
