//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"prontuario/internal/auth/models"
	"prontuario/internal/auth/store/session"
	id "prontuario/pkg/domain"
	"prontuario/pkg/platform/sentinel"
	"prontuario/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = session.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) TearDownSuite() {
	_ = s.redis.Client.Close()
	_ = s.redis.Container.Terminate(context.Background())
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession(ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:        id.NewSessionID(),
		UserID:    id.NewUserID(),
		Device:    "Chrome on Mac OS X",
		IPAddress: "203.0.113.7",
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func (s *RedisStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.store.Create(ctx, sess))

	found, err := s.store.FindByID(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(sess.UserID, found.UserID)
	s.Equal(sess.Device, found.Device)
	s.True(found.Active(time.Now()))
}

func (s *RedisStoreSuite) TestMissingSessionReturnsNotFound() {
	_, err := s.store.FindByID(context.Background(), id.NewSessionID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestExpiredSessionIsRejectedAtCreate() {
	err := s.store.Create(context.Background(), makeSession(-time.Minute))
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)
}

func (s *RedisStoreSuite) TestKeyExpiresWithSession() {
	ctx := context.Background()
	sess := makeSession(time.Second)
	s.Require().NoError(s.store.Create(ctx, sess))

	s.Require().Eventually(func() bool {
		_, err := s.store.FindByID(ctx, sess.ID)
		return err != nil
	}, 5*time.Second, 100*time.Millisecond, "session key should expire with its TTL")
}

func (s *RedisStoreSuite) TestRevoke() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.store.Create(ctx, sess))

	revokedAt := time.Now()
	s.Require().NoError(s.store.Revoke(ctx, sess.ID, revokedAt))

	found, err := s.store.FindByID(ctx, sess.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.RevokedAt)
	s.False(found.Active(time.Now()))

	// Revoking again is a no-op.
	s.Require().NoError(s.store.Revoke(ctx, sess.ID, revokedAt.Add(time.Minute)))
	again, err := s.store.FindByID(ctx, sess.ID)
	s.Require().NoError(err)
	s.True(found.RevokedAt.Equal(*again.RevokedAt))
}

func (s *RedisStoreSuite) TestRevokeMissingSession() {
	err := s.store.Revoke(context.Background(), id.NewSessionID(), time.Now())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
