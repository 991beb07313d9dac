package users

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"serotonyl.ru/hydration/internal/common"
)

type UsersServiceTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	store   *RedisStore
	clock   common.FixedClock
	service *Service
	ctx     context.Context
}

func (s *UsersServiceTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	store, err := NewRedis(&RedisConfig{RedisClient: s.client})
	s.Require().NoError(err)
	s.store = store
	s.clock = common.FixedClock{T: time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)}
	s.service = NewService(store, s.clock)
	s.ctx = context.Background()
}

func (s *UsersServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestUsersServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UsersServiceTestSuite))
}

func (s *UsersServiceTestSuite) TestResolveOrCreateUsesProvidedID() {
	u, err := s.service.ResolveOrCreate(s.ctx, Identity{
		UserID: "client-1",
		Email:  " Anna@Example.com ",
		Name:   "Anna",
	})
	s.Require().NoError(err)
	s.Equal("client-1", u.ID)
	s.Equal("anna@example.com", u.Email)
	s.Equal("anna@example.com", u.Recipient())
	s.Equal("Anna", u.DisplayName())
	s.True(u.CreatedAt.Equal(s.clock.T))
	s.True(u.UpdatedAt.Equal(s.clock.T))
}

func (s *UsersServiceTestSuite) TestResolveOrCreateGeneratesID() {
	u, err := s.service.ResolveOrCreate(s.ctx, Identity{Email: "bob@example.com", NotificationEmail: "alerts@example.com"})
	s.Require().NoError(err)
	s.NotEmpty(u.ID)
	s.Equal("alerts@example.com", u.Recipient())
	s.Equal("bob", u.DisplayName())
}

func (s *UsersServiceTestSuite) TestResolveOrCreateKeepsExistingUser() {
	first, err := s.service.ResolveOrCreate(s.ctx, Identity{UserID: "a", Email: "same@example.com"})
	s.Require().NoError(err)

	second, err := s.service.ResolveOrCreate(s.ctx, Identity{UserID: "b", Email: "same@example.com", Name: "Other"})
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Empty(second.Name)

	all, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *UsersServiceTestSuite) TestEnsureReportsCreation() {
	_, created, err := s.store.Ensure(s.ctx, &User{ID: "x", Email: "x@example.com", CreatedAt: s.clock.T})
	s.Require().NoError(err)
	s.True(created)

	stored, created, err := s.store.Ensure(s.ctx, &User{ID: "y", Email: "x@example.com", CreatedAt: s.clock.T})
	s.Require().NoError(err)
	s.False(created)
	s.Equal("x", stored.ID)
}

func (s *UsersServiceTestSuite) TestResolveOrCreateRejectsTakenID() {
	_, err := s.service.ResolveOrCreate(s.ctx, Identity{UserID: "u1", Email: "a@example.com"})
	s.Require().NoError(err)

	_, err = s.service.ResolveOrCreate(s.ctx, Identity{UserID: "u1", Email: "b@example.com"})
	s.ErrorIs(err, common.ErrUserIDTaken)
	s.NotErrorIs(err, common.ErrUpstream)
	s.Equal(409, common.HTTPStatus(err))

	_, err = s.service.Resolve(s.ctx, Identity{Email: "b@example.com"})
	s.ErrorIs(err, common.ErrUserNotFound)

	owner, err := s.service.Resolve(s.ctx, Identity{UserID: "u1"})
	s.Require().NoError(err)
	s.Equal("a@example.com", owner.Email)
}

func (s *UsersServiceTestSuite) TestResolveValidation() {
	_, err := s.service.Resolve(s.ctx, Identity{})
	s.ErrorIs(err, common.ErrValidation)

	_, err = s.service.ResolveOrCreate(s.ctx, Identity{UserID: "  "})
	s.ErrorIs(err, common.ErrUserRequired)
}

func (s *UsersServiceTestSuite) TestResolveUnknownUser() {
	_, err := s.service.Resolve(s.ctx, Identity{Email: "ghost@example.com"})
	s.ErrorIs(err, common.ErrNotFound)

	_, err = s.service.ResolveOrCreate(s.ctx, Identity{UserID: "ghost"})
	s.ErrorIs(err, common.ErrUserNotFound)
}

func (s *UsersServiceTestSuite) TestResolveByIDOrEmail() {
	created, err := s.service.ResolveOrCreate(s.ctx, Identity{UserID: "u1", Email: "u1@example.com"})
	s.Require().NoError(err)

	byID, err := s.service.Resolve(s.ctx, Identity{UserID: "u1"})
	s.Require().NoError(err)
	s.Equal(created.Email, byID.Email)

	byEmail, err := s.service.Resolve(s.ctx, Identity{Email: "U1@example.com"})
	s.Require().NoError(err)
	s.Equal("u1", byEmail.ID)
}

func (s *UsersServiceTestSuite) TestUpstreamErrorWhenRedisDown() {
	s.mr.Close()
	_, err := s.service.Resolve(s.ctx, Identity{UserID: "u1"})
	s.ErrorIs(err, common.ErrUpstream)
}
