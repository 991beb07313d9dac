package hydration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"serotonyl.ru/hydration/internal/common"
)

type RedisStoreTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	store  *RedisStore
	ctx    context.Context
	day    time.Time
}

func (s *RedisStoreTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	store, err := NewRedis(&RedisConfig{RedisClient: s.client})
	s.Require().NoError(err)
	s.store = store

	s.ctx = context.Background()
	s.day = time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
}

func (s *RedisStoreTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (s *RedisStoreTestSuite) TestNewRedisRequiresClient() {
	_, err := NewRedis(nil)
	s.Error(err)
	_, err = NewRedis(&RedisConfig{})
	s.Error(err)
}

func (s *RedisStoreTestSuite) TestUpsertCreatesAndIncrements() {
	first := s.day.Add(13 * time.Hour)
	r, err := s.store.UpsertRecord(s.ctx, "u1", first, 1, 8)
	s.Require().NoError(err)
	s.Equal(1, r.GlassCount)
	s.Equal(8, r.Target)
	s.False(r.Completed)
	s.True(r.Date.Equal(s.day))

	second := s.day.Add(15 * time.Hour)
	r, err = s.store.UpsertRecord(s.ctx, "u1", second, 1, 8)
	s.Require().NoError(err)
	s.Equal(2, r.GlassCount)
	s.True(r.CreatedAt.Equal(first))
	s.True(r.UpdatedAt.Equal(second))
}

func (s *RedisStoreTestSuite) TestZeroDeltaCreatesEmptyRecord() {
	_, err := s.store.FindRecord(s.ctx, "u1", s.day)
	s.ErrorIs(err, common.ErrRecordNotFound)

	r, err := s.store.UpsertRecord(s.ctx, "u1", s.day, 0, 8)
	s.Require().NoError(err)
	s.Equal(0, r.GlassCount)

	found, err := s.store.FindRecord(s.ctx, "u1", s.day)
	s.Require().NoError(err)
	s.Equal(8, found.Target)
}

func (s *RedisStoreTestSuite) TestCompletedFlipsAtTarget() {
	var r *DailyRecord
	var err error
	for i := 0; i < 3; i++ {
		r, err = s.store.UpsertRecord(s.ctx, "u1", s.day, 1, 3)
		s.Require().NoError(err)
	}
	s.Equal(3, r.GlassCount)
	s.True(r.Completed)
}

func (s *RedisStoreTestSuite) TestConcurrentIncrementsAreNotLost() {
	for i := 0; i < 3; i++ {
		_, err := s.store.UpsertRecord(s.ctx, "u1", s.day, 1, 8)
		s.Require().NoError(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.UpsertRecord(s.ctx, "u1", s.day, 1, 8)
			s.NoError(err)
		}()
	}
	wg.Wait()

	r, err := s.store.FindRecord(s.ctx, "u1", s.day)
	s.Require().NoError(err)
	s.Equal(5, r.GlassCount)
}

func (s *RedisStoreTestSuite) TestSetTargetRecomputesCompleted() {
	for i := 0; i < 5; i++ {
		_, err := s.store.UpsertRecord(s.ctx, "u1", s.day, 1, 8)
		s.Require().NoError(err)
	}

	r, err := s.store.SetTarget(s.ctx, "u1", s.day, 5)
	s.Require().NoError(err)
	s.True(r.Completed)

	r, err = s.store.SetTarget(s.ctx, "u1", s.day, 6)
	s.Require().NoError(err)
	s.False(r.Completed)
	s.Equal(5, r.GlassCount)
}

func (s *RedisStoreTestSuite) TestSetTargetOnMissingDay() {
	r, err := s.store.SetTarget(s.ctx, "u1", s.day, 10)
	s.Require().NoError(err)
	s.Equal(0, r.GlassCount)
	s.Equal(10, r.Target)

	list, err := s.store.ListRecords(s.ctx, "u1", DateRange{})
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *RedisStoreTestSuite) TestListRecordsRangeAndOrder() {
	for _, offset := range []int{0, -3, -1, -10} {
		_, err := s.store.UpsertRecord(s.ctx, "u1", s.day.AddDate(0, 0, offset), 1, 8)
		s.Require().NoError(err)
	}
	_, err := s.store.UpsertRecord(s.ctx, "u2", s.day, 1, 8)
	s.Require().NoError(err)

	all, err := s.store.ListRecords(s.ctx, "u1", DateRange{})
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.True(all[0].Date.Equal(s.day.AddDate(0, 0, -10)))
	s.True(all[3].Date.Equal(s.day))

	week, err := s.store.ListRecords(s.ctx, "u1", DateRange{From: s.day.AddDate(0, 0, -3), To: s.day.AddDate(0, 0, -1)})
	s.Require().NoError(err)
	s.Len(week, 2)
}
