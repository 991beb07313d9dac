package milestones

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"serotonyl.ru/hydration/internal/db/postgres/pgtest"
)

type RepositoryTestSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *Repository
	ctx  context.Context
	now  time.Time
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.pool = pgtest.Open(s.T())
	s.repo = NewRepository(s.pool)
	s.ctx = context.Background()
	s.now = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
}

func (s *RepositoryTestSuite) SetupTest() {
	pgtest.Reset(s.T(), s.pool)
	pgtest.SeedUser(s.T(), s.pool, "u1")
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) TestRecordUnlockKeepsFirstTimestamp() {
	inserted, err := s.repo.RecordUnlock(s.ctx, "u1", "first-sip", s.now)
	s.Require().NoError(err)
	s.True(inserted)

	inserted, err = s.repo.RecordUnlock(s.ctx, "u1", "first-sip", s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.False(inserted)

	unlocked, err := s.repo.GetUnlocked(s.ctx, "u1")
	s.Require().NoError(err)
	s.Len(unlocked, 1)
	s.True(unlocked["first-sip"].Equal(s.now))
}

func (s *RepositoryTestSuite) TestConcurrentUnlockInsertsOnce() {
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := s.repo.RecordUnlock(s.ctx, "u1", "hydration-hero", s.now)
			s.NoError(err)
			if inserted {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), wins.Load())
}
