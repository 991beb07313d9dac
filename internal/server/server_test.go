package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
	"serotonyl.ru/hydration/internal/features/hydration"
	"serotonyl.ru/hydration/internal/features/milestones"
	"serotonyl.ru/hydration/internal/features/notifications"
	"serotonyl.ru/hydration/internal/features/rewards"
	"serotonyl.ru/hydration/internal/features/users"
	"serotonyl.ru/hydration/internal/server"
)

type ServerTestSuite struct {
	suite.Suite
	mr       *miniredis.Miniredis
	client   *redis.Client
	cfg      *config.Config
	handlers server.Handlers
	srv      *server.Server
}

func (s *ServerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *ServerTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	clock := common.FixedClock{T: time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)}

	userStore, err := users.NewRedis(&users.RedisConfig{RedisClient: s.client})
	s.Require().NoError(err)
	milestoneStore, err := milestones.NewRedis(&milestones.RedisConfig{RedisClient: s.client})
	s.Require().NoError(err)
	notifyStore, err := notifications.NewRedis(&notifications.RedisConfig{RedisClient: s.client})
	s.Require().NoError(err)
	claimStore, err := rewards.NewRedis(&rewards.RedisConfig{RedisClient: s.client})
	s.Require().NoError(err)
	recordStore, err := hydration.NewRedis(&hydration.RedisConfig{RedisClient: s.client})
	s.Require().NoError(err)

	usersService := users.NewService(userStore, clock)
	milestonesService := milestones.NewService(milestoneStore, clock)
	notifier := notifications.NewService(notifications.LogSender{}, notifyStore, notifyStore, clock,
		notifications.ServiceConfig{AppName: "Hydration", DedupScope: config.DedupLifetime, Enabled: true})
	hydrationService := hydration.NewService(recordStore, usersService, milestonesService, notifier, clock,
		hydration.Config{DefaultTarget: 8, ReminderThreshold: 3})
	rewardsService := rewards.NewService(claimStore, usersService, milestonesService, hydrationService, clock)

	s.cfg = &config.Config{
		AppEnv:                  "test",
		HTTPAddr:                ":0",
		RateLimitRequests:       100,
		RateLimitWindow:         time.Minute,
		FeatureTestEmailEnabled: true,
	}
	s.handlers = server.Handlers{
		Hydration:     hydration.NewHandler(hydrationService),
		Rewards:       rewards.NewHandler(rewardsService),
		Notifications: notifications.NewHandler(notifier),
		State:         server.NewStateHandler(usersService, hydrationService, milestonesService, rewardsService),
		Health: func(ctx context.Context) error {
			return s.client.Ping(ctx).Err()
		},
	}
	s.srv = server.New(s.cfg, s.handlers)
}

func (s *ServerTestSuite) TearDownTest() {
	s.Require().NoError(s.srv.Shutdown(context.Background()))
	s.client.Close()
	s.mr.Close()
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) do(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.srv.Handler().ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func (s *ServerTestSuite) TestAddGlass() {
	rec, body := s.do(http.MethodPost, "/api/hydration", `{"email":"anna@example.com","userName":"Анна"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	today := body["hydration"].(map[string]any)
	s.EqualValues(1, today["glasses"])
	s.EqualValues(8, today["target"])
	s.Equal([]any{"first-sip"}, body["newlyUnlocked"])
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec, body = s.do(http.MethodPost, "/api/hydration", `{"email":"anna@example.com"}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(true, body["notificationSent"])
}

func (s *ServerTestSuite) TestTakenUserIDIsConflict() {
	rec, _ := s.do(http.MethodPost, "/api/hydration", `{"userId":"u1","email":"a@example.com"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec, body := s.do(http.MethodPost, "/api/hydration", `{"userId":"u1","email":"b@example.com"}`)
	s.Equal(http.StatusConflict, rec.Code, rec.Body.String())
	s.Contains(body["error"], "userId уже занят")
}

func (s *ServerTestSuite) TestErrorStatuses() {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"нет идентификатора", http.MethodPost, "/api/hydration", `{}`, http.StatusBadRequest},
		{"битый json", http.MethodPost, "/api/hydration", `{`, http.StatusBadRequest},
		{"неизвестный userId", http.MethodPost, "/api/hydration", `{"userId":"ghost"}`, http.StatusNotFound},
		{"чтение без пользователя", http.MethodGet, "/api/hydration?email=ghost@example.com", "", http.StatusNotFound},
		{"прогресс без идентификатора", http.MethodGet, "/api/progress", "", http.StatusBadRequest},
		{"награда без rewardId", http.MethodPost, "/api/rewards", `{"email":"anna@example.com"}`, http.StatusBadRequest},
		{"неизвестная награда", http.MethodPost, "/api/rewards", `{"email":"anna@example.com","rewardId":"nope"}`, http.StatusNotFound},
		{"тест без адреса", http.MethodPost, "/api/test-email", `{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec, _ := s.do(tt.method, tt.path, tt.body)
			s.Equal(tt.want, rec.Code, rec.Body.String())
		})
	}
}

func (s *ServerTestSuite) TestTargetProgressAndState() {
	for i := 0; i < 4; i++ {
		rec, _ := s.do(http.MethodPost, "/api/hydration", `{"email":"anna@example.com"}`)
		s.Require().Equal(http.StatusOK, rec.Code)
	}

	rec, _ := s.do(http.MethodPut, "/api/hydration/target", `{"email":"anna@example.com","target":0}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, body := s.do(http.MethodPut, "/api/hydration/target", `{"email":"anna@example.com","target":4}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal(true, body["hydration"].(map[string]any)["completed"])

	rec, body = s.do(http.MethodGet, "/api/progress?email=anna@example.com", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(body["weeklyData"], 7)
	s.EqualValues(1, body["currentStreak"])

	rec, body = s.do(http.MethodGet, "/api/state?email=anna@example.com", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("anna@example.com", body["user"].(map[string]any)["email"])
	s.Len(body["rewards"], len(milestones.Rewards()))
	s.Len(body["achievements"], len(milestones.Achievements()))
}

func (s *ServerTestSuite) TestClaimLockedReward() {
	rec, _ := s.do(http.MethodPost, "/api/hydration", `{"email":"anna@example.com"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec, body := s.do(http.MethodPost, "/api/rewards", `{"email":"anna@example.com","rewardId":"weekly-wonder"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(body["error"], "условия награды")

	rec, body = s.do(http.MethodGet, "/api/rewards?email=anna@example.com", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(body["rewards"], len(milestones.Rewards()))
}

func (s *ServerTestSuite) TestHealthz() {
	rec, _ := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, rec.Code)

	s.mr.Close()
	rec, body := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Equal("unavailable", body["status"])
}

func (s *ServerTestSuite) TestUpstreamFailureIs503() {
	rec, _ := s.do(http.MethodPost, "/api/hydration", `{"email":"anna@example.com"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	s.mr.Close()
	rec, _ = s.do(http.MethodPost, "/api/hydration", `{"email":"anna@example.com"}`)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *ServerTestSuite) TestRateLimit() {
	cfg := *s.cfg
	cfg.RateLimitRequests = 2
	limited := server.New(&cfg, s.handlers)
	defer limited.Shutdown(context.Background())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		limited.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/progress", nil))
		codes = append(codes, rec.Code)
	}
	s.Equal([]int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)

	// /healthz лимитом не ограничен
	rec := httptest.NewRecorder()
	limited.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ServerTestSuite) TestTestEmailDisabled() {
	cfg := *s.cfg
	cfg.FeatureTestEmailEnabled = false
	srv := server.New(&cfg, s.handlers)
	defer srv.Shutdown(context.Background())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/test-email", strings.NewReader(`{"email":"a@b.c"}`)))
	s.Equal(http.StatusNotFound, rec.Code)
}
