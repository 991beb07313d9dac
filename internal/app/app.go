// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: выбирает хранилище, создаёт репозитории, сервисы,
// обработчики и собирает всё в HTTP-сервер и планировщик.
package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/hydration/internal/common"
	"serotonyl.ru/hydration/internal/config"
	"serotonyl.ru/hydration/internal/db/postgres"
	redisdb "serotonyl.ru/hydration/internal/db/redis"
	"serotonyl.ru/hydration/internal/features/hydration"
	"serotonyl.ru/hydration/internal/features/milestones"
	"serotonyl.ru/hydration/internal/features/notifications"
	"serotonyl.ru/hydration/internal/features/rewards"
	"serotonyl.ru/hydration/internal/features/users"
	"serotonyl.ru/hydration/internal/jobs"
	"serotonyl.ru/hydration/internal/server"
)

// App содержит все компоненты приложения.
type App struct {
	Server    *server.Server
	Scheduler *jobs.Scheduler // nil, если напоминания выключены
	Hydration *hydration.Service
	Notifier  *notifications.Service

	close func()
}

// Stores — хранилища всех фич для выбранного бэкенда.
type Stores struct {
	Users      users.Store
	Records    hydration.Store
	Milestones milestones.Store
	Claims     rewards.Store
	Logs       notifications.LogStore
	Reminders  notifications.ReminderStore
	Health     server.HealthFunc
	Close      func()
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Канал уведомлений ===
	sender, err := notifications.NewSender(ctx, cfg)
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("ошибка создания канала уведомлений: %w", err)
	}

	a := Build(cfg, stores, sender, common.SystemClock{})
	a.close = stores.Close
	return a, nil
}

// Build собирает сервисы и обработчики поверх готовых хранилищ.
func Build(cfg *config.Config, stores *Stores, sender notifications.Sender, clock common.Clock) *App {
	// === Сервисы ===
	usersService := users.NewService(stores.Users, clock)
	milestonesService := milestones.NewService(stores.Milestones, clock)
	notifier := notifications.NewService(sender, stores.Logs, stores.Reminders, clock,
		notifications.NewServiceConfig(cfg))
	hydrationService := hydration.NewService(stores.Records, usersService, milestonesService, notifier, clock,
		hydration.Config{
			DefaultTarget:     cfg.HydrationDailyTarget,
			ReminderThreshold: cfg.StreakReminderThreshold,
		})
	rewardsService := rewards.NewService(stores.Claims, usersService, milestonesService, hydrationService, clock)

	// === Обработчики ===
	srv := server.New(cfg, server.Handlers{
		Hydration:     hydration.NewHandler(hydrationService),
		Rewards:       rewards.NewHandler(rewardsService),
		Notifications: notifications.NewHandler(notifier),
		State:         server.NewStateHandler(usersService, hydrationService, milestonesService, rewardsService),
		Health:        stores.Health,
	})

	// === Планировщик задач ===
	var scheduler *jobs.Scheduler
	if cfg.FeatureRemindersEnabled {
		scheduler = jobs.NewScheduler(hydrationService, cfg.ReminderSchedule)
	}

	return &App{
		Server:    srv,
		Scheduler: scheduler,
		Hydration: hydrationService,
		Notifier:  notifier,
		close:     func() {},
	}
}

// Close освобождает соединения с хранилищем.
func (a *App) Close() {
	a.close()
}

// OpenStores подключается к хранилищу из STORAGE_BACKEND.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		return openRedis(ctx, cfg)
	default:
		return openPostgres(ctx, cfg)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Stores, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Запускаем миграции
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	notifyRepo := notifications.NewRepository(pool)
	log.Info("Хранилище: PostgreSQL")
	return &Stores{
		Users:      users.NewRepository(pool),
		Records:    hydration.NewRepository(pool),
		Milestones: milestones.NewRepository(pool),
		Claims:     rewards.NewRepository(pool),
		Logs:       notifyRepo,
		Reminders:  notifyRepo,
		Health:     pool.Ping,
		Close:      pool.Close,
	}, nil
}

func openRedis(ctx context.Context, cfg *config.Config) (*Stores, error) {
	client, err := redisdb.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	usersStore, err := users.NewRedis(&users.RedisConfig{RedisClient: client})
	if err != nil {
		client.Close()
		return nil, err
	}
	recordsStore, err := hydration.NewRedis(&hydration.RedisConfig{RedisClient: client})
	if err != nil {
		client.Close()
		return nil, err
	}
	milestonesStore, err := milestones.NewRedis(&milestones.RedisConfig{RedisClient: client})
	if err != nil {
		client.Close()
		return nil, err
	}
	claimsStore, err := rewards.NewRedis(&rewards.RedisConfig{RedisClient: client})
	if err != nil {
		client.Close()
		return nil, err
	}
	notifyStore, err := notifications.NewRedis(&notifications.RedisConfig{RedisClient: client})
	if err != nil {
		client.Close()
		return nil, err
	}

	log.Info("Хранилище: Redis")
	return &Stores{
		Users:      usersStore,
		Records:    recordsStore,
		Milestones: milestonesStore,
		Claims:     claimsStore,
		Logs:       notifyStore,
		Reminders:  notifyStore,
		Health: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		Close: func() {
			if err := client.Close(); err != nil {
				log.WithError(err).Warn("Ошибка закрытия Redis")
			}
		},
	}, nil
}
