// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры,
// godotenv — для необязательного .env файла при локальном запуске.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Хранилища
const (
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Каналы уведомлений
const (
	ChannelLog      = "log"
	ChannelSES      = "ses"
	ChannelSNS      = "sns"
	ChannelTelegram = "telegram"
)

// Область дедупликации уведомлений
const (
	DedupLifetime = "lifetime"
	DedupDaily    = "daily"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- HTTP ---
	HTTPAddr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	HTTPReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	HTTPWriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	// --- Storage ---
	// postgres — основное хранилище, redis — альтернативный бэкенд с тем же контрактом
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"postgres"`

	// --- Database ---
	// В Docker дефолт "postgres" (имя сервиса в docker-compose), для локалки DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"hydration"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"hydration"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Redis ---
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"redis:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// --- Application ---
	AppEnv       string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel  string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppLogFormat string `envconfig:"APP_LOG_FORMAT" default:"text"`

	// --- Hydration ---
	HydrationDailyTarget int `envconfig:"HYDRATION_DAILY_TARGET" default:"8"`

	// --- Notifications ---
	NotifyChannel    string `envconfig:"NOTIFY_CHANNEL" default:"log"`
	NotifyDedupScope string `envconfig:"NOTIFY_DEDUP_SCOPE" default:"lifetime"`
	NotifyFrom       string `envconfig:"NOTIFY_FROM" default:"noreply@hydration.local"`
	NotifyAppName    string `envconfig:"NOTIFY_APP_NAME" default:"Hydration"`
	AWSRegion        string `envconfig:"AWS_REGION" default:"eu-central-1"`
	SNSTopicARN      string `envconfig:"SNS_TOPIC_ARN"`
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`

	// --- Streak reminders ---
	StreakReminderThreshold int    `envconfig:"STREAK_REMINDER_THRESHOLD" default:"3"`
	ReminderSchedule        string `envconfig:"REMINDER_SCHEDULE" default:"0 18 * * *"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Feature Flags ---
	FeatureNotificationsEnabled bool `envconfig:"FEATURE_NOTIFICATIONS_ENABLED" default:"true"`
	FeatureRemindersEnabled     bool `envconfig:"FEATURE_REMINDERS_ENABLED" default:"true"`
	FeatureTestEmailEnabled     bool `envconfig:"FEATURE_TEST_EMAIL_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// IsDevelopment — запущены ли мы в режиме разработки.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StoragePostgres:
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR не задан")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND должен быть %s или %s, получено %q", StoragePostgres, StorageRedis, c.StorageBackend)
	}

	if c.HydrationDailyTarget <= 0 {
		return fmt.Errorf("HYDRATION_DAILY_TARGET должен быть > 0")
	}

	switch c.NotifyChannel {
	case ChannelLog:
	case ChannelSES:
		if c.NotifyFrom == "" {
			return fmt.Errorf("NOTIFY_FROM обязателен для канала ses")
		}
	case ChannelSNS:
		if c.SNSTopicARN == "" {
			return fmt.Errorf("SNS_TOPIC_ARN обязателен для канала sns")
		}
	case ChannelTelegram:
		if c.TelegramBotToken == "" || c.TelegramChatID == 0 {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN и TELEGRAM_CHAT_ID обязательны для канала telegram")
		}
	default:
		return fmt.Errorf("неизвестный NOTIFY_CHANNEL %q", c.NotifyChannel)
	}

	if c.NotifyDedupScope != DedupLifetime && c.NotifyDedupScope != DedupDaily {
		return fmt.Errorf("NOTIFY_DEDUP_SCOPE должен быть %s или %s", DedupLifetime, DedupDaily)
	}
	if c.StreakReminderThreshold <= 0 {
		return fmt.Errorf("STREAK_REMINDER_THRESHOLD должен быть > 0")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
// Если envFile не пустой, сначала подгружается .env файл;
// отсутствие файла по умолчанию (.env) ошибкой не считается.
func Load(envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	cfg.NotifyChannel = strings.ToLower(strings.TrimSpace(cfg.NotifyChannel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if path == ".env" && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("не удалось прочитать %s: %w", path, err)
}
