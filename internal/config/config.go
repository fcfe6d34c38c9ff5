package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string `mapstructure:"ENV"`
	DBDSN          string `mapstructure:"DB_DSN"`
	HTTPAddress    string `mapstructure:"HTTP_ADDRESS"`
	TelegramToken  string `mapstructure:"TELEGRAM_TOKEN"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	Google   GoogleConfig
	Reminder ReminderConfig

	// DisplayLocation - часовой пояс для текстов, которые видит пользователь
	DisplayLocation *time.Location
}

type GoogleConfig struct {
	ClientID     string        `mapstructure:"GOOGLE_CLIENT_ID"`
	ClientSecret string        `mapstructure:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string        `mapstructure:"GOOGLE_REDIRECT_URL"`
	Timeout      time.Duration `mapstructure:"CALENDAR_TIMEOUT"`
}

type ReminderConfig struct {
	Interval    time.Duration `mapstructure:"REMINDER_INTERVAL"`
	EarlyMargin time.Duration `mapstructure:"REMINDER_EARLY_MARGIN"`
	LateMargin  time.Duration `mapstructure:"REMINDER_LATE_MARGIN"`
	Dedup       bool          `mapstructure:"REMINDER_DEDUP"`
}

const (
	defaultHTTPAddress     = ":8080"
	defaultMigrationsPath  = "migrations"
	defaultTimeZone        = "Asia/Tashkent"
	defaultCalendarTimeout = 10 * time.Second
	defaultReminderEvery   = 5 * time.Minute
	defaultEarlyMargin     = 5 * time.Minute
	defaultLateMargin      = 25 * time.Minute
)

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфиг только из переменных окружения
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:    getEnv("ENV", "development"),
		DBDSN:          os.Getenv("DB_DSN"),
		HTTPAddress:    getEnv("HTTP_ADDRESS", defaultHTTPAddress),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	var err error

	if cfg.Google.Timeout, err = getDuration("CALENDAR_TIMEOUT", defaultCalendarTimeout); err != nil {
		return nil, err
	}

	if cfg.Reminder.Interval, err = getDuration("REMINDER_INTERVAL", defaultReminderEvery); err != nil {
		return nil, err
	}

	if cfg.Reminder.EarlyMargin, err = getDuration("REMINDER_EARLY_MARGIN", defaultEarlyMargin); err != nil {
		return nil, err
	}

	if cfg.Reminder.LateMargin, err = getDuration("REMINDER_LATE_MARGIN", defaultLateMargin); err != nil {
		return nil, err
	}

	if cfg.Reminder.Dedup, err = getBool("REMINDER_DEDUP", false); err != nil {
		return nil, err
	}

	tz := getEnv("DISPLAY_TIMEZONE", defaultTimeZone)
	if cfg.DisplayLocation, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("DISPLAY_TIMEZONE %q: %w", tz, err)
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsProduction - переключает формат логов
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TelegramEnabled - без токена бот и напоминания не запускаются
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%s: duration must not be negative", key)
	}

	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q: %w", key, raw, err)
	}

	return b, nil
}
