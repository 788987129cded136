package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	PublicURL                string
	LogLevel                 string
	TickInterval             time.Duration
	NamingSeconds            int
	BuzzerSeconds            int
	BombSeconds              int
	CategorySampleSize       int
	StrictBids               bool
	TriggerPhrase            string
	BridgeCacheSize          int
	NATSURL                  string
	NATSSubject              string
	DatabaseURL              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		PublicURL:                "http://localhost:8080",
		LogLevel:                 "info",
		TickInterval:             time.Second,
		NamingSeconds:            30,
		BuzzerSeconds:            3,
		BombSeconds:              60,
		CategorySampleSize:       3,
		StrictBids:               false,
		TriggerPhrase:            "!join",
		BridgeCacheSize:          4096,
		NATSSubject:              "chat.>",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("PUBLIC_URL"); raw != "" {
		cfg.PublicURL = strings.TrimRight(raw, "/")
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	if raw := os.Getenv("TICK_MILLIS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TickInterval = time.Duration(value) * time.Millisecond
		}
	}
	if raw := os.Getenv("NAMING_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.NamingSeconds = value
		}
	}
	if raw := os.Getenv("BUZZER_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.BuzzerSeconds = value
		}
	}
	if raw := os.Getenv("BOMB_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.BombSeconds = value
		}
	}
	if raw := os.Getenv("CATEGORY_SAMPLE_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.CategorySampleSize = value
		}
	}
	if raw := os.Getenv("STRICT_BIDS"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.StrictBids = value
		}
	}
	if raw := os.Getenv("TRIGGER_PHRASE"); raw != "" {
		cfg.TriggerPhrase = strings.TrimSpace(raw)
	}
	if raw := os.Getenv("BRIDGE_CACHE_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.BridgeCacheSize = value
		}
	}
	if raw := os.Getenv("NATS_URL"); raw != "" {
		cfg.NATSURL = raw
	}
	if raw := os.Getenv("NATS_SUBJECT"); raw != "" {
		cfg.NATSSubject = raw
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	return cfg
}
