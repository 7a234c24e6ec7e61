package config

import (
	"os"
	"strconv"
	"time"

	"point-arena/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Daily draw
	DrawMin  int64 // inclusive
	DrawMax  int64 // exclusive
	Timezone string

	// Matches
	MatchStake     int64
	MatchBatchSize int
	MatchInterval  time.Duration
	MatchTimeout   time.Duration

	// Snapshots
	SnapshotInterval time.Duration
	SnapshotDebounce time.Duration

	// Rate limiting
	APIRateLimit    int // per IP per window
	APIRateWindow   time.Duration
	ActionRateLimit int // per subject per minute on mutating endpoints

	LogLevel string
	LogJSON  bool
}

// Load reads the config from env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	tz := os.Getenv("DRAW_TIMEZONE")
	if tz == "" {
		// the daily draw resets on this zone's calendar day, not UTC midnight
		tz = "Asia/Tokyo"
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		DrawMin:  envInt64("DRAW_MIN", 5),
		DrawMax:  envInt64("DRAW_MAX", 16),
		Timezone: tz,

		MatchStake:     envInt64("MATCH_STAKE", 5),
		MatchBatchSize: envInt("MATCH_BATCH_SIZE", 100),
		MatchInterval:  envSeconds("MATCH_INTERVAL_SECONDS", 30*time.Second),
		MatchTimeout:   envSeconds("MATCH_TIMEOUT_SECONDS", 8*time.Hour),

		SnapshotInterval: envSeconds("SNAPSHOT_INTERVAL_SECONDS", time.Hour),
		SnapshotDebounce: envSeconds("SNAPSHOT_DEBOUNCE_SECONDS", 23*time.Hour),

		APIRateLimit:    envInt("API_RATE_LIMIT", 60),
		APIRateWindow:   envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		ActionRateLimit: envInt("ACTION_RATE_LIMIT", 30),

		LogLevel: envDefault("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
