package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	BackendURL    string
	SubmitTimeout time.Duration
	SessionTTL    time.Duration
	SweepInterval time.Duration
	SecureCookies bool
	LogLevel      string
	LogFormat     string
	Redis         RedisConfig
}

// RedisConfig configures the optional Redis credential backend.
// An empty URL keeps credentials in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:          getString("BLOODLINK_ADDR", ":8080"),
		BackendURL:    getString("BACKEND_URL", "http://localhost:3000"),
		SubmitTimeout: getDuration("SUBMIT_TIMEOUT", 0),
		SessionTTL:    getDuration("SESSION_TTL", 12*time.Hour),
		SweepInterval: getDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		SecureCookies: os.Getenv("SECURE_COOKIES") == "true",
		LogLevel:      getString("LOG_LEVEL", "info"),
		LogFormat:     getString("LOG_FORMAT", "json"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings such as "30s"; invalid values fall back.
func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
