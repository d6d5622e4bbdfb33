// Package config loads service configuration from an optional env file
// and the process environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Application
	AppHost   string `env:"APP_HOST" envDefault:"localhost"`
	AppPort   string `env:"APP_PORT" envDefault:"8080"`
	BaseURL   string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel  string `env:"APP_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"APP_LOG_FORMAT" envDefault:"json"`
	StaticDir string `env:"STATIC_DIR"`

	// PostgreSQL
	PostgresHost         string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort         int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser         string `env:"POSTGRES_USER" envDefault:"user"`
	PostgresPassword     string `env:"POSTGRES_PASSWORD" envDefault:"password"`
	PostgresDB           string `env:"POSTGRES_DB" envDefault:"database"`
	PostgresMaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"16"`
	PostgresMaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"8"`
	PostgresAutoMigrate  bool   `env:"POSTGRES_AUTO_MIGRATE" envDefault:"false"`

	// Redis
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisPoolSize     int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisMinIdleConns int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`

	// Kafka. Publishing is disabled when no brokers are set.
	KafkaBrokers       []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaEventsTopic   string        `env:"KAFKA_EVENTS_TOPIC" envDefault:"dtc_profiles.events"`
	KafkaRecoveryTopic string        `env:"KAFKA_RECOVERY_TOPIC" envDefault:"auth.password_recovery"`
	KafkaWriteTimeout  time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"5s"`
	KafkaBatchTimeout  time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"10ms"`

	// gRPC health listener
	GRPCHost string `env:"GRPC_HOST" envDefault:"localhost"`
	GRPCPort string `env:"GRPC_PORT" envDefault:"50051"`

	// JWT
	JWTSecretKey string        `env:"JWT_SECRET_KEY" envDefault:"my_super_secret_key"`
	JWTExp       time.Duration `env:"JWT_EXP" envDefault:"12h"`

	// Password recovery
	RecoveryTokenTTL   time.Duration `env:"RECOVERY_TOKEN_TTL" envDefault:"1h"`
	RecoverySessionExp time.Duration `env:"RECOVERY_SESSION_EXP" envDefault:"15m"`

	// HTTP edge
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`
	RateLimitAuthRPM   int    `env:"RATE_LIMIT_AUTH_RPM" envDefault:"20"`
	CookieSecure       bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

// Load reads the env file at path (missing files are ignored) and parses
// the environment into a Config.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// HTTPAddr returns the HTTP listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

// GRPCAddr returns the gRPC health listen address.
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%s", c.GRPCHost, c.GRPCPort)
}

// PostgresDSN builds the pgx connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into a list.
func (c *Config) AllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
