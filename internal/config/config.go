package config

import (
	"fmt"
	"strings"
	"time"

	config "github.com/0xsj/overwatch-pkg/config"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the follows service.
type Config struct {
	Server    ServerConfig
	GRPC      GRPCConfig
	Atproto   AtprotoConfig
	Page      PageConfig
	Recorder  RecorderConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host              string        `env:"SERVER_HOST" default:"0.0.0.0"`
	Port              int           `env:"SERVER_PORT" default:"3000"`
	AllowedOrigins    string        `env:"SERVER_ALLOWED_ORIGINS" default:""`
	TrustedProxies    string        `env:"SERVER_TRUSTED_PROXIES" default:""`
	ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" default:"10s"`
	ShutdownTimeout   time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// GRPCConfig holds gRPC health server configuration.
type GRPCConfig struct {
	Enabled          bool   `env:"GRPC_ENABLED" default:"true"`
	Host             string `env:"GRPC_HOST" default:"0.0.0.0"`
	Port             int    `env:"GRPC_PORT" default:"50051"`
	EnableReflection bool   `env:"GRPC_ENABLE_REFLECTION" default:"true"`
}

// AtprotoConfig holds the upstream endpoints and the service account.
type AtprotoConfig struct {
	ServiceURL   string        `env:"ATPROTO_SERVICE_URL" default:"https://bsky.social"`
	DirectoryURL string        `env:"ATPROTO_DIRECTORY_URL" default:"https://plc.directory"`
	Identifier   string        `env:"ATPROTO_IDENTIFIER" default:"coilysiren.me"`
	Password     string        `env:"PASSWORD" default:"" sensitive:"true"`
	HTTPTimeout  time.Duration `env:"ATPROTO_HTTP_TIMEOUT" default:"30s"`
	UserAgent    string        `env:"ATPROTO_USER_AGENT" default:"overwatch-follows"`
}

// PageConfig holds where the page content comes from and its fallbacks.
type PageConfig struct {
	ContentFile   string `env:"PAGE_CONTENT_FILE" default:""`
	ProfileHandle string `env:"PAGE_PROFILE_HANDLE" default:"coilysiren.me"`
	Limit         int    `env:"PAGE_FOLLOWS_LIMIT" default:"10"`
}

// RecorderConfig bounds how long a lookup waits on its audit row and event.
type RecorderConfig struct {
	SinkTimeout time.Duration `env:"LOOKUP_RECORD_TIMEOUT" default:"5s"`
}

// RateLimitConfig holds per-client request limits. Requires Redis.
type RateLimitConfig struct {
	Enabled  bool          `env:"RATE_LIMIT_ENABLED" default:"false"`
	Requests int           `env:"RATE_LIMIT_REQUESTS" default:"30"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseConfig holds PostgreSQL configuration for the lookup audit log.
type DatabaseConfig struct {
	Enabled           bool          `env:"DATABASE_ENABLED" default:"false"`
	Host              string        `env:"DATABASE_HOST" default:"localhost"`
	Port              int           `env:"DATABASE_PORT" default:"5432"`
	User              string        `env:"DATABASE_USER" default:"overwatch"`
	Password          string        `env:"DATABASE_PASSWORD" default:"overwatch" sensitive:"true"`
	Database          string        `env:"DATABASE_NAME" default:"overwatch_follows"`
	SSLMode           string        `env:"DATABASE_SSL_MODE" default:"disable"`
	MaxConns          int           `env:"DATABASE_MAX_CONNS" default:"10"`
	MinConns          int           `env:"DATABASE_MIN_CONNS" default:"1"`
	MaxConnLifetime   time.Duration `env:"DATABASE_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime   time.Duration `env:"DATABASE_MAX_CONN_IDLE_TIME" default:"30m"`
	HealthCheckPeriod time.Duration `env:"DATABASE_HEALTH_CHECK_PERIOD" default:"1m"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host         string        `env:"REDIS_HOST" default:"localhost"`
	Port         int           `env:"REDIS_PORT" default:"6379"`
	Password     string        `env:"REDIS_PASSWORD" default:"" sensitive:"true"`
	DB           int           `env:"REDIS_DB" default:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

// NATSConfig holds NATS configuration for lookup events.
type NATSConfig struct {
	Enabled       bool          `env:"NATS_ENABLED" default:"false"`
	URL           string        `env:"NATS_URL" default:"nats://localhost:4222"`
	SubjectPrefix string        `env:"NATS_SUBJECT_PREFIX" default:"overwatch"`
	MaxReconnects int           `env:"NATS_MAX_RECONNECTS" default:"10"`
	ReconnectWait time.Duration `env:"NATS_RECONNECT_WAIT" default:"2s"`
}

// Load loads configuration from the environment, after applying any .env
// file found at envFiles (missing files are ignored).
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv never overrides variables that are already set.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !isNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Address returns the HTTP server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Origins returns the CORS origins as a list.
func (c *ServerConfig) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// Proxies returns the trusted proxy addresses as a list.
func (c *ServerConfig) Proxies() []string {
	return splitList(c.TrustedProxies)
}

// Address returns the gRPC server address.
func (c *GRPCConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Address returns the Redis address.
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
