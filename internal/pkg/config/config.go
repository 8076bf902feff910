package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timezone, windows, limits)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Webhook WebhookConfig
	Store   StoreConfig
	Redis   RedisConfig
	Tenant  TenantConfig
}

type ServerConfig struct {
	Port           string        `envconfig:"PORT" required:"true"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	TrustedProxies []string      `envconfig:"TRUSTED_PROXIES"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"America/Sao_Paulo"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Tenant-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"America/Sao_Paulo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"-10800"` // -3*60*60
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

type WebhookConfig struct {
	Secret            string        `envconfig:"WEBHOOK_SECRET" required:"true"`
	MaxBodyBytes      int64         `envconfig:"WEBHOOK_MAX_BODY_BYTES" default:"1048576"`
	MaxAge            time.Duration `envconfig:"WEBHOOK_MAX_AGE" default:"5m"`
	MaxFutureSkew     time.Duration `envconfig:"WEBHOOK_MAX_FUTURE_SKEW" default:"30s"`
	RateLimit         int           `envconfig:"WEBHOOK_RATE_LIMIT" default:"10"`
	RateWindow        time.Duration `envconfig:"WEBHOOK_RATE_WINDOW" default:"60s"`
	IdempotencyTTL    time.Duration `envconfig:"WEBHOOK_IDEMPOTENCY_TTL" default:"24h"`
	SweepInterval     time.Duration `envconfig:"WEBHOOK_SWEEP_INTERVAL" default:"1h"`
	RateSweepInterval time.Duration `envconfig:"WEBHOOK_RATE_SWEEP_INTERVAL" default:"1m"`
}

// memory: single instance only. redis / postgres: shared across instances.
type StoreConfig struct {
	Backend string `envconfig:"STORE_BACKEND" default:"memory"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type TenantConfig struct {
	PublicPaths []string `envconfig:"TENANT_PUBLIC_PATHS" default:"/health,/metrics,/swagger,/api/auth,/api/webhooks"`
}

const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c StoreConfig) Validate() error {
	switch c.Backend {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendPostgres:
		return nil
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}
}

// Validate rejects values that would disable the limiter or panic a ticker.
func (c WebhookConfig) Validate() error {
	switch {
	case c.Secret == "":
		return fmt.Errorf("WEBHOOK_SECRET must not be empty")
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("WEBHOOK_MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	case c.RateLimit <= 0:
		return fmt.Errorf("WEBHOOK_RATE_LIMIT must be positive, got %d", c.RateLimit)
	case c.RateWindow <= 0:
		return fmt.Errorf("WEBHOOK_RATE_WINDOW must be positive, got %s", c.RateWindow)
	case c.MaxAge <= 0:
		return fmt.Errorf("WEBHOOK_MAX_AGE must be positive, got %s", c.MaxAge)
	case c.MaxFutureSkew < 0:
		return fmt.Errorf("WEBHOOK_MAX_FUTURE_SKEW must not be negative, got %s", c.MaxFutureSkew)
	case c.IdempotencyTTL <= 0:
		return fmt.Errorf("WEBHOOK_IDEMPOTENCY_TTL must be positive, got %s", c.IdempotencyTTL)
	case c.SweepInterval <= 0:
		return fmt.Errorf("WEBHOOK_SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	case c.RateSweepInterval <= 0:
		return fmt.Errorf("WEBHOOK_RATE_SWEEP_INTERVAL must be positive, got %s", c.RateSweepInterval)
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		return Config{}, err
	}
	if err := cfg.Webhook.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:           "8889", // Test port
			RequestTimeout: 5 * time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "America/Sao_Paulo",
			MaxConns: 4,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "America/Sao_Paulo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: -10800,
		},
		JWT: JWTConfig{
			Secret:   "test-jwt-secret",
			Duration: time.Hour,
		},
		Webhook: WebhookConfig{
			Secret:            "dev-secret-key",
			MaxBodyBytes:      1 << 20,
			MaxAge:            5 * time.Minute,
			MaxFutureSkew:     30 * time.Second,
			RateLimit:         10,
			RateWindow:        time.Minute,
			IdempotencyTTL:    24 * time.Hour,
			SweepInterval:     time.Hour,
			RateSweepInterval: time.Minute,
		},
		Store: StoreConfig{
			Backend: StoreBackendMemory,
		},
		Tenant: TenantConfig{
			PublicPaths: []string{"/health", "/metrics", "/swagger", "/api/auth", "/api/webhooks"},
		},
	}
}
