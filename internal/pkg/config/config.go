package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"

	SessionsMemory = "memory"
	SessionsRedis  = "redis"

	OriginReferer = "referer"
	OriginToken   = "token"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	StoreDriver    string `env:"STORE_DRIVER,    default=sqlite"`
	SessionBackend string `env:"SESSION_BACKEND, default=memory"`
	SeedOnStart    bool   `env:"SEED_ON_START,   default=true"`

	Auth   AuthConfig
	SQLite SQLiteConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type AuthConfig struct {
	// SessionSecret signs the session cookie. A random key is generated
	// when empty, which invalidates cookies on restart.
	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionCookie  string        `env:"SESSION_COOKIE,  default=sid"`
	OriginCheck    string        `env:"ORIGIN_CHECK,    default=referer"`
	AdminPath      string        `env:"ADMIN_PATH,      default=/admin"`
	BootstrapAdmin string        `env:"BOOTSTRAP_ADMIN, default=admin"`
	CSRFSecret     string        `env:"CSRF_SECRET"`
	CSRFTTL        time.Duration `env:"CSRF_TTL,        default=15m"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=data/database.sqlite"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=authgate"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Parse reads configuration from environment variables using go-envconfig
// and validates it.
func Parse(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects unknown backend and guard names.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.SessionBackend {
	case SessionsMemory, SessionsRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	switch c.Auth.OriginCheck {
	case OriginReferer:
	case OriginToken:
		if c.Auth.CSRFSecret == "" {
			return fmt.Errorf("ORIGIN_CHECK=token requires CSRF_SECRET")
		}
	default:
		return fmt.Errorf("unknown ORIGIN_CHECK %q", c.Auth.OriginCheck)
	}
	if c.Auth.AdminPath == "" {
		return fmt.Errorf("ADMIN_PATH must not be empty")
	}
	return nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
