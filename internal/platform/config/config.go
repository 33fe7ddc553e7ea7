package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"taskzone/internal/common/security"
	"taskzone/internal/platform/database"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	APIPort        string        `env:"API_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	JWTSecret                string `env:"JWT_SECRET" envDefault:"defaultsecret"`
	JWTAlgorithm             string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	BcryptCost               int    `env:"BCRYPT_COST" envDefault:"10"`

	Storage           string        `env:"STORAGE" envDefault:"postgres"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	DBHost            string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort            string        `env:"DB_PORT" envDefault:"5432"`
	DBUser            string        `env:"DB_USER" envDefault:"user"`
	DBPassword        string        `env:"DB_PASSWORD" envDefault:"password"`
	DBName            string        `env:"DB_NAME" envDefault:"taskzone"`
	DBSslMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`

	// Empty RedisAddr disables the user list cache.
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	UsersCacheTTL    time.Duration `env:"USERS_CACHE_TTL" envDefault:"30s"`
	UsersMaxPageSize int           `env:"USERS_MAX_PAGE_SIZE" envDefault:"0"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file and then the process environment.
// It reports whether a .env file was found so the caller can log it.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, dotenv, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, dotenv, err
	}
	return cfg, dotenv, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWTAlgorithm))
	}
	if c.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", c.AccessTokenExpireMinutes))
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		errs = append(errs, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage))
	}
	if c.UsersMaxPageSize < 0 {
		errs = append(errs, errors.New("USERS_MAX_PAGE_SIZE must not be negative"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSslMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) Pool() database.PoolConfig {
	return database.PoolConfig{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

func (c *Config) Token() security.TokenConfig {
	return security.TokenConfig{
		Secret:    []byte(c.JWTSecret),
		Algorithm: c.JWTAlgorithm,
		Lifetime:  time.Duration(c.AccessTokenExpireMinutes) * time.Minute,
	}
}
