package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env        string `env:"ENV" env-required:"true"`
	HTTP       HTTPConfig
	Postgres   PostgresConfig
	JWT        JWTConfig
	Migrations MigrationsConfig
}

// MigratorConfig is the subset of Config used by the migration command,
// which never issues tokens or serves HTTP.
type MigratorConfig struct {
	Env        string `env:"ENV" env-required:"true"`
	Postgres   PostgresConfig
	Migrations MigrationsConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"PORT" env-default:"3000"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

// ConnString returns the postgres:// URL for the configured database.
func (c PostgresConfig) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" env-required:"true"`
	Issuer string        `env:"JWT_ISSUER" env-default:"task-tracker"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"24h"`
}

type MigrationsConfig struct {
	AutoMigrate bool   `env:"AUTO_MIGRATE" env-default:"false"`
	Dir         string `env:"MIGRATIONS_DIR" env-default:"internal/migrations/sql"`
}
