// Package config loads runtime configuration from the environment.
//
// SOURCES, IN ORDER OF PRECEDENCE:
//  1. Real environment variables (set by the shell, systemd, Docker...)
//  2. A .env file in the working directory, if one exists
//  3. The defaults below
//
// godotenv.Load never overrides a variable that is already set, which gives
// exactly that precedence for free.
//
// VALIDATE AT STARTUP:
// Every value is parsed and range-checked here, once. A typo such as
// BCRYPT_COST=l2 stops the process with a clear error instead of surfacing
// later as a confusing runtime failure.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Storage drivers accepted by DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the fully parsed process configuration.
type Config struct {
	Port int

	DBDriver    string
	DBPath      string // sqlite only
	DatabaseURL string // postgres only

	BcryptCost int

	// AdminAuth guards /api/admin with HTTP Basic auth (ADMIN role only).
	AdminAuth bool
	// AdminEmail/AdminPassword seed a bootstrap ADMIN account at startup
	// when both are set and no user with that email exists yet.
	AdminEmail    string
	AdminPassword string

	CORSOrigins    []string
	SwaggerEnabled bool

	LogLevel  slog.Level
	LogFormat string // "text" or "json"
}

// Load reads envFile (ignored when missing) and then parses the process
// environment.
func Load(envFile string, getenv func(string) string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: reading %s: %w", envFile, err)
		}
	}
	return Parse(getenv)
}

// Parse builds a Config from a variable lookup function. Tests pass a map
// lookup; production passes os.Getenv.
func Parse(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:           8080,
		DBDriver:       DriverSQLite,
		DBPath:         "data/buscadorpelut.db",
		BcryptCost:     12,
		AdminAuth:      true,
		CORSOrigins:    []string{"*"},
		SwaggerEnabled: true,
		LogLevel:       slog.LevelInfo,
		LogFormat:      "text",
	}

	var err error
	if cfg.Port, err = intVar(getenv, "PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: PORT %d out of range", cfg.Port)
	}

	if v := getenv("DB_DRIVER"); v != "" {
		cfg.DBDriver = strings.ToLower(v)
	}
	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	cfg.DatabaseURL = getenv("DATABASE_URL")
	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("config: DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown DB_DRIVER %q (want %q or %q)", cfg.DBDriver, DriverSQLite, DriverPostgres)
	}

	if cfg.BcryptCost, err = intVar(getenv, "BCRYPT_COST", cfg.BcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("config: BCRYPT_COST %d out of range [%d, %d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	if cfg.AdminAuth, err = boolVar(getenv, "ADMIN_AUTH", cfg.AdminAuth); err != nil {
		return Config{}, err
	}
	cfg.AdminEmail = strings.TrimSpace(getenv("ADMIN_EMAIL"))
	cfg.AdminPassword = getenv("ADMIN_PASSWORD")
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, errors.New("config: ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if v := getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if cfg.SwaggerEnabled, err = boolVar(getenv, "SWAGGER_ENABLED", cfg.SwaggerEnabled); err != nil {
		return Config{}, err
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("config: LOG_LEVEL: %w", err)
		}
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return cfg, nil
}

func intVar(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %q is not an integer", key, v)
	}
	return n, nil
}

func boolVar(getenv func(string) string, key string, def bool) (bool, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %q is not a boolean", key, v)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
