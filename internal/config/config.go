// Package config loads the settings of the todo service from (in order of precedence)
// environment variables, a .env file, an optional config file and the defaults below.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrNoDatabase is returned by Load when no database URL is configured
var ErrNoDatabase = errors.New("database.url (or DATABASE_URL) must be set")

type (
	// Config represents the configuration of the service
	Config struct {
		Database   Database
		Pagination Pagination
		Server     Server
		Auth       Auth
		Log        Log
		Viper      *viper.Viper
	}

	Database struct {
		URL          string
		MaxOpenConns int
	}

	Pagination struct {
		Lookahead bool // fetch one extra row so that hasNextPage/hasPreviousPage are accurate
	}

	Server struct {
		Addr            string
		ShutdownTimeout time.Duration
	}

	Auth struct {
		Secret string // no auth if empty
		TTL    time.Duration
	}

	Log struct {
		Level  string
		Format string // "text" or "json"
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("pagination.lookahead", false)
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("auth.ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration.  If configPath is empty the file todoql.{yaml,json,toml} is
// looked for in the current directory and $HOME/.todoql but it need not exist.
// Any .env file in the current directory is loaded into the environment first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("todoql")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", "TODOQL_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind DATABASE_URL: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("todoql")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.todoql")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Database: Database{
			URL:          v.GetString("database.url"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		Pagination: Pagination{
			Lookahead: v.GetBool("pagination.lookahead"),
		},
		Server: Server{
			Addr:            v.GetString("server.addr"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Auth: Auth{
			Secret: v.GetString("auth.secret"),
			TTL:    v.GetDuration("auth.ttl"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Viper: v,
	}
	if cfg.Database.URL == "" {
		return nil, ErrNoDatabase
	}
	if cfg.Database.MaxOpenConns < 1 {
		return nil, fmt.Errorf("database.max_open_conns must be at least 1, got %d", cfg.Database.MaxOpenConns)
	}
	return cfg, nil
}
