// Package config loads service configuration from flags, an optional config
// file, a .env file and PROCAT_* environment variables, in increasing order
// of precedence for env over file and flags over everything.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "PROCAT"
	configFileEnvName = "PROCAT_CONFIG_FILE"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendSpanner  = "spanner"
	BackendPostgres = "postgres"
	BackendGCS      = "gcs"
)

type Server struct {
	HTTPPort     int           `mapstructure:"http_port"`
	GRPCPort     int           `mapstructure:"grpc_port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type Log struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

type Store struct {
	Backend         string        `mapstructure:"backend"`
	SpannerDatabase string        `mapstructure:"spanner_database"`
	PostgresDSN     string        `mapstructure:"postgres_dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type Objects struct {
	Backend       string `mapstructure:"backend"`
	Bucket        string `mapstructure:"bucket"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	// Endpoint points the GCS client at an emulator; empty uses the real service.
	Endpoint string `mapstructure:"endpoint"`
}

// Cascade tunes attribute deletion.
type Cascade struct {
	// Transactional wraps each cascade in one transaction when the store supports it.
	Transactional bool `mapstructure:"transactional"`
	// PreserveSurvivingTags deletes tag links only for products confirmed orphaned.
	PreserveSurvivingTags bool `mapstructure:"preserve_surviving_tags"`
}

type Config struct {
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
	Store   Store   `mapstructure:"store"`
	Objects Objects `mapstructure:"objects"`
	Cascade Cascade `mapstructure:"cascade"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.development", false)

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.spanner_database", "projects/test-project/instances/dev-instance/databases/catalog-db")
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("store.max_open_conns", 10)
	v.SetDefault("store.max_idle_conns", 5)
	v.SetDefault("store.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("objects.backend", BackendMemory)
	v.SetDefault("objects.bucket", "")
	v.SetDefault("objects.public_base_url", "")
	v.SetDefault("objects.endpoint", "")

	v.SetDefault("cascade.transactional", true)
	v.SetDefault("cascade.preserve_surviving_tags", false)
}

// Load reads configuration for a command invoked with args (without the
// program name). Unknown keys in the config file are rejected.
func Load(name string, args []string) (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	configFile := flags.String("config", "", "config file (yaml, json or toml)")
	flags.Int("http-port", 0, "HTTP listen port")
	flags.Int("grpc-port", 0, "gRPC listen port")
	flags.String("store-backend", "", "record store backend: memory, spanner or postgres")
	flags.String("log-level", "", "log level")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"server.http_port": "http-port",
		"server.grpc_port": "grpc-port",
		"store.backend":    "store-backend",
		"log.level":        "log-level",
	} {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	path := *configFile
	if env, ok := os.LookupEnv(configFileEnvName); ok && path == "" {
		path = env
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid key at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port: %d out of range", c.Server.HTTPPort))
	}
	if c.Server.GRPCPort <= 0 || c.Server.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("server.grpc_port: %d out of range", c.Server.GRPCPort))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSpanner:
		if strings.TrimSpace(c.Store.SpannerDatabase) == "" {
			errs = append(errs, errors.New("store.spanner_database: required for spanner backend"))
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Store.PostgresDSN) == "" {
			errs = append(errs, errors.New("store.postgres_dsn: required for postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend: unsupported value %q", c.Store.Backend))
	}

	switch c.Objects.Backend {
	case BackendMemory:
	case BackendGCS:
		if strings.TrimSpace(c.Objects.Bucket) == "" {
			errs = append(errs, errors.New("objects.bucket: required for gcs backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("objects.backend: unsupported value %q", c.Objects.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
