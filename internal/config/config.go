package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// ConfigPathEnv names the variable holding an optional TOML file path
const ConfigPathEnv = "INVESTMENTS_CONFIG"

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig contains HTTP and gRPC server settings.
type ServerConfig struct {
	HTTPAddr               string   `toml:"http_addr"`
	GRPCAddr               string   `toml:"grpc_addr"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
	HealthIntervalSeconds  int      `toml:"health_interval_seconds"`
	APIToken               string   `toml:"api_token"`
	CORSOrigins            []string `toml:"cors_origins"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Driver            string `toml:"driver"`
	DSN               string `toml:"dsn"`
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	User              string `toml:"user"`
	Password          string `toml:"password"`
	Name              string `toml:"name"`
	SSLMode           string `toml:"sslmode"`
	ConnectRetries    int    `toml:"connect_retries"`
	RetryDelaySeconds int    `toml:"retry_delay_seconds"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Mode  string `toml:"mode"`
	Level string `toml:"level"`
}

// NewDefaultConfig returns the configuration used when nothing overrides it.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:               ":8080",
			GRPCAddr:               ":9090",
			ShutdownTimeoutSeconds: 10,
			HealthIntervalSeconds:  5,
			CORSOrigins:            []string{"*"},
		},
		Storage: StorageConfig{
			Driver:            DriverPostgres,
			Host:              "localhost",
			Port:              5432,
			User:              "postgres",
			Password:          "postgres",
			Name:              "investments",
			SSLMode:           "disable",
			ConnectRetries:    5,
			RetryDelaySeconds: 2,
		},
		Log: LogConfig{
			Mode:  "development",
			Level: "info",
		},
	}
}

// Load reads the file named by INVESTMENTS_CONFIG, if any, then applies env overrides.
func Load() (*Config, error) {
	return LoadFromFiles(os.Getenv(ConfigPathEnv))
}

// LoadFromFiles loads configuration with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies INVESTMENTS_* and DB_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	setString(&config.Server.HTTPAddr, "INVESTMENTS_HTTP_ADDR")
	setString(&config.Server.GRPCAddr, "INVESTMENTS_GRPC_ADDR")
	setInt(&config.Server.ShutdownTimeoutSeconds, "INVESTMENTS_SHUTDOWN_TIMEOUT_SECONDS")
	setInt(&config.Server.HealthIntervalSeconds, "INVESTMENTS_HEALTH_INTERVAL_SECONDS")
	setString(&config.Server.APIToken, "API_TOKEN")
	setString(&config.Server.APIToken, "INVESTMENTS_API_TOKEN")
	if origins := os.Getenv("INVESTMENTS_CORS_ORIGINS"); origins != "" {
		config.Server.CORSOrigins = splitList(origins)
	}

	setString(&config.Storage.Driver, "INVESTMENTS_STORAGE_DRIVER")
	setString(&config.Storage.DSN, "DB_CONN_STR")
	setString(&config.Storage.Host, "DB_HOST")
	setInt(&config.Storage.Port, "DB_PORT")
	setString(&config.Storage.User, "DB_USER")
	setString(&config.Storage.Password, "DB_PASSWORD")
	setString(&config.Storage.Name, "DB_NAME")
	setString(&config.Storage.SSLMode, "DB_SSLMODE")
	setInt(&config.Storage.ConnectRetries, "INVESTMENTS_DB_CONNECT_RETRIES")

	setString(&config.Log.Mode, "INVESTMENTS_LOG_MODE")
	setString(&config.Log.Level, "INVESTMENTS_LOG_LEVEL")
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Storage.Driver))
	}
	if c.Server.HTTPAddr == "" {
		errs = append(errs, errors.New("server.http_addr is required"))
	}
	if c.Server.GRPCAddr == "" {
		errs = append(errs, errors.New("server.grpc_addr is required"))
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout_seconds must be positive"))
	}
	if c.Server.HealthIntervalSeconds <= 0 {
		errs = append(errs, errors.New("server.health_interval_seconds must be positive"))
	}
	if c.Storage.ConnectRetries < 0 {
		errs = append(errs, errors.New("storage.connect_retries must not be negative"))
	}
	return errors.Join(errs...)
}

// ConnectionString returns the explicit DSN, or builds one from the individual fields.
func (s StorageConfig) ConnectionString() string {
	if s.DSN != "" {
		return s.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode)
}

// ShutdownTimeout is the grace period given to servers on shutdown.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// HealthInterval is how often storage readiness is probed.
func (s ServerConfig) HealthInterval() time.Duration {
	return time.Duration(s.HealthIntervalSeconds) * time.Second
}

// RetryDelay is the pause between storage connection attempts.
func (s StorageConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
