package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends for the prototype state and session receipts
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const (
	defaultAPIToken   = "dev-token"
	defaultGRPCAddr   = ":8080"
	defaultHTTPAddr   = ":8081"
	defaultSQLitePath = "data/payflow.db"
)

// ServerConfig holds the listener settings
type ServerConfig struct {
	GRPCAddr       string   `yaml:"grpc_addr"`
	HTTPAddr       string   `yaml:"http_addr"`
	APIToken       string   `yaml:"api_token"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StateConfig selects where the prototype state is persisted
type StateConfig struct {
	Backend    string `yaml:"backend"`
	Key        string `yaml:"key"`
	SQLitePath string `yaml:"sqlite_path"`
}

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	ConnStr  string `yaml:"conn_str"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	State    StateConfig    `yaml:"state"`
	Database DatabaseConfig `yaml:"database"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCAddr: defaultGRPCAddr,
			HTTPAddr: defaultHTTPAddr,
			APIToken: defaultAPIToken,
		},
		State: StateConfig{
			Backend:    BackendSQLite,
			SQLitePath: defaultSQLitePath,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "payflow",
		},
	}
}

// Load builds the configuration.
// Logic:
//  1. Start from Default()
//  2. Load envFiles into the environment (".env" when none given; missing files are skipped)
//  3. Overlay the YAML file at path, or at $PAYFLOW_CONFIG when path is empty
//  4. Overlay environment variables
//  5. Validate
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	if path == "" {
		path = os.Getenv("PAYFLOW_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Server.GRPCAddr, "GRPC_ADDR")
	setFromEnv(&c.Server.HTTPAddr, "HTTP_ADDR")
	setFromEnv(&c.Server.APIToken, "API_TOKEN")
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	setFromEnv(&c.State.Backend, "STATE_BACKEND")
	setFromEnv(&c.State.Key, "STATE_KEY")
	setFromEnv(&c.State.SQLitePath, "SQLITE_PATH")

	setFromEnv(&c.Database.ConnStr, "DB_CONN_STR")
	setFromEnv(&c.Database.Host, "DB_HOST")
	setFromEnv(&c.Database.Port, "DB_PORT")
	setFromEnv(&c.Database.User, "DB_USER")
	setFromEnv(&c.Database.Password, "DB_PASSWORD")
	setFromEnv(&c.Database.Name, "DB_NAME")
}

func setFromEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if c.Server.GRPCAddr == "" && c.Server.HTTPAddr == "" {
		return errors.New("at least one of grpc_addr and http_addr must be set")
	}
	if c.Server.APIToken == "" {
		return errors.New("api_token must not be empty")
	}

	c.State.Backend = strings.ToLower(strings.TrimSpace(c.State.Backend))
	switch c.State.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.State.SQLitePath == "" {
			return errors.New("sqlite_path is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.Database.ConnStr == "" && c.Database.Host == "" {
			return errors.New("database conn_str or host is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown state backend %q (want memory, sqlite or postgres)", c.State.Backend)
	}

	return nil
}

// DatabaseConnString returns the explicit connection string, or one built from the individual settings
func (c *Config) DatabaseConnString() string {
	if c.Database.ConnStr != "" {
		return c.Database.ConnStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name)
}
