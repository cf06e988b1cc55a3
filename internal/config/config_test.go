package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PAYFLOW_CONFIG", "GRPC_ADDR", "HTTP_ADDR", "API_TOKEN", "ALLOWED_ORIGINS",
	"STATE_BACKEND", "STATE_KEY", "SQLITE_PATH",
	"DB_CONN_STR", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", missingEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.GRPCAddr)
	assert.Equal(t, ":8081", cfg.Server.HTTPAddr)
	assert.Equal(t, "dev-token", cfg.Server.APIToken)
	assert.Equal(t, BackendSQLite, cfg.State.Backend)
	assert.Equal(t, "data/payflow.db", cfg.State.SQLitePath)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=payflow sslmode=disable", cfg.DatabaseConnString())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "payflow.yaml", `
server:
  grpc_addr: ":9090"
  api_token: from-yaml
  allowed_origins:
    - http://localhost:5173
state:
  backend: Postgres
  key: demo.state
database:
  host: db.internal
  name: payflow_demo
`)
	t.Setenv("API_TOKEN", "from-env")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load(path, missingEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.GRPCAddr)
	assert.Equal(t, ":8081", cfg.Server.HTTPAddr, "unset yaml keys keep defaults")
	assert.Equal(t, "from-env", cfg.Server.APIToken)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, BackendPostgres, cfg.State.Backend)
	assert.Equal(t, "demo.state", cfg.State.Key)
	assert.Equal(t, "host=db.internal port=6543 user=postgres password=postgres dbname=payflow_demo sslmode=disable", cfg.DatabaseConnString())
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAYFLOW_CONFIG", writeFile(t, "payflow.yaml", "state:\n  backend: memory\n"))

	cfg, err := Load("", missingEnvFile(t))

	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.State.Backend)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already set, even to ""
	os.Unsetenv("STATE_BACKEND")
	os.Unsetenv("ALLOWED_ORIGINS")
	envFile := writeFile(t, ".env", "STATE_BACKEND=memory\nALLOWED_ORIGINS=http://a.test, http://b.test\n")

	cfg, err := Load("", envFile)

	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.State.Backend)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), missingEnvFile(t))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeFile(t, "bad.yaml", "server: [unterminated"), missingEnvFile(t))
	assert.ErrorContains(t, err, "failed to parse config file")

	t.Setenv("STATE_BACKEND", "redis")
	_, err = Load("", missingEnvFile(t))
	assert.ErrorContains(t, err, "unknown state backend")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "no listeners", modify: func(c *Config) { c.Server.GRPCAddr, c.Server.HTTPAddr = "", "" }, wantErr: "grpc_addr"},
		{name: "empty token", modify: func(c *Config) { c.Server.APIToken = "" }, wantErr: "api_token"},
		{name: "sqlite without path", modify: func(c *Config) { c.State.SQLitePath = "" }, wantErr: "sqlite_path"},
		{
			name: "postgres without host",
			modify: func(c *Config) {
				c.State.Backend = BackendPostgres
				c.Database.Host = ""
			},
			wantErr: "postgres",
		},
		{
			name: "postgres with conn string",
			modify: func(c *Config) {
				c.State.Backend = BackendPostgres
				c.Database.Host = ""
				c.Database.ConnStr = "postgres://localhost/payflow"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
