package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./vidx.db" {
			t.Errorf("expected database path ./vidx.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8000 {
			t.Errorf("expected server port 8000, got %d", config.Server.Port)
		}

		if config.API.BaseURL != "http://localhost:8000/api/v1" {
			t.Errorf("expected api base URL http://localhost:8000/api/v1, got %s", config.API.BaseURL)
		}

		if config.UI.SearchDebounce() != 300*time.Millisecond {
			t.Errorf("expected 300ms debounce, got %v", config.UI.SearchDebounce())
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[api]
base_url = "https://videos.example.com/api/v1"
timeout_seconds = 30

[database]
path = "/custom/path.db"
max_open_conns = 20

[server]
host = "0.0.0.0"
port = 9090

[ui]
search_debounce_ms = 500
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://videos.example.com/api/v1" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}
		if config.API.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout, got %v", config.API.Timeout())
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Addr() != "0.0.0.0:9090" {
			t.Errorf("expected addr 0.0.0.0:9090, got %s", config.Server.Addr())
		}
		if config.UI.SearchDebounce() != 500*time.Millisecond {
			t.Errorf("expected 500ms debounce, got %v", config.UI.SearchDebounce())
		}

		// keys missing from the file keep their defaults
		if config.UI.PageSize != 12 {
			t.Errorf("expected default page size 12, got %d", config.UI.PageSize)
		}
		if config.Log.Level != "info" {
			t.Errorf("expected default log level info, got %s", config.Log.Level)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvAPIURL, "http://env.example.com/api")
		t.Setenv(EnvDBPath, ":memory:")
		t.Setenv(EnvLogLevel, "debug")

		config := DefaultConfig()
		config.ApplyEnv(filepath.Join(t.TempDir(), "missing.env"))

		if config.API.BaseURL != "http://env.example.com/api" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
		if config.Database.Path != ":memory:" {
			t.Errorf("expected env db path, got %s", config.Database.Path)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level, got %s", config.Log.Level)
		}
	})

	t.Run("ApplyEnv From File", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("VIDX_API_URL=http://dotenv.example.com\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Setenv(EnvAPIURL, "")
		os.Unsetenv(EnvAPIURL)

		config := DefaultConfig()
		config.ApplyEnv(envPath)

		if config.API.BaseURL != "http://dotenv.example.com" {
			t.Errorf("expected base URL from .env, got %s", config.API.BaseURL)
		}
	})
}
