package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "~/.spx/spx.db" {
			t.Errorf("expected database path ~/.spx/spx.db, got %s", config.Database.Path)
		}

		if config.Downloads.TimeoutSeconds != 20 {
			t.Errorf("expected timeout 20, got %d", config.Downloads.TimeoutSeconds)
		}

		if config.Downloads.Overwrite != "skip" {
			t.Errorf("expected overwrite skip, got %s", config.Downloads.Overwrite)
		}

		if config.API.MaxRetries != 5 {
			t.Errorf("expected 5 retries, got %d", config.API.MaxRetries)
		}

		if config.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Errorf("expected spotify client_id your_spotify_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

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

		if config.Downloads.Command != DefaultConfig().Downloads.Command {
			t.Errorf("created config command doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[downloads]
output_dir = "/music"
timeout_seconds = 45
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Downloads.OutputDir != "/music" {
			t.Errorf("expected output dir /music, got %s", config.Downloads.OutputDir)
		}

		if config.Downloads.TimeoutSeconds != 45 {
			t.Errorf("expected timeout 45, got %d", config.Downloads.TimeoutSeconds)
		}

		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}

		t.Run("keeps defaults for omitted sections", func(t *testing.T) {
			if config.Downloads.Command != "spotdl" {
				t.Errorf("expected default command spotdl, got %s", config.Downloads.Command)
			}
			if config.API.BaseURL != "https://api.spotify.com/v1/" {
				t.Errorf("expected default base URL, got %s", config.API.BaseURL)
			}
		})
	})

	t.Run("LoadConfig with missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig with malformed file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[downloads\ntimeout_seconds = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfigOrDefault", func(t *testing.T) {
		config, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Downloads.Command != "spotdl" {
			t.Errorf("expected default config, got command %s", config.Downloads.Command)
		}
	})
}
