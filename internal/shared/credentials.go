package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/desertthunder/spx/internal/models"
	"github.com/joho/godotenv"
)

var (
	clientIDKeys     = []string{"SPOTIFY_CLIENT_ID", "SPOTIFY-CLIENT-ID"}
	clientSecretKeys = []string{"SPOTIFY_CLIENT_SECRET", "SPOTIFY-CLIENT-SECRET"}
)

const placeholderPrefix = "your_"

// CredentialSources lists where [LoadCredentials] looks for the Spotify client ID and secret.
//
// Each value is resolved independently; the first non-empty source wins in field order.
type CredentialSources struct {
	EnvFile string              // .env file, skipped when empty or missing
	Getenv  func(string) string // process environment, defaults to [os.Getenv]
	Config  *Config             // config.toml credentials, may be nil
}

// LoadCredentials resolves the Spotify client credentials from a .env file, the process environment, and the config file.
func LoadCredentials(src CredentialSources) (models.Credentials, error) {
	if src.Getenv == nil {
		src.Getenv = os.Getenv
	}

	dotenv := map[string]string{}
	if src.EnvFile != "" {
		values, err := godotenv.Read(src.EnvFile)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return models.Credentials{}, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidConfig, src.EnvFile, err)
		}
	}

	var fromConfig SpotifyConfig
	if src.Config != nil {
		fromConfig = src.Config.Credentials.Spotify
	}

	creds := models.Credentials{
		ClientID:     resolve(clientIDKeys, dotenv, src.Getenv, fromConfig.ClientID),
		ClientSecret: resolve(clientSecretKeys, dotenv, src.Getenv, fromConfig.ClientSecret),
	}

	var missing []string
	if creds.ClientID == "" {
		missing = append(missing, clientIDKeys[0])
	}
	if creds.ClientSecret == "" {
		missing = append(missing, clientSecretKeys[0])
	}
	if len(missing) > 0 {
		return models.Credentials{}, fmt.Errorf("%w: set %s in .env, the environment, or config.toml",
			ErrMissingCredentials, strings.Join(missing, " and "))
	}

	return creds, nil
}

func resolve(keys []string, dotenv map[string]string, getenv func(string) string, fallback string) string {
	for _, key := range keys {
		if v := clean(dotenv[key]); v != "" {
			return v
		}
	}
	for _, key := range keys {
		if v := clean(getenv(key)); v != "" {
			return v
		}
	}
	return clean(fallback)
}

// clean trims whitespace and drops the example config's placeholder values.
func clean(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, placeholderPrefix) {
		return ""
	}
	return v
}
