package services

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

// PlaylistService reads public playlists from a music provider.
type PlaylistService interface {
	// PlaylistInfo retrieves basic playlist metadata.
	PlaylistInfo(ctx context.Context, playlistID string) (*models.PlaylistInfo, error)

	// FetchPlaylist retrieves every track of a playlist, in playlist order.
	FetchPlaylist(ctx context.Context, playlistID string) (models.TrackList, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// Connector authenticates against a provider and returns a ready [PlaylistService].
type Connector func(ctx context.Context, creds models.Credentials, config *shared.Config, logger *log.Logger) (PlaylistService, error)

// ConnectSpotify is the default [Connector], configured from the [api] section of config.
func ConnectSpotify(ctx context.Context, creds models.Credentials, config *shared.Config, logger *log.Logger) (PlaylistService, error) {
	return NewSpotifyService(ctx, creds, SpotifyOpts{
		BaseURL:           config.API.BaseURL,
		TokenURL:          config.API.TokenURL,
		RequestsPerSecond: config.API.RequestsPerSecond,
		MaxRetries:        config.API.MaxRetries,
		Logger:            logger,
	})
}

var playlistIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// ParsePlaylistID extracts the playlist ID from a Spotify URI, an open.spotify.com URL or a bare ID.
//
// Accepted forms:
//   - spotify:playlist:37i9dQZF1DXcBWIGoYBM5M
//   - https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc
//   - open.spotify.com/intl-de/playlist/37i9dQZF1DXcBWIGoYBM5M
//   - 37i9dQZF1DXcBWIGoYBM5M
func ParsePlaylistID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("%w: playlist URL or ID", shared.ErrMissingArgument)
	}

	id := s
	switch {
	case strings.HasPrefix(s, "spotify:"):
		parts := strings.Split(s, ":")
		if len(parts) != 3 || parts[1] != "playlist" {
			return "", fmt.Errorf("%w: not a playlist URI: %s", shared.ErrInvalidArgument, s)
		}
		id = parts[2]
	case strings.Contains(s, "spotify.com/"):
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		u, err := url.Parse(s)
		if err != nil {
			return "", fmt.Errorf("%w: invalid playlist URL %q: %v", shared.ErrInvalidArgument, input, err)
		}
		id = ""
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i+1 < len(segments); i++ {
			if segments[i] == "playlist" {
				id = segments[i+1]
				break
			}
		}
	}

	if !playlistIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: no playlist ID in %q", shared.ErrInvalidArgument, input)
	}
	return id, nil
}
