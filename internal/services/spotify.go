// Spotify Web API implementation of [PlaylistService]
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/samber/lo"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const (
	spotifyBaseURL     = "https://api.spotify.com/v1/"
	spotifyTrackURL    = "https://open.spotify.com/track/"
	spotifyPlaylistURL = "https://open.spotify.com/playlist/"
	playlistPageSize   = 100
)

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	BaseURL           string       // API root, defaults to https://api.spotify.com/v1/
	TokenURL          string       // accounts token endpoint
	RequestsPerSecond float64      // zero disables pacing
	MaxRetries        int          // retries for HTTP 429; zero disables retrying
	HTTPClient        *http.Client // base client for both token and API calls
	Logger            *log.Logger
}

// SpotifyService implements [PlaylistService] on top of the zmb3/spotify client.
type SpotifyService struct {
	client *spotify.Client
	logger *log.Logger
}

// NewSpotifyService authenticates with the client-credentials flow and returns a service bound to the token.
func NewSpotifyService(ctx context.Context, creds models.Credentials, opts SpotifyOpts) (*SpotifyService, error) {
	token, err := Authenticate(ctx, creds, AuthOpts{TokenURL: opts.TokenURL, HTTPClient: opts.HTTPClient})
	if err != nil {
		return nil, err
	}
	return NewSpotifyServiceWithToken(token, opts), nil
}

// NewSpotifyServiceWithToken builds a service that sends token with every request.
func NewSpotifyServiceWithToken(token *models.AccessToken, opts SpotifyOpts) *SpotifyService {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	var base http.RoundTripper
	if opts.HTTPClient != nil {
		base = opts.HTTPClient.Transport
	}

	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: token.Token,
				TokenType:   "Bearer",
				Expiry:      token.Expiry,
			}),
			Base: newAPITransport(base, opts.RequestsPerSecond, opts.MaxRetries, logger),
		},
	}

	return &SpotifyService{
		client: spotify.New(httpClient, spotify.WithBaseURL(baseURL)),
		logger: logger,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// PlaylistInfo retrieves the playlist's name, owner and track count.
func (s *SpotifyService) PlaylistInfo(ctx context.Context, playlistID string) (*models.PlaylistInfo, error) {
	playlist, err := s.client.GetPlaylist(ctx, spotify.ID(playlistID))
	if err != nil {
		return nil, wrapAPIError(playlistID, err)
	}

	owner := playlist.Owner.DisplayName
	if owner == "" {
		owner = playlist.Owner.ID
	}

	url := playlist.ExternalURLs["spotify"]
	if url == "" {
		url = spotifyPlaylistURL + playlistID
	}

	return &models.PlaylistInfo{
		ID:          playlist.ID.String(),
		Name:        playlist.Name,
		Description: playlist.Description,
		Owner:       owner,
		TotalTracks: int(playlist.Tracks.Total),
		URL:         url,
	}, nil
}

// FetchPlaylist retrieves every track of the playlist, following next-page links until exhausted.
//
// A failure on any page aborts the fetch; no partial list is returned.
func (s *SpotifyService) FetchPlaylist(ctx context.Context, playlistID string) (models.TrackList, error) {
	logger := shared.WithLogger(s.logger, "playlist", playlistID)

	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(playlistPageSize))
	if err != nil {
		return nil, wrapAPIError(playlistID, err)
	}

	total := int(page.Total)
	logger.Info("fetching playlist tracks", "total", total)

	tracks := make(models.TrackList, 0, total)
	for {
		tracks = append(tracks, s.convertItems(page.Items)...)
		logger.Debug("retrieved page", "tracks", len(tracks), "total", total)

		err := s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, wrapAPIError(playlistID, err)
		}
	}

	return tracks, nil
}

// convertItems maps playlist items to tracks, dropping entries with no track object or ID.
func (s *SpotifyService) convertItems(items []spotify.PlaylistItem) models.TrackList {
	playable := lo.Filter(items, func(item spotify.PlaylistItem, _ int) bool {
		full := item.Track.Track
		if full == nil || full.ID == "" {
			s.logger.Debug("skipping item without track", "added_at", item.AddedAt)
			return false
		}
		return true
	})

	return lo.Map(playable, func(item spotify.PlaylistItem, _ int) models.Track {
		return s.convertTrack(item.Track.Track, item.AddedAt)
	})
}

func (s *SpotifyService) convertTrack(full *spotify.FullTrack, addedAt string) models.Track {
	id := full.ID.String()

	url := full.ExternalURLs["spotify"]
	if url == "" {
		url = spotifyTrackURL + id
		s.logger.Warn("track has no external URL, using fallback", "track", full.Name, "url", url)
	}

	var added time.Time
	if addedAt != "" {
		if t, err := time.Parse(time.RFC3339, addedAt); err == nil {
			added = t.UTC()
		} else {
			s.logger.Debug("unparseable added_at", "track", id, "value", addedAt)
		}
	}

	return models.Track{
		ID:    id,
		Title: full.Name,
		Artists: lo.Map(full.Artists, func(a spotify.SimpleArtist, _ int) string {
			return a.Name
		}),
		Album:   full.Album.Name,
		URL:     url,
		URI:     string(full.URI),
		AddedAt: added,
	}
}

// wrapAPIError converts a client error into [shared.ErrAPIRequest], adding [shared.ErrPlaylistNotFound] for 404s.
func wrapAPIError(playlistID string, err error) error {
	if status := errorStatus(err); status == http.StatusNotFound {
		return fmt.Errorf("%w: %w: %s", shared.ErrAPIRequest, shared.ErrPlaylistNotFound, playlistID)
	} else if status != 0 {
		return fmt.Errorf("%w: playlist %s: status %d: %v", shared.ErrAPIRequest, playlistID, status, err)
	}
	return fmt.Errorf("%w: playlist %s: %v", shared.ErrAPIRequest, playlistID, err)
}

func errorStatus(err error) int {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var apiErrPtr *spotify.Error
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Status
	}
	return 0
}
