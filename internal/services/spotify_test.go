package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

// trackJSON mirrors a playlist item's track object, including the track/episode flags the client decodes on.
func trackJSON(id, name, artist string) string {
	return fmt.Sprintf(`{"id":%q,"name":%q,"type":"track","track":true,"episode":false,"uri":"spotify:track:%s",`+
		`"artists":[{"id":"a-%s","name":%q}],"album":{"name":"Album %s"},`+
		`"external_urls":{"spotify":"https://open.spotify.com/track/%s"}}`,
		id, name, id, id, artist, id, id)
}

func itemJSON(addedAt, track string) string {
	return fmt.Sprintf(`{"added_at":%q,"track":%s}`, addedAt, track)
}

func pageJSON(next string, total int, items ...string) string {
	return fmt.Sprintf(`{"href":"","limit":2,"offset":0,"total":%d,"next":%q,"items":[%s]}`,
		total, next, strings.Join(items, ","))
}

// fakeSpotify serves the token endpoint at /token and the Web API under /v1/.
type fakeSpotify struct {
	*httptest.Server
	api      http.HandlerFunc
	apiCalls atomic.Int32
}

func newFakeSpotify(t *testing.T, api http.HandlerFunc) *fakeSpotify {
	t.Helper()
	f := &fakeSpotify{api: api}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"test-token","token_type":"bearer","expires_in":3600}`))
			return
		}
		f.apiCalls.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		f.api(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeSpotify) connect(t *testing.T, maxRetries int) *SpotifyService {
	t.Helper()
	srv, err := NewSpotifyService(context.Background(), models.Credentials{ClientID: "id", ClientSecret: "secret"}, SpotifyOpts{
		BaseURL:    f.URL + "/v1",
		TokenURL:   f.URL + "/token",
		MaxRetries: maxRetries,
		HTTPClient: f.Client(),
		Logger:     shared.NewLogger(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	return srv
}

func TestSpotifyService(t *testing.T) {
	t.Run("Name", func(t *testing.T) {
		srv := NewSpotifyServiceWithToken(&models.AccessToken{Token: "x"}, SpotifyOpts{Logger: shared.NewLogger(io.Discard)})
		if srv.Name() != "Spotify" {
			t.Errorf("expected service name 'Spotify', got %s", srv.Name())
		}
	})

	t.Run("NewSpotifyService with rejected credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := NewSpotifyService(context.Background(), models.Credentials{ClientID: "id", ClientSecret: "bad"}, SpotifyOpts{
			TokenURL:   server.URL,
			HTTPClient: server.Client(),
		})
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("FetchPlaylist", func(t *testing.T) {
		t.Run("preserves order across pages", func(t *testing.T) {
			var f *fakeSpotify
			f = newFakeSpotify(t, func(w http.ResponseWriter, r *http.Request) {
				if !strings.Contains(r.URL.Path, "/playlists/pl1/tracks") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("offset") == "2" {
					w.Write([]byte(pageJSON("", 3,
						itemJSON("2024-01-03T00:00:00Z", trackJSON("t3", "Third", "C")),
					)))
					return
				}
				next := f.URL + "/v1/playlists/pl1/tracks?offset=2&limit=2"
				w.Write([]byte(pageJSON(next, 3,
					itemJSON("2024-01-01T10:00:00Z", trackJSON("t1", "First", "A")),
					itemJSON("2024-01-02T10:00:00Z", trackJSON("t2", "Second", "B")),
				)))
			})

			tracks, err := f.connect(t, 0).FetchPlaylist(context.Background(), "pl1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(tracks) != 3 {
				t.Fatalf("expected 3 tracks, got %d", len(tracks))
			}
			for i, want := range []string{"t1", "t2", "t3"} {
				if tracks[i].ID != want {
					t.Errorf("position %d: expected %s, got %s", i, want, tracks[i].ID)
				}
			}
			if f.apiCalls.Load() != 2 {
				t.Errorf("expected 2 page requests, got %d", f.apiCalls.Load())
			}
		})

		t.Run("maps track fields", func(t *testing.T) {
			f := newFakeSpotify(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(pageJSON("", 1, itemJSON("2024-05-06T07:08:09Z", trackJSON("t1", "Song, With Comma", "Artist")))))
			})

			tracks, err := f.connect(t, 0).FetchPlaylist(context.Background(), "pl1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			got := tracks[0]
			if got.Title != "Song, With Comma" {
				t.Errorf("unexpected title %q", got.Title)
			}
			if len(got.Artists) != 1 || got.Artists[0] != "Artist" {
				t.Errorf("unexpected artists %v", got.Artists)
			}
			if got.Album != "Album t1" {
				t.Errorf("unexpected album %q", got.Album)
			}
			if got.URL != "https://open.spotify.com/track/t1" {
				t.Errorf("unexpected URL %q", got.URL)
			}
			if got.URI != "spotify:track:t1" {
				t.Errorf("unexpected URI %q", got.URI)
			}
			if !got.AddedAt.Equal(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)) {
				t.Errorf("unexpected added_at %v", got.AddedAt)
			}
		})

		t.Run("falls back to a constructed URL", func(t *testing.T) {
			f := newFakeSpotify(t, func(w http.ResponseWriter, r *http.Request) {
				track := `{"id":"t9","name":"No Link","type":"track","track":true,"episode":false,"artists":[{"name":"A"}],"album":{"name":"X"}}`
				w.Write([]byte(pageJSON("", 1, itemJSON("2024-01-01T00:00:00Z", track))))
			})

			tracks, err := f.connect(t, 0).FetchPlaylist(context.Background(), "pl1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tracks[0].URL != "https://open.spotify.com/track/t9" {
				t.Errorf("expected fallback URL, got %q", tracks[0].URL)
			}
		})

		t.Run("skips local and deleted tracks", func(t *testing.T) {
			f := newFakeSpotify(t, func(w http.ResponseWriter, r *http.Request) {
				local := `{"id":null,"name":"Local File","type":"track","track":true,"episode":false,"is_local":true,"artists":[],"album":{"name":""}}`
				w.Write([]byte(pageJSON("", 3,
					itemJSON("2024-01-01T00:00:00Z", local),
					itemJSON("2024-01-02T00:00:00Z", "null"),
					itemJSON("2024-01-03T00:00:00Z", trackJSON("t2", "Remote", "B")),
				)))
			})

			tracks, err := f.connect(t, 0).FetchPlaylist(context.Background(), "pl1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 1 || tracks[0].ID != "t2" {
				t.Errorf("expected only t2, got %+v", tracks)
			}
		})

		t.Run("retries after 429", func(t *testing.T) {
			var calls atomic.Int32
			f := newFakeSpotify(t, func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) == 1 {
					w.Header().Set("Retry-After", "0")
					w.WriteHeader(http.StatusTooManyRequests)
					w.Write([]byte(`{"error":{"status":429,"message":"API rate limit exceeded"}}`))
					return
				}
				w.Write([]byte(pageJSON("", 1, itemJSON("2024-01-01T00:00:00Z", trackJSON("t1", "One", "A")))))
			})

			tracks, err := f.connect(t, 5).FetchPlaylist(context.Background(), "pl1")
			if err != nil {
				t.Fatalf("expected 429 to be retried transparently, got %v", err)
			}
			if len(tracks) != 1 {
				t.Errorf("expected 1 track, got %d", len(tracks))
			}
			if calls.Load() != 2 {
				t.Errorf("expected 2 requests, got %d", calls.Load())
			}
		})

		t.Run("not found", func(t *testing.T) {
			f := newFakeSpotify(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":{"status":404,"message":"Resource not found"}}`))
			})

			_, err := f.connect(t, 0).FetchPlaylist(context.Background(), "missing")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}
		})

		t.Run("failure mid-pagination returns no partial result", func(t *testing.T) {
			var f *fakeSpotify
			f = newFakeSpotify(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("offset") == "2" {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(`{"error":{"status":500,"message":"Server error"}}`))
					return
				}
				next := f.URL + "/v1/playlists/pl1/tracks?offset=2&limit=2"
				w.Write([]byte(pageJSON(next, 4,
					itemJSON("2024-01-01T00:00:00Z", trackJSON("t1", "One", "A")),
					itemJSON("2024-01-01T00:00:00Z", trackJSON("t2", "Two", "B")),
				)))
			})

			tracks, err := f.connect(t, 0).FetchPlaylist(context.Background(), "pl1")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Error("server errors are not not-found errors")
			}
			if tracks != nil {
				t.Errorf("expected no tracks, got %d", len(tracks))
			}
		})
	})

	t.Run("PlaylistInfo", func(t *testing.T) {
		f := newFakeSpotify(t, func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/playlists/pl1") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"id":"pl1","name":"Road Trip","description":"Loud songs",` +
				`"owner":{"id":"u1","display_name":"Sam"},` +
				`"external_urls":{"spotify":"https://open.spotify.com/playlist/pl1"},` +
				`"tracks":{"href":"","limit":100,"offset":0,"total":42,"items":[]}}`))
		})

		info, err := f.connect(t, 0).PlaylistInfo(context.Background(), "pl1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if info.Name != "Road Trip" || info.Owner != "Sam" {
			t.Errorf("unexpected info %+v", info)
		}
		if info.TotalTracks != 42 {
			t.Errorf("expected 42 tracks, got %d", info.TotalTracks)
		}
		if info.URL != "https://open.spotify.com/playlist/pl1" {
			t.Errorf("unexpected URL %s", info.URL)
		}
	})
}
