// package models defines the data model for the playlist extractor
package models

import (
	"fmt"
	"strings"
	"time"
)

// Credentials holds the Spotify application client ID and secret.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// AccessToken is an application-level bearer token from the client-credentials flow.
type AccessToken struct {
	Token  string
	Expiry time.Time
}

// Track is a single playlist entry.
type Track struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Artists []string  `json:"artists"`
	Album   string    `json:"album"`
	URL     string    `json:"url"`
	URI     string    `json:"uri,omitempty"`
	AddedAt time.Time `json:"added_at,omitzero"`
}

// ArtistNames joins the track's artists with sep.
func (t Track) ArtistNames(sep string) string {
	return strings.Join(t.Artists, sep)
}

// TrackList is an ordered sequence of tracks in playlist order.
type TrackList []Track

// PlaylistInfo is basic playlist metadata.
type PlaylistInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner"`
	TotalTracks int    `json:"total_tracks"`
	URL         string `json:"url,omitempty"`
}

// DownloadStatus is the result of processing a single track.
type DownloadStatus int

const (
	StatusSkippedExisting DownloadStatus = iota
	StatusDownloaded
	StatusFailed
	StatusTimedOut
)

func (s DownloadStatus) String() string {
	switch s {
	case StatusSkippedExisting:
		return "skipped_existing"
	case StatusDownloaded:
		return "downloaded"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed_out"
	default:
		return ""
	}
}

// IsFailure reports whether the status counts against the run.
func (s DownloadStatus) IsFailure() bool {
	return s == StatusFailed || s == StatusTimedOut
}

// ParseDownloadStatus is the inverse of [DownloadStatus.String].
func ParseDownloadStatus(s string) (DownloadStatus, bool) {
	for _, status := range []DownloadStatus{StatusSkippedExisting, StatusDownloaded, StatusFailed, StatusTimedOut} {
		if status.String() == s {
			return status, true
		}
	}
	return 0, false
}

// MarshalText encodes the status by name, so JSON output reads "downloaded" rather than 1.
func (s DownloadStatus) MarshalText() ([]byte, error) {
	if s.String() == "" {
		return nil, fmt.Errorf("unknown download status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *DownloadStatus) UnmarshalText(text []byte) error {
	status, ok := ParseDownloadStatus(string(text))
	if !ok {
		return fmt.Errorf("unknown download status %q", text)
	}
	*s = status
	return nil
}

// DownloadOutcome records what happened to one track during a download run.
type DownloadOutcome struct {
	Track   Track
	Status  DownloadStatus
	Path    string        // Expected output file
	Err     error         // Cause for failed and timed out tracks
	Elapsed time.Duration // Wall time spent in the downloader
}

// DownloadSummary counts outcomes per status.
type DownloadSummary struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
	TimedOut   int
}

// Summarize tallies outcomes.
func Summarize(outcomes []DownloadOutcome) DownloadSummary {
	summary := DownloadSummary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusDownloaded:
			summary.Downloaded++
		case StatusSkippedExisting:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		case StatusTimedOut:
			summary.TimedOut++
		}
	}
	return summary
}

// Failures is the number of failed and timed out tracks.
func (s DownloadSummary) Failures() int {
	return s.Failed + s.TimedOut
}

// DownloadRecord is a persisted [DownloadOutcome].
type DownloadRecord struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id"`
	TrackID   string         `json:"track_id"`
	Title     string         `json:"title"`
	Artists   string         `json:"artists"`
	URL       string         `json:"url"`
	Path      string         `json:"path"`
	Status    DownloadStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	Elapsed   time.Duration  `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewDownloadRecord builds a record for the given run from an outcome.
func NewDownloadRecord(runID string, o DownloadOutcome) *DownloadRecord {
	record := &DownloadRecord{
		RunID:     runID,
		TrackID:   o.Track.ID,
		Title:     o.Track.Title,
		Artists:   o.Track.ArtistNames(", "),
		URL:       o.Track.URL,
		Path:      o.Path,
		Status:    o.Status,
		Elapsed:   o.Elapsed,
		CreatedAt: time.Now().UTC(),
	}
	if o.Err != nil {
		record.Error = o.Err.Error()
	}
	return record
}
