// package formatter renders track lists as plain URLs, JSON or CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/samber/lo"
)

// Mode selects an output format.
type Mode string

const (
	ModeURLs Mode = "urls"
	ModeJSON Mode = "json"
	ModeCSV  Mode = "csv"
)

// Modes lists the supported output formats in display order.
var Modes = []Mode{ModeURLs, ModeJSON, ModeCSV}

// CSVHeader is the first row of CSV output.
var CSVHeader = []string{"title", "artists", "album", "url", "added_at", "id"}

// ArtistSeparator joins multiple artists in CSV output.
const ArtistSeparator = "; "

// ParseMode validates a format name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Modes, m) {
		return "", fmt.Errorf("%w: %q (expected one of %s)", shared.ErrInvalidFormat, s, ModeNames())
	}
	return m, nil
}

// ModeNames returns the supported formats joined with "|".
func ModeNames() string {
	return strings.Join(lo.Map(Modes, func(m Mode, _ int) string { return string(m) }), "|")
}

// Format renders tracks in the given mode.
func Format(tracks models.TrackList, mode Mode) ([]byte, error) {
	switch mode {
	case ModeURLs:
		return ToURLs(tracks), nil
	case ModeJSON:
		return ToJSON(tracks)
	case ModeCSV:
		return ToCSV(tracks)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidFormat, mode)
	}
}

// ToURLs writes one track URL per line.
func ToURLs(tracks models.TrackList) []byte {
	var buf bytes.Buffer
	for _, track := range tracks {
		buf.WriteString(track.URL)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ToJSON writes tracks as an indented JSON array. An empty list is "[]".
func ToJSON(tracks models.TrackList) ([]byte, error) {
	if tracks == nil {
		tracks = models.TrackList{}
	}

	data, err := shared.MarshalJSON(tracks, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tracks: %w", err)
	}
	return append(data, '\n'), nil
}

// ToCSV writes [CSVHeader] followed by one row per track.
func ToCSV(tracks models.TrackList) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		var addedAt string
		if !track.AddedAt.IsZero() {
			addedAt = track.AddedAt.UTC().Format(time.RFC3339)
		}

		record := []string{
			track.Title,
			track.ArtistNames(ArtistSeparator),
			track.Album,
			track.URL,
			addedAt,
			track.ID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
