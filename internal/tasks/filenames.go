package tasks

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/desertthunder/spx/internal/models"
)

const audioExt = ".mp3"

var unsafeNameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	`"`, "'", "<", "_", ">", "_", "|", "_", "{", "(", "}", ")",
)

// OutputFilename derives "{artists} - {title}.mp3" from track metadata, made safe for common filesystems.
func OutputFilename(track models.Track) string {
	title := strings.TrimSpace(track.Title)
	if title == "" {
		title = "Unknown Title"
	}

	name := title
	if artists := strings.TrimSpace(track.ArtistNames(", ")); artists != "" {
		name = artists + " - " + title
	}

	return sanitizeFilename(name) + audioExt
}

// PlanOutputs returns one filename per track, in order. Names that collide (case-insensitively) with an
// earlier track get the track ID appended.
func PlanOutputs(tracks models.TrackList) []string {
	names := make([]string, len(tracks))
	seen := make(map[string]bool, len(tracks))

	for i, track := range tracks {
		name := OutputFilename(track)
		if seen[strings.ToLower(name)] {
			suffix := track.ID
			if suffix == "" {
				suffix = fmt.Sprint(i + 1)
			}
			name = strings.TrimSuffix(name, audioExt) + " [" + sanitizeFilename(suffix) + "]" + audioExt
		}
		seen[strings.ToLower(name)] = true
		names[i] = name
	}

	return names
}

func sanitizeFilename(name string) string {
	name = unsafeNameChars.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	return strings.TrimRight(name, " .")
}
