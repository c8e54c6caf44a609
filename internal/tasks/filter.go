package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/samber/lo"
)

// DateLayout is the accepted format of --added-after.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --added-after must be YYYY-MM-DD, got %q", shared.ErrInvalidFlag, s)
	}
	return d, nil
}

// FilterAddedAfter returns the tracks whose UTC added date is strictly after the boundary's calendar date.
//
// Tracks added on the boundary date itself, and tracks without an added date, are excluded. Order is preserved.
func FilterAddedAfter(tracks models.TrackList, boundary time.Time) models.TrackList {
	y, m, d := boundary.Date()
	nextDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	return lo.Filter(tracks, func(track models.Track, _ int) bool {
		return !track.AddedAt.IsZero() && !track.AddedAt.UTC().Before(nextDay)
	})
}
