package tasks

import (
	"fmt"

	"github.com/desertthunder/spx/internal/models"
)

// ProgressUpdate represents a progress event during a download run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current track number (1-based)
	Total   int    // Total tracks in this run
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data, e.g. a [models.DownloadOutcome]
}

// Operation phase enumeration
type Phase int

const (
	PrepareOutput Phase = iota
	DownloadTrack
	TrackDone
	Complete
)

func (p Phase) String() string {
	switch p {
	case PrepareOutput:
		return "prepare_output"
	case DownloadTrack:
		return "download_track"
	case TrackDone:
		return "track_done"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func prepareOutputUpdate(total int, dir string, existing int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrepareOutput,
		Total:   total,
		Message: fmt.Sprintf("Download directory %s (%d existing MP3 files)", dir, existing),
	}
}

func downloadTrackUpdate(step, total int, track models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, track.ArtistNames(", "), track.Title),
	}
}

func trackDoneUpdate(step, total int, outcome models.DownloadOutcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s", step, total, outcome.Status, outcome.Track.Title),
		Data:    outcome,
	}
}

func completeUpdate(total int, summary models.DownloadSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase: Complete,
		Step:  total,
		Total: total,
		Message: fmt.Sprintf("Finished: %d downloaded, %d skipped, %d failed, %d timed out",
			summary.Downloaded, summary.Skipped, summary.Failed, summary.TimedOut),
		Data: summary,
	}
}
