package repositories

import (
	"context"

	"github.com/desertthunder/spx/internal/models"
)

// HistoryRecorder implements tasks.OutcomeRecorder using [DownloadRepository].
//
// Every outcome it records belongs to the same run.
type HistoryRecorder struct {
	repo  *DownloadRepository
	runID string
}

// NewHistoryRecorder creates a recorder that tags records with runID
func NewHistoryRecorder(repo *DownloadRepository, runID string) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, runID: runID}
}

// RunID returns the run the recorder writes to.
func (h *HistoryRecorder) RunID() string {
	return h.runID
}

// Counts tallies what the run has recorded so far, per status.
func (h *HistoryRecorder) Counts(ctx context.Context) (map[models.DownloadStatus]int, error) {
	return h.repo.CountByStatus(ctx, h.runID)
}

// RecordOutcome stores one download outcome.
func (h *HistoryRecorder) RecordOutcome(ctx context.Context, outcome models.DownloadOutcome) error {
	return h.repo.Create(ctx, models.NewDownloadRecord(h.runID, outcome))
}
