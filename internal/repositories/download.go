package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

// DownloadRepository persists [models.DownloadRecord] rows.
type DownloadRepository struct {
	db *sql.DB
}

// NewDownloadRepository creates a new DownloadRepository with the given database connection
func NewDownloadRepository(db *sql.DB) *DownloadRepository {
	return &DownloadRepository{db: db}
}

// Create inserts a record, assigning it a new ID.
func (r *DownloadRepository) Create(ctx context.Context, record *models.DownloadRecord) error {
	if err := checkDB(r.db); err != nil {
		return err
	}
	if record.RunID == "" || record.TrackID == "" {
		return fmt.Errorf("%w: download record needs a run ID and track ID", shared.ErrInvalidArgument)
	}
	if record.Status.String() == "" {
		return fmt.Errorf("%w: unknown status %d", shared.ErrInvalidArgument, int(record.Status))
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	record.ID = shared.GenerateID()

	query := `
		INSERT INTO downloads (id, run_id, track_id, title, artists, url, path, status, error, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.RunID,
		record.TrackID,
		record.Title,
		record.Artists,
		record.URL,
		record.Path,
		record.Status.String(),
		record.Error,
		record.Elapsed.Milliseconds(),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	return nil
}

// ListRecent returns up to limit records, newest first. A non-positive limit uses [DefaultHistoryLimit].
func (r *DownloadRepository) ListRecent(ctx context.Context, limit int) ([]models.DownloadRecord, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `
		SELECT id, run_id, track_id, title, artists, url, path, status, error, elapsed_ms, created_at
		FROM downloads
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	return r.query(ctx, query, limit)
}

// ListByRun returns the records of one run in insertion order.
func (r *DownloadRepository) ListByRun(ctx context.Context, runID string) ([]models.DownloadRecord, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}

	query := `
		SELECT id, run_id, track_id, title, artists, url, path, status, error, elapsed_ms, created_at
		FROM downloads
		WHERE run_id = ?
		ORDER BY rowid
	`

	return r.query(ctx, query, runID)
}

// CountByStatus tallies the records of one run per status.
func (r *DownloadRepository) CountByStatus(ctx context.Context, runID string) (map[models.DownloadStatus]int, error) {
	if err := checkDB(r.db); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM downloads WHERE run_id = ? GROUP BY status", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count downloads: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.DownloadStatus]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		status, ok := models.ParseDownloadStatus(name)
		if !ok {
			return nil, fmt.Errorf("unknown status %q in downloads table", name)
		}
		counts[status] = n
	}

	return counts, rows.Err()
}

func (r *DownloadRepository) query(ctx context.Context, query string, args ...any) ([]models.DownloadRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	var records []models.DownloadRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read downloads: %w", err)
	}

	return records, nil
}

// scanRecord scans the current row of rows into a [models.DownloadRecord]
func scanRecord(rows *sql.Rows) (*models.DownloadRecord, error) {
	var record models.DownloadRecord
	var status string
	var elapsedMS int64

	err := rows.Scan(
		&record.ID,
		&record.RunID,
		&record.TrackID,
		&record.Title,
		&record.Artists,
		&record.URL,
		&record.Path,
		&status,
		&record.Error,
		&elapsedMS,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan download: %w", err)
	}

	parsed, ok := models.ParseDownloadStatus(status)
	if !ok {
		return nil, fmt.Errorf("unknown status %q in downloads table", status)
	}
	record.Status = parsed
	record.Elapsed = time.Duration(elapsedMS) * time.Millisecond

	return &record, nil
}
