package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/repositories"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/ui"
	"github.com/urfave/cli/v3"
)

// History lists the most recent download outcomes from the history database, or every outcome of
// one run when --run is set.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		return fmt.Errorf("%w: --limit must be positive, got %d", shared.ErrInvalidFlag, limit)
	}

	if config.Database.Path == "" {
		return fmt.Errorf("%w: download history is disabled (database.path is empty)", shared.ErrInvalidConfig)
	}

	db, err := r.openHistory(config.Database.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer db.Close()

	repo := repositories.NewDownloadRepository(db)
	var records []models.DownloadRecord
	if runID := cmd.String("run"); runID != "" {
		records, err = repo.ListByRun(ctx, runID)
	} else {
		records, err = repo.ListRecent(ctx, limit)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}
	return r.writePlain("%s", ui.RenderHistory(records))
}
