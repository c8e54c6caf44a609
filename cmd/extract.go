package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spx/internal/formatter"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/repositories"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/tasks"
	"github.com/desertthunder/spx/internal/ui"
	"github.com/urfave/cli/v3"
)

// extractOpts holds the validated flags of the root command.
type extractOpts struct {
	playlistID string
	mode       formatter.Mode
	download   bool
	urlsOnly   bool
	info       bool
	historyDB  string    // empty when history is disabled
	addedAfter time.Time // zero when --added-after is not set
	tasks.DownloadOpts
}

// parseExtractOpts validates flags and the playlist argument, falling back to config for download defaults.
// Nothing here touches the network.
func parseExtractOpts(cmd *cli.Command, config *shared.Config) (extractOpts, error) {
	opts := extractOpts{
		download: cmd.Bool("download"),
		urlsOnly: cmd.Bool("urls-only"),
		info:     cmd.Bool("info"),
	}
	if !cmd.Bool("no-history") {
		opts.historyDB = config.Database.Path
	}

	mode, err := formatter.ParseMode(cmd.String("format"))
	if err != nil {
		return opts, err
	}
	opts.mode = mode

	overwrite := cmd.String("overwrite")
	if !cmd.IsSet("overwrite") && config.Downloads.Overwrite != "" {
		overwrite = config.Downloads.Overwrite
	}
	policy, err := tasks.ParsePolicy(overwrite)
	if err != nil {
		return opts, err
	}

	timeout := time.Duration(cmd.Int("timeout")) * time.Second
	if !cmd.IsSet("timeout") && config.Downloads.TimeoutSeconds > 0 {
		timeout = time.Duration(config.Downloads.TimeoutSeconds) * time.Second
	}
	if timeout <= 0 {
		return opts, fmt.Errorf("%w: --timeout must be a positive number of seconds, got %d", shared.ErrInvalidFlag, cmd.Int("timeout"))
	}

	if s := cmd.String("added-after"); s != "" {
		if opts.addedAfter, err = tasks.ParseDate(s); err != nil {
			return opts, err
		}
	}

	if opts.playlistID, err = services.ParsePlaylistID(cmd.StringArg("playlist")); err != nil {
		return opts, err
	}

	outputDir := cmd.String("output-dir")
	if outputDir == "" {
		outputDir = config.Downloads.OutputDir
	}
	if outputDir == "" {
		outputDir = "."
	}

	opts.DownloadOpts = tasks.DownloadOpts{
		OutputDir: outputDir,
		Timeout:   timeout,
		Overwrite: policy,
		Command:   config.Downloads.Command,
		Args:      config.Downloads.Args,
	}
	return opts, nil
}

// Extract fetches a playlist and either prints it or downloads every track.
func (r *Runner) Extract(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	opts, err := parseExtractOpts(cmd, config)
	if err != nil {
		return err
	}

	creds, err := shared.LoadCredentials(shared.CredentialSources{
		EnvFile: cmd.String("env-file"),
		Getenv:  r.getenv,
		Config:  config,
	})
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "playlist", opts.playlistID)

	svc, err := r.connect(ctx, creds, config, logger)
	if err != nil {
		return err
	}

	if opts.info {
		info, err := svc.PlaylistInfo(ctx, opts.playlistID)
		if err != nil {
			return err
		}
		logger.Info("playlist", "name", info.Name, "owner", info.Owner, "tracks", info.TotalTracks, "url", info.URL)
	}

	tracks, err := svc.FetchPlaylist(ctx, opts.playlistID)
	if err != nil {
		return err
	}
	logger.Info("fetched playlist", "service", svc.Name(), "tracks", len(tracks))

	if !opts.addedAfter.IsZero() {
		tracks = tasks.FilterAddedAfter(tracks, opts.addedAfter)
		logger.Info("filtered by added date", "after", opts.addedAfter.Format(tasks.DateLayout), "kept", len(tracks))
	}

	if len(tracks) == 0 {
		return fmt.Errorf("%w: no tracks to process in playlist %s", shared.ErrTrackNotFound, opts.playlistID)
	}

	if !opts.download || opts.urlsOnly {
		return r.writeTracks(tracks, opts.mode)
	}

	if cmd.IsSet("format") {
		logger.Warn("--format is ignored when downloading; use --urls-only to print the list")
	}
	return r.download(ctx, tracks, opts)
}

func (r *Runner) writeTracks(tracks models.TrackList, mode formatter.Mode) error {
	data, err := formatter.Format(tracks, mode)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// download runs the external downloader over tracks and prints a summary. Per-track failures are
// reported in the summary and do not fail the command.
func (r *Runner) download(ctx context.Context, tracks models.TrackList, opts extractOpts) error {
	path, err := tasks.CheckDownloader(opts.Command)
	if err != nil {
		return err
	}
	r.logger.Debug("using downloader", "path", path)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runID := shared.GenerateID()
	recorder, closeHistory := r.historyRecorder(opts.historyDB, runID)
	defer closeHistory()

	downloadOpts := opts.DownloadOpts
	downloadOpts.Prompter = r.prompter
	if downloadOpts.Prompter == nil {
		downloadOpts.Prompter = ui.NewPrompter(r.input, r.errOutput, cancel)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.PrepareOutput:
				fmt.Fprintf(r.errOutput, "📁 %s\n", update.Message)
			case tasks.DownloadTrack:
				fmt.Fprintf(r.errOutput, "⬇  %s\n", update.Message)
			case tasks.Complete:
				fmt.Fprintf(r.errOutput, "\n✅ %s\n\n", update.Message)
			}
		}
	}()

	var outcomeRecorder tasks.OutcomeRecorder
	if recorder != nil {
		outcomeRecorder = recorder
	}

	downloader := tasks.NewDownloader(shared.WithLogger(r.logger, "run", runID[:8]), outcomeRecorder)
	outcomes, err := downloader.DownloadAll(ctx, progressCh, tracks, downloadOpts)
	close(progressCh)
	<-done

	if len(outcomes) > 0 {
		if werr := r.writePlain("%s", ui.RenderSummary(outcomes, downloadOpts.OutputDir)); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}

	if recorder != nil {
		r.logHistory(ctx, recorder)
	}
	return nil
}

// logHistory reports what the history database holds for the run, which can differ from the
// summary when recording failed.
func (r *Runner) logHistory(ctx context.Context, recorder *repositories.HistoryRecorder) {
	counts, err := recorder.Counts(ctx)
	if err != nil {
		r.logger.Warn("failed to read download history", "run", recorder.RunID(), "error", err)
		return
	}
	r.logger.Info("recorded download history",
		"run", recorder.RunID(),
		"downloaded", counts[models.StatusDownloaded],
		"skipped", counts[models.StatusSkippedExisting],
		"failed", counts[models.StatusFailed],
		"timed_out", counts[models.StatusTimedOut],
	)
}

// historyRecorder opens the history database. Any failure disables history for the run.
func (r *Runner) historyRecorder(path, runID string) (*repositories.HistoryRecorder, func()) {
	noop := func() {}
	if path == "" {
		return nil, noop
	}

	db, err := r.openHistory(path)
	if err != nil {
		r.logger.Warn("download history disabled", "error", err)
		return nil, noop
	}

	recorder := repositories.NewHistoryRecorder(repositories.NewDownloadRepository(db), runID)
	return recorder, func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("failed to close history database", "error", err)
		}
	}
}
