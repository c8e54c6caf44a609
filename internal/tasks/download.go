package tasks

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/samber/lo"
)

// Policy decides what happens when a track's output file already exists.
type Policy string

const (
	PolicySkip   Policy = "skip"
	PolicyForce  Policy = "force"
	PolicyPrompt Policy = "prompt"
)

// Policies lists the supported overwrite policies.
var Policies = []Policy{PolicySkip, PolicyForce, PolicyPrompt}

const (
	DefaultTimeout   = 20 * time.Second
	DefaultCommand   = "spotdl"
	defaultWaitDelay = 500 * time.Millisecond
)

// DefaultArgs is the spotDL argument template. spotDL expands its own {output-ext}, so the path is
// passed without an extension.
var DefaultArgs = []string{"download", "{url}", "--output", "{stem}.{output-ext}"}

var (
	successKeywords = []string{"saved", "converting", "found", "skipping"}
	failureKeywords = []string{"error", "failed", "not found", "skipping"}
)

// ParsePolicy validates an overwrite policy name.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Policies, p) {
		return "", fmt.Errorf("%w: --overwrite must be skip, force or prompt, got %q", shared.ErrInvalidFlag, s)
	}
	return p, nil
}

// Prompter asks the user whether an existing file should be replaced.
type Prompter interface {
	ConfirmOverwrite(ctx context.Context, path string) (bool, error)
}

// OutcomeRecorder is an optional sink for per-track outcomes, e.g. a download history table.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, outcome models.DownloadOutcome) error
}

// DownloadOpts configures a download run.
//
// Args may contain the placeholders {url}, {output} and {stem}; they are replaced per track with the
// Spotify URL, the absolute output path and that path without its extension. Other braces pass
// through untouched.
type DownloadOpts struct {
	OutputDir string
	Timeout   time.Duration
	Overwrite Policy
	Command   string
	Args      []string
	Prompter  Prompter // required for [PolicyPrompt]; nil declines every overwrite
}

func (o DownloadOpts) withDefaults() DownloadOpts {
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Overwrite == "" {
		o.Overwrite = PolicySkip
	}
	if o.Command == "" {
		o.Command = DefaultCommand
	}
	if len(o.Args) == 0 {
		o.Args = DefaultArgs
	}
	return o
}

// Downloader runs the external downloader once per track.
type Downloader struct {
	logger    *log.Logger
	recorder  OutcomeRecorder
	waitDelay time.Duration
}

// NewDownloader creates a [Downloader]. recorder may be nil.
func NewDownloader(logger *log.Logger, recorder OutcomeRecorder) *Downloader {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Downloader{logger: logger, recorder: recorder, waitDelay: defaultWaitDelay}
}

// CheckDownloader verifies that command resolves to an executable and returns its path.
func CheckDownloader(command string) (string, error) {
	if command == "" {
		command = DefaultCommand
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("%w: downloader %q not found (install it with: pip install spotdl): %v",
			shared.ErrServiceUnavailable, command, err)
	}
	return path, nil
}

// DownloadAll processes tracks sequentially in playlist order and returns one outcome per processed track.
//
// Per-track failures are reported in the outcomes. The returned error is non-nil only when the output
// directory cannot be prepared or ctx is cancelled; outcomes gathered before cancellation are still returned.
func (d *Downloader) DownloadAll(ctx context.Context, progress chan<- ProgressUpdate, tracks models.TrackList, opts DownloadOpts) ([]models.DownloadOutcome, error) {
	opts = opts.withDefaults()

	dir, err := prepareOutputDir(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	opts.OutputDir = dir

	total := len(tracks)
	existing := countAudioFiles(dir)
	d.logger.Info("download directory ready", "dir", dir, "existing_mp3", existing, "overwrite", opts.Overwrite)
	sendProgress(progress, prepareOutputUpdate(total, dir, existing))

	d.logger.Info("starting downloads", "tracks", total, "timeout", opts.Timeout)

	names := PlanOutputs(tracks)
	outcomes := make([]models.DownloadOutcome, 0, total)

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return outcomes, fmt.Errorf("download run cancelled: %w", err)
		}

		step := i + 1
		sendProgress(progress, downloadTrackUpdate(step, total, track))

		outcome := d.downloadOne(ctx, track, filepath.Join(dir, names[i]), opts)
		d.logOutcome(step, total, outcome)
		d.record(ctx, outcome)

		outcomes = append(outcomes, outcome)
		sendProgress(progress, trackDoneUpdate(step, total, outcome))
	}

	if err := ctx.Err(); err != nil {
		return outcomes, fmt.Errorf("download run cancelled: %w", err)
	}

	sendProgress(progress, completeUpdate(total, models.Summarize(outcomes)))
	return outcomes, nil
}

func (d *Downloader) downloadOne(ctx context.Context, track models.Track, path string, opts DownloadOpts) models.DownloadOutcome {
	start := time.Now()
	outcome := models.DownloadOutcome{Track: track, Path: path}

	if fileExists(path) {
		overwrite, err := d.shouldOverwrite(ctx, path, opts)
		if err != nil {
			d.logger.Warn("overwrite prompt failed, keeping existing file", "path", path, "error", err)
		}
		if !overwrite {
			outcome.Status = models.StatusSkippedExisting
			outcome.Elapsed = time.Since(start)
			return outcome
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, opts.Command, expandArgs(opts.Args, track.URL, path)...)
	cmd.Dir = opts.OutputDir
	cmd.WaitDelay = d.waitDelay

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	outcome.Elapsed = time.Since(start)

	switch {
	case err == nil:
		outcome.Status = models.StatusDownloaded
		d.logOutput(output.Bytes(), successKeywords, false)
	case ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		outcome.Status = models.StatusTimedOut
		outcome.Err = fmt.Errorf("%w: no result after %s", shared.ErrTimeout, opts.Timeout)
	default:
		outcome.Status = models.StatusFailed
		outcome.Err = fmt.Errorf("%s: %w", opts.Command, err)
		d.logOutput(output.Bytes(), failureKeywords, true)
	}

	return outcome
}

func (d *Downloader) shouldOverwrite(ctx context.Context, path string, opts DownloadOpts) (bool, error) {
	switch opts.Overwrite {
	case PolicyForce:
		return true, nil
	case PolicyPrompt:
		if opts.Prompter == nil {
			return false, errors.New("no prompter configured")
		}
		return opts.Prompter.ConfirmOverwrite(ctx, path)
	default:
		return false, nil
	}
}

func (d *Downloader) record(ctx context.Context, outcome models.DownloadOutcome) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.RecordOutcome(ctx, outcome); err != nil {
		d.logger.Warn("failed to record download outcome", "track", outcome.Track.ID, "error", err)
	}
}

func (d *Downloader) logOutcome(step, total int, outcome models.DownloadOutcome) {
	logger := d.logger.With("track", fmt.Sprintf("%d/%d", step, total), "title", outcome.Track.Title)

	switch outcome.Status {
	case models.StatusDownloaded:
		logger.Info("downloaded", "elapsed", outcome.Elapsed.Round(time.Millisecond))
	case models.StatusSkippedExisting:
		logger.Info("skipped existing file", "path", filepath.Base(outcome.Path))
	case models.StatusTimedOut:
		logger.Warn("timed out, moving on", "error", outcome.Err)
	default:
		logger.Error("download failed", "error", outcome.Err)
	}
}

// logOutput echoes downloader output lines that mention any of keywords.
func (d *Downloader) logOutput(output []byte, keywords []string, failed bool) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		lower := strings.ToLower(line)
		if !lo.SomeBy(keywords, func(k string) bool { return strings.Contains(lower, k) }) {
			continue
		}
		if failed {
			d.logger.Info(line)
		} else {
			d.logger.Debug(line)
		}
	}
}

func expandArgs(template []string, url, output string) []string {
	stem := strings.TrimSuffix(output, filepath.Ext(output))
	r := strings.NewReplacer("{url}", url, "{output}", output, "{stem}", stem)
	return lo.Map(template, func(arg string, _ int) string { return r.Replace(arg) })
}

func prepareOutputDir(dir string) (string, error) {
	expanded, err := shared.ExpandPath(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return abs, nil
}

func countAudioFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return lo.CountBy(entries, func(e fs.DirEntry) bool {
		return !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), audioExt)
	})
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
