package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/spx/internal/models"
)

// RenderSummary renders the per-track results of a download run followed by counts per status.
func RenderSummary(outcomes []models.DownloadOutcome, outputDir string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.muted).
		Headers("#", "Track", "Status", "Time")

	for i, o := range outcomes {
		title := o.Track.Title
		if artists := o.Track.ArtistNames(", "); artists != "" {
			title = artists + " - " + title
		}
		t.Row(strconv.Itoa(i+1), title, styles.Status(o.Status), o.Elapsed.Round(100*time.Millisecond).String())
	}

	summary := models.Summarize(outcomes)

	var b strings.Builder
	b.WriteString(styles.title.Render("Download summary"))
	b.WriteString("\n")
	if len(outcomes) > 0 {
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s %d  %s %d  %s %d  %s %d  (total %d)\n",
		styles.ok.Render("downloaded"), summary.Downloaded,
		styles.muted.Render("skipped"), summary.Skipped,
		styles.err.Render("failed"), summary.Failed,
		styles.warn.Render("timed out"), summary.TimedOut,
		summary.Total,
	)
	fmt.Fprintf(&b, "Output directory: %s\n", outputDir)

	if summary.Failures() == 0 {
		return b.String()
	}
	for _, o := range outcomes {
		if o.Status.IsFailure() && o.Err != nil {
			fmt.Fprintf(&b, "%s %s: %v\n", styles.err.Render("✗"), o.Track.Title, o.Err)
		}
	}

	return b.String()
}

// RenderHistory renders stored download records, newest first as given.
func RenderHistory(records []models.DownloadRecord) string {
	if len(records) == 0 {
		return styles.muted.Render("No downloads recorded yet.") + "\n"
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.muted).
		Headers("When", "Track", "Status", "Run")

	for _, r := range records {
		title := r.Title
		if r.Artists != "" {
			title = r.Artists + " - " + title
		}
		t.Row(r.CreatedAt.Local().Format("2006-01-02 15:04"), title, styles.Status(r.Status), shortID(r.RunID))
	}

	return t.String() + "\n"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
