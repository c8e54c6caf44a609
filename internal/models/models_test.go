package models

import (
	"errors"
	"testing"
	"time"
)

func TestDownloadStatus(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		tc := []struct {
			status DownloadStatus
			want   string
		}{
			{StatusSkippedExisting, "skipped_existing"},
			{StatusDownloaded, "downloaded"},
			{StatusFailed, "failed"},
			{StatusTimedOut, "timed_out"},
			{DownloadStatus(42), ""},
		}

		for _, tt := range tc {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		}
	})

	t.Run("ParseDownloadStatus round trips", func(t *testing.T) {
		for _, status := range []DownloadStatus{StatusSkippedExisting, StatusDownloaded, StatusFailed, StatusTimedOut} {
			got, ok := ParseDownloadStatus(status.String())
			if !ok {
				t.Fatalf("expected %s to parse", status)
			}
			if got != status {
				t.Errorf("expected %v, got %v", status, got)
			}
		}

		if _, ok := ParseDownloadStatus("exploded"); ok {
			t.Error("expected unknown status to be rejected")
		}
	})

	t.Run("IsFailure", func(t *testing.T) {
		if StatusDownloaded.IsFailure() || StatusSkippedExisting.IsFailure() {
			t.Error("downloaded and skipped tracks are not failures")
		}
		if !StatusFailed.IsFailure() || !StatusTimedOut.IsFailure() {
			t.Error("failed and timed out tracks are failures")
		}
	})
}

func TestSummarize(t *testing.T) {
	outcomes := []DownloadOutcome{
		{Status: StatusDownloaded},
		{Status: StatusDownloaded},
		{Status: StatusSkippedExisting},
		{Status: StatusFailed},
		{Status: StatusTimedOut},
	}

	summary := Summarize(outcomes)

	if summary.Total != 5 {
		t.Errorf("expected total 5, got %d", summary.Total)
	}
	if summary.Downloaded != 2 {
		t.Errorf("expected 2 downloaded, got %d", summary.Downloaded)
	}
	if summary.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", summary.Skipped)
	}
	if summary.Failures() != 2 {
		t.Errorf("expected 2 failures, got %d", summary.Failures())
	}
}

func TestNewDownloadRecord(t *testing.T) {
	outcome := DownloadOutcome{
		Track: Track{
			ID:      "4uLU6hMCjMI75M1A2tKUQC",
			Title:   "Never Gonna Give You Up",
			Artists: []string{"Rick Astley", "Guest"},
			URL:     "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
		},
		Status:  StatusTimedOut,
		Path:    "/music/Rick Astley, Guest - Never Gonna Give You Up.mp3",
		Err:     errors.New("deadline exceeded"),
		Elapsed: 2 * time.Second,
	}

	record := NewDownloadRecord("run-1", outcome)

	if record.RunID != "run-1" {
		t.Errorf("expected run ID run-1, got %s", record.RunID)
	}
	if record.Artists != "Rick Astley, Guest" {
		t.Errorf("expected joined artists, got %s", record.Artists)
	}
	if record.Error != "deadline exceeded" {
		t.Errorf("expected error message to be kept, got %q", record.Error)
	}
	if record.Status != StatusTimedOut {
		t.Errorf("expected timed out status, got %v", record.Status)
	}
	if record.CreatedAt.IsZero() {
		t.Error("expected creation time to be set")
	}
}

func TestDownloadStatusText(t *testing.T) {
	data, err := StatusTimedOut.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "timed_out" {
		t.Errorf("expected timed_out, got %s", data)
	}

	var s DownloadStatus
	if err := s.UnmarshalText([]byte("downloaded")); err != nil || s != StatusDownloaded {
		t.Errorf("expected downloaded, got %v (%v)", s, err)
	}

	if _, err := DownloadStatus(42).MarshalText(); err == nil {
		t.Error("expected unknown status to fail")
	}
}
