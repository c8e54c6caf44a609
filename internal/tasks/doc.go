// Package tasks holds the per-run pipeline steps between fetching a playlist and reporting results.
//
// # Track Filter
//
// [FilterAddedAfter] keeps tracks added on a calendar day strictly after a boundary date (UTC).
// Tracks with no added_at are dropped whenever the filter is active.
//
// # Downloads
//
// [Downloader.DownloadAll] hands tracks to an external downloader (spotDL by default), one process at a time,
// in playlist order:
//
//  1. The output filename comes from [PlanOutputs], which keeps names unique within a run.
//  2. An existing file is handled by the overwrite [Policy]: skip, force, or ask a [Prompter].
//  3. The process runs in the output directory under a per-track deadline. A deadline hit kills
//     the process and records [models.StatusTimedOut]; a non-zero exit records [models.StatusFailed].
//
// A failing track never stops the run. Only cancellation of the parent context does.
//
// # Progress Reporting
//
// Progress is reported over a non-blocking [ProgressUpdate] channel; updates are dropped when nobody is listening.
//
// # Outcome Recording
//
// The optional [OutcomeRecorder] interface persists each outcome as it happens.
// Recording errors are logged and otherwise ignored.
package tasks
