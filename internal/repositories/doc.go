// Package repositories implements SQLite persistence for download history.
//
// [DownloadRepository] stores one row per processed track in the downloads table created by the embedded
// migrations in package shared. Rows of one CLI invocation share a run ID.
//
// [HistoryRecorder] adapts the repository to tasks.OutcomeRecorder so a download run can persist outcomes as
// they happen.
package repositories
