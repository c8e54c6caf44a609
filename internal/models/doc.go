// Package models defines the domain types shared by the spx pipeline.
//
// The pipeline moves these values from left to right:
//
//   - [Credentials] : client ID and secret, loaded once at startup
//   - [AccessToken] : bearer token from the client-credentials exchange, never refreshed mid-run
//   - [TrackList] : every [Track] in playlist order, optionally reduced by the date filter
//   - [DownloadOutcome] : per-track result of a download run
//
// [DownloadRecord] is the persisted form of a [DownloadOutcome] kept in the download history.
package models
