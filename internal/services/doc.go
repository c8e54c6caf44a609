// Package services defines the [PlaylistService] interface for reading public playlists and implements it for Spotify.
//
// # Authentication
//
// [Authenticate] performs the OAuth2 client-credentials exchange. The resulting token is application-scoped:
// only public playlists are reachable and the token is never refreshed during a run.
//
// # Spotify Implementation
//
// [SpotifyService] wraps the zmb3/spotify client. Requests go through an HTTP transport stack of
//
//	oauth2.Transport (bearer token) -> apiTransport (rate limit, 429 backoff) -> base transport
//
// [SpotifyService.FetchPlaylist] walks every page of the playlist items endpoint and returns tracks in playlist order.
// Items without a track (deleted, local or podcast entries) are dropped.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAuthFailed] : token exchange rejected or malformed
//   - [shared.ErrAPIRequest] : any failed API call; the fetch is aborted with no partial result
//   - [shared.ErrPlaylistNotFound] : playlist ID not found (also matches ErrAPIRequest)
//   - [shared.ErrInvalidArgument] : playlist reference could not be parsed
//
// HTTP 429 is the only retried status. The transport sleeps for the Retry-After delay and tries again, up to
// the configured number of retries.
package services
