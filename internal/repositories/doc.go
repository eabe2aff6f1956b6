// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [SessionRepository] : sign-in sessions; at most one is live, logout soft-deletes it
//   - [VideoCacheRepository] : videos seen in API responses, keyed by the API's video ID
//
// Adapters connect the repositories to the packages that consume them without import cycles:
//   - [SessionStore] : implements services.TokenStore so the bearer token survives restarts
//   - [VideoCacheAdapter] : implements tasks.VideoCacher and feeds cached titles to search suggestions
//
// Sequence numbers provide stable insertion ordering independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
