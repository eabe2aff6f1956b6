// Package state holds the client-side UI state that sits between views and the API services.
//
// # Optimistic Toggle
//
// [Toggle] drives like and subscribe buttons. [Toggle.Begin] checks preconditions locally, sets the loading flag
// and shows the optimistic guess; [Toggle.Resolve] performs the request and adopts the server's state, or restores
// the previous state on failure. [Toggle.Invoke] runs both.
//
// Local rejections never reach the network:
//   - [shared.ErrNotAuthenticated] : no session; a login prompt is sent to the [Notifier]
//   - [shared.ErrSelfAction] : subscribing to one's own channel
//   - [shared.ErrBusy] : a toggle is already in flight
//
// Counts are clamped at zero whatever the server or the guess says.
//
// # List Fetching
//
// [List] tracks a paginated list through the phases Idle, Loading, Error, Empty and Populated.
// Every fetch clears the previous error before it starts and clears the loading flag when it ends.
// Starting a fetch cancels the one in flight; a superseded response is discarded.
//
// # Debounce and Toasts
//
// [Debouncer] tags input changes so only the latest settled input issues a request.
// [Toasts] collects transient notifications with a time-to-live; [LogNotifier] routes them to a logger instead.
//
// All types are safe for concurrent use, since bubbletea commands run on their own goroutines.
package state
