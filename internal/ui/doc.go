// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has four views:
//  1. [ExploreView] : Paginated video feed, or search results when a query is active
//  2. [DetailView] : A video with like and subscribe toggles and its comments
//  3. [SearchView] : Query input with debounced suggestions
//  4. [ComposeView] : Comment input
//
// Like and subscribe render their optimistic state as soon as the key is pressed and settle on the server's
// answer when the request returns. Lists show a spinner while loading and distinct error and empty states.
// Notifications appear as toasts under the active view until they expire.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, l, s, c, /, r, n, o, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
