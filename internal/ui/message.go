package ui

import (
	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/state"
)

// feedFetchedMsg reports a finished feed fetch. feed identifies which list it belongs to so results for a
// replaced feed are dropped.
type feedFetchedMsg struct {
	feed *state.List[models.Video]
	err  error
}

// videoFetchedMsg carries the detail view's video and its channel.
type videoFetchedMsg struct {
	video   models.Video
	channel models.Channel
	err     error
}

type commentsFetchedMsg struct {
	comments *state.List[models.Comment]
	err      error
}

type commentAddedMsg struct {
	comment models.Comment
	err     error
}

// toggledMsg reports a resolved like or subscribe toggle.
type toggledMsg struct {
	toggle *state.Toggle
	err    error
}

// suggestTickMsg fires when the search input may have settled.
type suggestTickMsg struct {
	tag uint64
}

type suggestionsMsg struct {
	tag    uint64
	titles []string
	err    error
}

// toastTickMsg forces a redraw so expired toasts disappear.
type toastTickMsg struct{}
