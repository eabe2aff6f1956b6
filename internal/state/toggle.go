package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/vidx/internal/shared"
)

// LoginPrompt is the notification shown when a toggle is attempted while signed out.
const LoginPrompt = "Please log in to continue"

// Status is the displayed state of a toggle: whether it is on and the counter next to it.
type Status struct {
	Active bool
	Count  int
}

// clamped returns s with a non-negative count.
func (s Status) clamped() Status {
	if s.Count < 0 {
		s.Count = 0
	}
	return s
}

// flipped returns the optimistic guess for toggling s.
func (s Status) flipped() Status {
	if s.Active {
		return Status{Active: false, Count: s.Count - 1}.clamped()
	}
	return Status{Active: true, Count: s.Count + 1}
}

// Identity reports who is signed in.
type Identity interface {
	Authenticated() bool
	UserID() string
}

// Action performs the toggle request and returns the server's authoritative state.
type Action func(ctx context.Context) (Status, error)

// Toggle is an optimistic like/subscribe control.
type Toggle struct {
	mu       sync.Mutex
	status   Status
	previous Status
	loading  bool

	identity Identity
	notifier Notifier
	action   Action
	targetID string // owner of the toggled resource, for the self-action guard
}

// NewToggle creates a toggle starting at initial. notifier may be nil.
func NewToggle(identity Identity, notifier Notifier, action Action, initial Status) *Toggle {
	return &Toggle{
		status:   initial.clamped(),
		identity: identity,
		notifier: notifier,
		action:   action,
	}
}

// GuardSelf rejects the toggle locally when the signed-in user's ID equals targetID.
func (t *Toggle) GuardSelf(targetID string) *Toggle {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.targetID = targetID
	return t
}

// Status returns the displayed state, which is the optimistic guess while a request is in flight.
func (t *Toggle) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Loading reports whether a request is in flight.
func (t *Toggle) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Set replaces the displayed state, e.g. after the parent resource is refetched. It is ignored while loading.
func (t *Toggle) Set(s Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loading {
		t.status = s.clamped()
	}
}

// Begin validates the toggle locally and shows the optimistic guess.
//
// It makes no request. On success the caller must follow with [Toggle.Resolve].
func (t *Toggle) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.identity == nil || !t.identity.Authenticated() {
		t.notify(LevelWarn, LoginPrompt)
		return shared.ErrNotAuthenticated
	}
	if t.targetID != "" && t.identity.UserID() == t.targetID {
		t.notify(LevelWarn, "You cannot subscribe to your own channel")
		return shared.ErrSelfAction
	}
	if t.loading {
		return shared.ErrBusy
	}

	t.loading = true
	t.previous = t.status
	t.status = t.status.flipped()
	return nil
}

// Resolve performs the request started by [Toggle.Begin].
//
// On success the server's state replaces the guess; on failure the pre-toggle state is restored and the error
// is sent to the notifier. The loading flag is cleared either way.
func (t *Toggle) Resolve(ctx context.Context) (status Status, err error) {
	t.mu.Lock()
	if !t.loading {
		t.mu.Unlock()
		return t.Status(), fmt.Errorf("%w: toggle was not started", shared.ErrInvalidInput)
	}
	t.mu.Unlock()

	var server Status
	completed := false
	defer func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.loading = false

		switch {
		case !completed:
			t.status = t.previous
		case err != nil:
			t.status = t.previous
			t.notify(LevelError, describe(err))
		default:
			t.status = server.clamped()
		}
		status = t.status
	}()

	server, err = t.action(ctx)
	completed = true
	return server, err
}

// Invoke runs [Toggle.Begin] then [Toggle.Resolve].
func (t *Toggle) Invoke(ctx context.Context) (Status, error) {
	if err := t.Begin(); err != nil {
		return t.Status(), err
	}
	return t.Resolve(ctx)
}

func (t *Toggle) notify(level Level, msg string) {
	if t.notifier != nil {
		t.notifier.Notify(level, msg)
	}
}

// describe turns an error into toast text.
func describe(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrTokenExpired):
		return LoginPrompt
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	default:
		return err.Error()
	}
}
