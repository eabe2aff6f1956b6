package state

import (
	"context"
	"slices"
	"sync"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// Phase is the rendering state of a [List].
type Phase int

const (
	PhaseIdle      Phase = iota // never fetched
	PhaseLoading                // a fetch is in flight
	PhaseError                  // the last fetch failed; terminal until retried
	PhaseEmpty                  // fetched, zero items
	PhasePopulated              // fetched, at least one item
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseEmpty:
		return "empty"
	case PhasePopulated:
		return "populated"
	default:
		return "idle"
	}
}

// Fetcher loads one page of a list. Pages are 1-indexed.
type Fetcher[T any] func(ctx context.Context, page int) (models.Page[T], error)

// List is a paginated list with a loading/error/empty/populated state machine.
type List[T any] struct {
	mu      sync.Mutex
	fetch   Fetcher[T]
	items   []T
	err     error
	loading bool
	fetched bool
	page    int
	hasMore bool

	gen    uint64
	cancel context.CancelFunc
}

// NewList creates an idle list backed by fetch.
func NewList[T any](fetch Fetcher[T]) *List[T] {
	return &List[T]{fetch: fetch}
}

// Fetch loads the first page, replacing any items.
//
// It returns [shared.ErrSuperseded] if another fetch started before this one finished; its result is then discarded.
func (l *List[T]) Fetch(ctx context.Context) error {
	return l.load(ctx, 1, false)
}

// FetchMore appends the next page. It does nothing when there is no next page or a fetch is in flight.
func (l *List[T]) FetchMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	next := l.page + 1
	l.mu.Unlock()

	return l.load(ctx, next, true)
}

func (l *List[T]) load(ctx context.Context, page int, appendItems bool) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.err = nil
	l.loading = true
	l.mu.Unlock()

	defer func() {
		cancel()
		l.mu.Lock()
		if gen == l.gen {
			l.loading = false
			l.cancel = nil
		}
		l.mu.Unlock()
	}()

	result, err := l.fetch(ctx, page)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return shared.ErrSuperseded
	}

	l.fetched = true
	if err != nil {
		l.err = err
		return err
	}

	if appendItems {
		l.items = append(l.items, result.Docs...)
	} else {
		l.items = slices.Clone(result.Docs)
	}
	l.page = max(result.Page, page)
	l.hasMore = result.HasNextPage
	return nil
}

// Cancel aborts the fetch in flight, if any. The list keeps its previous items.
func (l *List[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	l.loading = false
}

// Phase returns the current rendering state.
func (l *List[T]) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch {
	case l.loading:
		return PhaseLoading
	case l.err != nil:
		return PhaseError
	case !l.fetched:
		return PhaseIdle
	case len(l.items) == 0:
		return PhaseEmpty
	default:
		return PhasePopulated
	}
}

// Items returns a copy of the loaded items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Len returns the number of loaded items.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Err returns the error of the last fetch, or nil.
func (l *List[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Loading reports whether a fetch is in flight.
func (l *List[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// HasMore reports whether another page can be fetched.
func (l *List[T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Prepend inserts item at the front, e.g. a comment the user just posted.
func (l *List[T]) Prepend(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T{item}, l.items...)
	l.fetched = true
}

// Replace swaps the first item matching match for item and reports whether one was found.
func (l *List[T]) Replace(match func(T) bool, item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := slices.IndexFunc(l.items, match); i >= 0 {
		l.items[i] = item
		return true
	}
	return false
}

// Remove deletes every item matching match.
func (l *List[T]) Remove(match func(T) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = slices.DeleteFunc(l.items, match)
}
