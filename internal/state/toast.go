package state

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// DefaultToastTTL is how long a toast stays visible.
const DefaultToastTTL = 3 * time.Second

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(level Level, message string)
}

// Toast is a single transient notification.
type Toast struct {
	Level   Level
	Message string
	Expires time.Time
}

// Toasts is a [Notifier] that keeps notifications until they expire.
type Toasts struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items []Toast
}

// NewToasts creates a toast list. A non-positive ttl uses [DefaultToastTTL].
func NewToasts(ttl time.Duration) *Toasts {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Toasts{ttl: ttl, now: time.Now}
}

// Notify implements [Notifier].
func (t *Toasts) Notify(level Level, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, Toast{Level: level, Message: message, Expires: t.now().Add(t.ttl)})
}

// Active returns the toasts that have not expired at now, oldest first, and drops the rest.
func (t *Toasts) Active(now time.Time) []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	live := t.items[:0]
	for _, toast := range t.items {
		if now.Before(toast.Expires) {
			live = append(live, toast)
		}
	}
	t.items = live

	out := make([]Toast, len(live))
	copy(out, live)
	return out
}

// TTL returns how long each toast is shown.
func (t *Toasts) TTL() time.Duration {
	return t.ttl
}

// LogNotifier writes notifications to a logger. The CLI uses it where there is no screen to draw toasts on.
type LogNotifier struct {
	Logger *log.Logger
}

// Notify implements [Notifier].
func (n LogNotifier) Notify(level Level, message string) {
	switch level {
	case LevelError:
		n.Logger.Error(message)
	case LevelWarn:
		n.Logger.Warn(message)
	default:
		n.Logger.Info(message)
	}
}
