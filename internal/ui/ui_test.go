package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/server"
	"github.com/desertthunder/vidx/internal/services"
	"github.com/desertthunder/vidx/internal/state"
	"github.com/desertthunder/vidx/internal/tasks"
	tu "github.com/desertthunder/vidx/internal/testing"
)

func newTestModel(t *testing.T, sb *server.Sandbox) (*Model, *services.Client) {
	t.Helper()
	client := services.NewClient(tu.StartSandbox(t, sb), nil, nil)
	m := NewModel(context.Background(), client, tasks.NewEngine(client, nil), nil, Options{PageSize: 10})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, client
}

func press(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// runBatch executes cmd and feeds every resulting message back into the model.
func runBatch(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				m.Update(c())
			}
		}
		return
	}
	m.Update(msg)
}

func loadFeed(t *testing.T, m *Model) {
	t.Helper()
	m.Update(m.fetchFeed(false)())
	if m.feed.Phase() != state.PhasePopulated {
		t.Fatalf("expected feed to be populated, got %v (err %v)", m.feed.Phase(), m.feed.Err())
	}
}

func findVideo(t *testing.T, m *Model, title string) models.Video {
	t.Helper()
	for _, v := range m.feed.Items() {
		if v.Title == title {
			return v
		}
	}
	t.Fatalf("video %q not in feed", title)
	return models.Video{}
}

func signIn(t *testing.T, client *services.Client, username string) {
	t.Helper()
	res := client.Auth.Login(context.Background(), models.Credentials{Username: username, Password: "password"})
	if !res.Success {
		t.Fatalf("login failed: %s", res.Error)
	}
}

func toastMessages(m *Model) []string {
	var out []string
	for _, toast := range m.toasts.Active(time.Now()) {
		out = append(out, toast.Message)
	}
	return out
}

func TestModel(t *testing.T) {
	t.Run("explore feed", func(t *testing.T) {
		t.Run("shows a loading state before the first page", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())

			if !strings.Contains(m.View(), "Loading videos") {
				t.Errorf("expected loading message, got %q", m.View())
			}
		})

		t.Run("fills the list from the first page", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())
			loadFeed(t, m)

			if got := len(m.feedList.Items()); got != 5 {
				t.Errorf("expected 5 items, got %d", got)
			}
			if view := m.View(); !strings.Contains(view, "Sourdough for beginners") {
				t.Errorf("expected a seeded title in view, got %q", view)
			}
		})

		t.Run("shows the empty state", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSandbox())
			m.Update(m.fetchFeed(false)())

			if !strings.Contains(m.View(), "No videos found.") {
				t.Errorf("expected empty message, got %q", m.View())
			}
		})

		t.Run("drops results for a replaced feed", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())
			stale := m.fetchFeed(false)
			m.resetFeed("bike")

			m.Update(stale())

			if got := len(m.feedList.Items()); got != 0 {
				t.Errorf("expected stale results to be ignored, got %d items", got)
			}
		})

		t.Run("shows fetch errors", func(t *testing.T) {
			sb := server.NewSeededSandbox()
			sb.Fail("GET /videos/explore", server.Fault{Status: 500, Message: "explore is down"})
			m, _ := newTestModel(t, sb)
			m.Update(m.fetchFeed(false)())

			if !strings.Contains(m.View(), "Could not load videos") {
				t.Errorf("expected error view, got %q", m.View())
			}
		})
	})

	t.Run("search", func(t *testing.T) {
		t.Run("opens and closes the search view", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())

			m.Update(press("/"))
			if m.view != SearchView {
				t.Fatalf("expected search view, got %v", m.view)
			}

			m.Update(press("esc"))
			if m.view != ExploreView {
				t.Errorf("expected explore view, got %v", m.view)
			}
		})

		t.Run("fetches suggestions only once typing settles", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())
			m.Update(press("/"))
			for _, r := range "bike" {
				m.Update(press(string(r)))
			}
			if got := m.search.Value(); got != "bike" {
				t.Fatalf("expected input %q, got %q", "bike", got)
			}

			if _, cmd := m.Update(suggestTickMsg{tag: 1}); cmd != nil {
				t.Error("expected an early tick to be ignored")
			}

			_, cmd := m.Update(suggestTickMsg{tag: 4})
			if cmd == nil {
				t.Fatal("expected the settled tick to fetch suggestions")
			}
			m.Update(cmd())

			found := false
			for _, item := range m.suggestions.Items() {
				if string(item.(suggestionItem)) == "Bike repair basics" {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a bike suggestion, got %v", m.suggestions.Items())
			}
		})

		t.Run("ignores suggestions for older input", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())
			m.debounce.Mark()
			m.debounce.Mark()

			m.Update(suggestionsMsg{tag: 1, titles: []string{"stale"}})

			if got := len(m.suggestions.Items()); got != 0 {
				t.Errorf("expected no suggestions, got %d", got)
			}
		})

		t.Run("submitting replaces the feed with results", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())
			m.Update(press("/"))
			m.search.SetValue("sourdough")

			_, cmd := m.Update(press("enter"))
			runBatch(m, cmd)

			if m.view != ExploreView {
				t.Errorf("expected explore view, got %v", m.view)
			}
			if m.query != "sourdough" {
				t.Errorf("expected query to be set, got %q", m.query)
			}
			if got := len(m.feedList.Items()); got != 1 {
				t.Errorf("expected 1 result, got %d", got)
			}

			_, cmd = m.Update(press("esc"))
			runBatch(m, cmd)
			if m.query != "" {
				t.Errorf("expected query to be cleared, got %q", m.query)
			}
			if got := len(m.feedList.Items()); got != 5 {
				t.Errorf("expected explore feed back, got %d items", got)
			}
		})
	})

	t.Run("detail view", func(t *testing.T) {
		open := func(t *testing.T, m *Model, title string) {
			t.Helper()
			loadFeed(t, m)
			runBatch(m, m.openVideo(findVideo(t, m, title).ID))
			if m.video == nil {
				t.Fatalf("expected video to load, err %v", m.detailErr)
			}
		}

		t.Run("loads the video channel and comments", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())
			open(t, m, "Intro to Go concurrency")

			if m.view != DetailView {
				t.Errorf("expected detail view, got %v", m.view)
			}
			if m.channel.Username != "alice" {
				t.Errorf("expected alice's channel, got %q", m.channel.Username)
			}
			if got := m.comments.Len(); got != 1 {
				t.Errorf("expected 1 comment, got %d", got)
			}
			if view := m.View(); !strings.Contains(view, "Great explanation of select!") {
				t.Errorf("expected comment in view, got %q", view)
			}
		})

		t.Run("liking while signed out prompts without a request", func(t *testing.T) {
			sb := server.NewSeededSandbox()
			m, _ := newTestModel(t, sb)
			open(t, m, "Bike repair basics")

			m.Update(press("l"))

			if got := sb.Calls("POST /likes/toggle/v/{videoId}"); got != 0 {
				t.Errorf("expected no toggle request, got %d", got)
			}
			if got := toastMessages(m); len(got) != 1 || got[0] != state.LoginPrompt {
				t.Errorf("expected login prompt, got %v", got)
			}
		})

		t.Run("like shows the guess then the server state", func(t *testing.T) {
			m, client := newTestModel(t, server.NewSeededSandbox())
			signIn(t, client, "bob")
			open(t, m, "Intro to Go concurrency")

			if s := m.like.Status(); !s.Active || s.Count != 1 {
				t.Fatalf("expected liked with 1, got %+v", s)
			}

			_, cmd := m.Update(press("l"))
			if s := m.like.Status(); s.Active || s.Count != 0 || !m.like.Loading() {
				t.Errorf("expected optimistic unlike, got %+v loading=%v", s, m.like.Loading())
			}

			m.Update(cmd())
			if s := m.like.Status(); s.Active || s.Count != 0 || m.like.Loading() {
				t.Errorf("expected settled unlike, got %+v loading=%v", s, m.like.Loading())
			}
			if got := toastMessages(m); len(got) != 1 || got[0] != "Like removed" {
				t.Errorf("expected like removed toast, got %v", got)
			}
		})

		t.Run("failed like rolls back", func(t *testing.T) {
			sb := server.NewSeededSandbox()
			sb.Fail("POST /likes/toggle/v/{videoId}", server.Fault{Status: 500, Message: "likes are down"})
			m, client := newTestModel(t, sb)
			signIn(t, client, "alice")
			open(t, m, "Bike repair basics")

			_, cmd := m.Update(press("l"))
			m.Update(cmd())

			if s := m.like.Status(); s.Active || s.Count != 0 {
				t.Errorf("expected rollback, got %+v", s)
			}
			if got := toastMessages(m); len(got) != 1 || !strings.Contains(got[0], "likes are down") {
				t.Errorf("expected error toast, got %v", got)
			}
		})

		t.Run("subscribing to your own channel is refused", func(t *testing.T) {
			sb := server.NewSeededSandbox()
			m, client := newTestModel(t, sb)
			signIn(t, client, "alice")
			open(t, m, "Intro to Go concurrency")

			m.Update(press("s"))

			if got := sb.Calls("POST /subscriptions/c/{channelId}"); got != 0 {
				t.Errorf("expected no subscribe request, got %d", got)
			}
			if m.subscribe.Status().Active {
				t.Error("expected subscription state unchanged")
			}
		})

		t.Run("compose adds a comment", func(t *testing.T) {
			m, client := newTestModel(t, server.NewSeededSandbox())
			signIn(t, client, "bob")
			open(t, m, "Bike repair basics")

			m.Update(press("c"))
			if m.view != ComposeView {
				t.Fatalf("expected compose view, got %v", m.view)
			}

			m.compose.SetValue("Nice pacing")
			_, cmd := m.Update(press("enter"))
			if m.view != DetailView {
				t.Errorf("expected detail view, got %v", m.view)
			}
			m.Update(cmd())

			items := m.comments.Items()
			if len(items) == 0 || items[0].Content != "Nice pacing" {
				t.Errorf("expected new comment first, got %+v", items)
			}
		})

		t.Run("compose rejects blank comments", func(t *testing.T) {
			m, client := newTestModel(t, server.NewSeededSandbox())
			signIn(t, client, "bob")
			open(t, m, "Bike repair basics")

			m.Update(press("c"))
			m.compose.SetValue("   ")
			m.Update(press("enter"))

			if m.view != ComposeView {
				t.Errorf("expected to stay in compose view, got %v", m.view)
			}
			if got := toastMessages(m); len(got) != 1 || got[0] != "Comment cannot be empty" {
				t.Errorf("expected empty comment toast, got %v", got)
			}
		})

		t.Run("compose requires sign in", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())
			open(t, m, "Bike repair basics")

			m.Update(press("c"))

			if m.view != DetailView {
				t.Errorf("expected to stay in detail view, got %v", m.view)
			}
		})

		t.Run("esc returns to explore", func(t *testing.T) {
			m, _ := newTestModel(t, server.NewSeededSandbox())
			open(t, m, "Bike repair basics")

			m.Update(press("esc"))

			if m.view != ExploreView || m.video != nil || m.comments != nil {
				t.Errorf("expected detail state cleared, view %v", m.view)
			}
		})
	})
}
