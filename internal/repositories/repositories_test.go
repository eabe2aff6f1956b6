package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "sessions")
		if err != nil {
			t.Fatalf("NextSequence() error = %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}
}

func TestSessionRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		s := &models.Session{Token: "tok", UserID: "u1", Username: "alice"}

		if err := repo.Create(s); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if s.ID() == "" || s.Sequence != 1 {
			t.Errorf("expected ID and sequence 1, got %q %d", s.ID(), s.Sequence)
		}

		got, err := repo.Get(s.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if got.Token != "tok" || got.Username != "alice" {
			t.Errorf("unexpected session %+v", got)
		}
	})

	t.Run("Current Without Session", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		got, err := NewSessionRepository(db).Current()
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if got != nil {
			t.Errorf("expected no session, got %+v", got)
		}
	})

	t.Run("Save Replaces Live Session", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Save(&models.Session{Token: "first"}); err != nil {
			t.Fatalf("failed to save first session: %v", err)
		}
		if err := repo.Save(&models.Session{Token: "second"}); err != nil {
			t.Fatalf("failed to save second session: %v", err)
		}

		current, err := repo.Current()
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if current == nil || current.Token != "second" {
			t.Fatalf("expected second session to be live, got %+v", current)
		}

		live, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(live) != 1 {
			t.Errorf("expected 1 live session, got %d", len(live))
		}

		all, err := repo.List(map[string]any{"include_deleted": true})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 2 || all[1].Deleted == nil {
			t.Errorf("expected ended first session in history, got %+v", all)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		s := &models.Session{Token: "tok"}
		if err := repo.Create(s); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		s.UserID, s.Username = "u1", "alice"
		if err := repo.Update(s); err != nil {
			t.Fatalf("failed to update session: %v", err)
		}

		got, _ := repo.Get(s.ID())
		if got.Username != "alice" {
			t.Errorf("expected updated username, got %q", got.Username)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if err := repo.Save(&models.Session{Token: "tok"}); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 session cleared, got %d", n)
		}

		if current, _ := repo.Current(); current != nil {
			t.Errorf("expected no live session after clear, got %+v", current)
		}
	})
}

func TestSessionStore(t *testing.T) {
	t.Run("Persists Across Instances", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		store, err := NewSessionStore(NewSessionRepository(db))
		if err != nil {
			t.Fatalf("NewSessionStore() error = %v", err)
		}
		if store.Token() != "" {
			t.Error("expected empty token on fresh database")
		}

		if err := store.SetSession(models.Session{Token: "tok", UserID: "u1", Username: "alice"}); err != nil {
			t.Fatalf("SetSession() error = %v", err)
		}

		reopened, err := NewSessionStore(NewSessionRepository(db))
		if err != nil {
			t.Fatalf("NewSessionStore() error = %v", err)
		}
		if reopened.Token() != "tok" || reopened.Session().UserID != "u1" {
			t.Errorf("expected persisted session, got %+v", reopened.Session())
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		store, _ := NewSessionStore(NewSessionRepository(db))
		_ = store.SetSession(models.Session{Token: "tok"})

		if err := store.Clear(); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if store.Token() != "" {
			t.Error("expected token to be cleared")
		}

		reopened, _ := NewSessionStore(NewSessionRepository(db))
		if reopened.Token() != "" {
			t.Error("expected cleared session to stay cleared")
		}
	})
}

func newVideo(id, title, ownerID, username string) models.Video {
	return models.Video{
		ID:        id,
		Title:     title,
		Duration:  125.4,
		Views:     1000,
		Owner:     models.Owner{ID: ownerID, Username: username},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestVideoCacheRepository(t *testing.T) {
	t.Run("Upsert Inserts Then Refreshes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoCacheRepository(db)
		v := models.NewCachedVideo(newVideo("v1", "Original", "o1", "alice"))

		if err := repo.Upsert(v); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		firstID := v.ID()

		updated := models.NewCachedVideo(newVideo("v1", "Renamed", "o1", "alice"))
		if err := repo.Upsert(updated); err != nil {
			t.Fatalf("failed to refresh: %v", err)
		}
		if updated.ID() != firstID {
			t.Errorf("expected upsert to keep cache ID %s, got %s", firstID, updated.ID())
		}

		got, err := repo.GetByVideoID("v1")
		if err != nil {
			t.Fatalf("GetByVideoID() error = %v", err)
		}
		if got.Title != "Renamed" || got.Duration != 125 {
			t.Errorf("unexpected cached video %+v", got)
		}
		if !got.PublishedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("expected published time to round-trip, got %v", got.PublishedAt)
		}

		all, _ := repo.List(nil)
		if len(all) != 1 {
			t.Errorf("expected 1 cached row, got %d", len(all))
		}
	})

	t.Run("List Criteria", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoCacheRepository(db)
		for _, v := range []models.Video{
			newVideo("v1", "Go Basics", "o1", "alice"),
			newVideo("v2", "Advanced Go", "o1", "alice"),
			newVideo("v3", "Bread", "o2", "bob"),
		} {
			if err := repo.Upsert(models.NewCachedVideo(v)); err != nil {
				t.Fatalf("failed to cache %s: %v", v.ID, err)
			}
		}

		tc := []struct {
			name     string
			criteria map[string]any
			want     int
		}{
			{name: "all", criteria: nil, want: 3},
			{name: "by owner", criteria: map[string]any{"owner_id": "o1"}, want: 2},
			{name: "by username", criteria: map[string]any{"owner_username": "bob"}, want: 1},
			{name: "by query", criteria: map[string]any{"query": "go"}, want: 2},
			{name: "limit", criteria: map[string]any{"limit": 1}, want: 1},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.List(tt.criteria)
				if err != nil {
					t.Fatalf("List() error = %v", err)
				}
				if len(got) != tt.want {
					t.Errorf("expected %d videos, got %d", tt.want, len(got))
				}
			})
		}
	})

	t.Run("Delete And Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewVideoCacheRepository(db)
		a := models.NewCachedVideo(newVideo("v1", "A", "o1", "alice"))
		b := models.NewCachedVideo(newVideo("v2", "B", "o1", "alice"))
		_ = repo.Create(a)
		_ = repo.Create(b)

		if err := repo.Delete(a.ID()); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 row cleared, got %d", n)
		}
	})
}

func TestVideoCacheAdapter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	adapter := NewVideoCacheAdapter(NewVideoCacheRepository(db))

	for _, v := range []models.Video{
		newVideo("v1", "Go Basics", "o1", "alice"),
		newVideo("v1", "Go Basics", "o1", "alice"),
		newVideo("v2", "Bread", "o2", "bob"),
	} {
		if err := adapter.CacheVideo(v); err != nil {
			t.Fatalf("CacheVideo() error = %v", err)
		}
	}

	titles, err := adapter.CachedTitles()
	if err != nil {
		t.Fatalf("CachedTitles() error = %v", err)
	}
	if len(titles) != 2 {
		t.Errorf("expected duplicates to collapse into 2 titles, got %v", titles)
	}

	videos, err := adapter.CachedVideos("bob")
	if err != nil {
		t.Fatalf("CachedVideos() error = %v", err)
	}
	if len(videos) != 1 || videos[0].ID != "v2" {
		t.Errorf("expected bob's video, got %+v", videos)
	}
}
