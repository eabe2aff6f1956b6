package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/vidx/internal/models"
)

func TestSessionRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if err := NewSessionRepository(db).Create(&models.Session{}); err == nil {
				t.Fatal("expected validation error for empty token")
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if err := NewSessionRepository(db).Create(&models.Session{Token: "tok"}); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			_, err := NewSessionRepository(db).Get("nonexistent-id")
			if !errors.Is(err, sql.ErrNoRows) {
				t.Fatalf("expected sql.ErrNoRows, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("Deleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSessionRepository(db)
			s := &models.Session{Token: "tok"}
			if err := repo.Create(s); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
			if err := repo.Delete(s.ID()); err != nil {
				t.Fatalf("failed to delete session: %v", err)
			}

			if err := repo.Update(s); err == nil {
				t.Fatal("expected error when updating deleted session")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("AlreadyDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSessionRepository(db)
			s := &models.Session{Token: "tok"}
			_ = repo.Create(s)
			_ = repo.Delete(s.ID())

			if err := repo.Delete(s.ID()); err == nil {
				t.Fatal("expected error when deleting twice")
			}
		})
	})

	t.Run("Store", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if _, err := NewSessionStore(NewSessionRepository(db)); err == nil {
				t.Fatal("expected error loading session from closed database")
			}
		})

		t.Run("SetSession Keeps Previous On Failure", func(t *testing.T) {
			db := setupTestDB(t)

			store, err := NewSessionStore(NewSessionRepository(db))
			if err != nil {
				t.Fatalf("NewSessionStore() error = %v", err)
			}
			_ = store.SetSession(models.Session{Token: "first"})
			db.Close()

			if err := store.SetSession(models.Session{Token: "second"}); err == nil {
				t.Fatal("expected error saving to closed database")
			}
			if store.Token() != "first" {
				t.Errorf("expected in-memory session to be unchanged, got %q", store.Token())
			}
		})
	})
}

func TestVideoCacheRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewVideoCacheRepository(db)
			if err := repo.Create(&models.CachedVideo{VideoID: "v1"}); err == nil {
				t.Fatal("expected validation error for missing title")
			}
			if err := repo.Create(&models.CachedVideo{Title: "t"}); err == nil {
				t.Fatal("expected validation error for missing video id")
			}
		})

		t.Run("DuplicateVideoID", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewVideoCacheRepository(db)
			if err := repo.Create(&models.CachedVideo{VideoID: "v1", Title: "A"}); err != nil {
				t.Fatalf("failed to create: %v", err)
			}
			if err := repo.Create(&models.CachedVideo{VideoID: "v1", Title: "B"}); err == nil {
				t.Fatal("expected unique constraint error")
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			err := NewVideoCacheRepository(db).Update(&models.CachedVideo{CacheID: "missing", VideoID: "v1", Title: "A"})
			if err == nil {
				t.Fatal("expected error when updating missing row")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if err := NewVideoCacheRepository(db).Delete("missing"); err == nil {
				t.Fatal("expected error when deleting missing row")
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if _, err := NewVideoCacheRepository(db).List(nil); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})
}
