package repositories

import (
	"fmt"
	"sync"

	"github.com/desertthunder/vidx/internal/models"
)

// SessionStore implements services.TokenStore on top of [SessionRepository].
//
// The live session is read once at construction and kept in memory; writes go to the database first.
type SessionStore struct {
	repo    *SessionRepository
	mu      sync.RWMutex
	session models.Session
}

// NewSessionStore loads the live session, if any, from repo.
func NewSessionStore(repo *SessionRepository) (*SessionStore, error) {
	current, err := repo.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	store := &SessionStore{repo: repo}
	if current != nil {
		store.session = *current
	}
	return store, nil
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *SessionStore) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SetSession persists session as the only live session.
func (s *SessionStore) SetSession(session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(&session); err != nil {
		return err
	}
	s.session = session
	return nil
}

// Clear ends the live session.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Clear(); err != nil {
		return err
	}
	s.session = models.Session{}
	return nil
}

// VideoCacheAdapter implements tasks.VideoCacher using [VideoCacheRepository].
type VideoCacheAdapter struct {
	repo *VideoCacheRepository
}

// NewVideoCacheAdapter creates a new VideoCacheAdapter with the given repository
func NewVideoCacheAdapter(repo *VideoCacheRepository) *VideoCacheAdapter {
	return &VideoCacheAdapter{repo: repo}
}

// CacheVideo stores or refreshes v.
func (a *VideoCacheAdapter) CacheVideo(v models.Video) error {
	if err := a.repo.Upsert(models.NewCachedVideo(v)); err != nil {
		return fmt.Errorf("failed to cache video: %w", err)
	}
	return nil
}

// CachedTitles returns the titles of every cached video.
func (a *VideoCacheAdapter) CachedTitles() ([]string, error) {
	videos, err := a.repo.List(nil)
	if err != nil {
		return nil, err
	}

	titles := make([]string, len(videos))
	for i, v := range videos {
		titles[i] = v.Title
	}
	return titles, nil
}

// CachedVideos returns cached videos, optionally limited to one channel's username.
func (a *VideoCacheAdapter) CachedVideos(username string) ([]models.Video, error) {
	rows, err := a.repo.List(map[string]any{"owner_username": username})
	if err != nil {
		return nil, err
	}

	videos := make([]models.Video, len(rows))
	for i, row := range rows {
		videos[i] = row.Video()
	}
	return videos, nil
}
