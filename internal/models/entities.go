package models

import (
	"fmt"
	"time"
)

// Session is the persisted sign-in state. Only one live session exists at a time.
type Session struct {
	SessionID string
	Sequence  int
	Token     string
	UserID    string
	Username  string
	Created   time.Time
	Deleted   *time.Time
}

func (s *Session) ID() string           { return s.SessionID }
func (s *Session) CreatedAt() time.Time { return s.Created }
func (s *Session) UpdatedAt() time.Time { return s.Created }

// Validate requires a token; sessions without one are represented by the zero value instead.
func (s *Session) Validate() error {
	if s.Token == "" {
		return fmt.Errorf("session token is required")
	}
	return nil
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool {
	return s.Token != ""
}

// CachedVideo is a local copy of a fetched video.
type CachedVideo struct {
	CacheID       string
	Sequence      int
	VideoID       string
	Title         string
	Description   string
	OwnerID       string
	OwnerUsername string
	Duration      int
	Views         int64
	PublishedAt   time.Time
	CachedAt      time.Time
}

func (c *CachedVideo) ID() string           { return c.CacheID }
func (c *CachedVideo) CreatedAt() time.Time { return c.PublishedAt }
func (c *CachedVideo) UpdatedAt() time.Time { return c.CachedAt }

func (c *CachedVideo) Validate() error {
	if c.VideoID == "" {
		return fmt.Errorf("video id is required")
	}
	if c.Title == "" {
		return fmt.Errorf("video title is required")
	}
	return nil
}

// NewCachedVideo converts an API video to its cached form.
func NewCachedVideo(v Video) *CachedVideo {
	return &CachedVideo{
		VideoID:       v.ID,
		Title:         v.Title,
		Description:   v.Description,
		OwnerID:       v.Owner.ID,
		OwnerUsername: v.Owner.Username,
		Duration:      v.DurationSeconds(),
		Views:         v.Views,
		PublishedAt:   v.CreatedAt,
	}
}

// Video converts the cached copy back to the API shape.
func (c *CachedVideo) Video() Video {
	return Video{
		ID:          c.VideoID,
		Title:       c.Title,
		Description: c.Description,
		Duration:    float64(c.Duration),
		Views:       c.Views,
		IsPublished: true,
		Owner:       Owner{ID: c.OwnerID, Username: c.OwnerUsername},
		CreatedAt:   c.PublishedAt,
	}
}
