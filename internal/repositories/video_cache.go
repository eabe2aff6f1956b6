package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

const videoColumns = `id, sequence, video_id, title, description, owner_id, owner_username, duration, views, published_at, cached_at`

// VideoCacheRepository implements models.Repository[*models.CachedVideo].
//
// Rows are keyed by the API's video ID; caching a video twice refreshes the existing row.
type VideoCacheRepository struct {
	db *sql.DB
}

// NewVideoCacheRepository creates a new VideoCacheRepository with the given database connection
func NewVideoCacheRepository(db *sql.DB) *VideoCacheRepository {
	return &VideoCacheRepository{db: db}
}

// Create inserts a new cached video with generated ID and sequence
func (r *VideoCacheRepository) Create(v *models.CachedVideo) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "video_cache")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	v.CacheID = shared.GenerateID()
	v.Sequence = sequence
	v.CachedAt = time.Now()

	_, err = r.db.Exec(`
		INSERT INTO video_cache (`+videoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.CacheID, v.Sequence, v.VideoID, v.Title, v.Description, v.OwnerID, v.OwnerUsername,
		v.Duration, v.Views, nullTime(v.PublishedAt), v.CachedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cached video: %w", err)
	}
	return nil
}

// Get retrieves a cached video by its cache ID
func (r *VideoCacheRepository) Get(id string) (*models.CachedVideo, error) {
	return scanVideo(r.db.QueryRow(`SELECT `+videoColumns+` FROM video_cache WHERE id = ?`, id))
}

// GetByVideoID retrieves a cached video by the API's video ID
func (r *VideoCacheRepository) GetByVideoID(videoID string) (*models.CachedVideo, error) {
	return scanVideo(r.db.QueryRow(`SELECT `+videoColumns+` FROM video_cache WHERE video_id = ?`, videoID))
}

// Update refreshes the metadata of a cached video
func (r *VideoCacheRepository) Update(v *models.CachedVideo) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	v.CachedAt = time.Now()
	result, err := r.db.Exec(`
		UPDATE video_cache
		SET title = ?, description = ?, owner_id = ?, owner_username = ?, duration = ?, views = ?, published_at = ?, cached_at = ?
		WHERE id = ?
	`, v.Title, v.Description, v.OwnerID, v.OwnerUsername, v.Duration, v.Views, nullTime(v.PublishedAt), v.CachedAt, v.CacheID)
	if err != nil {
		return fmt.Errorf("failed to update cached video: %w", err)
	}
	return requireRow(result, "cached video", v.CacheID)
}

// Upsert inserts v or refreshes the row with the same video ID.
func (r *VideoCacheRepository) Upsert(v *models.CachedVideo) error {
	existing, err := r.GetByVideoID(v.VideoID)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if existing == nil {
		return r.Create(v)
	}

	v.CacheID = existing.CacheID
	v.Sequence = existing.Sequence
	return r.Update(v)
}

// Delete removes a cached video by cache ID. Cache rows are not soft-deleted.
func (r *VideoCacheRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM video_cache WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cached video: %w", err)
	}
	return requireRow(result, "cached video", id)
}

// Clear removes every cached video and reports how many were removed.
func (r *VideoCacheRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM video_cache`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear video cache: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves cached videos in insertion order.
//
// Supported criteria: "owner_id" and "owner_username" (exact), "query" (title substring, case-insensitive), "limit".
func (r *VideoCacheRepository) List(criteria map[string]any) ([]*models.CachedVideo, error) {
	query := `SELECT ` + videoColumns + ` FROM video_cache WHERE 1 = 1`
	args := []any{}

	if owner, ok := criteria["owner_id"].(string); ok && owner != "" {
		query += " AND owner_id = ?"
		args = append(args, owner)
	}
	if username, ok := criteria["owner_username"].(string); ok && username != "" {
		query += " AND owner_username = ?"
		args = append(args, username)
	}
	if q, ok := criteria["query"].(string); ok && strings.TrimSpace(q) != "" {
		query += " AND LOWER(title) LIKE ?"
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(q))+"%")
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query video cache: %w", err)
	}
	defer rows.Close()

	var videos []*models.CachedVideo
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return videos, nil
}

func scanVideo(row scanner) (*models.CachedVideo, error) {
	var (
		v           models.CachedVideo
		publishedAt sql.NullTime
	)

	err := row.Scan(&v.CacheID, &v.Sequence, &v.VideoID, &v.Title, &v.Description, &v.OwnerID,
		&v.OwnerUsername, &v.Duration, &v.Views, &publishedAt, &v.CachedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached video: %w", err)
	}
	if publishedAt.Valid {
		v.PublishedAt = publishedAt.Time
	}
	return &v, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
