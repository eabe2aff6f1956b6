package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vidx/internal/models"
	"github.com/desertthunder/vidx/internal/shared"
)

const sessionColumns = `id, sequence, token, user_id, username, created_at, deleted_at`

// SessionRepository implements models.Repository[*models.Session].
//
// At most one session is live. Logging out soft-deletes it, keeping a record of past sign-ins.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new [models.Session] with generated ID and sequence
func (r *SessionRepository) Create(s *models.Session) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if s.Created.IsZero() {
		s.Created = time.Now()
	}
	s.SessionID = shared.GenerateID()
	s.Sequence = sequence

	_, err = r.db.Exec(`
		INSERT INTO sessions (id, sequence, token, user_id, username, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.SessionID, s.Sequence, s.Token, s.UserID, s.Username, s.Created)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID, including soft-deleted sessions
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	return scanSession(r.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
}

// Current returns the live session, or nil when signed out.
func (r *SessionRepository) Current() (*models.Session, error) {
	s, err := scanSession(r.db.QueryRow(`
		SELECT ` + sessionColumns + ` FROM sessions
		WHERE deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// Update rewrites the token and user of a live session
func (r *SessionRepository) Update(s *models.Session) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := r.db.Exec(`
		UPDATE sessions SET token = ?, user_id = ?, username = ?
		WHERE id = ? AND deleted_at IS NULL
	`, s.Token, s.UserID, s.Username, s.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return requireRow(result, "session", s.SessionID)
}

// Delete soft-deletes a session by ID
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE sessions SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return requireRow(result, "session", id)
}

// Save replaces the live session with s in a single transaction.
func (r *SessionRepository) Save(s *models.Session) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "sessions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE sessions SET deleted_at = ? WHERE deleted_at IS NULL`, time.Now()); err != nil {
		return fmt.Errorf("failed to end previous session: %w", err)
	}

	if s.Created.IsZero() {
		s.Created = time.Now()
	}
	s.SessionID = shared.GenerateID()
	s.Sequence = sequence

	if _, err := tx.Exec(`
		INSERT INTO sessions (id, sequence, token, user_id, username, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.SessionID, s.Sequence, s.Token, s.UserID, s.Username, s.Created); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// Clear soft-deletes every live session and reports how many were ended.
func (r *SessionRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`UPDATE sessions SET deleted_at = ? WHERE deleted_at IS NULL`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to clear sessions: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves sessions, newest first. Set criteria["include_deleted"] to true to include ended sessions.
func (r *SessionRepository) List(criteria map[string]any) ([]*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if all, _ := criteria["include_deleted"].(bool); !all {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY sequence DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return sessions, nil
}

func scanSession(row scanner) (*models.Session, error) {
	var (
		s         models.Session
		deletedAt sql.NullTime
	)

	err := row.Scan(&s.SessionID, &s.Sequence, &s.Token, &s.UserID, &s.Username, &s.Created, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	if deletedAt.Valid {
		s.Deleted = &deletedAt.Time
	}
	return &s, nil
}
