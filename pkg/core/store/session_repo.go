package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"modelrisk_intake/pkg/models"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSessionID is returned when saving under an id that is not a UUID.
var ErrInvalidSessionID = errors.New("invalid session id")

const sessionsSchema = `
	CREATE TABLE IF NOT EXISTS intake_sessions (
		id         TEXT PRIMARY KEY,
		bank_name  TEXT NOT NULL DEFAULT '',
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// SessionRepo stores intake sessions.
// Supports DB (primary) with a file directory fallback when no pool is configured.
type SessionRepo struct {
	pool    *pgxpool.Pool
	fileDir string
	now     func() time.Time
}

// NewSessionRepo creates a repository. With a nil pool sessions are stored
// as JSON files in dir (default .cache/sessions).
func NewSessionRepo(pool *pgxpool.Pool, dir string) *SessionRepo {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "sessions")
	}
	return &SessionRepo{pool: pool, fileDir: dir, now: time.Now}
}

// Backend names the storage in use.
func (r *SessionRepo) Backend() string {
	if r.pool != nil {
		return "postgres"
	}
	return "file"
}

// EnsureSchema creates the sessions table when a database is configured.
func (r *SessionRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		return os.MkdirAll(r.fileDir, 0755)
	}
	if _, err := r.pool.Exec(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("failed to create intake_sessions: %w", err)
	}
	return nil
}

// Save inserts or updates a session, assigning an id on first save.
func (r *SessionRepo) Save(ctx context.Context, s *models.Session) (*models.Session, error) {
	saved := *s
	now := r.now().UTC()
	if saved.ID == "" {
		saved.ID = uuid.New().String()
	} else if _, err := uuid.Parse(saved.ID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, saved.ID)
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	if saved.IntakeData == nil {
		saved.IntakeData = models.IntakeData{}
	}
	if saved.Documents == nil {
		saved.Documents = []models.ParsedDocument{}
	}

	data, err := json.Marshal(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	if r.pool != nil {
		query := `
			INSERT INTO intake_sessions (id, bank_name, data, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id)
			DO UPDATE SET
				bank_name = EXCLUDED.bank_name,
				data = EXCLUDED.data,
				updated_at = EXCLUDED.updated_at
		`
		if _, err := r.pool.Exec(ctx, query, saved.ID, saved.BankName, data, saved.CreatedAt, saved.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
		return &saved, nil
	}

	if err := os.MkdirAll(r.fileDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(r.sessionPath(saved.ID), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write session file: %w", err)
	}
	return &saved, nil
}

// Get loads a session by id.
func (r *SessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	var data []byte
	if r.pool != nil {
		err := r.pool.QueryRow(ctx, `SELECT data FROM intake_sessions WHERE id = $1`, id).Scan(&data)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(r.sessionPath(id))
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read session file: %w", err)
		}
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepo) sessionPath(id string) string {
	return filepath.Join(r.fileDir, id+".json")
}
