package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studybloom-api/internal/models"
)

// StateRepository persists the full application state as a single named
// record in a local key-value table. SQLite keeps the app self-contained.
type StateRepository struct {
	db *sqlx.DB
}

// NewStateRepository constructs the repository.
func NewStateRepository(db *sqlx.DB) *StateRepository {
	return &StateRepository{db: db}
}

// EnsureSchema creates the backing table when missing.
func (r *StateRepository) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS app_state (
	namespace  TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure app_state schema: %w", err)
	}
	return nil
}

// Load reads the serialized state for the namespace. sql.ErrNoRows is
// returned unchanged when nothing has been persisted yet.
func (r *StateRepository) Load(ctx context.Context, namespace string) (*models.AppState, error) {
	const query = `SELECT payload FROM app_state WHERE namespace = $1`
	var payload string
	if err := r.db.GetContext(ctx, &payload, query, namespace); err != nil {
		return nil, err
	}

	var state models.AppState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("decode state for %s: %w", namespace, err)
	}
	return &state, nil
}

// Save upserts the serialized state for the namespace.
func (r *StateRepository) Save(ctx context.Context, namespace string, state models.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state for %s: %w", namespace, err)
	}

	const query = `INSERT INTO app_state (namespace, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (namespace)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := r.db.ExecContext(ctx, query, namespace, string(payload), updatedAt); err != nil {
		return fmt.Errorf("save state for %s: %w", namespace, err)
	}
	return nil
}
