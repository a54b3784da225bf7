package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CombinationStore = (*CombinationRepo)(nil)

// CombinationRepo is the SQLite implementation of the CombinationStore
// port. Results are stored as a JSON payload: the schema only needs to
// key by ID and order by creation time, and the payload shape evolves
// with the domain model.
type CombinationRepo struct {
	db *DB
}

// NewCombinationRepo creates a new CombinationRepo backed by the given DB.
func NewCombinationRepo(db *DB) *CombinationRepo {
	return &CombinationRepo{db: db}
}

// Save upserts a combination result keyed by ID.
func (r *CombinationRepo) Save(ctx context.Context, combo model.CombinationResult) error {
	payload, err := json.Marshal(combo)
	if err != nil {
		return fmt.Errorf("marshal combination %s: %w", combo.ID, err)
	}

	const query = `
		INSERT INTO combinations (id, name, payload, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, payload = excluded.payload`

	_, err = r.db.Writer.ExecContext(ctx, query, combo.ID, combo.Name, string(payload), combo.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save combination %s: %w", combo.ID, err)
	}

	return nil
}

// LoadAll returns all persisted combinations ordered by creation time,
// newest first.
func (r *CombinationRepo) LoadAll(ctx context.Context) ([]model.CombinationResult, error) {
	const query = `SELECT payload FROM combinations ORDER BY created_at DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load combinations: %w", err)
	}
	defer rows.Close()

	var combos []model.CombinationResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan combination: %w", err)
		}

		var combo model.CombinationResult
		if err := json.Unmarshal([]byte(payload), &combo); err != nil {
			return nil, fmt.Errorf("unmarshal combination: %w", err)
		}
		combos = append(combos, combo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate combinations: %w", err)
	}

	return combos, nil
}
