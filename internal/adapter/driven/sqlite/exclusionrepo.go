package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/repoforge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ExclusionStore = (*ExclusionRepo)(nil)

// ExclusionRepo is the SQLite implementation of the ExclusionStore port.
type ExclusionRepo struct {
	db *DB
}

// NewExclusionRepo creates a new ExclusionRepo backed by the given DB.
func NewExclusionRepo(db *DB) *ExclusionRepo {
	return &ExclusionRepo{db: db}
}

// Add inserts a login into the exclusion list. Returns
// driven.ErrExclusionExists if the login is already present.
func (r *ExclusionRepo) Add(ctx context.Context, login string) error {
	const query = `INSERT INTO exclusions (login, added_at) VALUES (?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query, login, time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("add exclusion %s: %w", login, driven.ErrExclusionExists)
		}
		return fmt.Errorf("add exclusion %s: %w", login, err)
	}

	return nil
}

// Remove deletes a login from the exclusion list. Returns
// driven.ErrExclusionNotFound if the login is not present.
func (r *ExclusionRepo) Remove(ctx context.Context, login string) error {
	const query = `DELETE FROM exclusions WHERE login = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, login)
	if err != nil {
		return fmt.Errorf("remove exclusion %s: %w", login, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove exclusion %s: %w", login, driven.ErrExclusionNotFound)
	}

	return nil
}

// ListAll returns all excluded logins ordered by login, so query
// serialization downstream stays deterministic.
func (r *ExclusionRepo) ListAll(ctx context.Context) ([]string, error) {
	const query = `SELECT login FROM exclusions ORDER BY login`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list exclusions: %w", err)
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		logins = append(logins, login)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exclusions: %w", err)
	}

	return logins, nil
}
