package repository

import (
	"context"

	"github.com/washdesk/backend/internal/repository/postgres"
)

const advanceCursorQuery = `
						UPDATE dispatch_cursor
						SET position = position + 1
						WHERE id = 1
						RETURNING position
`

// CursorRepository owns the persisted round-robin dispatch cursor.
// The single row is advanced with one atomic UPDATE, so concurrent
// dispatches and multiple server instances never observe the same position.
type CursorRepository struct {
	db *postgres.DB
}

// NewCursorRepository creates new CursorRepository instance
func NewCursorRepository(db *postgres.DB) *CursorRepository {
	return &CursorRepository{db: db}
}

// Next advances the cursor and returns the new position
func (cr *CursorRepository) Next(ctx context.Context) (int64, error) {
	var pos int64
	if err := cr.db.QueryRow(ctx, advanceCursorQuery).Scan(&pos); err != nil {
		return 0, err
	}
	return pos, nil
}
