package dispatch

import (
	"context"
	"sort"

	"github.com/washdesk/backend/internal/models"
)

// Cursor is the shared round-robin position. Next must advance the position
// by one and return the new value as a single atomic operation, so that two
// orders created concurrently never observe the same position.
type Cursor interface {
	Next(ctx context.Context) (int64, error)
}

// Dispatcher selects which technicians receive a newly created order.
type Dispatcher struct {
	cursor Cursor
}

// New creates new Dispatcher instance
func New(cursor Cursor) *Dispatcher {
	return &Dispatcher{cursor: cursor}
}

// Dispatch returns the employee ids to assign to a new order.
//
// Explicit ids from the caller are used verbatim. Otherwise one employee is
// picked round-robin from the active roster, ordered by employee id
// ascending. An empty roster yields an empty result.
func (d *Dispatcher) Dispatch(ctx context.Context, explicitIDs []string, active []models.Employee) ([]string, error) {
	if len(explicitIDs) > 0 {
		return explicitIDs, nil
	}

	if len(active) == 0 {
		return nil, nil
	}

	roster := make([]models.Employee, len(active))
	copy(roster, active)
	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })

	pos, err := d.cursor.Next(ctx)
	if err != nil {
		return nil, err
	}

	n := int64(len(roster))
	idx := pos % n
	if idx < 0 {
		idx += n
	}

	return []string{roster[idx].ID}, nil
}
