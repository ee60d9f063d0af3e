package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository handles persistence of built shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores the aggregation result for a run and returns the row ID.
func (r *Repository) Save(ctx context.Context, userID, runID string, result Result) (int64, error) {
	itemsJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, run_id, items, created_at) VALUES (?, ?, ?, ?)`,
		userID, runID, string(itemsJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return res.LastInsertId()
}

// GetByRunID retrieves the shopping list saved for a run. Returns nil when
// no list was saved.
func (r *Repository) GetByRunID(ctx context.Context, runID string) (*Result, error) {
	var items string
	err := r.db.QueryRowContext(ctx,
		`SELECT items FROM shopping_lists WHERE run_id = ? ORDER BY created_at DESC LIMIT 1`,
		runID,
	).Scan(&items)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shopping list by run ID: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(items), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list: %w", err)
	}
	return &result, nil
}
