package shopping

import (
	"context"
	"database/sql"
	"fmt"
)

// OverrideRepository stores per-user aisle overrides. Overrides take
// precedence over the rule-based classifier and are applied by the
// orchestrator after classification.
type OverrideRepository struct {
	db *sql.DB
}

// NewOverrideRepository creates a new OverrideRepository.
func NewOverrideRepository(d *sql.DB) *OverrideRepository {
	return &OverrideRepository{db: d}
}

// Get returns the user's overrides as a normalized-name → aisle map.
func (r *OverrideRepository) Get(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ingredient_name, aisle FROM aisle_overrides WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list aisle overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]string)
	for rows.Next() {
		var name, aisle string
		if err := rows.Scan(&name, &aisle); err != nil {
			return nil, fmt.Errorf("failed to scan aisle override: %w", err)
		}
		overrides[name] = aisle
	}
	return overrides, rows.Err()
}

// Set records an override for one ingredient name.
func (r *OverrideRepository) Set(ctx context.Context, userID, ingredientName, aisle string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO aisle_overrides (user_id, ingredient_name, aisle) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, ingredient_name) DO UPDATE SET aisle = excluded.aisle`,
		userID, ingredientName, aisle,
	)
	if err != nil {
		return fmt.Errorf("failed to set aisle override: %w", err)
	}
	return nil
}
