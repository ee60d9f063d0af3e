package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Repository is a database-backed store for recipe candidates.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// ListCandidates returns all shared recipes plus the recipes owned by the
// given user. Further filtering (ownership preferences, cook-time ceiling)
// happens in SelectCandidates.
func (r *Repository) ListCandidates(ctx context.Context, userID string) ([]Candidate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data FROM recipes WHERE shared = 1 OR owner_id = ? ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		var c Candidate
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			log.Printf("Warning: failed to unmarshal recipe JSON for ID %s: %v", id, err)
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// CreateRecipe persists a new recipe for the given owner and returns it
// with its assigned ID.
func (r *Repository) CreateRecipe(ctx context.Context, userID string, c Candidate) (Candidate, error) {
	if c.ID == "" {
		c.ID = NewID()
	}
	c.OwnerID = userID

	data, err := json.Marshal(c)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	shared := 0
	if c.Shared {
		shared = 1
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recipes (id, owner_id, shared, data, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		c.ID, c.OwnerID, shared, string(data), time.Now().UTC(),
	)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to insert recipe: %w", err)
	}
	return c, nil
}

// Get retrieves a recipe by its ID. Returns nil when not found.
func (r *Repository) Get(ctx context.Context, id string) (*Candidate, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM recipes WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var c Candidate
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &c, nil
}

// Count returns the number of recipes in the database.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}
