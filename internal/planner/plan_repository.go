package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PlanRepository handles persistence of run results.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save stores a run result for a user. Each run's writes are applied per
// item; the caller decides when a draft becomes applied.
func (r *PlanRepository) Save(ctx context.Context, userID, runID string, result *RunResult) (int64, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal run result: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, run_id, status, plan_data, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, runID, string(result.Status), string(data), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return res.LastInsertId()
}

// GetLatest returns the user's most recent run result, or nil when none
// exists.
func (r *PlanRepository) GetLatest(ctx context.Context, userID string) (*RunResult, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT plan_data FROM meal_plans WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID,
	).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest meal plan: %w", err)
	}

	var result RunResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
	}
	return &result, nil
}

// UpdateStatus moves a run to a new lifecycle status.
func (r *PlanRepository) UpdateStatus(ctx context.Context, runID string, status RunStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE meal_plans SET status = ? WHERE run_id = ?`, string(status), runID)
	if err != nil {
		return fmt.Errorf("failed to update meal plan status: %w", err)
	}
	return nil
}
