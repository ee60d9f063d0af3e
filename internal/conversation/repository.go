package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Message is one chat message in a planning run's conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository provides access to conversation persistence.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new conversation Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Append records one message for a run.
func (r *Repository) Append(ctx context.Context, runID, role, content string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversation_messages (run_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		runID, role, content, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to append conversation message: %w", err)
	}
	return nil
}

// ListMessages returns a run's messages in chronological order.
func (r *Repository) ListMessages(ctx context.Context, runID string) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM conversation_messages WHERE run_id = ? ORDER BY created_at, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// CleanupBefore removes messages older than the given time.
func (r *Repository) CleanupBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM conversation_messages WHERE created_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean up conversation messages: %w", err)
	}
	return nil
}
