package db

import (
	"context"
	"fmt"

	"github.com/tgienger/chores/internal/models"
)

// ListAssignments returns every manual assignment ordered by date
func (db *DB) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	return db.reader().ListAssignments(ctx)
}

// ListAssignments returns every manual assignment ordered by date
func (r Reader) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT task_id, date, member_id FROM assignments ORDER BY date, task_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.TaskID, &a.Date, &a.MemberID); err != nil {
			return nil, fmt.Errorf("list assignments: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetAssignment creates or overwrites the assignment for its task and day
func (db *DB) SetAssignment(ctx context.Context, a models.Assignment) error {
	return db.Batch().SetAssignment(a).Commit(ctx)
}

// DeleteAssignment removes the assignment for a task and day, if any
func (db *DB) DeleteAssignment(ctx context.Context, key models.AssignmentKey) error {
	return db.Batch().DeleteAssignment(key).Commit(ctx)
}

func setAssignment(ctx context.Context, tx execer, a models.Assignment) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO assignments (task_id, date, member_id) VALUES (?, ?, ?)
		ON CONFLICT(task_id, date) DO UPDATE SET member_id = excluded.member_id
	`, a.TaskID, a.Date, a.MemberID)
	if err != nil {
		return fmt.Errorf("set assignment %s/%s: %w", a.TaskID, a.Date, err)
	}
	return nil
}

func deleteAssignment(ctx context.Context, tx execer, key models.AssignmentKey) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM assignments WHERE task_id = ? AND date = ?", key.TaskID, key.Date)
	if err != nil {
		return fmt.Errorf("delete assignment %s/%s: %w", key.TaskID, key.Date, err)
	}
	return nil
}
