package db

import (
	"context"
	"fmt"

	"github.com/tgienger/chores/internal/models"
)

const historyColumns = "id, task_id, task_name, task_icon, member_id, completed_at, photo_url"

// ListHistory reads history outside any transaction
func (db *DB) ListHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	return db.reader().ListHistory(ctx, limit)
}

// ListHistory returns the most recent entries, newest first. A limit of
// zero or less returns everything.
func (r Reader) ListHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	query := "SELECT " + historyColumns + " FROM history ORDER BY completed_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.queryHistory(ctx, query, args...)
}

// HistoryForTask returns every entry recorded for a task, newest first
func (db *DB) HistoryForTask(ctx context.Context, taskID string) ([]models.HistoryEntry, error) {
	return db.reader().queryHistory(ctx, `
		SELECT `+historyColumns+` FROM history
		WHERE task_id = ?
		ORDER BY completed_at DESC, rowid DESC
	`, taskID)
}

func (r Reader) queryHistory(ctx context.Context, query string, args ...any) ([]models.HistoryEntry, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.TaskName, &e.TaskIcon, &e.MemberID, &e.CompletedAt, &e.PhotoURL); err != nil {
			return nil, fmt.Errorf("query history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddHistory appends a history entry
func (db *DB) AddHistory(ctx context.Context, e models.HistoryEntry) error {
	return db.Batch().SetHistory(e).Commit(ctx)
}

// DeleteHistory deletes a history entry
func (db *DB) DeleteHistory(ctx context.Context, id string) error {
	return db.Batch().DeleteHistory(id).Commit(ctx)
}

func setHistory(ctx context.Context, tx execer, e models.HistoryEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO history (`+historyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			task_id = excluded.task_id, task_name = excluded.task_name,
			task_icon = excluded.task_icon, member_id = excluded.member_id,
			completed_at = excluded.completed_at, photo_url = excluded.photo_url
	`, e.ID, e.TaskID, e.TaskName, e.TaskIcon, e.MemberID, e.CompletedAt.UTC(), e.PhotoURL)
	if err != nil {
		return fmt.Errorf("set history %s: %w", e.ID, err)
	}
	return nil
}

func deleteHistory(ctx context.Context, tx execer, id string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete history %s: %w", id, err)
	}
	return nil
}
