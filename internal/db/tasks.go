package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tgienger/chores/internal/models"
)

// TaskPatch lists the task fields an update may change. A LastCompleted
// with Valid false clears the stored completion time.
type TaskPatch struct {
	Name          *string
	Icon          *string
	Cycle         *models.Cycle
	CurrentIndex  *int
	LastCompleted *sql.NullTime
}

const taskColumns = "id, name, icon, cycle, queue, current_index, last_completed"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t     models.Task
		cycle string
		queue string
		last  sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Icon, &cycle, &queue, &t.CurrentIndex, &last); err != nil {
		return t, err
	}
	t.Cycle = models.Cycle(cycle)
	if err := json.Unmarshal([]byte(queue), &t.Queue); err != nil {
		return t, fmt.Errorf("decode queue of task %s: %w", t.ID, err)
	}
	if last.Valid {
		lc := last.Time
		t.LastCompleted = &lc
	}
	return t, nil
}

// GetTask retrieves a task by ID
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns all tasks in creation order
func (db *DB) ListTasks(ctx context.Context) ([]models.Task, error) {
	return db.reader().ListTasks(ctx)
}

// ListTasks returns all tasks in creation order
func (r Reader) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SetTask creates or replaces a task
func (db *DB) SetTask(ctx context.Context, t models.Task) error {
	return db.Batch().SetTask(t).Commit(ctx)
}

// UpdateTask changes the patched fields of an existing task
func (db *DB) UpdateTask(ctx context.Context, id string, patch TaskPatch) error {
	return db.Batch().UpdateTask(id, patch).Commit(ctx)
}

// DeleteTask deletes a task. Its history and assignments are left alone.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	return db.Batch().DeleteTask(id).Commit(ctx)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func setTask(ctx context.Context, tx execer, t models.Task) error {
	queue := t.Queue
	if queue == nil {
		queue = []string{}
	}
	encoded, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("set task %s: %w", t.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, icon = excluded.icon, cycle = excluded.cycle,
			queue = excluded.queue, current_index = excluded.current_index,
			last_completed = excluded.last_completed
	`, t.ID, t.Name, t.Icon, string(t.Cycle), string(encoded), t.CurrentIndex, nullTime(t.LastCompleted))
	if err != nil {
		return fmt.Errorf("set task %s: %w", t.ID, err)
	}
	return nil
}

func updateTask(ctx context.Context, tx execer, id string, patch TaskPatch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, *patch.Icon)
	}
	if patch.Cycle != nil {
		sets = append(sets, "cycle = ?")
		args = append(args, string(*patch.Cycle))
	}
	if patch.CurrentIndex != nil {
		sets = append(sets, "current_index = ?")
		args = append(args, *patch.CurrentIndex)
	}
	if patch.LastCompleted != nil {
		sets = append(sets, "last_completed = ?")
		lc := *patch.LastCompleted
		if lc.Valid {
			lc.Time = lc.Time.UTC()
		}
		args = append(args, lc)
	}
	return execUpdate(ctx, tx, "tasks", "id = ?", sets, append(args, id))
}

func deleteTask(ctx context.Context, tx execer, id string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}
