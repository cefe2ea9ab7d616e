package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/models"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type op func(ctx context.Context, tx execer) error

// Batch groups writes across collections so they apply all together or not
// at all. Subscribers of every touched collection get a fresh snapshot once
// the batch commits; a failed batch publishes nothing.
type Batch struct {
	db      *DB
	ops     []op
	touched map[Collection]bool
}

// Batch starts an empty batch
func (db *DB) Batch() *Batch {
	return &Batch{db: db, touched: make(map[Collection]bool)}
}

func (b *Batch) add(c Collection, fn op) *Batch {
	b.ops = append(b.ops, fn)
	b.touched[c] = true
	return b
}

// Len returns the number of queued writes
func (b *Batch) Len() int {
	return len(b.ops)
}

func (b *Batch) SetMember(m models.Member) *Batch {
	return b.add(Members, func(ctx context.Context, tx execer) error { return setMember(ctx, tx, m) })
}

func (b *Batch) UpdateMember(id string, patch MemberPatch) *Batch {
	return b.add(Members, func(ctx context.Context, tx execer) error { return updateMember(ctx, tx, id, patch) })
}

func (b *Batch) DeleteMember(id string) *Batch {
	return b.add(Members, func(ctx context.Context, tx execer) error { return deleteMember(ctx, tx, id) })
}

func (b *Batch) SetTask(t models.Task) *Batch {
	return b.add(Tasks, func(ctx context.Context, tx execer) error { return setTask(ctx, tx, t) })
}

func (b *Batch) UpdateTask(id string, patch TaskPatch) *Batch {
	return b.add(Tasks, func(ctx context.Context, tx execer) error { return updateTask(ctx, tx, id, patch) })
}

func (b *Batch) DeleteTask(id string) *Batch {
	return b.add(Tasks, func(ctx context.Context, tx execer) error { return deleteTask(ctx, tx, id) })
}

func (b *Batch) SetHistory(e models.HistoryEntry) *Batch {
	return b.add(History, func(ctx context.Context, tx execer) error { return setHistory(ctx, tx, e) })
}

func (b *Batch) DeleteHistory(id string) *Batch {
	return b.add(History, func(ctx context.Context, tx execer) error { return deleteHistory(ctx, tx, id) })
}

func (b *Batch) SetAssignment(a models.Assignment) *Batch {
	return b.add(Assignments, func(ctx context.Context, tx execer) error { return setAssignment(ctx, tx, a) })
}

func (b *Batch) DeleteAssignment(key models.AssignmentKey) *Batch {
	return b.add(Assignments, func(ctx context.Context, tx execer) error { return deleteAssignment(ctx, tx, key) })
}

// Clear deletes every record of a collection
func (b *Batch) Clear(c Collection) *Batch {
	table, ok := tables[c]
	if !ok {
		return b.add(c, func(context.Context, execer) error {
			return fmt.Errorf("clear: unknown collection %q", c)
		})
	}
	return b.add(c, func(ctx context.Context, tx execer) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", c, err)
		}
		return nil
	})
}

var tables = map[Collection]string{
	Members:     "members",
	Tasks:       "tasks",
	History:     "history",
	Assignments: "assignments",
}

// Commit applies the batch in one transaction
func (b *Batch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback() // No-op once committed

	for _, fn := range b.ops {
		if err := fn(ctx, tx); err != nil {
			b.db.log.Debug("batch rolled back", zap.Int("ops", len(b.ops)), zap.Error(err))
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	collections := make([]Collection, 0, len(b.touched))
	for _, c := range models.Collections {
		if b.touched[c] {
			collections = append(collections, c)
		}
	}
	b.db.hub.publish(collections...)
	return nil
}
