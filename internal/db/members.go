package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tgienger/chores/internal/models"
)

// MemberPatch lists the member fields an update may change
type MemberPatch struct {
	Name  *string
	Emoji *string
}

// GetMember retrieves a member by ID
func (db *DB) GetMember(ctx context.Context, id string) (*models.Member, error) {
	m := &models.Member{}
	err := db.QueryRowContext(ctx, `
		SELECT id, name, emoji, color FROM members WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.Emoji, &m.Color)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMembers returns all members in creation order
func (db *DB) ListMembers(ctx context.Context) ([]models.Member, error) {
	return db.reader().ListMembers(ctx)
}

// ListMembers returns all members in creation order
func (r Reader) ListMembers(ctx context.Context) ([]models.Member, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, emoji, color FROM members ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Emoji, &m.Color); err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// SetMember creates or replaces a member
func (db *DB) SetMember(ctx context.Context, m models.Member) error {
	return db.Batch().SetMember(m).Commit(ctx)
}

// UpdateMember changes the patched fields of an existing member
func (db *DB) UpdateMember(ctx context.Context, id string, patch MemberPatch) error {
	return db.Batch().UpdateMember(id, patch).Commit(ctx)
}

// DeleteMember deletes a member
func (db *DB) DeleteMember(ctx context.Context, id string) error {
	return db.Batch().DeleteMember(id).Commit(ctx)
}

func setMember(ctx context.Context, tx execer, m models.Member) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO members (id, name, emoji, color) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, emoji = excluded.emoji, color = excluded.color
	`, m.ID, m.Name, m.Emoji, m.Color)
	if err != nil {
		return fmt.Errorf("set member %s: %w", m.ID, err)
	}
	return nil
}

func updateMember(ctx context.Context, tx execer, id string, patch MemberPatch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Emoji != nil {
		sets = append(sets, "emoji = ?")
		args = append(args, *patch.Emoji)
	}
	return execUpdate(ctx, tx, "members", "id = ?", sets, append(args, id))
}

func deleteMember(ctx context.Context, tx execer, id string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete member %s: %w", id, err)
	}
	return nil
}

// execUpdate runs UPDATE table SET sets WHERE where and reports ErrNotFound
// when no row matched. An empty patch only checks existence.
func execUpdate(ctx context.Context, tx execer, table, where string, sets []string, args []any) error {
	var query string
	if len(sets) == 0 {
		query = "UPDATE " + table + " SET id = id WHERE " + where
	} else {
		query = "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE " + where
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s: %w", table, ErrNotFound)
	}
	return nil
}
