package db

import (
	"context"
	"database/sql"
	"fmt"
)

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Reader runs the collection queries against the database or against one
// read transaction.
type Reader struct {
	q querier
}

func (db *DB) reader() Reader {
	return Reader{q: db.DB}
}

// ReadTx calls fn with a Reader bound to a single read-only transaction.
// Every query fn makes, from any goroutine, sees the same committed state.
// The store has one connection, so fn must not call other DB methods.
func (db *DB) ReadTx(ctx context.Context, fn func(r Reader) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read: %w", err)
	}
	defer tx.Rollback()

	return fn(Reader{q: tx})
}
