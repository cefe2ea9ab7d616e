package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

// DefaultHistoryLimit is how many recent history entries a subscription carries
const DefaultHistoryLimit = 100

// ErrNotFound is returned when an update targets a record that does not exist
var ErrNotFound = errors.New("record not found")

// Options tunes a DB
type Options struct {
	// HistoryLimit caps the history collection delivered to subscribers.
	HistoryLimit int
	// Watch republishes every collection when another process writes the file.
	Watch  bool
	Logger *zap.Logger
}

// DB wraps the database connection shared by the household
type DB struct {
	*sql.DB
	path         string
	historyLimit int
	log          *zap.Logger
	hub          *hub
	watcher      *watcher
}

// New opens (creating if needed) the database at path and starts the
// snapshot dispatcher.
func New(path string, opts Options) (*DB, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection serialises writers and keeps batches simple.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Initialize schema
	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	db := &DB{
		DB:           sqlDB,
		path:         path,
		historyLimit: opts.HistoryLimit,
		log:          opts.Logger.Named("db"),
	}
	db.hub = newHub(db)

	if opts.Watch {
		w, err := newWatcher(db)
		if err != nil {
			// Live updates from other processes are a convenience; keep going.
			db.log.Warn("file watcher unavailable", zap.Error(err))
		} else {
			db.watcher = w
		}
	}

	db.log.Debug("database opened", zap.String("path", path))
	return db, nil
}

// Close stops subscriptions and the watcher, then closes the database
func (db *DB) Close() error {
	if db.watcher != nil {
		db.watcher.close()
	}
	db.hub.close()
	return db.DB.Close()
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// DataDir returns the application data directory, following XDG
func DataDir() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "chores"), nil
}

// DefaultPath returns the path to the shared database file
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chores.db"), nil
}

// LoadCollection reads the full current contents of one collection
func (db *DB) LoadCollection(ctx context.Context, c Collection) (Change, error) {
	change := Change{Collection: c}
	var err error
	switch c {
	case Members:
		change.Members, err = db.ListMembers(ctx)
	case Tasks:
		change.Tasks, err = db.ListTasks(ctx)
	case History:
		change.History, err = db.ListHistory(ctx, db.historyLimit)
	case Assignments:
		change.Assignments, err = db.ListAssignments(ctx)
	default:
		err = fmt.Errorf("unknown collection %q", c)
	}
	return change, err
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
