// Package backup moves household data between the shared store and JSON
// documents on disk: whole-household export and import, and the manual
// upload/download bridge to a local copy.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/models"
)

// Version is written into every document
const Version = "1.0.0"

// ErrMalformed marks a document that cannot be applied
var ErrMalformed = errors.New("malformed backup document")

// Document is the on-disk form of a household
type Document struct {
	Version      string                `json:"version"`
	CurrentMonth string                `json:"currentMonth"`
	Members      []models.Member       `json:"members"`
	Tasks        []TaskRecord          `json:"tasks"`
	History      []models.HistoryEntry `json:"history"`
	// Assignments maps "<taskId>-<YYYY-MM-DD>" to a member id.
	Assignments map[string]string `json:"assignments"`
	Settings    models.Settings   `json:"settings"`
}

// TaskRecord is a task with its completion state as of the export
type TaskRecord struct {
	models.Task
	CompletedToday bool `json:"completedToday"`
}

// NewDocument assembles a document from store records
func NewDocument(now time.Time, members []models.Member, tasks []models.Task, history []models.HistoryEntry, assignments []models.Assignment) *Document {
	doc := &Document{
		Version:      Version,
		CurrentMonth: dates.Month(now),
		Members:      members,
		Tasks:        make([]TaskRecord, len(tasks)),
		History:      history,
		Assignments:  make(map[string]string, len(assignments)),
		Settings:     models.Settings{AutoResetMonthly: true},
	}
	if doc.Members == nil {
		doc.Members = []models.Member{}
	}
	if doc.History == nil {
		doc.History = []models.HistoryEntry{}
	}
	for i, t := range tasks {
		if t.Queue == nil {
			t.Queue = []string{}
		}
		doc.Tasks[i] = TaskRecord{Task: t, CompletedToday: t.CompletedToday(now)}
	}
	for _, a := range assignments {
		doc.Assignments[AssignmentKey(a.Key())] = a.MemberID
	}
	return doc
}

// AssignmentKey joins a task id and date key with a dash
func AssignmentKey(k models.AssignmentKey) string {
	return k.TaskID + "-" + k.Date
}

// ParseAssignmentKey splits a document assignment key. The date is the
// fixed-width tail, so task ids may contain dashes themselves.
func ParseAssignmentKey(key string) (models.AssignmentKey, error) {
	n := len(dates.KeyLayout)
	if len(key) < n+2 || key[len(key)-n-1] != '-' {
		return models.AssignmentKey{}, fmt.Errorf("assignment %q: %w", key, chores.ErrInvalidDateKey)
	}
	date := key[len(key)-n:]
	if _, err := time.Parse(dates.KeyLayout, date); err != nil {
		return models.AssignmentKey{}, fmt.Errorf("assignment %q: %w", key, chores.ErrInvalidDateKey)
	}
	return models.AssignmentKey{TaskID: key[:len(key)-n-1], Date: date}, nil
}

// Records converts the document back into store records, checking it as it
// goes. Nothing should be written from a document that fails here.
func (d *Document) Records() ([]models.Member, []models.Task, []models.HistoryEntry, []models.Assignment, error) {
	if d.Version == "" {
		return nil, nil, nil, nil, fmt.Errorf("%w: missing version", ErrMalformed)
	}
	for _, m := range d.Members {
		if m.ID == "" {
			return nil, nil, nil, nil, fmt.Errorf("%w: member without id", ErrMalformed)
		}
	}
	tasks := make([]models.Task, len(d.Tasks))
	for i, t := range d.Tasks {
		if t.ID == "" {
			return nil, nil, nil, nil, fmt.Errorf("%w: task without id", ErrMalformed)
		}
		if n := len(t.Queue); n > 0 && (t.CurrentIndex < 0 || t.CurrentIndex >= n) {
			return nil, nil, nil, nil, fmt.Errorf("%w: task %s rotation index %d out of range", ErrMalformed, t.ID, t.CurrentIndex)
		}
		tasks[i] = t.Task
	}
	for _, e := range d.History {
		if e.ID == "" {
			return nil, nil, nil, nil, fmt.Errorf("%w: history entry without id", ErrMalformed)
		}
	}
	assignments := make([]models.Assignment, 0, len(d.Assignments))
	for key, memberID := range d.Assignments {
		k, err := ParseAssignmentKey(key)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		assignments = append(assignments, models.Assignment{TaskID: k.TaskID, Date: k.Date, MemberID: memberID})
	}
	return d.Members, tasks, d.History, assignments, nil
}

// Empty reports whether the document holds no members and no tasks
func (d *Document) Empty() bool {
	return len(d.Members) == 0 && len(d.Tasks) == 0
}

// Encoder and decoder are safe for concurrent use and reused across calls.
var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("backup: zstd encoder initialization failed: " + err.Error())
	}
	decoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("backup: zstd decoder initialization failed: " + err.Error())
	}
}

func compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zst")
}

// ReadFile loads a document, decompressing .zst files
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	if compressed(path) {
		data, err = decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrMalformed, err)
		}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &doc, nil
}

// WriteFile saves a document as indented JSON, compressing .zst files
func WriteFile(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if compressed(path) {
		data = encoder.EncodeAll(data, nil)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create backup directory: %w", err)
		}
	}
	// Write next to the target and rename so readers never see half a file.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".chores-*.tmp")
	if err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}
