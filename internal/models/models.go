package models

import (
	"time"

	"github.com/tgienger/chores/internal/dates"
)

// Cycle is how often a task is expected to be done. It is informational:
// rotation advances on completion, not on the calendar.
type Cycle string

const (
	CycleDaily      Cycle = "daily"
	CycleEvery2Days Cycle = "every2days"
	CycleWeekly     Cycle = "weekly"
)

// Cycles lists the valid cycles in display order
var Cycles = []Cycle{CycleDaily, CycleEvery2Days, CycleWeekly}

// Valid reports whether c is one of the known cycles
func (c Cycle) Valid() bool {
	for _, known := range Cycles {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns the human readable cycle
func (c Cycle) Label() string {
	switch c {
	case CycleDaily:
		return "Daily"
	case CycleEvery2Days:
		return "Every 2 days"
	case CycleWeekly:
		return "Weekly"
	}
	return string(c)
}

// Member represents a person in the household
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// Task represents a recurring chore with its rotation queue
type Task struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Icon          string     `json:"icon"`
	Cycle         Cycle      `json:"cycle"`
	Queue         []string   `json:"queue"`        // member ids in rotation order
	CurrentIndex  int        `json:"currentIndex"` // whose turn it is
	LastCompleted *time.Time `json:"lastCompleted"`
}

// CompletedToday is derived from LastCompleted and never stored, so it
// flips back to false at midnight on its own.
func (t Task) CompletedToday(now time.Time) bool {
	return t.LastCompleted != nil && dates.SameDay(now, *t.LastCompleted)
}

// CurrentMemberID returns the member at the rotation pointer, or "" for an
// empty queue.
func (t Task) CurrentMemberID() string {
	if len(t.Queue) == 0 {
		return ""
	}
	return t.Queue[t.CurrentIndex%len(t.Queue)]
}

// HistoryEntry records one completion. Task name and icon are copied so the
// entry still reads correctly after the task is edited or deleted.
type HistoryEntry struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	TaskName    string    `json:"taskName"`
	TaskIcon    string    `json:"taskIcon"`
	MemberID    string    `json:"memberId"`
	CompletedAt time.Time `json:"completedAt"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
}

// AssignmentKey identifies a manual assignment: one task on one day
type AssignmentKey struct {
	TaskID string
	Date   string // dates.KeyLayout
}

// Assignment pins a member to a task for a single day, overriding rotation
type Assignment struct {
	TaskID   string `json:"taskId"`
	Date     string `json:"date"`
	MemberID string `json:"memberId"`
}

// Key returns the composite key of the assignment
func (a Assignment) Key() AssignmentKey {
	return AssignmentKey{TaskID: a.TaskID, Date: a.Date}
}

// Settings holds household-wide preferences carried in exports
type Settings struct {
	AutoResetMonthly bool `json:"autoResetMonthly"`
}
