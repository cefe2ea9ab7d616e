package models

import "sync"

// Collection names one of the shared record sets
type Collection string

const (
	CollectionMembers     Collection = "members"
	CollectionTasks       Collection = "tasks"
	CollectionHistory     Collection = "history"
	CollectionAssignments Collection = "assignments"
)

// Collections lists every collection in load order
var Collections = []Collection{
	CollectionMembers,
	CollectionTasks,
	CollectionHistory,
	CollectionAssignments,
}

// Change carries the full current contents of one collection. Only the
// field matching Collection is meaningful.
type Change struct {
	Collection  Collection
	Members     []Member
	Tasks       []Task
	History     []HistoryEntry
	Assignments []Assignment
}

// Snapshot is a read-only view of the household at one moment. Slices are
// shared with the State that produced it and must not be modified.
type Snapshot struct {
	Members     []Member
	Tasks       []Task
	History     []HistoryEntry // newest first
	Assignments map[AssignmentKey]string
}

// Member looks up a member by id
func (s Snapshot) Member(id string) (Member, bool) {
	for _, m := range s.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// Task looks up a task by id
func (s Snapshot) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Assignment returns the member pinned to taskID on the given day key
func (s Snapshot) Assignment(taskID, date string) (string, bool) {
	id, ok := s.Assignments[AssignmentKey{TaskID: taskID, Date: date}]
	return id, ok
}

// AssignmentList returns the assignments as records in no particular order
func (s Snapshot) AssignmentList() []Assignment {
	out := make([]Assignment, 0, len(s.Assignments))
	for k, memberID := range s.Assignments {
		out = append(out, Assignment{TaskID: k.TaskID, Date: k.Date, MemberID: memberID})
	}
	return out
}

// State mirrors the shared store in memory. It is only ever changed by
// Replace with a collection delivered from the store; the application never
// patches it directly.
type State struct {
	mu       sync.RWMutex
	snap     Snapshot
	received map[Collection]bool
}

// NewState returns an empty mirror
func NewState() *State {
	return &State{
		snap:     Snapshot{Assignments: map[AssignmentKey]string{}},
		received: make(map[Collection]bool),
	}
}

// Replace swaps one collection wholesale
func (s *State) Replace(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.Collection {
	case CollectionMembers:
		s.snap.Members = append([]Member(nil), c.Members...)
	case CollectionTasks:
		s.snap.Tasks = append([]Task(nil), c.Tasks...)
	case CollectionHistory:
		s.snap.History = append([]HistoryEntry(nil), c.History...)
	case CollectionAssignments:
		m := make(map[AssignmentKey]string, len(c.Assignments))
		for _, a := range c.Assignments {
			m[a.Key()] = a.MemberID
		}
		s.snap.Assignments = m
	default:
		return
	}
	s.received[c.Collection] = true
}

// Snapshot returns the current view
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Ready reports whether every collection has been received at least once
func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range Collections {
		if !s.received[c] {
			return false
		}
	}
	return true
}
