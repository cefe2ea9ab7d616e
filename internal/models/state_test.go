package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_ReplaceIsWholesale(t *testing.T) {
	s := NewState()
	s.Replace(Change{Collection: CollectionMembers, Members: []Member{{ID: "a"}, {ID: "b"}}})
	s.Replace(Change{Collection: CollectionMembers, Members: []Member{{ID: "c"}}})

	snap := s.Snapshot()
	require.Len(t, snap.Members, 1)
	assert.Equal(t, "c", snap.Members[0].ID)
}

func TestState_ReplaceCopiesInput(t *testing.T) {
	s := NewState()
	tasks := []Task{{ID: "t1", Name: "Dishes"}}
	s.Replace(Change{Collection: CollectionTasks, Tasks: tasks})
	tasks[0].Name = "changed"

	got, ok := s.Snapshot().Task("t1")
	require.True(t, ok)
	assert.Equal(t, "Dishes", got.Name)
}

func TestState_Assignments(t *testing.T) {
	s := NewState()
	s.Replace(Change{Collection: CollectionAssignments, Assignments: []Assignment{
		{TaskID: "t1", Date: "2026-10-15", MemberID: "a"},
		{TaskID: "t1", Date: "2026-10-16", MemberID: "b"},
	}})

	snap := s.Snapshot()
	id, ok := snap.Assignment("t1", "2026-10-16")
	require.True(t, ok)
	assert.Equal(t, "b", id)

	_, ok = snap.Assignment("t1", "2026-10-17")
	assert.False(t, ok)
	assert.Len(t, snap.AssignmentList(), 2)
}

func TestState_Ready(t *testing.T) {
	s := NewState()
	assert.False(t, s.Ready())
	for _, c := range Collections {
		s.Replace(Change{Collection: c})
	}
	assert.True(t, s.Ready())
}

func TestTask_CompletedToday(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	earlier := time.Date(2026, 10, 15, 0, 5, 0, 0, time.UTC)
	yesterday := time.Date(2026, 10, 14, 23, 59, 0, 0, time.UTC)

	assert.False(t, Task{}.CompletedToday(now))
	assert.True(t, Task{LastCompleted: &earlier}.CompletedToday(now))
	assert.False(t, Task{LastCompleted: &yesterday}.CompletedToday(now))
}

func TestCycle(t *testing.T) {
	assert.True(t, CycleWeekly.Valid())
	assert.False(t, Cycle("monthly").Valid())
	assert.Equal(t, "Every 2 days", CycleEvery2Days.Label())
	assert.Equal(t, "monthly", Cycle("monthly").Label())
}
