package chores

import (
	"time"

	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/models"
)

// ResolveAssignee returns who is responsible for task on day. A manual
// assignment for that day wins, unless its member has since been deleted;
// otherwise the member at the rotation pointer is on duty. ok is false when
// nobody is. Resolving never moves the rotation.
func ResolveAssignee(snap models.Snapshot, task models.Task, day time.Time) (m models.Member, manual, ok bool) {
	if id, found := snap.Assignment(task.ID, dates.Key(day)); found {
		if member, exists := snap.Member(id); exists {
			return member, true, true
		}
	}
	if len(task.Queue) == 0 {
		return models.Member{}, false, false
	}
	m, ok = snap.Member(task.CurrentMemberID())
	return m, false, ok
}

// NextAssignee returns the member after the rotation pointer, ignoring
// manual assignments.
func NextAssignee(snap models.Snapshot, task models.Task) (models.Member, bool) {
	if len(task.Queue) == 0 {
		return models.Member{}, false
	}
	next := (task.CurrentIndex + 1) % len(task.Queue)
	return snap.Member(task.Queue[next])
}
