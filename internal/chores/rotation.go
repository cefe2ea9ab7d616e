package chores

import (
	"time"

	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/models"
)

// Complete records the member at the rotation pointer as having done task
// at now and moves the pointer on. It returns the history entry to append
// and the task as it must be stored; both must be written together.
func Complete(task models.Task, now time.Time, entryID, photoURL string) (models.HistoryEntry, models.Task, error) {
	if task.CompletedToday(now) {
		return models.HistoryEntry{}, task, ErrAlreadyCompleted
	}
	if len(task.Queue) == 0 {
		return models.HistoryEntry{}, task, ErrEmptyQueue
	}

	entry := models.HistoryEntry{
		ID:          entryID,
		TaskID:      task.ID,
		TaskName:    task.Name,
		TaskIcon:    task.Icon,
		MemberID:    task.CurrentMemberID(),
		CompletedAt: now,
		PhotoURL:    photoURL,
	}

	updated := task
	completed := now
	updated.LastCompleted = &completed
	updated.CurrentIndex = (task.CurrentIndex + 1) % len(task.Queue)
	return entry, updated, nil
}

// Undo reverts today's completion of task. history may hold any entries;
// only the task's entries dated today are removed and their ids returned.
// LastCompleted is cleared rather than restored, so a task done yesterday
// and undone today reads as never completed until it is done again.
func Undo(task models.Task, history []models.HistoryEntry, now time.Time) (models.Task, []string, error) {
	todays := EntriesOn(history, task.ID, now)
	if len(todays) == 0 {
		return task, nil, ErrNothingToUndo
	}

	ids := make([]string, len(todays))
	for i, e := range todays {
		ids[i] = e.ID
	}

	updated := task
	updated.LastCompleted = nil
	if n := len(task.Queue); n > 0 {
		updated.CurrentIndex = (task.CurrentIndex - 1 + n) % n
	}
	return updated, ids, nil
}

// EntriesOn returns the task's history entries completed on day
func EntriesOn(history []models.HistoryEntry, taskID string, day time.Time) []models.HistoryEntry {
	var out []models.HistoryEntry
	for _, e := range history {
		if e.TaskID == taskID && dates.SameDay(day, e.CompletedAt) {
			out = append(out, e)
		}
	}
	return out
}
