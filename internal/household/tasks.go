package household

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/db"
	"github.com/tgienger/chores/internal/models"
)

// AddTask creates a task rotating through every current member
func (s *Service) AddTask(ctx context.Context, name, icon, cycle string) (models.Task, error) {
	name, err := chores.CleanName(name)
	if err != nil {
		return models.Task{}, err
	}
	c, err := chores.ParseCycle(cycle)
	if err != nil {
		return models.Task{}, err
	}
	members := s.state.Snapshot().Members
	if len(members) == 0 {
		return models.Task{}, chores.ErrNoMembers
	}

	t := models.Task{
		ID:    s.newID(),
		Name:  name,
		Icon:  chores.OrDefault(icon, chores.DefaultTaskIcon),
		Cycle: c,
		Queue: chores.InitialQueue(members),
	}
	if err := s.commit(ctx, "add task", s.store.Batch().SetTask(t), zap.String("task_id", t.ID)); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// EditTask changes a task's name, icon and cycle. The rotation is untouched.
func (s *Service) EditTask(ctx context.Context, id, name, icon, cycle string) error {
	if _, ok := s.state.Snapshot().Task(id); !ok {
		return chores.ErrTaskNotFound
	}
	name, err := chores.CleanName(name)
	if err != nil {
		return err
	}
	c, err := chores.ParseCycle(cycle)
	if err != nil {
		return err
	}
	icon = chores.OrDefault(icon, chores.DefaultTaskIcon)
	patch := db.TaskPatch{Name: &name, Icon: &icon, Cycle: &c}
	return s.commit(ctx, "edit task", s.store.Batch().UpdateTask(id, patch), zap.String("task_id", id))
}

// DeleteTask removes only the task record
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if _, ok := s.state.Snapshot().Task(id); !ok {
		return chores.ErrTaskNotFound
	}
	return s.commit(ctx, "delete task", s.store.Batch().DeleteTask(id), zap.String("task_id", id))
}

// CompleteTask credits the member on rotation duty and advances the
// rotation. The history entry and the task update commit together.
func (s *Service) CompleteTask(ctx context.Context, taskID, photoURL string) (models.HistoryEntry, error) {
	task, ok := s.state.Snapshot().Task(taskID)
	if !ok {
		return models.HistoryEntry{}, chores.ErrTaskNotFound
	}
	entry, updated, err := chores.Complete(task, s.Now(), s.newID(), photoURL)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	b := s.store.Batch().
		SetHistory(entry).
		UpdateTask(task.ID, db.TaskPatch{
			CurrentIndex:  &updated.CurrentIndex,
			LastCompleted: &sql.NullTime{Time: *updated.LastCompleted, Valid: true},
		})
	err = s.commit(ctx, "complete task", b,
		zap.String("task_id", task.ID),
		zap.String("member_id", entry.MemberID),
		zap.Bool("photo", photoURL != ""))
	if err != nil {
		return models.HistoryEntry{}, err
	}
	return entry, nil
}

// UndoTask removes today's completions of a task and steps the rotation
// back one place. The task's completion time is cleared, not restored.
func (s *Service) UndoTask(ctx context.Context, taskID string) error {
	task, ok := s.state.Snapshot().Task(taskID)
	if !ok {
		return chores.ErrTaskNotFound
	}
	history, err := s.store.HistoryForTask(ctx, task.ID)
	if err != nil {
		s.log.Error("undo task failed", zap.String("task_id", task.ID), zap.Error(err))
		return fmt.Errorf("undo task: %w", err)
	}
	updated, removed, err := chores.Undo(task, history, s.Now())
	if err != nil {
		return err
	}

	b := s.store.Batch()
	for _, id := range removed {
		b.DeleteHistory(id)
	}
	b.UpdateTask(task.ID, db.TaskPatch{
		CurrentIndex:  &updated.CurrentIndex,
		LastCompleted: &sql.NullTime{},
	})
	return s.commit(ctx, "undo task", b, zap.String("task_id", task.ID), zap.Int("entries", len(removed)))
}
