package household

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/models"
)

// Assign pins memberID to taskID on day, replacing any earlier pick
func (s *Service) Assign(ctx context.Context, taskID, memberID string, day time.Time) error {
	snap := s.state.Snapshot()
	if _, ok := snap.Task(taskID); !ok {
		return chores.ErrTaskNotFound
	}
	if _, ok := snap.Member(memberID); !ok {
		return chores.ErrMemberNotFound
	}
	a := models.Assignment{TaskID: taskID, Date: dates.Key(day.In(s.loc)), MemberID: memberID}
	return s.commit(ctx, "assign", s.store.Batch().SetAssignment(a),
		zap.String("task_id", taskID),
		zap.String("member_id", memberID),
		zap.String("date", a.Date))
}

// AssignWeekday assigns the next wd strictly after today; asking for
// today's weekday lands a week out. It returns the chosen day.
func (s *Service) AssignWeekday(ctx context.Context, taskID, memberID string, wd time.Weekday) (time.Time, error) {
	day := dates.NextWeekday(s.Now(), wd)
	if err := s.Assign(ctx, taskID, memberID, day); err != nil {
		return time.Time{}, err
	}
	return day, nil
}

// ClearAssignment drops the manual pick for taskID on day
func (s *Service) ClearAssignment(ctx context.Context, taskID string, day time.Time) error {
	key := models.AssignmentKey{TaskID: taskID, Date: dates.Key(day.In(s.loc))}
	return s.commit(ctx, "clear assignment", s.store.Batch().DeleteAssignment(key),
		zap.String("task_id", taskID),
		zap.String("date", key.Date))
}

// AssignmentList returns the live manual assignments for display
func (s *Service) AssignmentList() []chores.AssignmentView {
	return chores.Assignments(s.state.Snapshot(), s.loc)
}
