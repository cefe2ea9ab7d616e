package household

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/db"
	"github.com/tgienger/chores/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

// newTestService opens a fresh store with a pinned clock at Thursday
// 2026-10-15 09:00 UTC and sequential ids.
func newTestService(t *testing.T) (*Service, *clock) {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "chores.db"), db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clk := &clock{t: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)}
	n := 0
	svc := New(store, Options{
		Location: time.UTC,
		Now:      clk.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	require.NoError(t, svc.Sync(context.Background()))
	return svc, clk
}

// mustSync refreshes the mirror the way a store snapshot would
func mustSync(t *testing.T, svc *Service) models.Snapshot {
	t.Helper()
	require.NoError(t, svc.Sync(context.Background()))
	return svc.Snapshot()
}

func seed(t *testing.T, svc *Service) (alice, bob models.Member, task models.Task) {
	t.Helper()
	ctx := context.Background()
	var err error
	alice, err = svc.AddMember(ctx, "Alice", "🐱")
	require.NoError(t, err)
	mustSync(t, svc)
	bob, err = svc.AddMember(ctx, " Bob ", "")
	require.NoError(t, err)
	mustSync(t, svc)
	task, err = svc.AddTask(ctx, "Dishes", "", "")
	require.NoError(t, err)
	mustSync(t, svc)
	return alice, bob, task
}

func TestAddMember_Defaults(t *testing.T) {
	svc, _ := newTestService(t)
	alice, bob, _ := seed(t, svc)

	assert.Equal(t, chores.Palette[0], alice.Color)
	assert.Equal(t, chores.Palette[1], bob.Color)
	assert.Equal(t, "Bob", bob.Name)
	assert.Equal(t, chores.DefaultMemberEmoji, bob.Emoji)
}

func TestAddMember_EmptyNameWritesNothing(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AddMember(context.Background(), "   ", "")
	assert.ErrorIs(t, err, chores.ErrEmptyName)
	assert.Empty(t, mustSync(t, svc).Members)
}

func TestAddTask_RequiresMembers(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AddTask(context.Background(), "Dishes", "", "")
	assert.ErrorIs(t, err, chores.ErrNoMembers)
}

func TestAddTask_Defaults(t *testing.T) {
	svc, _ := newTestService(t)
	alice, bob, task := seed(t, svc)

	assert.Equal(t, chores.DefaultTaskIcon, task.Icon)
	assert.Equal(t, models.CycleDaily, task.Cycle)
	assert.Equal(t, []string{alice.ID, bob.ID}, task.Queue)
	assert.Zero(t, task.CurrentIndex)
	assert.Nil(t, task.LastCompleted)

	_, err := svc.AddTask(context.Background(), "Trash", "", "monthly")
	assert.ErrorIs(t, err, chores.ErrInvalidCycle)
}

func TestEditTask_KeepsRotation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _, task := seed(t, svc)

	_, err := svc.CompleteTask(ctx, task.ID, "")
	require.NoError(t, err)
	mustSync(t, svc)

	require.NoError(t, svc.EditTask(ctx, task.ID, "Wash up", "🧽", "weekly"))
	got, ok := mustSync(t, svc).Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, "Wash up", got.Name)
	assert.Equal(t, models.CycleWeekly, got.Cycle)
	assert.Equal(t, 1, got.CurrentIndex)
	assert.Equal(t, task.Queue, got.Queue)
}

func TestDeleteMember_InUse(t *testing.T) {
	svc, _ := newTestService(t)
	alice, _, _ := seed(t, svc)

	err := svc.DeleteMember(context.Background(), alice.ID)
	assert.ErrorIs(t, err, chores.ErrMemberInUse)
	_, ok := mustSync(t, svc).Member(alice.ID)
	assert.True(t, ok)
}

func TestDeleteMember_Free(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _, task := seed(t, svc)
	carol, err := svc.AddMember(ctx, "Carol", "")
	require.NoError(t, err)
	mustSync(t, svc)

	require.NoError(t, svc.DeleteMember(ctx, carol.ID))
	snap := mustSync(t, svc)
	assert.Len(t, snap.Members, 2)
	_, ok := snap.Task(task.ID)
	assert.True(t, ok)
}

func TestCompleteAndUndo(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	alice, bob, task := seed(t, svc)

	entry, err := svc.CompleteTask(ctx, task.ID, "https://photos/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, entry.MemberID)
	assert.Equal(t, "Dishes", entry.TaskName)

	snap := mustSync(t, svc)
	got, _ := snap.Task(task.ID)
	assert.Equal(t, 1, got.CurrentIndex)
	assert.True(t, got.CompletedToday(svc.Now()))
	require.Len(t, snap.History, 1)
	assert.Equal(t, "https://photos/1.jpg", snap.History[0].PhotoURL)

	m, _, ok := chores.ResolveAssignee(snap, got, svc.Now())
	require.True(t, ok)
	assert.Equal(t, bob.ID, m.ID)

	// Once per day.
	_, err = svc.CompleteTask(ctx, task.ID, "")
	assert.ErrorIs(t, err, chores.ErrAlreadyCompleted)
	assert.Len(t, mustSync(t, svc).History, 1)

	require.NoError(t, svc.UndoTask(ctx, task.ID))
	snap = mustSync(t, svc)
	got, _ = snap.Task(task.ID)
	assert.Zero(t, got.CurrentIndex)
	assert.Nil(t, got.LastCompleted)
	assert.Empty(t, snap.History)

	assert.ErrorIs(t, svc.UndoTask(ctx, task.ID), chores.ErrNothingToUndo)

	// The next day the task can be done again.
	clk.t = clk.t.AddDate(0, 0, 1)
	_, err = svc.CompleteTask(ctx, task.ID, "")
	require.NoError(t, err)
}

func TestUndo_KeepsEarlierDays(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	_, _, task := seed(t, svc)

	_, err := svc.CompleteTask(ctx, task.ID, "")
	require.NoError(t, err)
	mustSync(t, svc)

	clk.t = clk.t.AddDate(0, 0, 1)
	_, err = svc.CompleteTask(ctx, task.ID, "")
	require.NoError(t, err)
	mustSync(t, svc)

	require.NoError(t, svc.UndoTask(ctx, task.ID))
	snap := mustSync(t, svc)
	require.Len(t, snap.History, 1)
	got, _ := snap.Task(task.ID)
	assert.Equal(t, 1, got.CurrentIndex)
	// Yesterday's completion time is not restored.
	assert.Nil(t, got.LastCompleted)
}

func TestAssign_OverridesOneDay(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	alice, bob, task := seed(t, svc)

	day, err := svc.AssignWeekday(ctx, task.ID, bob.ID, time.Thursday)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-22", day.Format("2006-01-02"))

	snap := mustSync(t, svc)
	m, manual, ok := chores.ResolveAssignee(snap, task, day)
	require.True(t, ok)
	assert.True(t, manual)
	assert.Equal(t, bob.ID, m.ID)

	m, manual, _ = chores.ResolveAssignee(snap, task, day.AddDate(0, 0, 1))
	assert.False(t, manual)
	assert.Equal(t, alice.ID, m.ID)

	views := svc.AssignmentList()
	require.Len(t, views, 1)
	assert.Equal(t, "Thu", views[0].DayName)

	require.NoError(t, svc.ClearAssignment(ctx, task.ID, day))
	assert.Empty(t, mustSync(t, svc).Assignments)
}

func TestAssign_UnknownRefs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	alice, _, task := seed(t, svc)

	assert.ErrorIs(t, svc.Assign(ctx, "nope", alice.ID, svc.Now()), chores.ErrTaskNotFound)
	assert.ErrorIs(t, svc.Assign(ctx, task.ID, "nope", svc.Now()), chores.ErrMemberNotFound)
}

func TestFind_ByIDOrName(t *testing.T) {
	svc, _ := newTestService(t)
	alice, _, task := seed(t, svc)

	m, err := svc.FindMember("alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, m.ID)

	tk, err := svc.FindTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dishes", tk.Name)

	_, err = svc.FindTask("laundry")
	assert.ErrorIs(t, err, chores.ErrTaskNotFound)
}

func TestResetAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, bob, task := seed(t, svc)
	_, err := svc.CompleteTask(ctx, task.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Assign(ctx, task.ID, bob.ID, svc.Now()))

	require.NoError(t, svc.ResetAll(ctx))
	snap := mustSync(t, svc)
	assert.Empty(t, snap.Members)
	assert.Empty(t, snap.Tasks)
	assert.Empty(t, snap.History)
	assert.Empty(t, snap.Assignments)
}

func TestTheme(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Equal(t, ThemeDark, svc.Theme())
	require.NoError(t, svc.SetTheme(ThemeLight))
	assert.Equal(t, ThemeLight, svc.Theme())
	assert.Error(t, svc.SetTheme("sepia"))
}

func TestWatch_ReplacesMirror(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	got := make(chan models.Change, 32)
	stop := svc.Watch(func(c models.Change) { got <- c })
	defer stop()

	_, err := svc.AddMember(ctx, "Alice", "")
	require.NoError(t, err)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case c := <-got:
			if c.Collection == models.CollectionMembers && len(c.Members) == 1 {
				assert.Len(t, svc.Snapshot().Members, 1)
				assert.True(t, svc.Ready())
				return
			}
		case <-deadline:
			t.Fatal("member snapshot never arrived")
		}
	}
}
