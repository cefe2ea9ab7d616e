package views

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/backup"
	"github.com/tgienger/chores/internal/db"
	"github.com/tgienger/chores/internal/household"
	"github.com/tgienger/chores/internal/ui/keys"
	"github.com/tgienger/chores/internal/ui/styles"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "chores.db"), db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := household.New(store, household.Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	ctx := context.Background()
	require.NoError(t, svc.Sync(ctx))
	_, err = svc.AddMember(ctx, "Alice", "A")
	require.NoError(t, err)
	require.NoError(t, svc.Sync(ctx))
	_, err = svc.AddTask(ctx, "Dishes", "", "daily")
	require.NoError(t, err)
	require.NoError(t, svc.Sync(ctx))

	return &Env{
		Svc:    svc,
		Bridge: backup.New(store, backup.Options{Now: func() time.Time { return testNow }}),
		Styles: styles.NewStyles(),
		Keys:   keys.DefaultKeyMap(),
		Log:    zap.NewNop(),
	}
}

func TestTodayView_CompleteWhileSnapshotsArrive(t *testing.T) {
	env := newTestEnv(t)
	v := NewTodayView(env)
	v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	v.Update(SnapshotMsg{Snap: env.Svc.Snapshot(), Ready: true})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)

	// bubbletea runs commands on their own goroutine while the update loop
	// keeps replacing the view's snapshot.
	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()

	var msg tea.Msg
	for msg == nil {
		v.Update(SnapshotMsg{Snap: env.Svc.Snapshot(), Ready: true})
		select {
		case msg = <-result:
		case <-time.After(time.Millisecond):
		}
	}

	status, ok := msg.(StatusMsg)
	require.True(t, ok, "got %T", msg)
	require.NoError(t, status.Err)
	assert.Equal(t, "Dishes done by Alice", status.Text)
}

func TestTodayView_CompleteTwiceReportsError(t *testing.T) {
	env := newTestEnv(t)
	v := NewTodayView(env)
	v.Update(SnapshotMsg{Snap: env.Svc.Snapshot(), Ready: true})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.NoError(t, cmd().(StatusMsg).Err)
	require.NoError(t, env.Svc.Sync(context.Background()))
	v.Update(SnapshotMsg{Snap: env.Svc.Snapshot(), Ready: true})

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Error(t, cmd().(StatusMsg).Err)
}
