package ui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tgienger/chores/internal/backup"
	"github.com/tgienger/chores/internal/db"
	"github.com/tgienger/chores/internal/household"
	"github.com/tgienger/chores/internal/models"
	"github.com/tgienger/chores/internal/ui/styles"
	"github.com/tgienger/chores/internal/ui/views"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "chores.db"), db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := household.New(store, household.Options{
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
	})
	bridge := backup.New(store, backup.Options{Now: func() time.Time { return testNow }})

	app := NewApp(svc, bridge, Options{LocalPath: filepath.Join(t.TempDir(), "local.json")})
	t.Cleanup(app.Close)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return app
}

// settle feeds store pushes to the app until cond holds for the mirror
func settle(t *testing.T, a *App, cond func(models.Snapshot) bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for !(a.env.Svc.Ready() && cond(a.env.Svc.Snapshot())) {
		select {
		case c := <-a.changes:
			a.Update(changeMsg{collection: c.Collection})
		case <-deadline:
			t.Fatal("timed out waiting for store snapshot")
		}
	}
	a.Update(changeMsg{})
}

func press(a *App, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

func seedHousehold(t *testing.T, a *App) {
	t.Helper()
	ctx := context.Background()
	svc := a.env.Svc
	settle(t, a, func(models.Snapshot) bool { return true })

	_, err := svc.AddMember(ctx, "Alice", "A")
	require.NoError(t, err)
	settle(t, a, func(s models.Snapshot) bool { return len(s.Members) == 1 })

	_, err = svc.AddMember(ctx, "Bob", "B")
	require.NoError(t, err)
	settle(t, a, func(s models.Snapshot) bool { return len(s.Members) == 2 })

	_, err = svc.AddTask(ctx, "Dishes", "", "daily")
	require.NoError(t, err)
	settle(t, a, func(s models.Snapshot) bool { return len(s.Tasks) == 1 })
}

func TestApp_TabSwitching(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, ViewToday, a.CurrentView())

	press(a, "tab")
	assert.Equal(t, ViewStats, a.CurrentView())

	press(a, "shift+tab")
	press(a, "shift+tab")
	assert.Equal(t, ViewWeek, a.CurrentView())

	press(a, "4")
	assert.Equal(t, ViewSettings, a.CurrentView())
	assert.Contains(t, a.View(), "Members")
}

func TestApp_FormCapturesKeys(t *testing.T) {
	a := newTestApp(t)
	settle(t, a, func(models.Snapshot) bool { return true })

	press(a, "4")
	press(a, "n")
	// Typed into the name field instead of switching tabs
	press(a, "1")
	press(a, "q")
	assert.Equal(t, ViewSettings, a.CurrentView())

	press(a, "esc")
	press(a, "1")
	assert.Equal(t, ViewWeek, a.CurrentView())
}

func TestApp_CompleteFromToday(t *testing.T) {
	a := newTestApp(t)
	seedHousehold(t, a)
	assert.Contains(t, a.View(), "Dishes")

	cmd := press(a, " ")
	require.NotNil(t, cmd)
	msg := cmd()
	status, ok := msg.(views.StatusMsg)
	require.True(t, ok, "got %T", msg)
	require.NoError(t, status.Err)
	assert.Equal(t, "Dishes done by Alice", status.Text)

	settle(t, a, func(s models.Snapshot) bool {
		return len(s.History) == 1 && s.Tasks[0].CompletedToday(testNow)
	})
	a.Update(status)
	assert.Contains(t, a.View(), "done today")
	assert.Contains(t, a.View(), "Dishes done by Alice")

	// A second completion the same day is refused and shown as an error
	status = press(a, "c")().(views.StatusMsg)
	assert.Error(t, status.Err)

	status = press(a, "u")().(views.StatusMsg)
	require.NoError(t, status.Err)
	settle(t, a, func(s models.Snapshot) bool { return len(s.History) == 0 })
}

func TestApp_ThemeToggle(t *testing.T) {
	a := newTestApp(t)
	t.Cleanup(func() { styles.Use(household.ThemeDark) })
	settle(t, a, func(models.Snapshot) bool { return true })
	before := a.env.Styles

	press(a, "4")
	a.Update(views.ThemeChangedMsg{Name: household.ThemeLight})

	assert.Equal(t, household.ThemeLight, styles.Current.Name)
	assert.Same(t, before, a.env.Styles, "views keep the shared styles pointer")
}

func TestApp_CloseReleasesStore(t *testing.T) {
	a := newTestApp(t)
	a.Close()
	a.Close()

	// Buffered pushes may still be pending; once drained only done is ready
	for i := 0; i <= cap(a.changes); i++ {
		if a.waitForChange() == nil {
			return
		}
	}
	t.Fatal("waitForChange kept returning after Close")
}
