package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/chores/internal/backup"
	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/config"
)

type testEnv struct {
	dir string
	db  string
	now time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("CHORES_DB", "")
	t.Setenv("CHORES_LOG_LEVEL", "")
	t.Setenv("CHORES_TZ", "UTC")
	return &testEnv{
		dir: dir,
		db:  filepath.Join(dir, "chores.db"),
		now: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{
		Build: BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-10-01"},
		Now:   func() time.Time { return e.now },
	}
	cmd := NewRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", e.db}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "chores %s: %s", strings.Join(args, " "), out)
	return out
}

// household sets up Alice and Bob sharing Dishes and Trash, with Trash done
// by Alice this morning and Bob pinned to Friday's dishes.
func (e *testEnv) household(t *testing.T) {
	t.Helper()
	e.mustRun(t, "member", "add", "Alice", "--emoji", "A")
	e.mustRun(t, "member", "add", "Bob")
	e.mustRun(t, "task", "add", "Dishes")
	e.mustRun(t, "task", "add", "Trash", "--cycle", "weekly")
	e.mustRun(t, "complete", "trash", "--photo", "pic.jpg")
	e.mustRun(t, "assign", "dishes", "bob", "--date", "2026-10-16")
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{})
	for _, name := range []string{
		"member", "task", "complete", "undo", "assign", "unassign", "assignments",
		"week", "stats", "export", "import", "upload", "download", "sync", "reset", "config", "version",
	} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	for _, flag := range []string{"config", "db", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(env.dir, "config", "chores", "config.yaml")

	assert.Equal(t, path+"\n", env.mustRun(t, "config", "path"))
	assert.Equal(t, "Wrote "+path+"\n", env.mustRun(t, "config", "init"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	def := config.DefaultConfig()
	assert.Equal(t, def.Database, cfg.Database)
	assert.Equal(t, def.Log.Level, cfg.Log.Level)

	_, err = env.run(t, "config", "init")
	assert.ErrorContains(t, err, "already exists")
	env.mustRun(t, "config", "init", "--force")

	custom := filepath.Join(env.dir, "elsewhere.yaml")
	env.mustRun(t, "--config", custom, "config", "init")
	assert.FileExists(t, custom)
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "version")
	assert.Equal(t, "chores 1.2.3 (commit: abc123, built: 2026-10-01)\n", out)
}

func TestWeek_Golden(t *testing.T) {
	env := newTestEnv(t)
	env.household(t)

	out := env.mustRun(t, "week")
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "week", []byte(out))

	// Any day of the week shows the same grid.
	assert.Equal(t, out, env.mustRun(t, "week", "--date", "2026-10-18"))
}

func TestStats_Golden(t *testing.T) {
	env := newTestEnv(t)
	env.household(t)

	out := env.mustRun(t, "stats")
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "stats", []byte(out))
}

func TestComplete_OncePerDayThenUndo(t *testing.T) {
	env := newTestEnv(t)
	env.household(t)

	_, err := env.run(t, "complete", "Trash")
	assert.ErrorIs(t, err, chores.ErrAlreadyCompleted)

	out := env.mustRun(t, "undo", "Trash")
	assert.Contains(t, out, "Undid Trash")

	_, err = env.run(t, "undo", "Trash")
	assert.ErrorIs(t, err, chores.ErrNothingToUndo)

	out = env.mustRun(t, "complete", "Dishes")
	assert.Contains(t, out, "done by Alice")
}

func TestTaskLs(t *testing.T) {
	env := newTestEnv(t)
	env.household(t)

	out := env.mustRun(t, "task", "ls")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^Dishes\s+Daily\s+Alice\s+Bob\s+no$`, lines[1])
	assert.Regexp(t, `^Trash\s+Weekly\s+Bob\s+Alice\s+yes$`, lines[2])
}

func TestMemberRm_InUse(t *testing.T) {
	env := newTestEnv(t)
	env.household(t)

	_, err := env.run(t, "member", "rm", "Alice")
	assert.ErrorIs(t, err, chores.ErrMemberInUse)
}

func TestAssign_NeedsOneDayFlag(t *testing.T) {
	env := newTestEnv(t)
	env.household(t)

	_, err := env.run(t, "assign", "Dishes", "Alice")
	assert.Error(t, err)

	out := env.mustRun(t, "assign", "Dishes", "Alice", "--day", "thu")
	assert.Equal(t, "Dishes assigned to Alice on Thu 2026-10-22\n", out)

	out = env.mustRun(t, "assignments")
	assert.Contains(t, out, "2026-10-16  Fri  Dishes  Bob")
	assert.Contains(t, out, "2026-10-22  Thu  Dishes  Alice")

	env.mustRun(t, "unassign", "Dishes", "--date", "2026-10-22")
	out = env.mustRun(t, "assignments")
	assert.NotContains(t, out, "2026-10-22")

	_, err = env.run(t, "assign", "Dishes", "Alice", "--date", "16/10/2026")
	assert.ErrorIs(t, err, chores.ErrInvalidDateKey)
}

func TestExportImportReset(t *testing.T) {
	env := newTestEnv(t)
	env.household(t)

	file := filepath.Join(env.dir, "backup.json.zst")
	out := env.mustRun(t, "export", file)
	assert.Contains(t, out, "2 members, 2 tasks, 1 history entries, 1 assignments")

	_, err := env.run(t, "reset")
	assert.ErrorIs(t, err, errNotConfirmed)
	env.mustRun(t, "reset", "--yes")
	assert.Equal(t, "No members yet.\n", env.mustRun(t, "member", "ls"))

	_, err = env.run(t, "import", file)
	assert.ErrorIs(t, err, errNotConfirmed)
	env.mustRun(t, "import", file, "--yes")

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "week", []byte(env.mustRun(t, "week")))
}

func TestUploadDownload(t *testing.T) {
	env := newTestEnv(t)
	local := filepath.Join(env.dir, "local.json")

	_, err := env.run(t, "upload", "--local", local)
	assert.ErrorIs(t, err, backup.ErrNoLocalData)

	env.household(t)
	out := env.mustRun(t, "sync", "--local", local)
	assert.Contains(t, out, "Downloaded 2 members")

	_, err = os.Stat(local)
	require.NoError(t, err)

	env.mustRun(t, "reset", "--yes")
	out = env.mustRun(t, "upload", "--local", local)
	assert.Contains(t, out, "Uploaded 2 members, 2 tasks, 1 history entries, 1 assignments")
}

func TestUnknownTask(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "complete", "laundry")
	assert.ErrorIs(t, err, chores.ErrTaskNotFound)
}
