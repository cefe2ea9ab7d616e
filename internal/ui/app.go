package ui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/tgienger/chores/internal/backup"
	"github.com/tgienger/chores/internal/household"
	"github.com/tgienger/chores/internal/models"
	"github.com/tgienger/chores/internal/ui/keys"
	"github.com/tgienger/chores/internal/ui/styles"
	"github.com/tgienger/chores/internal/ui/views"
)

// View is a tab of the app
type View int

const (
	ViewWeek View = iota
	ViewToday
	ViewStats
	ViewSettings
)

var tabNames = []string{"Week", "Today", "Stats", "Settings"}

// tab is what every view offers the app
type tab interface {
	tea.Model
	// Capturing is true while a form or popup owns the keyboard.
	Capturing() bool
}

// Options configures the app
type Options struct {
	// LocalPath is the file used by upload, download and sync.
	LocalPath string
	Logger    *zap.Logger
}

// changeMsg wakes the app after the store pushed a collection
type changeMsg struct {
	collection models.Collection
}

// tickMsg redraws so "today" rolls over at midnight
type tickMsg time.Time

type App struct {
	env         *views.Env
	currentView View
	tabs        []tab
	width       int
	height      int
	status      views.StatusMsg

	changes   chan models.Change
	done      chan struct{}
	stopWatch func()
	closeOnce sync.Once
}

// NewApp creates the application and starts mirroring the store
func NewApp(svc *household.Service, bridge *backup.Bridge, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	styles.Use(svc.Theme())

	env := &views.Env{
		Svc:       svc,
		Bridge:    bridge,
		LocalPath: opts.LocalPath,
		Styles:    styles.NewStyles(),
		Keys:      keys.DefaultKeyMap(),
		Log:       opts.Logger.Named("ui"),
	}

	a := &App{
		env:         env,
		currentView: ViewToday,
		tabs: []tab{
			views.NewWeekView(env),
			views.NewTodayView(env),
			views.NewStatsView(env),
			views.NewSettingsView(env),
		},
		changes: make(chan models.Change, len(models.Collections)),
		done:    make(chan struct{}),
	}
	// The store's dispatcher blocks here until the update loop takes the
	// change, or until Close.
	a.stopWatch = svc.Watch(func(c models.Change) {
		select {
		case a.changes <- c:
		case <-a.done:
		}
	})
	return a
}

// Close stops watching the store. It must run before the store is closed.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		close(a.done)
		a.stopWatch()
	})
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.waitForChange, tick())
}

func (a *App) waitForChange() tea.Msg {
	select {
	case c := <-a.changes:
		return changeMsg{collection: c.Collection}
	case <-a.done:
		return nil
	}
}

func tick() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Tabs row and status line
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-2, 1)}
		return a, a.broadcast(inner)

	case changeMsg:
		snap := views.SnapshotMsg{Snap: a.env.Svc.Snapshot(), Ready: a.env.Svc.Ready()}
		return a, tea.Batch(a.broadcast(snap), a.waitForChange)

	case tickMsg:
		return a, tick()

	case views.StatusMsg:
		a.status = msg
		if msg.Err != nil {
			a.env.Log.Warn("operation failed", zap.Error(msg.Err))
		}
		return a, nil

	case views.ThemeChangedMsg:
		styles.Use(msg.Name)
		*a.env.Styles = *styles.NewStyles()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.active().Capturing() {
			if cmd, ok := a.handleKey(msg); ok {
				return a, cmd
			}
		}
	}

	_, cmd := a.active().Update(msg)
	return a, cmd
}

// handleKey takes the app-level keys: quit and tab switching
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := a.env.Keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit, true
	case key.Matches(msg, k.Tab):
		a.currentView = (a.currentView + 1) % View(len(a.tabs))
		return nil, true
	case key.Matches(msg, k.ShiftTab):
		a.currentView = (a.currentView + View(len(a.tabs)) - 1) % View(len(a.tabs))
		return nil, true
	}
	switch s := msg.String(); s {
	case "1", "2", "3", "4":
		a.currentView = View(s[0] - '1')
		return nil, true
	}
	return nil, false
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.tabs))
	for _, t := range a.tabs {
		_, cmd := t.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) active() tab {
	return a.tabs[a.currentView]
}

// CurrentView returns the visible tab
func (a *App) CurrentView() View { return a.currentView }

// Status returns the last status line message
func (a *App) Status() views.StatusMsg { return a.status }

func (a *App) View() string {
	s := a.env.Styles

	names := make([]string, len(tabNames))
	for i, name := range tabNames {
		st := s.Tab
		if View(i) == a.currentView {
			st = s.TabActive
		}
		names[i] = st.Render(name)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, names...)
	if !a.env.Svc.Ready() {
		header += s.TitleMuted.Render("  loading...")
	}

	var status string
	switch {
	case a.status.Err != nil:
		status = s.StatusError.Render(a.status.Err.Error())
	case a.status.Text != "":
		status = s.Status.Render(a.status.Text)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.CenterView(header, a.width),
		a.active().View(),
		status,
	)
}
