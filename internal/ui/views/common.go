package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/chores/internal/backup"
	"github.com/tgienger/chores/internal/household"
	"github.com/tgienger/chores/internal/models"
	"github.com/tgienger/chores/internal/ui/keys"
	"github.com/tgienger/chores/internal/ui/styles"
	"go.uber.org/zap"
)

// opTimeout bounds a single store or file operation started from the UI
const opTimeout = 30 * time.Second

// Env is what every view shares: the household, the bridge and one set of
// styles that the app rebuilds in place when the theme changes.
type Env struct {
	Svc       *household.Service
	Bridge    *backup.Bridge
	LocalPath string
	Styles    *styles.Styles
	Keys      keys.KeyMap
	Log       *zap.Logger
}

// SnapshotMsg carries the mirror after the store pushed a collection
type SnapshotMsg struct {
	Snap  models.Snapshot
	Ready bool
}

// StatusMsg is shown in the status line until the next one arrives
type StatusMsg struct {
	Text string
	Err  error
}

// ThemeChangedMsg asks the app to rebuild styles for the named theme
type ThemeChangedMsg struct {
	Name string
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// run performs op off the update loop and reports the outcome as a status.
// The view never patches its own data; the store push that follows a
// successful write does that.
func (e *Env) run(name string, op func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		text, err := op(ctx)
		if err != nil {
			e.Log.Debug("ui operation failed", zap.String("op", name), zap.Error(err))
			return StatusMsg{Err: fmt.Errorf("%s: %w", name, err)}
		}
		return StatusMsg{Text: text}
	}
}

// place centers content in the view area the way every popup is shown
func place(width, height int, content string) string {
	contentWidth := styles.ContentWidth(width)
	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width)
}

func renderConfirm(s *styles.Styles, width, height int, title string, detail ...string) string {
	lines := []string{s.Title.Foreground(styles.Current.Error).Render(title), ""}
	for _, d := range detail {
		lines = append(lines, s.TitleMuted.Render(d))
	}
	lines = append(lines, "",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)
	return place(width, height, lipgloss.JoinVertical(lipgloss.Center, lines...))
}

// renderHelpPopup lists bindings one per line, key column aligned
func renderHelpPopup(s *styles.Styles, width, height int, bindings ...key.Binding) string {
	items := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, b := range bindings {
		h := b.Help()
		pad := max(7-lipgloss.Width(h.Key), 1)
		items = append(items, s.HelpKey.Render(h.Key)+strings.Repeat(" ", pad)+h.Desc)
	}
	items = append(items, "", s.TitleMuted.Render("Press any key to close"))

	return place(width, height, s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, items...)))
}

// renderHelp is the one-line hint under a view. Narrow terminals only get
// the pointer to the popup.
func renderHelp(s *styles.Styles, width int, bindings ...key.Binding) string {
	contentWidth := styles.ContentWidth(width)
	if contentWidth > 0 && contentWidth < 50 {
		return s.Help.Render(s.HelpKey.Render("?") + " help")
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = s.HelpKey.Render(h.Key) + " " + h.Desc
	}
	return s.Help.Render(strings.Join(parts, " • "))
}

func memberLabel(m models.Member) string {
	return styles.Member(m.Color).Render(m.Emoji + " " + m.Name)
}
