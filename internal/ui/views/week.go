package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/models"
	"github.com/tgienger/chores/internal/ui/styles"
)

const (
	taskColWidth = 14
	dayColWidth  = 9
)

// WeekView is the calendar: one row per task, one column per day
type WeekView struct {
	env  *Env
	snap models.Snapshot

	width  int
	height int

	weekStart time.Time
	row       int
	day       int

	// Member picker for a manual assignment
	picking    bool
	pickCursor int

	showHelpPopup bool
}

// NewWeekView opens on the current week with the cursor on today
func NewWeekView(env *Env) *WeekView {
	now := env.Svc.Now()
	return &WeekView{
		env:       env,
		weekStart: dates.WeekStart(now),
		day:       dates.DayIndex(now),
	}
}

func (v *WeekView) Init() tea.Cmd { return nil }

// Capturing reports whether keys belong to a popup
func (v *WeekView) Capturing() bool {
	return v.picking || v.showHelpPopup
}

// WeekStart returns the Monday currently shown
func (v *WeekView) WeekStart() time.Time { return v.weekStart }

func (v *WeekView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case SnapshotMsg:
		v.snap = msg.Snap
		v.row = clamp(v.row, 0, max(len(v.snap.Tasks)-1, 0))
		if v.picking && len(v.snap.Tasks) == 0 {
			v.picking = false
		}
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.picking {
			return v.updatePicking(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *WeekView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := v.env.Keys
	switch {
	case key.Matches(msg, k.Help):
		v.showHelpPopup = true
	case key.Matches(msg, k.Up):
		v.row = max(v.row-1, 0)
	case key.Matches(msg, k.Down):
		v.row = clamp(v.row+1, 0, max(len(v.snap.Tasks)-1, 0))
	case key.Matches(msg, k.Left):
		if v.day == 0 {
			v.weekStart = v.weekStart.AddDate(0, 0, -7)
			v.day = 6
		} else {
			v.day--
		}
	case key.Matches(msg, k.Right):
		if v.day == 6 {
			v.weekStart = v.weekStart.AddDate(0, 0, 7)
			v.day = 0
		} else {
			v.day++
		}
	case key.Matches(msg, k.PrevWeek):
		v.weekStart = v.weekStart.AddDate(0, 0, -7)
	case key.Matches(msg, k.NextWeek):
		v.weekStart = v.weekStart.AddDate(0, 0, 7)
	case key.Matches(msg, k.Today):
		now := v.env.Svc.Now()
		v.weekStart = dates.WeekStart(now)
		v.day = dates.DayIndex(now)
	case key.Matches(msg, k.Assign):
		if _, ok := v.selectedTask(); ok && len(v.snap.Members) > 0 {
			v.picking = true
			v.pickCursor = 0
		}
	case key.Matches(msg, k.Clear):
		return v, v.clearSelected()
	}
	return v, nil
}

func (v *WeekView) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := v.env.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.picking = false
	case key.Matches(msg, k.Up):
		v.pickCursor = max(v.pickCursor-1, 0)
	case key.Matches(msg, k.Down):
		v.pickCursor = clamp(v.pickCursor+1, 0, max(len(v.snap.Members)-1, 0))
	case key.Matches(msg, k.Enter):
		v.picking = false
		task, ok := v.selectedTask()
		if !ok || v.pickCursor >= len(v.snap.Members) {
			return v, nil
		}
		member := v.snap.Members[v.pickCursor]
		day := v.selectedDay()
		return v, v.env.run("assign", func(ctx context.Context) (string, error) {
			if err := v.env.Svc.Assign(ctx, task.ID, member.ID, day); err != nil {
				return "", err
			}
			return fmt.Sprintf("%s assigned to %s on %s", member.Name, task.Name, dates.Key(day)), nil
		})
	}
	return v, nil
}

func (v *WeekView) clearSelected() tea.Cmd {
	task, ok := v.selectedTask()
	if !ok {
		return nil
	}
	day := v.selectedDay()
	if _, manual := v.snap.Assignment(task.ID, dates.Key(day)); !manual {
		return func() tea.Msg {
			return StatusMsg{Text: "no manual assignment on " + dates.Key(day)}
		}
	}
	return v.env.run("unassign", func(ctx context.Context) (string, error) {
		if err := v.env.Svc.ClearAssignment(ctx, task.ID, day); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s on %s back to rotation", task.Name, dates.Key(day)), nil
	})
}

func (v *WeekView) selectedTask() (models.Task, bool) {
	if v.row < 0 || v.row >= len(v.snap.Tasks) {
		return models.Task{}, false
	}
	return v.snap.Tasks[v.row], true
}

func (v *WeekView) selectedDay() time.Time {
	return dates.WeekDays(v.weekStart)[v.day]
}

func (v *WeekView) View() string {
	if v.showHelpPopup {
		k := v.env.Keys
		return renderHelpPopup(v.env.Styles, v.width, v.height,
			k.Left, k.Right, k.Up, k.Down, k.PrevWeek, k.NextWeek, k.Today, k.Assign, k.Clear, k.Quit)
	}
	if v.picking {
		return v.renderPicker()
	}
	if len(v.snap.Tasks) == 0 {
		return v.renderEmpty()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		v.renderGrid(),
		"",
		v.env.Styles.TitleMuted.Render("! manual assignment"),
		v.renderHelp(),
	)
	return styles.CenterView(content, v.width)
}

func (v *WeekView) renderGrid() string {
	s := v.env.Styles
	now := v.env.Svc.Now()
	days := dates.WeekDays(v.weekStart)
	cell := func(st lipgloss.Style, width int, text string) string {
		return st.Width(width).MaxWidth(width).Render(text)
	}

	title := s.Title.Render("Week of " + dates.Key(v.weekStart))

	header := []string{cell(s.DayHeader, taskColWidth, "Task")}
	for i, d := range days {
		label := fmt.Sprintf("%s %02d", dates.DayName(i), d.Day())
		st := s.DayHeader
		if dates.SameDay(d, now) {
			st = s.TodayHeader
		}
		header = append(header, cell(st, dayColWidth, label))
	}

	lines := []string{title, "", lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for r, row := range chores.WeekGrid(v.snap, v.weekStart) {
		name := strings.TrimSpace(row.Task.Icon + " " + row.Task.Name)
		cols := []string{cell(s.Cell, taskColWidth, name)}
		for d, c := range row.Days {
			text := "-"
			st := s.Cell
			if dates.SameDay(c.Date, now) {
				st = s.CellToday
			}
			if c.Assigned {
				text = c.Member.Name
				if c.Manual {
					text += "!"
				}
				st = st.Foreground(lipgloss.Color(c.Member.Color))
			}
			if r == v.row && d == v.day {
				st = s.CellCursor
			}
			cols = append(cols, cell(st, dayColWidth, text))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *WeekView) renderPicker() string {
	s := v.env.Styles
	task, _ := v.selectedTask()

	items := make([]string, len(v.snap.Members))
	for i, m := range v.snap.Members {
		st := s.ListItem
		if i == v.pickCursor {
			st = s.ListSelected
		}
		items[i] = st.Render(memberLabel(m))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(fmt.Sprintf("%s on %s", task.Name, dates.Key(v.selectedDay()))),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		s.TitleMuted.Render("Enter: assign • Esc: cancel"),
	)
	return place(v.width, v.height, s.Popup.Render(content))
}

func (v *WeekView) renderEmpty() string {
	s := v.env.Styles
	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Tasks"),
		"",
		s.TitleMuted.Render("Add members and tasks in Settings"),
	)
	return place(v.width, v.height, content)
}

func (v *WeekView) renderHelp() string {
	k := v.env.Keys
	return renderHelp(v.env.Styles, v.width, k.PrevWeek, k.NextWeek, k.Today, k.Assign, k.Clear, k.Help)
}
