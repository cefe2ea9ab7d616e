package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/models"
	"github.com/tgienger/chores/internal/ui/styles"
)

const (
	statsBarWidth    = 30
	statsRecentLimit = 20
)

// StatsView shows completions per member and the latest history
type StatsView struct {
	env  *Env
	snap models.Snapshot

	width   int
	height  int
	scrollY int
}

// NewStatsView creates the statistics view
func NewStatsView(env *Env) *StatsView {
	return &StatsView{env: env}
}

func (v *StatsView) Init() tea.Cmd { return nil }

// Capturing is always false; the view has no inputs
func (v *StatsView) Capturing() bool { return false }

func (v *StatsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case SnapshotMsg:
		v.snap = msg.Snap
		v.scrollY = clamp(v.scrollY, 0, v.maxScroll())
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.env.Keys.Up):
			v.scrollY = max(v.scrollY-1, 0)
		case key.Matches(msg, v.env.Keys.Down):
			v.scrollY = clamp(v.scrollY+1, 0, v.maxScroll())
		}
	}
	return v, nil
}

func (v *StatsView) maxScroll() int {
	return max(min(len(v.snap.History), statsRecentLimit)-1, 0)
}

func (v *StatsView) View() string {
	s := v.env.Styles
	now := v.env.Svc.Now()
	summary := chores.Summarize(v.snap, now)

	lines := []string{
		s.Title.Render("Month " + summary.Month),
		s.TitleMuted.Render(fmt.Sprintf("%d completions, %d members, %d tasks",
			summary.Completions, len(v.snap.Members), len(v.snap.Tasks))),
		"",
	}

	counts := chores.MemberCompletionCounts(v.snap.History, v.snap.Members)
	highest := chores.MaxCount(counts)
	nameWidth := 4
	for _, c := range counts {
		nameWidth = max(nameWidth, lipgloss.Width(c.Member.Emoji+" "+c.Member.Name))
	}
	for _, c := range counts {
		filled := c.Count * statsBarWidth / highest
		bar := styles.Member(c.Member.Color).Render(strings.Repeat("█", filled)) +
			s.TitleMuted.Render(strings.Repeat("░", statsBarWidth-filled))
		lines = append(lines, fmt.Sprintf("%s  %s  %d",
			lipgloss.NewStyle().Width(nameWidth).Render(memberLabel(c.Member)), bar, c.Count))
	}
	if len(counts) == 0 {
		lines = append(lines, s.TitleMuted.Render("No members yet"))
	}

	lines = append(lines, "", s.Title.Render("Recent"))
	recent := chores.RecentHistory(v.snap, statsRecentLimit)
	if len(recent) == 0 {
		lines = append(lines, s.TitleMuted.Render("No completions yet"))
	}
	room := max(v.height-len(lines)-3, 1)
	end := min(v.scrollY+room, len(recent))
	loc := v.env.Svc.Location()
	for _, r := range recent[min(v.scrollY, len(recent)):end] {
		who := s.TitleMuted.Render("deleted member")
		if r.Known {
			who = memberLabel(r.Member)
		}
		line := fmt.Sprintf("%s  %s  %s",
			s.TitleMuted.Render(r.Entry.CompletedAt.In(loc).Format("01-02 15:04")),
			strings.TrimSpace(r.Entry.TaskIcon+" "+r.Entry.TaskName),
			who,
		)
		if r.Entry.PhotoURL != "" {
			line += s.HelpKey.Render(" [photo]")
		}
		lines = append(lines, line)
	}

	lines = append(lines, renderHelp(s, v.width, v.env.Keys.Up, v.env.Keys.Down))
	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, lines...), v.width)
}
