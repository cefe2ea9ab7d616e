package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/models"
	"github.com/tgienger/chores/internal/ui/styles"
)

// cardHeight is the rendered height of one task card, borders included
const cardHeight = 4

// TodayView shows one card per task with who is on duty today
type TodayView struct {
	env  *Env
	snap models.Snapshot

	width  int
	height int

	cursor  int
	scrollY int

	// Completion with a photo link
	photoInput  textinput.Model
	addingPhoto bool

	// Photo check-ins of the selected task
	viewingPhotos bool

	showHelpPopup bool
}

// NewTodayView creates the task card view
func NewTodayView(env *Env) *TodayView {
	photo := textinput.New()
	photo.Placeholder = "Photo URL or path"
	photo.CharLimit = 500

	return &TodayView{
		env:        env,
		photoInput: photo,
	}
}

func (v *TodayView) Init() tea.Cmd { return nil }

// Capturing reports whether keys belong to an input or popup
func (v *TodayView) Capturing() bool {
	return v.addingPhoto || v.viewingPhotos || v.showHelpPopup
}

func (v *TodayView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ensureVisible()
		return v, nil

	case SnapshotMsg:
		v.snap = msg.Snap
		v.cursor = clamp(v.cursor, 0, max(len(v.snap.Tasks)-1, 0))
		v.ensureVisible()
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.viewingPhotos {
			v.viewingPhotos = false
			return v, nil
		}
		if v.addingPhoto {
			return v.updatePhoto(msg)
		}
		return v.updateNormal(msg)
	}

	if v.addingPhoto {
		var cmd tea.Cmd
		v.photoInput, cmd = v.photoInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *TodayView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := v.env.Keys
	switch {
	case key.Matches(msg, k.Help):
		v.showHelpPopup = true
	case key.Matches(msg, k.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
	case key.Matches(msg, k.Down):
		if v.cursor < len(v.snap.Tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
	case key.Matches(msg, k.Complete):
		if task, ok := v.selected(); ok {
			return v, v.complete(task, "")
		}
	case key.Matches(msg, k.Photo):
		if _, ok := v.selected(); ok {
			v.addingPhoto = true
			v.photoInput.Reset()
			v.photoInput.Focus()
			return v, textinput.Blink
		}
	case key.Matches(msg, k.Undo):
		if task, ok := v.selected(); ok {
			return v, v.env.run("undo", func(ctx context.Context) (string, error) {
				if err := v.env.Svc.UndoTask(ctx, task.ID); err != nil {
					return "", err
				}
				return "Undid " + task.Name, nil
			})
		}
	case key.Matches(msg, k.Photos):
		if _, ok := v.selected(); ok {
			v.viewingPhotos = true
		}
	}
	return v, nil
}

func (v *TodayView) updatePhoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := v.env.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.addingPhoto = false
		v.photoInput.Blur()
		return v, nil
	case key.Matches(msg, k.Enter), key.Matches(msg, k.Save):
		url := strings.TrimSpace(v.photoInput.Value())
		if url == "" {
			return v, nil
		}
		v.addingPhoto = false
		v.photoInput.Blur()
		if task, ok := v.selected(); ok {
			return v, v.complete(task, url)
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.photoInput, cmd = v.photoInput.Update(msg)
	return v, cmd
}

// complete runs off the update loop, so it works on a copy of the snapshot
// taken now; v.snap is replaced by every store push.
func (v *TodayView) complete(task models.Task, photoURL string) tea.Cmd {
	snap := v.snap
	svc := v.env.Svc
	return v.env.run("complete", func(ctx context.Context) (string, error) {
		entry, err := svc.CompleteTask(ctx, task.ID, photoURL)
		if err != nil {
			return "", err
		}
		who := "someone"
		if m, ok := snap.Member(entry.MemberID); ok {
			who = m.Name
		}
		return fmt.Sprintf("%s done by %s", task.Name, who), nil
	})
}

func (v *TodayView) selected() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.snap.Tasks) {
		return models.Task{}, false
	}
	return v.snap.Tasks[v.cursor], true
}

func (v *TodayView) visibleItems() int {
	return max((v.height-4)/cardHeight, 1)
}

func (v *TodayView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TodayView) View() string {
	s := v.env.Styles
	if v.showHelpPopup {
		k := v.env.Keys
		return renderHelpPopup(s, v.width, v.height,
			k.Up, k.Down, k.Complete, k.Photo, k.Undo, k.Photos, k.Quit)
	}
	if v.addingPhoto {
		return v.renderPhotoForm()
	}
	if v.viewingPhotos {
		return v.renderPhotos()
	}
	if len(v.snap.Tasks) == 0 {
		return place(v.width, v.height, lipgloss.JoinVertical(lipgloss.Center,
			s.Title.Render("Nothing to do"),
			"",
			s.TitleMuted.Render("Add tasks in Settings"),
		))
	}

	end := min(v.scrollY+v.visibleItems(), len(v.snap.Tasks))
	var cards []string
	for i := v.scrollY; i < end; i++ {
		cards = append(cards, v.renderCard(v.snap.Tasks[i], i == v.cursor))
	}

	k := v.env.Keys
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, cards...),
		renderHelp(s, v.width, k.Complete, k.Photo, k.Undo, k.Photos, k.Help),
	)
	return styles.CenterView(content, v.width)
}

func (v *TodayView) renderCard(task models.Task, selected bool) string {
	s := v.env.Styles
	now := v.env.Svc.Now()
	width := max(styles.ContentWidth(v.width)-4, 20)

	var state string
	if task.CompletedToday(now) {
		state = s.Done.Render("✓ done today")
	} else {
		state = s.Pending.Render("○ pending")
	}
	head := lipgloss.JoinHorizontal(lipgloss.Top,
		s.Title.Width(width-lipgloss.Width(state)-2).Render(strings.TrimSpace(task.Icon+" "+task.Name)),
		state,
	)

	duty := s.TitleMuted.Render("nobody on duty")
	if m, manual, ok := chores.ResolveAssignee(v.snap, task, now); ok {
		duty = "Today: " + memberLabel(m)
		if manual {
			duty += s.TitleMuted.Render(" (assigned)")
		}
	}
	if m, ok := chores.NextAssignee(v.snap, task); ok {
		duty += s.TitleMuted.Render("  next: ") + memberLabel(m)
	}
	duty += s.TitleMuted.Render("  " + task.Cycle.Label())

	card := s.Card
	if selected {
		card = s.CardSelected
	}
	return card.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, head, duty))
}

func (v *TodayView) renderPhotoForm() string {
	s := v.env.Styles
	task, _ := v.selected()
	inputWidth := clamp(styles.ContentWidth(v.width)-6, 20, 50)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Complete "+task.Name+" with photo"),
		"",
		s.InputFocused.Width(inputWidth).Render(v.photoInput.View()),
		"",
		s.TitleMuted.Render("Enter: complete • Esc: cancel"),
	)
	return place(v.width, v.height, form)
}

func (v *TodayView) renderPhotos() string {
	s := v.env.Styles
	task, _ := v.selected()
	photos := chores.TaskPhotos(v.snap.History, task.ID)

	lines := []string{s.Title.Render("Photos: " + task.Name), ""}
	if len(photos) == 0 {
		lines = append(lines, s.TitleMuted.Render("No photo check-ins yet"))
	}
	loc := v.env.Svc.Location()
	for _, e := range photos {
		who := "deleted member"
		if m, ok := v.snap.Member(e.MemberID); ok {
			who = m.Name
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			s.HelpKey.Render(e.CompletedAt.In(loc).Format("2006-01-02 15:04")), who, e.PhotoURL))
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to close"))

	return place(v.width, v.height, s.Popup.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
