package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/chores/internal/backup"
	"github.com/tgienger/chores/internal/chores"
	"github.com/tgienger/chores/internal/dates"
	"github.com/tgienger/chores/internal/household"
	"github.com/tgienger/chores/internal/models"
	"github.com/tgienger/chores/internal/ui/styles"
)

type section int

const (
	sectionMembers section = iota
	sectionTasks
	sectionAssignments
)

var sectionNames = []string{"Members", "Tasks", "Assignments"}

// record is one row in any of the settings lists
type record struct {
	id    string // member or task id
	date  string // assignments only
	title string
	desc  string
	color string
}

func (r record) Title() string       { return r.title }
func (r record) Description() string { return r.desc }
func (r record) FilterValue() string { return r.title }

type recordDelegate struct {
	styles *styles.Styles
	width  int
}

func (d *recordDelegate) Height() int                               { return 2 }
func (d *recordDelegate) Spacing() int                              { return 1 }
func (d *recordDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d *recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(record)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	titleStyle := d.styles.ListItem.Width(width)
	descStyle := d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	if index == m.Index() {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	}
	if r.color != "" {
		titleStyle = titleStyle.Foreground(lipgloss.Color(r.color))
	}

	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(r.Title()), descStyle.Render(r.Description()))
}

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmImport
	confirmReset
	confirmResetAgain
)

type promptKind int

const (
	promptNone promptKind = iota
	promptExport
	promptImport
)

// SettingsView manages members, tasks and assignments, and holds the data
// actions: theme, export, import, upload, download, sync and reset.
type SettingsView struct {
	env  *Env
	snap models.Snapshot

	lists    [3]list.Model
	delegate *recordDelegate
	section  section

	width  int
	height int

	// Member and task form
	editing   bool
	editingID string // empty for a new record
	fields    [2]textinput.Model
	cycleIdx  int
	focusIdx  int // 0,1=fields, 2=cycle (tasks only), last=save

	confirming confirmKind
	target     record

	prompt    promptKind
	pathInput textinput.Model
	path      string

	showHelpPopup bool
}

// NewSettingsView creates the settings view
func NewSettingsView(env *Env) *SettingsView {
	delegate := &recordDelegate{styles: env.Styles, width: styles.MaxWidth}

	v := &SettingsView{env: env, delegate: delegate}
	for i := range v.lists {
		l := list.New([]list.Item{}, delegate, 0, 0)
		l.Title = sectionNames[i]
		l.SetShowTitle(false)
		l.SetShowStatusBar(false)
		l.SetFilteringEnabled(true)
		l.SetShowHelp(false)
		// q and esc belong to the app
		l.KeyMap.Quit.SetEnabled(false)
		l.KeyMap.ForceQuit.SetEnabled(false)
		v.lists[i] = l
	}

	for i := range v.fields {
		v.fields[i] = textinput.New()
		v.fields[i].CharLimit = 100
	}

	v.pathInput = textinput.New()
	v.pathInput.Placeholder = "chores-export.json"
	v.pathInput.CharLimit = 500

	return v
}

func (v *SettingsView) Init() tea.Cmd { return nil }

// Capturing reports whether keys belong to a form, prompt, popup or filter
func (v *SettingsView) Capturing() bool {
	return v.editing || v.prompt != promptNone || v.confirming != confirmNone ||
		v.showHelpPopup || v.current().FilterState() == list.Filtering
}

func (v *SettingsView) current() *list.Model {
	return &v.lists[v.section]
}

func (v *SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		for i := range v.lists {
			v.lists[i].SetSize(contentWidth-4, max(msg.Height-4, 4))
		}
		return v, nil

	case SnapshotMsg:
		v.snap = msg.Snap
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirming != confirmNone {
			return v.updateConfirm(msg)
		}
		if v.prompt != promptNone {
			return v.updatePrompt(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.current().FilterState() != list.Filtering {
			if cmd, handled := v.updateNormal(msg); handled {
				return v, cmd
			}
		}
	}

	var cmd tea.Cmd
	*v.current(), cmd = v.current().Update(msg)
	return v, cmd
}

// refresh rebuilds all three lists from the snapshot
func (v *SettingsView) refresh() {
	snap := v.snap

	members := make([]list.Item, len(snap.Members))
	for i, m := range snap.Members {
		members[i] = record{id: m.ID, title: m.Emoji + " " + m.Name, desc: m.Color, color: m.Color}
	}

	tasks := make([]list.Item, len(snap.Tasks))
	for i, t := range snap.Tasks {
		names := make([]string, 0, len(t.Queue))
		for _, id := range t.Queue {
			if m, ok := snap.Member(id); ok {
				names = append(names, m.Name)
			}
		}
		tasks[i] = record{
			id:    t.ID,
			title: strings.TrimSpace(t.Icon + " " + t.Name),
			desc:  t.Cycle.Label() + " • " + strings.Join(names, " → "),
		}
	}

	pinned := chores.Assignments(snap, v.env.Svc.Location())
	assignments := make([]list.Item, len(pinned))
	for i, a := range pinned {
		assignments[i] = record{
			id:    a.Task.ID,
			date:  a.Assignment.Date,
			title: fmt.Sprintf("%s %s: %s", a.DayName, a.Assignment.Date, a.Task.Name),
			desc:  a.Member.Emoji + " " + a.Member.Name,
			color: a.Member.Color,
		}
	}

	v.lists[sectionMembers].SetItems(members)
	v.lists[sectionTasks].SetItems(tasks)
	v.lists[sectionAssignments].SetItems(assignments)
}

func (v *SettingsView) selected() (record, bool) {
	r, ok := v.current().SelectedItem().(record)
	return r, ok
}

// updateNormal handles the view's own keys; anything else goes to the list
func (v *SettingsView) updateNormal(msg tea.KeyMsg) (tea.Cmd, bool) {
	k := v.env.Keys
	switch {
	case key.Matches(msg, k.Help):
		v.showHelpPopup = true
	case key.Matches(msg, k.Left):
		v.section = (v.section + 2) % 3
	case key.Matches(msg, k.Right):
		v.section = (v.section + 1) % 3
	case key.Matches(msg, k.New):
		if v.section == sectionAssignments {
			return func() tea.Msg {
				return StatusMsg{Text: "assign from the Week tab"}
			}, true
		}
		return v.startEdit(""), true
	case key.Matches(msg, k.Edit):
		if r, ok := v.selected(); ok && v.section != sectionAssignments {
			return v.startEdit(r.id), true
		}
	case key.Matches(msg, k.Delete):
		if r, ok := v.selected(); ok {
			v.confirming = confirmDelete
			v.target = r
		}
	case key.Matches(msg, k.Theme):
		return v.toggleTheme(), true
	case key.Matches(msg, k.Export):
		return v.startPrompt(promptExport), true
	case key.Matches(msg, k.Import):
		return v.startPrompt(promptImport), true
	case key.Matches(msg, k.Upload):
		return v.transfer("upload"), true
	case key.Matches(msg, k.Download):
		return v.transfer("download"), true
	case key.Matches(msg, k.Sync):
		return v.transfer("sync"), true
	case key.Matches(msg, k.Reset):
		v.confirming = confirmReset
	default:
		return nil, false
	}
	return nil, true
}

func (v *SettingsView) startEdit(id string) tea.Cmd {
	v.editing = true
	v.editingID = id
	v.focusIdx = 0
	v.cycleIdx = 0
	for i := range v.fields {
		v.fields[i].Reset()
	}

	if v.section == sectionMembers {
		v.fields[0].Placeholder = "Name"
		v.fields[1].Placeholder = "Emoji (optional)"
		if m, ok := v.snap.Member(id); ok {
			v.fields[0].SetValue(m.Name)
			v.fields[1].SetValue(m.Emoji)
		}
	} else {
		v.fields[0].Placeholder = "Task name"
		v.fields[1].Placeholder = "Icon (optional)"
		if t, ok := v.snap.Task(id); ok {
			v.fields[0].SetValue(t.Name)
			v.fields[1].SetValue(t.Icon)
			for i, c := range models.Cycles {
				if c == t.Cycle {
					v.cycleIdx = i
				}
			}
		}
	}
	v.updateFocus()
	return textinput.Blink
}

// focusCount is the number of stops in the form, save button included
func (v *SettingsView) focusCount() int {
	if v.section == sectionTasks {
		return 4
	}
	return 3
}

func (v *SettingsView) updateFocus() {
	for i := range v.fields {
		v.fields[i].Blur()
	}
	if v.focusIdx < len(v.fields) {
		v.fields[v.focusIdx].Focus()
	}
}

func (v *SettingsView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := v.env.Keys
	n := v.focusCount()
	onCycle := v.section == sectionTasks && v.focusIdx == 2

	switch {
	case key.Matches(msg, k.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, k.Save):
		return v, v.save()

	case key.Matches(msg, k.ShiftTab):
		v.focusIdx = (v.focusIdx + n - 1) % n
		v.updateFocus()
		return v, nil

	case key.Matches(msg, k.Tab):
		v.focusIdx = (v.focusIdx + 1) % n
		v.updateFocus()
		return v, nil

	case onCycle && msg.String() == "left":
		v.cycleIdx = (v.cycleIdx + len(models.Cycles) - 1) % len(models.Cycles)
		return v, nil

	case onCycle && msg.String() == "right":
		v.cycleIdx = (v.cycleIdx + 1) % len(models.Cycles)
		return v, nil

	case key.Matches(msg, k.Enter):
		if v.focusIdx < n-1 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.save()
	}

	var cmd tea.Cmd
	if v.focusIdx < len(v.fields) {
		v.fields[v.focusIdx], cmd = v.fields[v.focusIdx].Update(msg)
	}
	return v, cmd
}

func (v *SettingsView) save() tea.Cmd {
	name := strings.TrimSpace(v.fields[0].Value())
	if name == "" {
		return func() tea.Msg { return StatusMsg{Err: chores.ErrEmptyName} }
	}
	extra := strings.TrimSpace(v.fields[1].Value())
	id := v.editingID
	svc := v.env.Svc
	v.editing = false

	if v.section == sectionMembers {
		if id == "" {
			return v.env.run("add member", func(ctx context.Context) (string, error) {
				m, err := svc.AddMember(ctx, name, extra)
				if err != nil {
					return "", err
				}
				return "Added " + m.Name, nil
			})
		}
		return v.env.run("edit member", func(ctx context.Context) (string, error) {
			return "Saved " + name, svc.EditMember(ctx, id, name, extra)
		})
	}

	cycle := string(models.Cycles[v.cycleIdx])
	if id == "" {
		return v.env.run("add task", func(ctx context.Context) (string, error) {
			t, err := svc.AddTask(ctx, name, extra, cycle)
			if err != nil {
				return "", err
			}
			return "Added " + t.Name, nil
		})
	}
	return v.env.run("edit task", func(ctx context.Context) (string, error) {
		return "Saved " + name, svc.EditTask(ctx, id, name, extra, cycle)
	})
}

func (v *SettingsView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		kind := v.confirming
		v.confirming = confirmNone
		switch kind {
		case confirmDelete:
			return v, v.deleteTarget()
		case confirmImport:
			return v, v.importFile(v.path)
		case confirmReset:
			v.confirming = confirmResetAgain
			return v, nil
		case confirmResetAgain:
			return v, v.env.run("reset", func(ctx context.Context) (string, error) {
				return "All household data deleted", v.env.Svc.ResetAll(ctx)
			})
		}
	case "n", "N", "esc":
		v.confirming = confirmNone
	}
	return v, nil
}

func (v *SettingsView) deleteTarget() tea.Cmd {
	r := v.target
	svc := v.env.Svc
	switch v.section {
	case sectionMembers:
		return v.env.run("delete member", func(ctx context.Context) (string, error) {
			return "Deleted " + r.title, svc.DeleteMember(ctx, r.id)
		})
	case sectionTasks:
		return v.env.run("delete task", func(ctx context.Context) (string, error) {
			return "Deleted " + r.title, svc.DeleteTask(ctx, r.id)
		})
	}
	loc := svc.Location()
	return v.env.run("unassign", func(ctx context.Context) (string, error) {
		day, err := dates.ParseKey(r.date, loc)
		if err != nil {
			return "", err
		}
		return "Cleared " + r.title, svc.ClearAssignment(ctx, r.id, day)
	})
}

func (v *SettingsView) startPrompt(kind promptKind) tea.Cmd {
	v.prompt = kind
	v.pathInput.Reset()
	v.pathInput.Focus()
	return textinput.Blink
}

func (v *SettingsView) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := v.env.Keys
	switch {
	case key.Matches(msg, k.Back):
		v.prompt = promptNone
		v.pathInput.Blur()
		return v, nil
	case key.Matches(msg, k.Enter):
		path := strings.TrimSpace(v.pathInput.Value())
		if path == "" {
			path = v.pathInput.Placeholder
		}
		kind := v.prompt
		v.prompt = promptNone
		v.pathInput.Blur()
		if kind == promptExport {
			return v, v.exportFile(path)
		}
		// Import replaces everything, so ask first
		v.path = path
		v.confirming = confirmImport
		return v, nil
	}

	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

func (v *SettingsView) exportFile(path string) tea.Cmd {
	return v.env.run("export", func(ctx context.Context) (string, error) {
		counts, err := v.env.Bridge.Export(ctx, path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Exported %s to %s", counts, path), nil
	})
}

func (v *SettingsView) importFile(path string) tea.Cmd {
	return v.env.run("import", func(ctx context.Context) (string, error) {
		counts, err := v.env.Bridge.Import(ctx, path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Imported %s", counts), nil
	})
}

func (v *SettingsView) transfer(op string) tea.Cmd {
	b := v.env.Bridge
	local := v.env.LocalPath
	return v.env.run(op, func(ctx context.Context) (string, error) {
		var (
			text string
			err  error
		)
		switch op {
		case "upload":
			var c backup.Counts
			c, err = b.Upload(ctx, local)
			text = "Uploaded " + c.String()
		case "download":
			var c backup.Counts
			c, err = b.Download(ctx, local)
			text = "Downloaded " + c.String()
		default:
			var up, down backup.Counts
			up, down, err = b.Sync(ctx, local)
			text = fmt.Sprintf("Synced: up %s, down %s", up, down)
		}
		if errors.Is(err, backup.ErrNoLocalData) {
			return "", fmt.Errorf("%w at %s", err, local)
		}
		return text, err
	})
}

func (v *SettingsView) toggleTheme() tea.Cmd {
	next := household.ThemeLight
	if styles.Current.Name == household.ThemeLight {
		next = household.ThemeDark
	}
	if err := v.env.Svc.SetTheme(next); err != nil {
		return func() tea.Msg { return StatusMsg{Err: err} }
	}
	return tea.Batch(
		func() tea.Msg { return ThemeChangedMsg{Name: next} },
		func() tea.Msg { return StatusMsg{Text: "Theme: " + next} },
	)
}

// View renders the view
func (v *SettingsView) View() string {
	s := v.env.Styles
	if v.showHelpPopup {
		k := v.env.Keys
		return renderHelpPopup(s, v.width, v.height,
			k.Left, k.Right, k.New, k.Edit, k.Delete,
			k.Theme, k.Export, k.Import, k.Upload, k.Download, k.Sync, k.Reset, k.Quit)
	}

	switch v.confirming {
	case confirmDelete:
		verb := "Delete"
		if v.section == sectionAssignments {
			verb = "Clear assignment"
		}
		return renderConfirm(s, v.width, v.height, verb+"?", v.target.title)
	case confirmImport:
		return renderConfirm(s, v.width, v.height, "Import?",
			"Everything here is replaced by "+v.path)
	case confirmReset:
		return renderConfirm(s, v.width, v.height, "Reset all data?",
			"Members, tasks, history and assignments are deleted")
	case confirmResetAgain:
		return renderConfirm(s, v.width, v.height, "Are you sure?", "This cannot be undone")
	}

	if v.prompt != promptNone {
		return v.renderPrompt()
	}
	if v.editing {
		return v.renderForm()
	}

	tabs := make([]string, len(sectionNames))
	for i, name := range sectionNames {
		st := s.Tab
		if section(i) == v.section {
			st = s.TabActive
		}
		tabs[i] = st.Render(name)
	}

	body := v.current().View()
	if len(v.current().Items()) == 0 {
		body = s.TitleMuted.Padding(1, 2).Render(v.emptyHint())
	}

	k := v.env.Keys
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		body,
		renderHelp(s, v.width, k.New, k.Edit, k.Delete, k.Theme, k.Export, k.Import, k.Sync, k.Help),
	)
	return styles.CenterView(content, v.width)
}

func (v *SettingsView) emptyHint() string {
	switch v.section {
	case sectionMembers:
		return "No members. Press 'n' to add one."
	case sectionTasks:
		if len(v.snap.Members) == 0 {
			return "Add a member before creating tasks."
		}
		return "No tasks. Press 'n' to create one."
	}
	return "No manual assignments. Assign from the Week tab."
}

func (v *SettingsView) renderForm() string {
	s := v.env.Styles
	inputWidth := clamp(styles.ContentWidth(v.width)-6, 20, 50)

	style := func(idx int) lipgloss.Style {
		if idx == v.focusIdx {
			return s.InputFocused
		}
		return s.Input
	}

	noun := "Member"
	labels := [2]string{"Name:", "Emoji:"}
	if v.section == sectionTasks {
		noun = "Task"
		labels[1] = "Icon:"
	}
	title := "New " + noun
	if v.editingID != "" {
		title = "Edit " + noun
	}

	lines := []string{s.Title.Render(title), ""}
	for i, f := range v.fields {
		lines = append(lines, labels[i], style(i).Width(inputWidth).Render(f.View()), "")
	}
	if v.section == sectionTasks {
		lines = append(lines, "Cycle:",
			style(2).Width(inputWidth).Render("‹ "+models.Cycles[v.cycleIdx].Label()+" ›"), "")
	}

	btn := s.Button
	if v.focusIdx == v.focusCount()-1 {
		btn = s.ButtonFocused
	}
	lines = append(lines,
		btn.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	)
	return place(v.width, v.height, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *SettingsView) renderPrompt() string {
	s := v.env.Styles
	inputWidth := clamp(styles.ContentWidth(v.width)-6, 20, 50)

	title := "Export to file"
	if v.prompt == promptImport {
		title = "Import from file"
	}
	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render(title),
		"",
		s.InputFocused.Width(inputWidth).Render(v.pathInput.View()),
		"",
		s.TitleMuted.Render("A .zst name compresses • Enter: go • Esc: cancel"),
	)
	return place(v.width, v.height, form)
}
