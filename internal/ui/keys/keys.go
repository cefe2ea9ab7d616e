package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the application
type KeyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Save     key.Binding
	Help     key.Binding

	// Records
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Chores
	Complete key.Binding
	Photo    key.Binding
	Undo     key.Binding
	Photos   key.Binding

	// Calendar
	Assign   key.Binding
	Clear    key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Today    key.Binding

	// Data
	Theme    key.Binding
	Export   key.Binding
	Import   key.Binding
	Upload   key.Binding
	Download key.Binding
	Sync     key.Binding
	Reset    key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),

		Complete: key.NewBinding(key.WithKeys(" ", "c"), key.WithHelp("space", "done")),
		Photo:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "done with photo")),
		Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Photos:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "photos")),

		Assign:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assign")),
		Clear:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		PrevWeek: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev week")),
		NextWeek: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next week")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "this week")),

		Theme:    key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "theme")),
		Export:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export")),
		Import:   key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "import")),
		Upload:   key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "upload")),
		Download: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "download")),
		Sync:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sync")),
		Reset:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset all")),
	}
}
