package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Name matches the saved theme setting.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary lipgloss.Color // titles, cursor, focused borders
	Accent  lipgloss.Color // today's column header

	Success lipgloss.Color // done today, status line
	Warning lipgloss.Color // pending
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
	TodayColumn lipgloss.Color
}

// Dark is Tokyo Night, the default
var Dark = Theme{
	Name: "dark",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary: lipgloss.Color("#7aa2f7"),
	Accent:  lipgloss.Color("#7dcfff"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
	TodayColumn: lipgloss.Color("#24283b"),
}

// Light is Tokyo Night Day
var Light = Theme{
	Name: "light",

	Background:    lipgloss.Color("#e1e2e7"),
	Foreground:    lipgloss.Color("#3760bf"),
	ForegroundDim: lipgloss.Color("#8990b3"),

	Primary: lipgloss.Color("#2e7de9"),
	Accent:  lipgloss.Color("#007197"),

	Success: lipgloss.Color("#587539"),
	Warning: lipgloss.Color("#8c6c3e"),
	Error:   lipgloss.Color("#f52a65"),

	Border:      lipgloss.Color("#a8aecb"),
	BorderFocus: lipgloss.Color("#2e7de9"),
	Selection:   lipgloss.Color("#b7c1e3"),
	TodayColumn: lipgloss.Color("#d0d5e3"),
}

// Current is the palette NewStyles reads
var Current = Dark

// Use switches the active theme by name. Unknown names select Dark.
// Styles built before the switch keep the old colours; rebuild them.
func Use(name string) {
	if name == Light.Name {
		Current = Light
		return
	}
	Current = Dark
}

// MaxWidth caps the layout; the week grid is sized to fit it
const MaxWidth = 80

// ContentWidth is the width views lay out in
func ContentWidth(width int) int {
	return min(width, MaxWidth)
}

// CenterView puts content in the middle of a terminal wider than MaxWidth
func CenterView(content string, width int) string {
	if width <= MaxWidth {
		return content
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

// Member returns a style in a member's own colour
func Member(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// Styles is the full style set for one palette. The app rebuilds it in
// place when the theme changes, so views can hold the pointer.
type Styles struct {
	// Tabs
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Titles
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	// Lists
	ListItem     lipgloss.Style
	ListSelected lipgloss.Style

	// Popups and framed panels
	Popup lipgloss.Style

	// Buttons
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	// Task cards
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Done         lipgloss.Style
	Pending      lipgloss.Style

	// Calendar
	DayHeader   lipgloss.Style
	TodayHeader lipgloss.Style
	Cell        lipgloss.Style
	CellToday   lipgloss.Style
	CellCursor  lipgloss.Style

	// Input fields
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Help text
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	// Status line
	Status      lipgloss.Style
	StatusError lipgloss.Style
}

// NewStyles builds the style set for Current
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Tab: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 2),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		Popup: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Done: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		Pending: lipgloss.NewStyle().
			Foreground(t.Warning),

		DayHeader: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Bold(true),

		TodayHeader: lipgloss.NewStyle().
			Foreground(t.Accent).
			Background(t.TodayColumn).
			Bold(true),

		Cell: lipgloss.NewStyle().
			Foreground(t.Foreground),

		CellToday: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.TodayColumn),

		CellCursor: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Status: lipgloss.NewStyle().
			Foreground(t.Success).
			Padding(0, 1),

		StatusError: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1).
			Bold(true),
	}
}
