package tui

import (
	"os"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "nord"

// Palette holds the colours of one theme.
type Palette struct {
	Title       lipgloss.Color
	OuterBorder lipgloss.Color
	InnerBorder lipgloss.Color
	HeaderText  lipgloss.Color
	BodyText    lipgloss.Color
	Highlight   lipgloss.Color
	Background  lipgloss.Color
}

var palettes = map[string]Palette{
	"nord": {
		Title:       "#D08770",
		OuterBorder: "#81A1C1",
		InnerBorder: "#B48EAD",
		HeaderText:  "#A3BE8C",
		BodyText:    "#ECEFF4",
		Highlight:   "#8FBCBB",
		Background:  "#2E3440",
	},
	"tokyo-night": {
		Title:       "#ff9e64",
		OuterBorder: "#bb9af7",
		InnerBorder: "#7aa2f7",
		HeaderText:  "#9ece6a",
		BodyText:    "#c0caf5",
		Highlight:   "#73daca",
		Background:  "#1a1b26",
	},
	"catppuccin-mocha": {
		Title:       "#f5e0dc",
		OuterBorder: "#8aadf4",
		InnerBorder: "#f38ba8",
		HeaderText:  "#a6e3a1",
		BodyText:    "#cdd6f4",
		Highlight:   "#94e2d5",
		Background:  "#1e1e2e",
	},
	"dracula": {
		Title:       "#ffb86c",
		OuterBorder: "#bd93f9",
		InnerBorder: "#ff79c6",
		HeaderText:  "#50fa7b",
		BodyText:    "#f8f8f2",
		Highlight:   "#8be9fd",
		Background:  "#282a36",
	},
	"gruvbox": {
		Title:       "#d65d0e",
		OuterBorder: "#458588",
		InnerBorder: "#b16286",
		HeaderText:  "#98971a",
		BodyText:    "#ebdbb2",
		Highlight:   "#689d6a",
		Background:  "#282828",
	},
	"solarized-dark": {
		Title:       "#cb4b16",
		OuterBorder: "#268bd2",
		InnerBorder: "#6c71c4",
		HeaderText:  "#859900",
		BodyText:    "#839496",
		Highlight:   "#2aa198",
		Background:  "#002b36",
	},
	"monokai": {
		Title:       "#FD971F",
		OuterBorder: "#AE81FF",
		InnerBorder: "#F92672",
		HeaderText:  "#A6E22E",
		BodyText:    "#F8F8F2",
		Highlight:   "#66D9EF",
		Background:  "#272822",
	},
}

// ThemeNames returns the available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns the palette named name.
func LookupTheme(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// ConfigureColor turns colour output off when disabled or when NO_COLOR is set.
func ConfigureColor(enabled bool) {
	if !enabled || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// styles are the lipgloss styles derived from a palette.
type styles struct {
	title    lipgloss.Style
	frame    lipgloss.Style
	log      lipgloss.Style
	prompt   lipgloss.Style
	input    lipgloss.Style
	status   lipgloss.Style
	popup    lipgloss.Style
	toast    lipgloss.Style
	toastErr lipgloss.Style
	table    table.Styles
}

func newStyles(p Palette) styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		Foreground(p.HeaderText).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.InnerBorder).
		BorderBottom(true).
		Bold(true)
	ts.Cell = ts.Cell.Foreground(p.BodyText)
	ts.Selected = ts.Selected.
		Foreground(p.Background).
		Background(p.Highlight).
		Bold(false)

	return styles{
		title: lipgloss.NewStyle().Foreground(p.Title).Bold(true),
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.OuterBorder),
		log:    lipgloss.NewStyle().Foreground(p.BodyText).PaddingLeft(1),
		prompt: lipgloss.NewStyle().Foreground(p.HeaderText),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.InnerBorder),
		status: lipgloss.NewStyle().Foreground(p.Highlight),
		popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.OuterBorder).
			Foreground(p.BodyText).
			Padding(1, 2),
		toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Highlight).
			Foreground(p.BodyText).
			Padding(0, 1),
		toastErr: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Title).
			Foreground(p.BodyText).
			Padding(0, 1),
		table: ts,
	}
}
