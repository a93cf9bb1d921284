// Package styles defines the color palettes of the task grid.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultPalette is the palette used when none is configured.
const DefaultPalette = "blue"

// Palette holds the colors of one grid theme.
type Palette struct {
	Name       string
	Background string
	HeaderBg   string
	HeaderFg   string
	RowFg      string
	RowBg      string
	RowAltBg   string
	Selected   string
	Cell       string
	Border     string
	Muted      string
	Error      string
	Success    string
}

var paletteOrder = []string{"blue", "emerald", "indigo", "red"}

// accent holds the 400, 600 and 900 shades of a palette hue.
type accent struct {
	c400, c600, c900 string
}

var accents = map[string]accent{
	"blue":    {c400: "#60A5FA", c600: "#2563EB", c900: "#1E3A8A"},
	"emerald": {c400: "#34D399", c600: "#059669", c900: "#064E3B"},
	"indigo":  {c400: "#818CF8", c600: "#4F46E5", c900: "#312E81"},
	"red":     {c400: "#F87171", c600: "#DC2626", c900: "#7F1D1D"},
}

func newPalette(name string, a accent) Palette {
	return Palette{
		Name:       name,
		Background: "#020617",
		HeaderBg:   a.c900,
		HeaderFg:   "#E2E8F0",
		RowFg:      "#E2E8F0",
		RowBg:      "#020617",
		RowAltBg:   "#0F172A",
		Selected:   a.c400,
		Cell:       a.c600,
		Border:     a.c400,
		Muted:      "#94A3B8",
		Error:      "#F87171",
		Success:    "#34D399",
	}
}

// PaletteNames lists the palettes in cycling order.
func PaletteNames() []string {
	out := make([]string, len(paletteOrder))
	copy(out, paletteOrder)
	return out
}

// ValidPalette reports whether name is a known palette.
func ValidPalette(name string) bool {
	_, ok := accents[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// ResolvePalette returns the named palette, falling back to the default.
func ResolvePalette(name string) Palette {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if a, ok := accents[trimmed]; ok {
		return newPalette(trimmed, a)
	}
	return newPalette(DefaultPalette, accents[DefaultPalette])
}

// CyclePalette returns the palette delta steps away from current, wrapping around.
func CyclePalette(current string, delta int) Palette {
	current = strings.ToLower(strings.TrimSpace(current))
	idx := 0
	for i, candidate := range paletteOrder {
		if candidate == current {
			idx = i
			break
		}
	}
	idx += delta
	for idx < 0 {
		idx += len(paletteOrder)
	}
	idx %= len(paletteOrder)
	return ResolvePalette(paletteOrder[idx])
}

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	App          lipgloss.Style
	Header       lipgloss.Style
	HeaderCell   lipgloss.Style
	Row          lipgloss.Style
	RowAlt       lipgloss.Style
	SelectedRow  lipgloss.Style
	SelectedCol  lipgloss.Style
	SelectedCell lipgloss.Style
	Control      lipgloss.Style
	ControlFocus lipgloss.Style
	Popup        lipgloss.Style
	PopupTitle   lipgloss.Style
	Footer       lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	StatusOK     lipgloss.Style
	Muted        lipgloss.Style
}

// NewStyles builds the styles of palette p.
func NewStyles(p Palette) Styles {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color(p.RowFg))
	return Styles{
		App:          lipgloss.NewStyle().Background(lipgloss.Color(p.Background)),
		Header:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.HeaderFg)).Background(lipgloss.Color(p.HeaderBg)).Bold(true),
		HeaderCell:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.HeaderFg)).Background(lipgloss.Color(p.HeaderBg)).Bold(true),
		Row:          base.Background(lipgloss.Color(p.RowBg)),
		RowAlt:       base.Background(lipgloss.Color(p.RowAltBg)),
		SelectedRow:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Selected)).Reverse(true),
		SelectedCol:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Selected)),
		SelectedCell: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Cell)).Reverse(true).Bold(true),
		Control: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.RowFg)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Muted)).
			Padding(0, 1),
		ControlFocus: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Selected)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Selected)).
			Padding(0, 1),
		Popup: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.RowFg)).
			Background(lipgloss.Color(p.Background)).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),
		PopupTitle: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Selected)).Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.RowFg)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)).Bold(true),
		StatusOK:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success)),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
	}
}
