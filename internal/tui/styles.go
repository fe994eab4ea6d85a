package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants.
const (
	defaultWidth  = 100
	defaultHeight = 30
	borderPadding = 4
	minListHeight = 3
)

// Palette.
//
//nolint:gochecknoglobals // Styles are immutable package-level values.
var (
	ColorHeader    = lipgloss.Color("#FFCB05")
	ColorLabel     = lipgloss.Color("#8A8A8A")
	ColorValue     = lipgloss.Color("#EEEEEE")
	ColorMuted     = lipgloss.Color("#626262")
	ColorHighlight = lipgloss.Color("#3D7DCA")
	ColorCritical  = lipgloss.Color("#E3350D")
	ColorBorder    = lipgloss.Color("#3D7DCA")
	ColorSpinner   = lipgloss.Color("#FFCB05")
	ColorBadgeText = lipgloss.Color("#FFFFFF")
	ColorWeakness  = lipgloss.Color("#C23B22")
)

// Text styles.
//
//nolint:gochecknoglobals // Styles are immutable package-level values.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	AlertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorCritical).
			Padding(1, 2)

	DebugStyle = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	// WeaknessStyle is shared by every weakness badge regardless of type.
	WeaknessStyle = lipgloss.NewStyle().
			Background(ColorWeakness).
			Foreground(ColorBadgeText).
			Padding(0, 1)
)

// DefaultTypeColor is used for unknown or missing types.
const DefaultTypeColor = "#68A090"

// typeColors is the fixed type to badge colour table.
//
//nolint:gochecknoglobals // Static lookup table.
var typeColors = map[string]string{
	"normal":   "#A8A878",
	"fire":     "#F08030",
	"water":    "#6890F0",
	"electric": "#F8D030",
	"grass":    "#78C850",
	"ice":      "#98D8D8",
	"fighting": "#C03028",
	"poison":   "#A040A0",
	"ground":   "#E0C068",
	"flying":   "#A890F0",
	"psychic":  "#F85888",
	"bug":      "#A8B820",
	"rock":     "#B8A038",
	"ghost":    "#705898",
	"dragon":   "#7038F8",
	"dark":     "#705848",
	"steel":    "#B8B8D0",
	"fairy":    "#EE99AC",
}

// TypeColor returns the badge colour for a type name, case-insensitively.
func TypeColor(name string) string {
	if c, ok := typeColors[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return DefaultTypeColor
}

// Badge renders a type pill coloured from the type table.
func Badge(name string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(TypeColor(name))).
		Foreground(ColorBadgeText).
		Padding(0, 1).
		Render(badgeLabel(name))
}

// Badges renders one type badge per name separated by single spaces.
func Badges(names []string) string {
	return joinBadges(names, Badge)
}

// WeaknessBadges renders weaknesses in the single weakness style.
func WeaknessBadges(names []string) string {
	return joinBadges(names, func(n string) string { return WeaknessStyle.Render(badgeLabel(n)) })
}

func badgeLabel(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}

func joinBadges(names []string, render func(string) string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, render(n))
	}
	return strings.Join(parts, " ")
}
