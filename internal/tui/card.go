package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pokedeck/internal/catalog"
)

// CloseControl is the clickable close label in the top-right corner of the detail box.
const CloseControl = "[x]"

const (
	cardNameWidth     = 14
	minDetailWidth    = 24
	maxDetailWidth    = 96
	detailLabelWidth  = 12
	imageIndent       = 2
	detailChromeWidth = 4 // border + horizontal padding on both sides
)

// RenderCard renders the one-line summary card for a record.
func RenderCard(rec catalog.Record, selected bool) string {
	marker := " "
	name := fmt.Sprintf("%-*s", cardNameWidth, displayName(rec))
	if selected {
		marker = SelectedStyle.Render("▸")
		name = SelectedStyle.Render(name)
	} else {
		name = ValueStyle.Render(name)
	}

	parts := []string{
		marker,
		SubtleStyle.Render(fmt.Sprintf("#%-4s", rec.ID)),
		name,
	}
	if badges := Badges(rec.TypeNames()); badges != "" {
		parts = append(parts, badges)
	}
	parts = append(parts, SubtleStyle.Render(CardImage(rec)))

	return strings.Join(parts, " ")
}

// DetailContentWidth returns the text width of the detail box for a terminal width.
func DetailContentWidth(termWidth int) int {
	w := termWidth - 2*borderPadding - detailChromeWidth
	return max(minDetailWidth, min(w, maxDetailWidth))
}

// RenderDetail renders the expanded view of a record, or nothing when closed.
// contentWidth is the text width inside the box.
func RenderDetail(rec catalog.Record, isOpen bool, contentWidth int) string {
	if !isOpen {
		return ""
	}
	contentWidth = max(contentWidth, minDetailWidth)

	var b strings.Builder
	b.WriteString(detailTitle(displayName(rec), contentWidth))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("#" + rec.ID.String()))
	b.WriteString("\n\n")

	writeImage(&b, "Front", FrontImage(rec), contentWidth)
	writeImage(&b, "Back", BackImage(rec), contentWidth)
	b.WriteString("\n")

	types := Badges(rec.TypeNames())
	if types == "" {
		types = SubtleStyle.Render("none")
	}
	writeField(&b, "Types", types)

	if rec.Region != "" {
		writeField(&b, "Region", rec.Region)
	}
	if len(rec.Weaknesses) > 0 {
		writeField(&b, "Weaknesses", WeaknessBadges(rec.Weaknesses))
	}

	body := strings.TrimSuffix(b.String(), "\n")
	return BoxStyle.Width(contentWidth + detailChromeWidth/2).Render(body)
}

// detailTitle lays out the name and the close control across exactly width cells.
func detailTitle(name string, width int) string {
	room := width - lipgloss.Width(CloseControl) - 1
	name = truncate(name, room)
	gap := width - lipgloss.Width(name) - lipgloss.Width(CloseControl)
	return HeaderStyle.Render(name) + strings.Repeat(" ", max(gap, 1)) + CriticalStyle.Render(CloseControl)
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", detailLabelWidth, label)))
	b.WriteString(value)
	b.WriteString("\n")
}

// writeImage puts the URL on its own indented line, cut to fit, so the box never
// wraps it mid-token.
func writeImage(b *strings.Builder, label, url string, width int) {
	b.WriteString(LabelStyle.Render(label))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", imageIndent))
	b.WriteString(ValueStyle.Render(truncate(url, width-imageIndent)))
	b.WriteString("\n")
}

func displayName(rec catalog.Record) string {
	if rec.Name == "" {
		return "Unknown"
	}
	return rec.Name
}

// truncate shortens s to at most n cells, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
