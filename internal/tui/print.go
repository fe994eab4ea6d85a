package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/pokedeck/internal/catalog"
)

// PrintCards writes one summary card per record, clipped to width, followed by a
// count line. It is the styled output for terminals that cannot host the gallery.
func PrintCards(w io.Writer, records []catalog.Record, width int) error {
	clip := lipgloss.NewStyle().MaxWidth(max(width, minDetailWidth))
	for _, rec := range records {
		if _, err := fmt.Fprintln(w, clip.Render(RenderCard(rec, false))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%s\n", SubtleStyle.Render(fmt.Sprintf("Total Pokémon caught: %d", len(records))))
	return err
}
