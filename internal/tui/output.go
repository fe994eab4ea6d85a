package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rshade/pokedeck/internal/gallery"
)

// OutputMode selects how results reach the user.
type OutputMode int

const (
	// OutputModePlain writes undecorated text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text without taking over the terminal.
	OutputModeStyled
	// OutputModeInteractive runs the full-screen gallery.
	OutputModeInteractive
)

// String returns the mode name.
func (o OutputMode) String() string {
	switch o {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or defaultWidth when it cannot be determined.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// DetectOutputMode picks the output mode from flags, environment and the terminal.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	return detectOutputMode(forceColor, noColor, plain, IsTTY(), os.Getenv)
}

func detectOutputMode(forceColor, noColor, plain, tty bool, getenv func(string) string) OutputMode {
	if plain {
		return OutputModePlain
	}
	if noColor || getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	if !tty {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if getenv("CI") != "" || getenv("TERM") == "dumb" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// Run starts the full-screen gallery and blocks until the user quits.
func Run(ctx context.Context, ctrl *gallery.Controller) error {
	p := tea.NewProgram(
		NewGalleryModel(ctx, ctrl),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive gallery: %w", err)
	}
	return nil
}
