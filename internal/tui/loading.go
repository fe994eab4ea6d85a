package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadingState wraps a spinner and the message shown next to it.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a LoadingState with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)
	return &LoadingState{spinner: s, message: "Loading Pokémon..."}
}

// Init starts the spinner animation.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// SetMessage changes the text rendered beside the spinner.
func (l *LoadingState) SetMessage(msg string) {
	l.message = msg
}

// View renders the spinner and message on one line.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}
