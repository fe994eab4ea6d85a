package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current view (Bubble Tea interface).
func (m GalleryModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}
	if m.alert != "" {
		return m.renderAlert()
	}

	switch m.state {
	case ViewStateLoading:
		return m.renderLoadingView()
	case ViewStateDetail:
		return m.renderDetailView()
	case ViewStateList:
		return m.renderListView()
	case ViewStateQuitting:
		return ""
	default:
		return ""
	}
}

func (m GalleryModel) renderHeader() string {
	title := HeaderStyle.Render("Pokémon Gallery")
	subtitle := SubtleStyle.Render("Select a card and press enter, or click it, to see details")
	return title + "\n" + subtitle + "\n"
}

func (m GalleryModel) renderLoadingView() string {
	return m.renderHeader() + "\n" + m.loading.View()
}

// renderListView renders header, cards, sentinel row, help and the debug panel.
// Card rows start at headerLines so mouse rows map straight onto list rows.
func (m GalleryModel) renderListView() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	rows := m.listHeight()
	body := m.list.View()
	if len(m.records) == 0 {
		body = m.renderEmpty()
	}
	lines := strings.Split(body, "\n")
	clip := lipgloss.NewStyle().MaxWidth(m.width)
	for i := range rows {
		if i < len(lines) {
			b.WriteString(clip.Render(lines[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderSentinel())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	if m.showDebug {
		b.WriteString("\n")
		b.WriteString(m.renderDebugPanel())
	}
	return b.String()
}

// renderSentinel renders the row below the last card.
func (m GalleryModel) renderSentinel() string {
	st := m.ctrl.State()
	switch {
	case st.FetchInFlight:
		return m.loading.View()
	case m.lastErr != "":
		return CriticalStyle.Render(m.lastErr)
	case st.Exhausted && len(st.Records) > 0:
		return SubtleStyle.Render(fmt.Sprintf("No more Pokémon to load. Total Pokémon caught: %d", len(st.Records)))
	default:
		return ""
	}
}

// renderEmpty is shown in place of the cards when a generation ended with no records.
func (m GalleryModel) renderEmpty() string {
	return CriticalStyle.Render("No Pokémon found.") + "\n" +
		SubtleStyle.Render("Make sure the catalog server is running, then press r to retry.")
}

// renderDebugPanel shows the pagination state in one line.
func (m GalleryModel) renderDebugPanel() string {
	st := m.ctrl.State()
	return DebugStyle.Render(fmt.Sprintf(
		"Total: %d | Has more: %t | Loading: %t | Page: %d | Generation: %d",
		len(st.Records), st.HasMore(), st.FetchInFlight, st.CurrentPage, st.Generation,
	))
}

// detailBox renders the overlay box for the open record.
func (m GalleryModel) detailBox() string {
	rec, ok := m.OpenRecord()
	if !ok {
		return ""
	}
	return RenderDetail(rec, true, DetailContentWidth(m.width))
}

// overlayRect is where the detail box is drawn. Clicks outside it close the overlay.
func (m GalleryModel) overlayRect() rect {
	box := m.detailBox()
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return rect{
		x: max((m.width-w)/2, 0),
		y: max((m.height-h)/2, 0),
		w: w,
		h: h,
	}
}

// closeRect covers the close control in the top-right corner of the box, with a
// cell of slack on each side.
func (m GalleryModel) closeRect() rect {
	r := m.overlayRect()
	const span = 5
	return rect{x: r.x + r.w - span - 1, y: r.y + 1, w: span, h: 1}
}

// renderDetailView draws the detail box at overlayRect.
func (m GalleryModel) renderDetailView() string {
	box := m.detailBox()
	r := m.overlayRect()

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", r.y))
	pad := strings.Repeat(" ", r.x)
	for i, line := range strings.Split(box, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pad)
		b.WriteString(line)
	}
	b.WriteString("\n")
	b.WriteString(pad)
	b.WriteString(SubtleStyle.Render("esc/x or click outside to close"))
	return b.String()
}

func (m GalleryModel) renderAlert() string {
	box := AlertStyle.Render(
		CriticalStyle.Render(m.alert) + "\n\n" + SubtleStyle.Render("Press any key to continue"),
	)
	return m.renderHeader() + "\n" + box
}
