package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one item as exactly one line.
type RenderFunc[T any] func(item T, selected bool) string

// Window is a cursor over items that renders only the rows in view.
// The cursor is kept on screen and centred where the items allow it.
type Window[T any] struct {
	items  []T
	render RenderFunc[T]

	cursor int
	top    int // first row in view
	bottom int // one past the last row in view
	rows   int
}

// New returns an empty window showing at most rows items.
func New[T any](rows int, render RenderFunc[T]) *Window[T] {
	return &Window[T]{render: render, rows: max(rows, 1)}
}

// HandleKey moves the cursor for navigation keys and reports whether the key was one.
//
//nolint:exhaustive // Only navigation keys move the cursor.
func (w *Window[T]) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		w.Move(-1)
	case tea.KeyDown:
		w.Move(1)
	case tea.KeyPgUp:
		w.Move(-w.rows)
	case tea.KeyPgDown:
		w.Move(w.rows)
	case tea.KeyHome:
		w.Select(0)
	case tea.KeyEnd:
		w.Select(len(w.items) - 1)
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return false
		}
		switch msg.Runes[0] {
		case 'j':
			w.Move(1)
		case 'k':
			w.Move(-1)
		case 'g':
			w.Select(0)
		case 'G':
			w.Select(len(w.items) - 1)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

// Move shifts the cursor by delta rows.
func (w *Window[T]) Move(delta int) {
	w.Select(w.cursor + delta)
}

// Select puts the cursor on index, clamped to the items.
func (w *Window[T]) Select(index int) {
	w.cursor = max(min(index, len(w.items)-1), 0)
	w.scroll()
}

func (w *Window[T]) scroll() {
	n := len(w.items)
	top := max(min(w.cursor-w.rows/2, n-w.rows), 0)
	w.top = top
	w.bottom = min(top+w.rows, n)
}

// SetItems replaces the items. The cursor stays where it was when still valid.
func (w *Window[T]) SetItems(items []T) {
	w.items = items
	w.Select(w.cursor)
}

// SetRows changes how many items fit in view.
func (w *Window[T]) SetRows(rows int) {
	w.rows = max(rows, 1)
	w.scroll()
}

// View renders the rows in view joined by newlines.
func (w *Window[T]) View() string {
	if w.top == w.bottom {
		return ""
	}
	var b strings.Builder
	for i := w.top; i < w.bottom; i++ {
		if i > w.top {
			b.WriteByte('\n')
		}
		b.WriteString(w.render(w.items[i], i == w.cursor))
	}
	return b.String()
}

// AtEnd reports whether the last item is in view. An empty window is at its end.
func (w *Window[T]) AtEnd() bool {
	return w.bottom >= len(w.items)
}

// IndexAtRow maps a screen row (0 = first rendered row) to an item index.
func (w *Window[T]) IndexAtRow(row int) (int, bool) {
	idx := w.top + row
	if row < 0 || idx >= w.bottom {
		return 0, false
	}
	return idx, true
}

// Current returns the item under the cursor.
func (w *Window[T]) Current() (T, bool) {
	if len(w.items) == 0 {
		var zero T
		return zero, false
	}
	return w.items[w.cursor], true
}

// Cursor returns the selected index.
func (w *Window[T]) Cursor() int { return w.cursor }

// Len returns the number of items.
func (w *Window[T]) Len() int { return len(w.items) }

// Rows returns the viewport height in items.
func (w *Window[T]) Rows() int { return w.rows }

// Span returns the half-open range [top, bottom) of indices in view.
func (w *Window[T]) Span() (int, int) { return w.top, w.bottom }
