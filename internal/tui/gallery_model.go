package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/pokedeck/internal/catalog"
	"github.com/rshade/pokedeck/internal/gallery"
	listview "github.com/rshade/pokedeck/internal/tui/list"
)

// headerLines is the number of rows above the card list: title, subtitle, blank.
const headerLines = 3

// ViewState is the screen currently shown.
type ViewState int

const (
	// ViewStateLoading is shown until the first page of a generation settles.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the card list.
	ViewStateList
	// ViewStateDetail shows the detail overlay for one record.
	ViewStateDetail
	// ViewStateQuitting renders nothing while the program exits.
	ViewStateQuitting
)

// pageLoadedMsg carries a settled page fetch back into the update loop.
type pageLoadedMsg struct {
	result gallery.PageResult
}

// rect is a screen region in cells.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// GalleryModel is the Bubble Tea model for the interactive gallery.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type GalleryModel struct {
	ctx  context.Context
	ctrl *gallery.Controller
	log  zerolog.Logger

	state   ViewState
	records []catalog.Record
	list    *listview.Window[catalog.Record]
	open    int

	loading *LoadingState
	help    help.Model
	keys    KeyMap

	width     int
	height    int
	showDebug bool

	// alert blocks all input until dismissed.
	alert   string
	lastErr string
}

// NewGalleryModel creates the gallery model. No request is issued until Init.
func NewGalleryModel(ctx context.Context, ctrl *gallery.Controller) GalleryModel {
	m := GalleryModel{
		ctx:       ctx,
		ctrl:      ctrl,
		log:       zerolog.Ctx(ctx).With().Str("component", "tui").Logger(),
		state:     ViewStateLoading,
		open:      -1,
		loading:   NewLoadingState(),
		help:      help.New(),
		keys:      DefaultKeyMap(),
		width:     defaultWidth,
		height:    defaultHeight,
		showDebug: true,
	}
	m.list = listview.New(m.listHeight(), RenderCard)
	return m
}

// Init starts the spinner and issues the single initial page request.
func (m GalleryModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.requestNextPage())
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m GalleryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetRows(m.listHeight())
		return m, m.maybeLoadMore()

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case spinner.TickMsg:
		return m, m.loading.Update(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// requestNextPage begins a fetch if the controller allows one.
func (m GalleryModel) requestNextPage() tea.Cmd {
	req, ok := m.ctrl.Begin()
	if !ok {
		return nil
	}
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return pageLoadedMsg{result: ctrl.Fetch(ctx, req)}
	}
}

// maybeLoadMore requests the next page while the bottom sentinel is on screen.
func (m GalleryModel) maybeLoadMore() tea.Cmd {
	if m.state != ViewStateList || m.alert != "" || !m.list.AtEnd() {
		return nil
	}
	return m.requestNextPage()
}

func (m GalleryModel) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	report := m.ctrl.Complete(msg.result)
	if report.Outcome == gallery.OutcomeStale {
		return m, nil
	}

	m.records = m.ctrl.State().Records
	m.list.SetItems(m.records)
	if m.state == ViewStateLoading {
		m.state = ViewStateList
	}

	if report.Notice != nil {
		m.log.Error().Err(report.Notice.Err).Int("page", report.Page).Msg(report.Notice.Message)
		if report.Notice.Kind == gallery.NoticeConnectionFailed {
			m.alert = report.Notice.Message
		} else {
			m.lastErr = report.Notice.Message
		}
		return m, nil
	}

	return m, m.maybeLoadMore()
}

func (m GalleryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == keyCtrlC {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	switch m.state {
	case ViewStateDetail:
		return m.handleDetailKey(msg)
	case ViewStateList, ViewStateLoading:
		return m.handleListKey(msg)
	case ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m GalleryModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyReset:
		return m.reset()
	case keyDebug:
		m.showDebug = !m.showDebug
		m.list.SetRows(m.listHeight())
		return m, m.maybeLoadMore()
	case keyEnter:
		if m.state == ViewStateList && m.list.Len() > 0 {
			m.openDetail(m.list.Cursor())
		}
		return m, nil
	default:
		if !m.list.HandleKey(msg) {
			return m, nil
		}
		return m, m.maybeLoadMore()
	}
}

func (m GalleryModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEsc, keyClose:
		m.closeDetail()
		return m, m.maybeLoadMore()
	}
	return m, nil
}

//nolint:exhaustive // Only left clicks and the wheel are handled.
func (m GalleryModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if m.alert != "" {
		if msg.Button == tea.MouseButtonLeft {
			m.alert = ""
		}
		return m, nil
	}

	switch m.state {
	case ViewStateDetail:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.closeRect().contains(msg.X, msg.Y) || !m.overlayRect().contains(msg.X, msg.Y) {
			m.closeDetail()
			return m, m.maybeLoadMore()
		}
		return m, nil

	case ViewStateList:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if idx, ok := m.list.IndexAtRow(msg.Y - headerLines); ok {
				m.list.Select(idx)
				m.openDetail(idx)
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			m.list.Move(1)
			return m, m.maybeLoadMore()
		case tea.MouseButtonWheelUp:
			m.list.Move(-1)
			return m, nil
		default:
			return m, nil
		}

	default:
		return m, nil
	}
}

// reset clears the gallery and starts a new generation from page 0.
func (m GalleryModel) reset() (tea.Model, tea.Cmd) {
	m.ctrl.Reset()
	m.records = nil
	m.list.SetItems(nil)
	m.list.Select(0)
	m.open = -1
	m.lastErr = ""
	m.state = ViewStateLoading
	return m, m.requestNextPage()
}

func (m *GalleryModel) openDetail(idx int) {
	if idx < 0 || idx >= len(m.records) {
		return
	}
	m.open = idx
	m.state = ViewStateDetail
}

func (m *GalleryModel) closeDetail() {
	m.open = -1
	m.state = ViewStateList
}

// listHeight is the number of card rows that fit between the header and the footer.
func (m GalleryModel) listHeight() int {
	footer := 2 // sentinel + help
	if m.showDebug {
		footer++
	}
	return max(m.height-headerLines-footer, minListHeight)
}

// OpenRecord returns the record shown in the detail overlay, if any.
func (m GalleryModel) OpenRecord() (catalog.Record, bool) {
	if m.state != ViewStateDetail || m.open < 0 || m.open >= len(m.records) {
		return catalog.Record{}, false
	}
	return m.records[m.open], true
}

// State returns the current view state.
func (m GalleryModel) State() ViewState {
	return m.state
}

// Alert returns the blocking alert text, or "" when none is shown.
func (m GalleryModel) Alert() string {
	return m.alert
}

// Snapshot returns the controller state backing the view.
func (m GalleryModel) Snapshot() gallery.State {
	return m.ctrl.State()
}
