// Package tui is the interactive kanban board.
//
// The model never mutates tasks itself. Every key that changes data runs a
// store operation as a command and re-reads the store's snapshot when the
// result arrives, so the board always shows what the store holds.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/analytics"
	"taskdeck/internal/output"
	"taskdeck/internal/reorder"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

type loadedMsg struct {
	err error
}

// opDoneMsg reports a finished store operation.
type opDoneMsg struct {
	action string // for failures: "move", "toggle", "delete"
	result string // for success
	id     int64
	err    error
	follow bool // keep the cursor on id
}

// Option customizes the board.
type Option func(*Model)

// WithClock overrides the clock used for the completion trend.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// Model is the bubbletea model of the board.
type Model struct {
	ctx   context.Context
	store *store.Store
	now   func() time.Time

	tasks   []service.Task
	summary atomic.Pointer[analytics.Summary]

	col int
	row int

	width  int
	height int

	status    string
	statusErr bool

	keys keyMap
	help help.Model
}

// New creates a board over s. Operations run with ctx.
func New(ctx context.Context, s *store.Store, opts ...Option) *Model {
	m := &Model{
		ctx:   ctx,
		store: s,
		now:   time.Now,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.summarize(s.Tasks())
	s.Observe(m.summarize)
	return m
}

// Run starts the board on the terminal and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) summarize(tasks []service.Task) {
	s := analytics.Summarize(tasks, m.now())
	m.summary.Store(&s)
}

// Init loads the task list.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles input and operation results.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.setError("load failed: %v", msg.err)
			return m, nil
		}
		m.sync(0)
		m.setStatus("loaded %d tasks", len(m.tasks))
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.setError("%s #%d failed: %v", msg.action, msg.id, msg.err)
			m.sync(0)
			return m, nil
		}
		follow := int64(0)
		if msg.follow {
			follow = msg.id
		}
		m.sync(follow)
		m.setStatus("%s", msg.result)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		m.setStatus("reloading...")
		return m, m.load()
	}

	if !m.store.Loaded() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.focus(m.col-1, m.row)
	case key.Matches(msg, m.keys.Right):
		m.focus(m.col+1, m.row)
	case key.Matches(msg, m.keys.Up):
		m.focus(m.col, m.row-1)
	case key.Matches(msg, m.keys.Down):
		m.focus(m.col, m.row+1)
	case key.Matches(msg, m.keys.MoveLeft):
		return m, m.moveTo(m.col-1, m.row)
	case key.Matches(msg, m.keys.MoveRight):
		return m, m.moveTo(m.col+1, m.row)
	case key.Matches(msg, m.keys.MoveUp):
		return m, m.moveTo(m.col, m.row-1)
	case key.Matches(msg, m.keys.MoveDown):
		return m, m.moveTo(m.col, m.row+1)
	case key.Matches(msg, m.keys.Toggle):
		return m, m.toggle()
	case key.Matches(msg, m.keys.Delete):
		return m, m.remove()
	}
	return m, nil
}

// View renders the board.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("taskdeck"))
	b.WriteString("\n")

	if !m.store.Loaded() && m.status == "" {
		b.WriteString("Loading tasks...\n")
	} else {
		b.WriteString(output.RenderBoard(m.tasks, output.BoardOptions{Width: m.width, Selected: m.selectedID()}))
		b.WriteString("\n")
	}

	if s := m.summary.Load(); s != nil {
		b.WriteString(output.RenderSummaryLine(*s))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Selected returns the task under the cursor.
func (m *Model) Selected() (service.Task, bool) {
	members := m.column(m.col)
	if m.row < 0 || m.row >= len(members) {
		return service.Task{}, false
	}
	return members[m.row], true
}

// Status returns the current status line.
func (m *Model) Status() string {
	return m.status
}

func (m *Model) selectedID() int64 {
	if t, ok := m.Selected(); ok {
		return t.ID
	}
	return 0
}

func (m *Model) column(col int) []service.Task {
	if col < 0 || col >= len(service.Statuses) {
		return nil
	}
	return reorder.Members(m.tasks, string(service.Statuses[col]))
}

// focus moves the cursor, clamping to the board.
func (m *Model) focus(col, row int) {
	m.col = min(max(col, 0), len(service.Statuses)-1)
	n := len(m.column(m.col))
	m.row = min(max(row, 0), max(n-1, 0))
}

// sync re-reads the store. When follow is non-zero the cursor is placed on
// that task; otherwise it is clamped in place.
func (m *Model) sync(follow int64) {
	m.tasks = m.store.Tasks()
	if follow != 0 {
		if t, ok := m.store.Get(follow); ok {
			for i, st := range service.Statuses {
				if st == t.Status {
					m.focus(i, reorder.GroupIndex(m.tasks, string(st), follow))
					return
				}
			}
		}
	}
	m.focus(m.col, m.row)
}

func (m *Model) load() tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		return loadedMsg{err: s.Load(ctx)}
	}
}

// moveTo drags the selected task to row of col.
func (m *Model) moveTo(col, row int) tea.Cmd {
	t, ok := m.Selected()
	if !ok || col < 0 || col >= len(service.Statuses) {
		return nil
	}
	if col == m.col && (row < 0 || row >= len(m.column(col))) {
		return nil
	}
	row = max(row, 0)

	ev := reorder.DropEvent{
		TaskID:      t.ID,
		Source:      reorder.Location{Group: string(service.Statuses[m.col]), Index: m.row},
		Destination: &reorder.Location{Group: string(service.Statuses[col]), Index: row},
	}
	result := fmt.Sprintf("moved #%d", t.ID)
	if col != m.col {
		result = fmt.Sprintf("moved #%d to %s", t.ID, service.Statuses[col].Label())
	}

	m.setStatus("moving #%d...", t.ID)
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		_, err := s.Move(ctx, ev)
		return opDoneMsg{action: "move", result: result, id: t.ID, err: err, follow: true}
	}
}

func (m *Model) toggle() tea.Cmd {
	t, ok := m.Selected()
	if !ok {
		return nil
	}
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		updated, err := s.ToggleStatus(ctx, t.ID)
		result := fmt.Sprintf("#%d is now %s", t.ID, updated.Status)
		return opDoneMsg{action: "toggle", result: result, id: t.ID, err: err, follow: true}
	}
}

func (m *Model) remove() tea.Cmd {
	t, ok := m.Selected()
	if !ok {
		return nil
	}
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		err := s.Delete(ctx, t.ID)
		return opDoneMsg{action: "delete", result: fmt.Sprintf("deleted #%d", t.ID), id: t.ID, err: err}
	}
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *Model) setError(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = true
}
