// Package browse is the full-screen interactive front end. It turns key
// presses into selection events and runs each confirmed deletion as a
// bubbletea command.
package browse

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lakshaymaurya-felt/cachemole/internal/clean"
	"github.com/lakshaymaurya-felt/cachemole/internal/logger"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/selection"
)

// ─── Messages ────────────────────────────────────────────────────────────────

type deleteResultMsg struct {
	res clean.Result
}

func deleteCandidate(ctx context.Context, d selection.Deleter, c *scan.Candidate) tea.Cmd {
	return func() tea.Msg {
		return deleteResultMsg{res: d.Delete(ctx, c)}
	}
}

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea Model for the candidate browser.
type Model struct {
	ctx     context.Context
	ctl     *selection.Interactive
	deleter selection.Deleter
	home    string
	dryRun  bool

	keys keyMap
	help help.Model

	width    int
	height   int
	offset   int // viewport scroll offset
	quitting bool

	// quitAfterDelete holds a force quit until the running deletion reports.
	quitAfterDelete bool
}

// Options configures a Model.
type Options struct {
	Home   string
	DryRun bool
}

// New creates a Model over ctl. Confirmed candidates are removed with d.
func New(ctx context.Context, ctl *selection.Interactive, d selection.Deleter, opts Options) Model {
	return Model{
		ctx:     ctx,
		ctl:     ctl,
		deleter: d,
		home:    opts.Home,
		dryRun:  opts.DryRun,
		keys:    newKeyMap(),
		help:    help.New(),
		width:   80,
		height:  24,
	}
}

// Controller returns the state machine behind the model.
func (m Model) Controller() *selection.Interactive {
	return m.ctl
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			if m.ctl.Mode() == selection.ModeDeleting {
				m.quitAfterDelete = true
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		}

		c := m.ctl.Handle(m.keys.event(msg))
		if m.ctl.Mode() == selection.ModeDone {
			m.quitting = true
			return m, tea.Quit
		}
		m.ensureVisible()
		if c != nil {
			return m, deleteCandidate(m.ctx, m.deleter, c)
		}
		return m, nil

	case deleteResultMsg:
		m.ctl.Complete(msg.res)
		m.ensureVisible()
		if m.quitAfterDelete {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// View delegates to view.go renderView.
func (m Model) View() string {
	return m.renderView()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (m *Model) ensureVisible() {
	vh := m.viewportHeight()
	cursor := m.ctl.Cursor()
	if cursor < m.offset {
		m.offset = cursor
	}
	if cursor >= m.offset+vh {
		m.offset = cursor - vh + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) viewportHeight() int {
	h := m.height - 10 // header (4) + details/prompt (3) + footer (3)
	if h < 1 {
		h = 1
	}
	return h
}

// Run starts the full-screen program and blocks until the operator quits.
// Log output is held while the screen is up and written afterwards.
func Run(ctx context.Context, ctl *selection.Interactive, d selection.Deleter, opts Options) error {
	release := logger.Hold()
	defer release()

	p := tea.NewProgram(New(ctx, ctl, d, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
