// Package switcher is the terminal front end of the quick-switcher palette.
package switcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Paintersrp/quickswitch/internal/palette"
	"github.com/Paintersrp/quickswitch/internal/state"
	"github.com/Paintersrp/quickswitch/internal/vault"
	"github.com/Paintersrp/quickswitch/internal/watcher"
)

type creationDoneMsg struct {
	creation *palette.Creation
	err      error
}

type Model struct {
	ctrl  *palette.Controller
	state *state.State
	input textinput.Model
	help  help.Model
	keys  keyMap

	width  int
	height int
	notice string
	status string
	stats  vault.Stats

	confirming bool
	cancel     context.CancelFunc
	quitting   bool

	outcome palette.Outcome
	chosen  bool

	copy func(string) error
}

// NewModel opens ctrl with settings and wraps it for bubbletea.
func NewModel(s *state.State, ctrl *palette.Controller, settings palette.Settings) (*Model, error) {
	if s == nil || ctrl == nil {
		return nil, fmt.Errorf("switcher requires a state and a palette controller")
	}
	if err := ctrl.Open(settings); err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = "Search the vault..."
	ti.Prompt = "> "
	ti.CharLimit = 256
	if ctrl.Active() == palette.SectionSearch {
		ti.Focus()
	}

	return &Model{
		ctrl:  ctrl,
		state: s,
		input: ti,
		help:  help.New(),
		keys:  newKeyMap(),
		copy:  clipboard.WriteAll,
	}, nil
}

// SetQuery pre-fills the search input and moves to the search section.
func (m *Model) SetQuery(q string) {
	if q == "" {
		return
	}
	m.input.SetValue(q)
	m.input.CursorEnd()
	m.ctrl.SetQuery(q)
	m.ctrl.SwitchTo(palette.SectionSearch)
	m.input.Focus()
}

// Outcome returns what the palette closed with, if it closed on a choice.
func (m *Model) Outcome() (palette.Outcome, bool) {
	return m.outcome, m.chosen
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.state.Watcher.Start(), m.state.IndexHeartbeatCmd(0))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-12, 10)
		m.help.Width = msg.Width
		return m, nil

	case creationDoneMsg:
		return m.finishCreation(msg)

	case watcher.VaultChangedMsg:
		m.ctrl.Refresh()
		m.status = state.StatusLine(m.ctrl.Counts(), m.stats)
		return m, m.state.Watcher.Start()

	case watcher.VaultWatcherErrMsg:
		m.notice = fmt.Sprintf("Watcher error: %v", msg.Err)
		return m, m.state.Watcher.Start()

	case state.IndexStatsMsg:
		m.stats = msg.Stats
		if m.stats.Pending > 0 {
			// listing applies the backlog, so sample again afterwards
			m.ctrl.Refresh()
			m.stats = m.state.Index.Stats()
		}
		m.status = state.StatusLine(m.ctrl.Counts(), m.stats)
		return m, m.state.IndexHeartbeatCmd(state.IndexPollInterval)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.forceQuit) {
			return m.forceQuit()
		}
		if m.ctrl.Creating() {
			m.notice = "Creating daily note..."
			return m, nil
		}
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()
	case key.Matches(msg, m.keys.up):
		m.ctrl.MoveSelection(-1)
		return m, nil
	case key.Matches(msg, m.keys.down):
		m.ctrl.MoveSelection(1)
		return m, nil
	case key.Matches(msg, m.keys.focusQuery):
		if m.input.Focused() {
			m.input.Blur()
			return m, nil
		}
		m.ctrl.SwitchTo(palette.SectionSearch)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.activate):
		return m.apply(m.ctrl.ActivateSelected())
	case key.Matches(msg, m.keys.closeTab):
		return m.apply(m.ctrl.CloseSelected())
	case key.Matches(msg, m.keys.pin):
		return m.apply(m.ctrl.PinSelected())
	case key.Matches(msg, m.keys.bookmark):
		return m.apply(m.ctrl.ToggleBookmarkSelected())
	case key.Matches(msg, m.keys.copy):
		return m.copySelected()
	}

	if !m.input.Focused() {
		switch {
		case key.Matches(msg, m.keys.left):
			return m.apply(m.ctrl.SwitchSection(palette.Left))
		case key.Matches(msg, m.keys.right):
			return m.apply(m.ctrl.SwitchSection(palette.Right))
		case key.Matches(msg, m.keys.help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if msg.Type != tea.KeyRunes {
			return m, nil
		}
		// typing anywhere starts a search
		m.ctrl.SwitchTo(palette.SectionSearch)
		focus := m.input.Focus()
		_, cmd := m.updateInput(msg)
		return m, tea.Batch(focus, cmd)
	}

	return m.updateInput(msg)
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.ctrl.SetQuery(m.input.Value())
	}
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		cr, err := m.ctrl.BeginCreation()
		if err != nil {
			m.confirming = false
			if !errors.Is(err, palette.ErrStale) {
				m.notice = err.Error()
			}
			return m, nil
		}
		return m, m.runCreation(cr)
	case key.Matches(msg, m.keys.cancel):
		m.ctrl.CancelCreation()
		m.confirming = false
		return m, nil
	}
	return m, nil
}

func (m *Model) runCreation(cr *palette.Creation) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	return func() tea.Msg {
		return creationDoneMsg{creation: cr, err: cr.Run(ctx)}
	}
}

func (m *Model) finishCreation(msg creationDoneMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.confirming = false

	outcome := m.ctrl.FinishCreation(msg.creation, msg.err)
	if m.quitting {
		_ = m.ctrl.Close()
		return m, tea.Quit
	}
	return m.apply(outcome)
}

func (m *Model) apply(out palette.Outcome) (tea.Model, tea.Cmd) {
	switch out.Kind {
	case palette.OutcomeClose:
		m.outcome = out
		m.chosen = true
		return m, tea.Quit
	case palette.OutcomeConfirm:
		m.confirming = true
		m.input.Blur()
	case palette.OutcomeBusy:
		m.notice = "Creating daily note..."
	case palette.OutcomeFocusQuery:
		return m, m.input.Focus()
	case palette.OutcomeNotice:
		m.notice = out.Notice
	}
	return m, nil
}

func (m *Model) copySelected() (tea.Model, tea.Cmd) {
	path, ok := m.ctrl.SelectedPath()
	if !ok {
		return m, nil
	}
	if err := m.copy(path); err != nil {
		m.notice = fmt.Sprintf("Copy failed: %v", err)
		return m, nil
	}
	m.notice = fmt.Sprintf("Copied %s", path)
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if err := m.ctrl.Close(); err != nil {
		m.notice = err.Error()
		return m, nil
	}
	return m, tea.Quit
}

// forceQuit cancels a running creation and waits for it to report back.
func (m *Model) forceQuit() (tea.Model, tea.Cmd) {
	if m.ctrl.Creating() {
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil
	}
	_ = m.ctrl.Close()
	return m, tea.Quit
}
