package repl

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// savedInput is the text and cursor of the input line.
type savedInput struct {
	text   string
	cursor int
}

// altNav records where Alt+Up/Alt+Down navigation began.
type altNav struct {
	active bool
	mode   inputMode
	saved  savedInput
}

func (m model) save() savedInput {
	return savedInput{text: m.input.Value(), cursor: m.input.Position()}
}

func (m *model) restore(s savedInput) {
	m.input.SetValue(s.text)
	m.input.SetCursor(s.cursor)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl key",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	if m.cancel != nil {
		switch msg.Type {
		case tea.KeyCtrlC:
			m.cancel()

			return m, nil

		case tea.KeyEnter:
			return m, nil
		}
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		return m.interrupt(msg.Type == tea.KeyCtrlC)

	case tea.KeyEnter:
		m.alt.active = false

		if m.comp.cycling && len(m.comp.matches) > 0 {
			m.comp.cycling = false
			m.refresh(true)

			return m, nil
		}

		return m.execute()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp, tea.KeyDown:
		dir := 1
		if msg.Type == tea.KeyUp {
			dir = -1
		}

		if msg.Alt {
			return m.historyCtrl(dir), nil
		}

		return m.historyStep(dir), nil

	case tea.KeyShiftUp:
		return m.historyInMode(-1), nil

	case tea.KeyShiftDown:
		return m.historyInMode(1), nil

	case tea.KeyEsc:
		if m.comp.cycling {
			m.comp.cycling = false
			m.restore(m.comp.before)
			m.refresh(false)

			return m, nil
		}

		m.alt.active = false

		return m.toggleMode(), nil

	case tea.KeyRunes, tea.KeySpace:
		return m.edit(msg, true)
	}

	return m.edit(msg, false)
}

// interrupt quits on an empty line. Otherwise discard clears the line.
func (m model) interrupt(discard bool) (model, tea.Cmd) {
	if m.input.Value() == "" {
		m.quitting = true

		return m, tea.Quit
	}

	if discard {
		m.input.SetValue("")
		m.comp.cycling = false
		m.alt.active = false
		m.histPos = m.history.Len()
		m.refresh(false)
	}

	return m, nil
}

// edit forwards msg to the input line. Typed text may settle a completion
// that already matches exactly; deletions and cursor motion never do.
func (m model) edit(msg tea.KeyMsg, typed bool) (model, tea.Cmd) {
	var cmd tea.Cmd

	m.comp.cycling = false
	if !typed {
		m.alt.active = false
	}

	m.histPos = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(typed)

	return m, cmd
}

func (m model) toggleMode() model {
	return m.switchToMode(1 - m.mode)
}

// switchToMode changes the input mode. Each mode keeps its own unsubmitted
// input across switches.
func (m model) switchToMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.stash[m.mode] = m.save()
	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.restore(m.stash[mode])
	m.refresh(false)

	return m
}

// show loads history entry i into the input line.
func (m model) show(i int, entry HistoryEntry) model {
	m.histPos = i
	m.restore(savedInput{text: entry.Line, cursor: len(entry.Line)})
	m.refresh(false)

	return m
}

// leaveHistory returns to a blank line past the newest entry.
func (m model) leaveHistory() model {
	m.histPos = m.history.Len()
	m.input.SetValue("")
	m.refresh(false)

	return m
}

// seek finds the nearest entry in direction dir entered in mode.
func (m model) seek(dir int, mode inputMode) (int, HistoryEntry, bool) {
	for i := m.histPos + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == mode {
			return i, entry, true
		}
	}

	return 0, HistoryEntry{}, false
}

// historyStep moves one entry in direction dir, switching to the mode the
// entry was entered in.
func (m model) historyStep(dir int) model {
	i := m.histPos + dir
	if i < 0 {
		return m
	}

	entry, err := m.history.Entry(i)
	if err != nil {
		if dir > 0 {
			return m.leaveHistory()
		}

		return m
	}

	return m.switchToMode(entry.Mode).show(i, entry)
}

func (m model) historyInMode(dir int) model {
	if i, entry, ok := m.seek(dir, m.mode); ok {
		return m.show(i, entry)
	}

	if dir > 0 && m.histPos < m.history.Len() {
		return m.leaveHistory()
	}

	return m
}

// historyCtrl walks command history from either mode. Running off either
// end restores the mode and input from before the walk began.
func (m model) historyCtrl(dir int) model {
	if !m.alt.active {
		m.alt = altNav{active: true, mode: m.mode, saved: m.save()}
		m = m.switchToMode(modeCtrl)
	}

	if i, entry, ok := m.seek(dir, modeCtrl); ok {
		return m.show(i, entry)
	}

	m.alt.active = false
	m = m.switchToMode(m.alt.mode)
	m.restore(m.alt.saved)
	m.histPos = m.history.Len()
	m.refresh(false)

	return m
}
