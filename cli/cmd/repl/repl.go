package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/sexp/lang"
	"github.com/ardnew/sexp/log"
)

const (
	defaultWidth = 80
	maxInputLen  = 4096
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc func() context.Context
	logger  log.Logger
	opts    []lang.Option

	base  *lang.Scope // bindings made before the session started
	scope *lang.Scope // session frame; its parent is base until an edit

	input textinput.Model
	mode  inputMode
	stash [2]savedInput // unsubmitted input of each mode

	history *History
	histPos int
	alt     altNav

	cancel context.CancelFunc // set while an evaluation runs

	comp     completion
	width    int
	quitting bool
}

// Run starts the REPL on top of scope.
//
// Bindings made during the session go into a new frame whose parent is
// scope, so the reset command can discard them. History is kept in
// cacheDir, or in memory only if cacheDir is empty.
func Run(
	ctx context.Context,
	scope *lang.Scope,
	cacheDir string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	if scope == nil {
		return ErrNoScope
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	var path string
	if cacheDir != "" {
		path = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(path)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.DebugContext(
		ctx,
		"repl start",
		slog.String("history", path),
		slog.Int("history_entries", history.Len()),
		slog.Int("bindings", scope.Len()),
	)

	_, err = tea.NewProgram(
		newModel(ctx, scope, history, logger, opts...),
		tea.WithContext(ctx),
	).Run()

	return err
}

func newModel(
	ctx context.Context,
	base *lang.Scope,
	history *History,
	logger log.Logger,
	opts ...lang.Option,
) model {
	input := textinput.New()
	input.Prompt = modeEval.prompt()
	input.CharLimit = maxInputLen
	input.Width = defaultWidth
	input.Focus()

	return model{
		ctxFunc: func() context.Context { return ctx },
		logger:  logger,
		opts:    opts,
		base:    base,
		scope:   base.Extend(),
		input:   input,
		mode:    modeEval,
		history: history,
		histPos: history.Len(),
		comp:    completion{selected: -1},
		width:   defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case evalDoneMsg:
		return m.finish(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(evalPrompt)-2, 1)

		return m, nil

	case editScopeMsg:
		m.scope = msg.scope
		m.logger.TraceContext(m.ctxFunc(), "repl edit applied", slog.Int("bindings", m.scope.Len()))

		return m, tea.Println(resultStyle.Render("✔ bindings updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("🗴 error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hintLine() + "\n"
}

// hintLine renders the line below the input. In order of precedence it
// shows a running evaluation, the history position, the usage hint for an
// empty line, the completion bar, or the signature of the enclosing call.
func (m model) hintLine() string {
	switch {
	case m.cancel != nil:
		return hintStyle.Render("Evaluating... (press Ctrl+C to interrupt)")

	case m.histPos < m.history.Len():
		pos := boldStyle.Render(strconv.Itoa(m.histPos + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))

	case strings.TrimSpace(m.input.Value()) == "":
		return hintStyle.Render(m.mode.usage())

	case len(m.comp.matches) > 0:
		return renderCandidateBar(m.comp, m.width, m.isClosure)

	case m.mode == modeEval:
		return m.signatureHint()
	}

	return ""
}

func (m model) signatureHint() string {
	call := detectCall(m.input.Value(), m.input.Position())
	if !call.inCall {
		return ""
	}

	name, params, ok := signature(m.scope, call.head)
	if !ok {
		return ""
	}

	return renderSignatureHint(name, params, call.argIndex)
}

// isClosure reports whether name is bound to a closure.
func (m model) isClosure(name string) bool {
	v, ok := m.scope.Get(name)

	return ok && v.Kind == lang.KindLambda
}
