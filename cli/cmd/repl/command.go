package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/sexp/lang"
)

// Messages delivered when the edit command returns control to the REPL.
type (
	editScopeMsg     struct{ scope *lang.Scope }
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

type ctrlCommand struct {
	name    string
	aliases []string
	summary string
}

var ctrlCommands = []ctrlCommand{
	{name: "help", aliases: []string{"h"}, summary: "Print this help"},
	{name: "list", aliases: []string{"l"}, summary: "List bound names"},
	{name: "edit", aliases: []string{"e"}, summary: "Edit session bindings in external $EDITOR"},
	{name: "reset", aliases: []string{"r"}, summary: "Discard bindings made in this session"},
	{name: "clear", aliases: []string{"c"}, summary: "Clear screen"},
	{name: "quit", aliases: []string{"q", "exit"}, summary: "Exit REPL"},
}

// commandNames returns the canonical name of each control command.
func commandNames() []string {
	names := make([]string, len(ctrlCommands))
	for i, c := range ctrlCommands {
		names[i] = c.name
	}

	return names
}

// findCommand resolves word, a name or alias, to a canonical command name.
func findCommand(word string) (string, bool) {
	for _, c := range ctrlCommands {
		if c.name == word || slices.Contains(c.aliases, word) {
			return c.name, true
		}
	}

	return "", false
}

// execute submits the input line in the current mode.
func (m model) execute() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	mode := m.mode

	m.stash = [2]savedInput{}
	m.input.SetValue("")
	m.comp = completion{selected: -1}

	if err := m.history.Add(line, mode); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.histPos = m.history.Len()

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl submit",
		slog.String("mode", mode.String()),
		slog.String("input", line),
	)

	if mode == modeCtrl {
		return m.command(line)
	}

	ctx, cancel := context.WithCancel(m.ctxFunc())
	m.cancel = cancel

	return m, m.eval(ctx, line)
}

// evalDoneMsg carries the outcome of an evaluation started by eval.
type evalDoneMsg struct {
	line   string
	result lang.Expr
	err    error
}

// eval returns a command that evaluates line in the session scope off the
// update loop, so Ctrl+C can cancel ctx while it runs.
func (m model) eval(ctx context.Context, line string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.evaluate(ctx, line)

		return evalDoneMsg{line: line, result: result, err: err}
	}
}

// finish prints the echo of an evaluated line followed by its result or
// error.
func (m model) finish(msg evalDoneMsg) (model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	echo := tea.Println(modeEval.echo(msg.line))

	switch {
	case errors.Is(msg.err, context.Canceled):
		m.logger.TraceContext(m.ctxFunc(), "repl eval interrupted")

		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("interrupted")))

	case msg.err != nil:
		m.logger.TraceContext(m.ctxFunc(), "repl eval failed", slog.Any("error", msg.err))

		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+msg.err.Error())))
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval result", slog.String("kind", msg.result.Kind.String()))

	if msg.result.IsVoid() {
		return m, echo
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(msg.result.String())))
}

// evaluate runs input against the session scope. A runtime panic, such as
// integer division by zero, is reported as an error so the session
// survives it.
func (m model) evaluate(ctx context.Context, input string) (result lang.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	return lang.Evaluate(ctx, input, m.scope, m.opts...)
}

func (m model) command(line string) (model, tea.Cmd) {
	fields := strings.Fields(line)

	name, ok := findCommand(fields[0])
	if !ok {
		return m, tea.Println(errorStyle.Render("Unknown command: " + fields[0] + " (try 'help')"))
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl command",
		slog.String("command", name),
		slog.Any("args", fields[1:]),
	)

	echo := tea.Println(modeCtrl.echo(line))

	switch name {
	case "quit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "reset":
		m.scope = m.base.Extend()

		return m, tea.Sequence(echo, tea.Println(resultStyle.Render("✔ session bindings discarded")))

	case "clear":
		return m, tea.ClearScreen

	case "edit":
		return m, tea.Sequence(echo, m.editCmd())
	}

	return m, nil
}

func (m model) listBindings() string {
	var lines []string

	for name, v := range m.scope.All() {
		lines = append(lines, "  "+name+" "+hintStyle.Render(formatPreview(v)))
	}

	if len(lines) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	return strings.Join(lines, "\n")
}

// editCmd hands the terminal to the external editor and reports the outcome
// as one of the edit messages.
func (m model) editCmd() tea.Cmd {
	edit := &editCommand{
		scope:   m.scope,
		opts:    m.opts,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(edit, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case edit.newScope == nil:
			return editCancelledMsg{}
		}

		return editScopeMsg{scope: edit.newScope}
	})
}

// previewLen is the longest value preview shown by the list command.
const previewLen = 40

// formatPreview abbreviates v for the list command.
func formatPreview(v lang.Expr) string {
	var src string

	switch v.Kind {
	case lang.KindLambda:
		src = "(lambda (" + strings.Join(v.Params, " ") + ") ...)"
	case lang.KindVoid:
		src = "<void>"
	default:
		src = v.String()
	}

	if len(src) <= previewLen {
		return src
	}

	return src[:previewLen-3] + "..."
}
