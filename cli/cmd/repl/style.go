package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// inputMode selects how a submitted line is interpreted.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle       = lipgloss.NewStyle().Bold(true)

	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	matchStyle         = suggestionStyle.Bold(true)
	selectedMatchStyle = selectedStyle.Bold(true)
)

func (mode inputMode) String() string {
	if mode == modeCtrl {
		return "ctrl"
	}

	return "eval"
}

// prompt returns the styled input prompt.
func (mode inputMode) prompt() string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// echo renders a submitted line the way it appeared at the prompt.
func (mode inputMode) echo(line string) string {
	return mode.prompt() + inputStyle.Render(line)
}

// usage is the hint shown below an empty input line.
func (mode inputMode) usage() string {
	if mode == modeCtrl {
		return "Type: " + strings.Join(commandNames(), ", ") + " (press Esc to return)"
	}

	return "Type a list to evaluate or press Esc for commands"
}

const keyHelp = `
Usage:
  Type a list to evaluate it, e.g. (def sq (lambda (x) (* x x)))
  Definitions persist for the rest of the session
  Completions appear automatically as you type
  Tab and Shift+Tab cycle through candidates, Space keeps the current one
  Esc toggles between eval and command modes
  Up/Down walk history, switching mode to match each entry
  Shift+Up/Shift+Down walk history of the current mode only
  Alt+Up/Alt+Down walk command history from either mode
    (the original mode returns past either end)
  Ctrl+C on an empty line or Ctrl+D exits
`

// helpMessage lists the control commands followed by the key bindings.
func helpMessage() string {
	var b strings.Builder

	b.WriteString("\n: Commands (press Esc to toggle mode):\n\n")

	for _, c := range ctrlCommands {
		b.WriteString("  ")
		b.WriteString(c.name)
		b.WriteString(strings.Repeat(" ", max(9-len(c.name), 1)))
		b.WriteString(c.summary)
		b.WriteString("\n")
	}

	b.WriteString(keyHelp)

	return b.String()
}
