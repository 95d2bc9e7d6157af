package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/sexp/lang"
)

// formSignatures lists the parameters of the special forms.
var formSignatures = map[string][]string{
	lang.KeywordDef:    {"name", "value"},
	lang.KeywordLambda: {"(params...)", "(body...)"},
	lang.KeywordIf:     {"condition", "then", "else"},
}

// operatorParams is the signature shared by all operators.
var operatorParams = []string{"...operands"}

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// listCall describes the innermost open list surrounding the cursor.
type listCall struct {
	head     lang.Token // first item of the list
	argIndex int        // index of the argument under the cursor, or -1 on the head
	inCall   bool       // true if the cursor is inside a list headed by an atom
}

// detectCall finds the innermost unclosed '(' before the cursor and
// reports its head and which argument the cursor is on. Lists headed by
// another list, or with nothing after the '(', are not calls.
func detectCall(input string, cursor int) listCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Parentheses are ASCII, so a byte scan never splits a rune.
	depth := 0
	open := -1

scan:
	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i

				break scan
			}

			depth--
		}
	}

	if open == -1 {
		return listCall{}
	}

	text := input[open+1 : cursor]

	var (
		head  lang.Token
		items int
	)

	depth = 0

	for _, tok := range lang.Lex(text) {
		switch tok.Kind {
		case lang.TokenInvalid:
			continue

		case lang.TokenOpen:
			if depth == 0 {
				items++
			}

			depth++

		case lang.TokenClose:
			depth--

		default:
			if depth == 0 {
				if items == 0 {
					head = tok
				}

				items++
			}
		}
	}

	if items == 0 || head.Kind == lang.TokenInvalid {
		return listCall{}
	}

	// While an item is still being typed the cursor is on that item;
	// after whitespace it is on the next one.
	arg := items - 2
	if text != "" && strings.ContainsRune(" \t\n", rune(text[len(text)-1])) {
		arg = items - 1
	}

	return listCall{head: head, argIndex: arg, inCall: true}
}

// signature returns the name and parameters to display for a list headed
// by tok. Names resolve through scope and must be bound to a closure.
func signature(scope *lang.Scope, tok lang.Token) (name string, params []string, ok bool) {
	switch tok.Kind {
	case lang.TokenKeyword, lang.TokenIf:
		params, ok = formSignatures[tok.Text]

		return tok.Text, params, ok

	case lang.TokenOperator:
		return tok.Text, operatorParams, true

	case lang.TokenName:
		if scope == nil {
			return "", nil, false
		}

		fn, found := scope.Get(tok.Text)
		if !found || fn.Kind != lang.KindLambda {
			return "", nil, false
		}

		return tok.Text, fn.Params, true

	default:
		return "", nil, false
	}
}

// renderSignatureHint renders "(name p1 p2 ...)" with the parameter at
// currentArgIdx highlighted. A variadic parameter, prefixed with "...",
// stays highlighted for every index at or after its own.
func renderSignatureHint(name string, params []string, currentArgIdx int) string {
	if name == "" {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureStyle.Render("("))
	b.WriteString(signatureNameStyle.Render(name))

	for i, param := range params {
		b.WriteString(signatureStyle.Render(" "))

		isVariadic := strings.HasPrefix(param, "...")

		if currentArgIdx >= 0 &&
			((isVariadic && currentArgIdx >= i) || (!isVariadic && currentArgIdx == i)) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
