package repl

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/sexp/lang"
)

// keywords are offered for completion alongside bound names.
var keywords = []string{lang.KeywordDef, lang.KeywordIf, lang.KeywordLambda}

// wordBreaks delimit the word being completed. Hyphens are not among them
// since names like log-level contain one.
const wordBreaks = " \t\n()"

// completion is the state of the candidate bar for the word at the cursor.
type completion struct {
	matches fuzzy.Matches
	start   int // byte offsets of the word in the input
	end     int

	selected int
	cycling  bool
	before   savedInput // input before Tab was first pressed
}

// wordBounds returns the word surrounding cursor and its byte offsets in
// input. The word is empty when cursor sits between two breaks.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = strings.LastIndexAny(input[:cursor], wordBreaks) + 1

	end = len(input)
	if i := strings.IndexAny(input[cursor:], wordBreaks); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// candidates returns the names visible from scope followed by the
// keywords.
func candidates(scope *lang.Scope) []string {
	var names []string

	if scope != nil {
		names = slices.Collect(scope.Names())
	}

	return append(names, keywords...)
}

// computeMatches ranks candidates for the word at the cursor, best first.
// An empty word has no matches so the usage hint stays visible.
func (m model) computeMatches() (fuzzy.Matches, int, int) {
	word, start, end := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, start, end
	}

	source := commandNames()
	if m.mode == modeEval {
		source = candidates(m.scope)
	}

	return fuzzy.Find(word, source), start, end
}

// refresh recomputes matches after the input changed. With settle set, a
// lone match the word already spells out is dismissed.
func (m *model) refresh(settle bool) {
	m.comp.matches, m.comp.start, m.comp.end = m.computeMatches()

	if !m.comp.cycling {
		m.comp.selected = -1
	}

	if settle && len(m.comp.matches) == 1 &&
		m.input.Value()[m.comp.start:m.comp.end] == m.comp.matches[0].Str {
		m.comp = completion{selected: -1}
	}
}

// cycle moves the selection by step, wrapping around, and writes the
// selected candidate into the input. A lone candidate is accepted outright.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.comp.matches[0].Str)
		m.comp = completion{selected: -1}

		return m

	case m.comp.cycling:
		m.comp.selected = (m.comp.selected + step + n) % n

	default:
		m.comp.cycling = true
		m.comp.before = m.save()

		m.comp.selected = 0
		if step < 0 {
			m.comp.selected = n - 1
		}
	}

	m.replaceWord(m.comp.matches[m.comp.selected].Str)

	return m
}

func (m *model) replaceWord(s string) {
	text := m.input.Value()

	m.input.SetValue(text[:m.comp.start] + s + text[m.comp.end:])
	m.comp.end = m.comp.start + len(s)
	m.input.SetCursor(m.comp.end)
}

// renderCandidateBar lays out the matches on one line no wider than width,
// ending in an ellipsis when some do not fit. Names for which isFunc
// reports true get a "()" suffix.
func renderCandidateBar(c completion, width int, isFunc func(string) bool) string {
	if len(c.matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	more := hintStyle.Render("...")
	items := make([]string, 0, len(c.matches))
	used := 0

	for i, match := range c.matches {
		item := renderCandidate(match, c.cycling && i == c.selected, isFunc != nil && isFunc(match.Str))

		w := lipgloss.Width(item)
		if i > 0 {
			w += len(sep)

			if used+w+lipgloss.Width(more) > width {
				items = append(items, more)

				break
			}
		}

		items = append(items, item)
		used += w
	}

	return strings.Join(items, sep)
}

// renderCandidate highlights the characters of match that the word hit.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	plain, hit := suggestionStyle, matchStyle
	if selected {
		plain, hit = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		style := plain
		if slices.Contains(match.MatchedIndexes, i) {
			style = hit
		}

		b.WriteString(style.Render(string(r)))
	}

	if function {
		b.WriteString(plain.Render("()"))
	}

	return b.String()
}
