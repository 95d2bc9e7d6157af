package lang

import (
	"strconv"
	"unicode/utf8"
)

// Keywords recognized ahead of the generic name rule.
const (
	KeywordDef    = "def"
	KeywordLambda = "lambda"
	KeywordIf     = "if"
)

// Lex converts source into tokens in source order.
//
// Lex never fails. Input that matches no rule, including integer literals
// that overflow 64 bits, becomes a [TokenInvalid] token carrying the
// offending text; the parser skips those unless strict lexing is enabled.
// Whitespace produces no tokens.
func Lex(source string) []Token {
	var (
		toks []Token
		pos  int
	)

	for pos < len(source) {
		if isSpace(source[pos]) {
			pos++

			continue
		}

		tok := scan(source, pos)
		toks = append(toks, tok)
		pos += len(tok.Text)
	}

	return toks
}

// scan returns the longest token starting at pos. Ties are resolved in rule
// order: numbers, booleans, operators, parentheses, keywords, names.
func scan(src string, pos int) Token {
	rest := src[pos:]

	if n := numberLen(rest); n > 0 {
		return numberToken(rest[:n], pos)
	}

	if len(rest) >= 2 && rest[0] == '#' && (rest[1] == 't' || rest[1] == 'f') {
		return Token{Kind: TokenBool, Text: rest[:2], Pos: pos, Bool: rest[1] == 't'}
	}

	if op, n := operatorPrefix(rest); n > 0 {
		return Token{Kind: TokenOperator, Text: rest[:n], Pos: pos, Op: op}
	}

	switch rest[0] {
	case '(':
		return Token{Kind: TokenOpen, Text: "(", Pos: pos}
	case ')':
		return Token{Kind: TokenClose, Text: ")", Pos: pos}
	}

	if n := nameLen(rest); n > 0 {
		text := rest[:n]

		switch text {
		case KeywordDef, KeywordLambda:
			return Token{Kind: TokenKeyword, Text: text, Pos: pos}
		case KeywordIf:
			return Token{Kind: TokenIf, Text: text, Pos: pos}
		default:
			return Token{Kind: TokenName, Text: text, Pos: pos}
		}
	}

	_, size := utf8.DecodeRuneInString(rest)

	return Token{Kind: TokenInvalid, Text: rest[:size], Pos: pos}
}

// numberLen returns the length of the integer or float literal at the start
// of s, or 0 if there is none.
func numberLen(s string) int {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}

	if i == start {
		return 0
	}

	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}

	return i
}

func numberToken(text string, pos int) Token {
	for i := range len(text) {
		if text[i] == '.' {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return Token{Kind: TokenInvalid, Text: text, Pos: pos}
			}

			return Token{Kind: TokenFloat, Text: text, Pos: pos, Float: f}
		}
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{Kind: TokenInvalid, Text: text, Pos: pos}
	}

	return Token{Kind: TokenInteger, Text: text, Pos: pos, Int: n}
}

func operatorPrefix(s string) (Operator, int) {
	if len(s) >= 2 {
		switch s[:2] {
		case "==":
			return OpEq, 2
		case "!=":
			return OpNotEq, 2
		}
	}

	switch s[0] {
	case '+':
		return OpAdd, 1
	case '-':
		return OpSub, 1
	case '*':
		return OpMul, 1
	case '/':
		return OpDiv, 1
	case '>':
		return OpGreater, 1
	case '<':
		return OpSmaller, 1
	}

	return 0, 0
}

func nameLen(s string) int {
	if !isLetter(s[0]) {
		return 0
	}

	i := 1
	for i < len(s) && (isLetter(s[i]) || isDigit(s[i]) || s[i] == '_' || s[i] == '-') {
		i++
	}

	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
