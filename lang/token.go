package lang

import (
	"strconv"
)

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenInvalid TokenKind = iota
	TokenInteger
	TokenFloat
	TokenBool
	TokenOperator
	TokenOpen
	TokenClose
	TokenKeyword
	TokenIf
	TokenName
)

var tokenKindName = [...]string{
	TokenInvalid:  "invalid",
	TokenInteger:  "integer",
	TokenFloat:    "float",
	TokenBool:     "boolean",
	TokenOperator: "operator",
	TokenOpen:     "open parenthesis",
	TokenClose:    "close parenthesis",
	TokenKeyword:  "keyword",
	TokenIf:       "if",
	TokenName:     "name",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindName) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}

	return tokenKindName[k]
}

// Token is a single lexeme produced by [Lex].
//
// Only the field matching Kind is meaningful. Text always holds the source
// lexeme and Pos its byte offset in the source.
type Token struct {
	Kind  TokenKind
	Text  string
	Pos   int
	Int   int64
	Float float64
	Bool  bool
	Op    Operator
}

// String returns the lexeme as it appeared in the source.
func (t Token) String() string {
	if t.Kind == TokenInvalid {
		return strconv.Quote(t.Text)
	}

	return t.Text
}

// Expr converts a leaf token to its expression node.
// It returns false for parentheses and invalid tokens.
func (t Token) Expr() (Expr, bool) {
	switch t.Kind {
	case TokenInteger:
		return Integer(t.Int), true
	case TokenFloat:
		return Float(t.Float), true
	case TokenBool:
		return Boolean(t.Bool), true
	case TokenOperator:
		return Operation(t.Op), true
	case TokenKeyword:
		return Keyword(t.Text), true
	case TokenIf:
		return Condition(), true
	case TokenName:
		return Name(t.Text), true
	default:
		return Expr{}, false
	}
}
