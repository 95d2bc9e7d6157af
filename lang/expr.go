package lang

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind is the tag of an [Expr].
type Kind int

const (
	KindVoid Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindOperator
	KindLambda
	KindCondition
	KindList
	KindKeyword
	KindName
)

var kindName = [...]string{
	KindVoid:      "Void",
	KindInteger:   "Integer",
	KindFloat:     "Float",
	KindBool:      "Bool",
	KindOperator:  "Operator",
	KindLambda:    "Lambda",
	KindCondition: "Condition",
	KindList:      "List",
	KindKeyword:   "Keyword",
	KindName:      "Name",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// Operator is one of the eight primitive operators.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNotEq
	OpGreater
	OpSmaller
)

var operatorSymbol = [...]string{
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpEq:      "==",
	OpNotEq:   "!=",
	OpGreater: ">",
	OpSmaller: "<",
}

// String returns the source symbol of the operator.
func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorSymbol) {
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}

	return operatorSymbol[o]
}

// Arithmetic reports whether o folds its operands into a number.
func (o Operator) Arithmetic() bool { return o >= OpAdd && o <= OpDiv }

// Expr is a node of the expression tree. The same type represents parsed
// syntax and runtime values.
//
// Only the fields selected by Kind are meaningful:
//
//	KindInteger   Int
//	KindFloat     Float
//	KindBool      Bool
//	KindOperator  Op
//	KindKeyword   Str
//	KindName      Str
//	KindList      Items
//	KindLambda    Params, Items (the body)
//
// Expr values are never mutated after construction, so trees may share
// Items slices freely.
type Expr struct {
	Kind   Kind
	Int    int64
	Float  float64
	Bool   bool
	Op     Operator
	Str    string
	Params []string
	Items  []Expr
}

// Void returns the result of a binding statement.
func Void() Expr { return Expr{Kind: KindVoid} }

// Integer returns an integer literal.
func Integer(n int64) Expr { return Expr{Kind: KindInteger, Int: n} }

// Float returns a floating-point literal.
func Float(f float64) Expr { return Expr{Kind: KindFloat, Float: f} }

// Boolean returns a boolean literal.
func Boolean(b bool) Expr { return Expr{Kind: KindBool, Bool: b} }

// Operation returns an operator node.
func Operation(op Operator) Expr { return Expr{Kind: KindOperator, Op: op} }

// Condition returns the if marker.
func Condition() Expr { return Expr{Kind: KindCondition} }

// Keyword returns a keyword marker (def or lambda).
func Keyword(s string) Expr { return Expr{Kind: KindKeyword, Str: s} }

// Name returns an identifier.
func Name(s string) Expr { return Expr{Kind: KindName, Str: s} }

// List returns a list of the given items.
func List(items ...Expr) Expr {
	if items == nil {
		items = []Expr{}
	}

	return Expr{Kind: KindList, Items: items}
}

// Lambda returns a closure template with positional parameters and a body
// that is evaluated as an implicit list.
func Lambda(params []string, body []Expr) Expr {
	return Expr{Kind: KindLambda, Params: params, Items: body}
}

// IsVoid reports whether e is the result of a binding statement.
func (e Expr) IsVoid() bool { return e.Kind == KindVoid }

// Equal reports whether e and o are structurally identical.
// Floats compare with IEEE-754 equality, so NaN is unequal to itself.
func (e Expr) Equal(o Expr) bool {
	if e.Kind != o.Kind {
		return false
	}

	switch e.Kind {
	case KindVoid, KindCondition:
		return true
	case KindInteger:
		return e.Int == o.Int
	case KindFloat:
		return e.Float == o.Float
	case KindBool:
		return e.Bool == o.Bool
	case KindOperator:
		return e.Op == o.Op
	case KindKeyword, KindName:
		return e.Str == o.Str
	case KindLambda:
		return slices.Equal(e.Params, o.Params) && equalItems(e.Items, o.Items)
	case KindList:
		return equalItems(e.Items, o.Items)
	default:
		return false
	}
}

func equalItems(a, b []Expr) bool {
	return slices.EqualFunc(a, b, Expr.Equal)
}

// String renders e as source text that lexes and parses back to an equal
// tree. Void renders as the empty string.
func (e Expr) String() string {
	var sb strings.Builder

	e.write(&sb)

	return sb.String()
}

func (e Expr) write(sb *strings.Builder) {
	switch e.Kind {
	case KindVoid:
	case KindInteger:
		sb.WriteString(strconv.FormatInt(e.Int, 10))
	case KindFloat:
		sb.WriteString(formatFloat(e.Float))
	case KindBool:
		if e.Bool {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case KindOperator:
		sb.WriteString(e.Op.String())
	case KindCondition:
		sb.WriteString(KeywordIf)
	case KindKeyword, KindName:
		sb.WriteString(e.Str)
	case KindList:
		writeItems(sb, e.Items)
	case KindLambda:
		sb.WriteString("(" + KeywordLambda + " (")
		sb.WriteString(strings.Join(e.Params, " "))
		sb.WriteString(") ")
		writeItems(sb, e.Items)
		sb.WriteByte(')')
	default:
		sb.WriteString("<" + e.Kind.String() + ">")
	}
}

func writeItems(sb *strings.Builder, items []Expr) {
	sb.WriteByte('(')

	for i, item := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}

		item.write(sb)
	}

	sb.WriteByte(')')
}

// formatFloat renders f with a decimal point so that finite values lex as
// float literals. Infinities and NaN have no literal and are written as the
// division that produces them.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "(/ 1.0 0.0)"
	case math.IsInf(f, -1):
		return "(/ -1.0 0.0)"
	case math.IsNaN(f):
		return "(/ 0.0 0.0)"
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
