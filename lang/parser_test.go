package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Expr
	}{
		{
			name:  "empty list",
			input: "()",
			want:  List(),
		},
		{
			name:  "flat list",
			input: "(+ 1 2.5 #t)",
			want:  List(Operation(OpAdd), Integer(1), Float(2.5), Boolean(true)),
		},
		{
			name:  "nested",
			input: "((def x 1) (if #t x 0))",
			want: List(
				List(Keyword(KeywordDef), Name("x"), Integer(1)),
				List(Condition(), Boolean(true), Name("x"), Integer(0)),
			),
		},
		{
			name:  "lambda syntax stays a list",
			input: "(lambda (r) (* r r))",
			want: List(
				Keyword(KeywordLambda),
				List(Name("r")),
				List(Operation(OpMul), Name("r"), Name("r")),
			),
		},
		{
			name:  "surrounding whitespace",
			input: "\n  ( 1 )\r\n",
			want:  List(Integer(1)),
		},
		{
			name:  "unrecognized input is skipped",
			input: "(1 % 2) ;",
			want:  List(Integer(1), Integer(2)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.input, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("ParseString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  error
	}{
		{"empty input", "", nil, ErrInsufficientTokens},
		{"whitespace only", "   ", nil, ErrInsufficientTokens},
		{"unclosed", "(+ 1 2", nil, ErrInsufficientTokens},
		{"unclosed nested", "((1)", nil, ErrInsufficientTokens},
		{"atom program", "42", nil, ErrExpectedOpen},
		{"leading close", ")", nil, ErrExpectedOpen},
		{"trailing list", "(1) (2)", nil, ErrTrailingTokens},
		{"trailing close", "(1))", nil, ErrTrailingTokens},
		{"strict invalid", "(1 % 2)", []Option{WithStrict(true)}, ErrInvalidLexeme},
		{"strict trailing invalid", "(1) %", []Option{WithStrict(true)}, ErrInvalidLexeme},
		{"strict invalid head", "%(1)", []Option{WithStrict(true)}, ErrInvalidLexeme},
		{"too deep", "(((1)))", []Option{WithMaxDepth(2)}, ErrMaxDepthExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(t.Context(), tt.input, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseString(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v does not match ErrParse", err)
			}
		})
	}
}

func TestParseString_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := ParseString(ctx, "(1 (2 3))"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}

func TestParseString_StrictAcceptsCRLF(t *testing.T) {
	got, err := ParseString(t.Context(), "((def a 1)\r\n (+ a 2))\r\n", WithStrict(true))
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	if want := "((def a 1) (+ a 2))"; got.String() != want {
		t.Errorf("got %v, want %s", got, want)
	}
}

func TestParseString_MaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 50) + strings.Repeat(")", 50)

	if _, err := ParseString(t.Context(), deep, WithMaxDepth(50)); err != nil {
		t.Errorf("depth 50 with limit 50: %v", err)
	}

	if _, err := ParseString(t.Context(), deep, WithMaxDepth(49)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("depth 50 with limit 49: got %v, want %v", err, ErrMaxDepthExceeded)
	}
}

func TestParse_LeavesTrailingTokens(t *testing.T) {
	stack := NewStack(Lex("(1) (2)"))

	first, err := Parse(t.Context(), stack)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if !first.Equal(List(Integer(1))) {
		t.Errorf("first = %v, want (1)", first)
	}

	if stack.Len() != 3 {
		t.Fatalf("stack.Len() = %d, want 3", stack.Len())
	}

	second, err := Parse(t.Context(), stack)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if !second.Equal(List(Integer(2))) {
		t.Errorf("second = %v, want (2)", second)
	}
}

func TestStack(t *testing.T) {
	s := NewStack(Lex("( )"))

	tok, ok := s.Pop()
	if !ok || tok.Kind != TokenOpen {
		t.Fatalf("Pop() = %v, %v; want open", tok, ok)
	}

	s.Push(tok)

	if s.Len() != 2 {
		t.Errorf("Len() after Push = %d, want 2", s.Len())
	}

	s.Pop()
	s.Pop()

	if _, ok := s.Pop(); ok {
		t.Error("Pop() on empty stack returned ok")
	}
}

func TestExpr_StringRoundTrip(t *testing.T) {
	sources := []string{
		"()",
		"(+ 1 -2 3.25 #t #f)",
		"((def sqr (lambda (r) (* r r))) (sqr 10))",
		"(if (== 1 1) (!= a b) (< 1.0 2.0))",
	}

	for _, src := range sources {
		tree, err := ParseString(t.Context(), src)
		if err != nil {
			t.Fatalf("ParseString(%q) error: %v", src, err)
		}

		if got := tree.String(); got != src {
			t.Errorf("String() = %q, want %q", got, src)
		}
	}
}
