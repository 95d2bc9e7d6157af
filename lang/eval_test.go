package lang

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func mustEvaluate(t *testing.T, src string, scope *Scope) Expr {
	t.Helper()

	got, err := Evaluate(t.Context(), src, scope)
	if err != nil {
		t.Fatalf("Evaluate(%q) error: %v", src, err)
	}

	return got
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Expr
	}{
		{"integer sum", "(+ 1 2 3)", Integer(6)},
		{"integer difference", "(- 10 3 2)", Integer(5)},
		{"integer product", "(* 2 3 4)", Integer(24)},
		{"integer quotient truncates", "(/ 7 2)", Integer(3)},
		{"float sum", "(+ 1.5 2.25)", Float(3.75)},
		{"float quotient", "(/ 1.0 4.0)", Float(0.25)},
		{"single operand", "(+ 5)", Integer(5)},
		{"single operand subtraction", "(- 5)", Integer(5)},
		{"equal", "(== 2 2 2)", Boolean(true)},
		{"not equal to first", "(== 2 2 3)", Boolean(false)},
		{"single operand equality", "(== 1)", Boolean(false)},
		{"not-equal any pair", "(!= 1 1 2)", Boolean(true)},
		{"not-equal none", "(!= 1 1 1)", Boolean(false)},
		{"bool equality", "(== #t #t)", Boolean(true)},
		{"greater", "(> 5 3 1)", Boolean(true)},
		{"greater compares first only", "(> 5 3 4)", Boolean(true)},
		{"greater fails", "(> 5 6)", Boolean(false)},
		{"smaller", "(< 1 2 3)", Boolean(true)},
		{"smaller equal", "(< 1 1)", Boolean(false)},
		{"float greater", "(> 2.5 1.5)", Boolean(true)},
		{"bool greater", "(> #t #f)", Boolean(true)},
		{"if true", "(if #t 1 2)", Integer(1)},
		{"if false", "(if #f 1 2)", Integer(2)},
		{"if with computed condition", "(if (> 3 2) (+ 1 1) 0)", Integer(2)},
		{"if skips unbound branch", "(if #t 1 undefined)", Integer(1)},
		{"empty program", "()", List()},
		{"def yields nothing", "(def x 5)", Void()},
		{"sequence", "((def x 5) (+ x 1))", List(Integer(6))},
		{"sequence of literals", "(1 2.5 #t)", List(Integer(1), Float(2.5), Boolean(true))},
		{"nested arithmetic", "(+ (* 2 3) (- 10 4))", Integer(12)},
		{
			name:  "lambda value",
			input: "(lambda (x) (+ x 1))",
			want:  Lambda([]string{"x"}, []Expr{Operation(OpAdd), Name("x"), Integer(1)}),
		},
		{"closure call", "((def sqr (lambda (r) (* r r))) (sqr 10))", List(Integer(100))},
		{
			name:  "recursion",
			input: "((def fact (lambda (n) (if (< n 2) 1 (* n (fact (- n 1)))))) (fact 10))",
			want:  List(Integer(3628800)),
		},
		{
			name:  "multiple parameters",
			input: "((def sub (lambda (a b) (- a b))) (sub 10 4))",
			want:  List(Integer(6)),
		},
		{
			name:  "extra arguments are ignored",
			input: "((def id (lambda (a) (+ a))) (id 1 undefined))",
			want:  List(Integer(1)),
		},
		{
			name:  "free names resolve at call site",
			input: "((def f (lambda () (+ y 1))) (def y 41) (f))",
			want:  List(Integer(42)),
		},
		{
			name:  "parameter shadows outer binding",
			input: "((def x 1) (def f (lambda (x) (* x 10))) (f 5) x)",
			want:  List(Integer(50), Integer(1)),
		},
		{
			name:  "body sequence",
			input: "((def f (lambda (a) ((def t a) t))) (f 3))",
			want:  List(List(Integer(3))),
		},
		{
			name:  "void operands are dropped",
			input: "(+ 1 (def z 2) z)",
			want:  Integer(3),
		},
		{
			name:  "redefinition replaces",
			input: "((def x 1) (def x 2) x)",
			want:  List(Integer(2)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustEvaluate(t, tt.input, NewScope())
			if !got.Equal(tt.want) {
				t.Errorf("Evaluate(%q) = %v (%s), want %v (%s)",
					tt.input, got, got.Kind, tt.want, tt.want.Kind)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unbound name", "(+ x 1)", ErrUnboundName},
		{"unbound symbol", "(f 1)", ErrUnboundSymbol},
		{"call non-closure", "((def f 1) (f))", ErrType},
		{"mixed kinds", "(+ 1 2.0)", ErrTypeMismatch},
		{"mixed comparison", "(== 1 #t)", ErrTypeMismatch},
		{"bool arithmetic", "(+ #t #f)", ErrType},
		{"list arithmetic", "(+ (1) (2))", ErrType},
		{"list comparison", "(> (1) (2))", ErrType},
		{"no operands", "(+)", ErrArity},
		{"only void operands", "(+ (def a 1))", ErrArity},
		{"too few arguments", "((def f (lambda (a b) (+ a b))) (f 1))", ErrArity},
		{"if arity", "(if #t 1)", ErrArity},
		{"if non-bool", "(if 1 2 3)", ErrType},
		{"def arity", "(def x)", ErrArity},
		{"def non-name", "(def 1 2)", ErrType},
		{"lambda arity", "(lambda (x))", ErrArity},
		{"lambda params", "(lambda x (x))", ErrType},
		{"lambda param kind", "(lambda (1) (1))", ErrType},
		{"lambda body", "(lambda (x) x)", ErrType},
		{"bare operator", "(1 +)", ErrType},
		{"bare keyword", "(1 def)", ErrType},
		{"parse error", "(1", ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(t.Context(), tt.input, NewScope())
			if !errors.Is(err, tt.want) {
				t.Errorf("Evaluate(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestEvaluate_IntegerDivisionByZero(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}

		if err, ok := r.(error); !ok || err.Error() != "runtime error: integer divide by zero" {
			t.Errorf("panic = %v, want integer divide by zero", r)
		}
	}()

	_, _ = Evaluate(t.Context(), "(/ 1 0)", NewScope())
}

func TestEvaluate_FloatDivisionByZero(t *testing.T) {
	got := mustEvaluate(t, "(/ 1.0 0.0)", NewScope())
	if got.Kind != KindFloat || !math.IsInf(got.Float, 1) {
		t.Errorf("got %v, want +Inf", got)
	}
}

func TestEvaluate_PersistentScope(t *testing.T) {
	s := NewScope()

	mustEvaluate(t, "(def x 5)", s)
	mustEvaluate(t, "(def inc (lambda (n) (+ n 1)))", s)

	got := mustEvaluate(t, "(inc x)", s)
	if !got.Equal(Integer(6)) {
		t.Errorf("got %v, want 6", got)
	}

	if s.Len() != 2 {
		t.Errorf("scope has %d bindings, want 2", s.Len())
	}
}

func TestEvaluate_BodyDefinitionsStayLocal(t *testing.T) {
	s := NewScope()

	mustEvaluate(t, "((def f (lambda (a) ((def t a) t))) (f 3))", s)

	if _, ok := s.Get("t"); ok {
		t.Error("binding made in closure body is visible in caller scope")
	}

	if _, err := Evaluate(t.Context(), "(+ t 1)", s); !errors.Is(err, ErrUnboundName) {
		t.Errorf("error = %v, want %v", err, ErrUnboundName)
	}
}

func TestEvaluate_BodyDefinitionsShadowOuter(t *testing.T) {
	s := NewScope()

	got := mustEvaluate(t, "((def x 1) (def f (lambda () ((def x 2) x))) (f) x)", s)
	if want := List(List(Integer(2)), Integer(1)); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if v, _ := s.Get("x"); !v.Equal(Integer(1)) {
		t.Errorf("outer x = %v, want 1", v)
	}
}

func TestEvaluate_FailureKeepsEarlierBindings(t *testing.T) {
	s := NewScope()

	if _, err := Evaluate(t.Context(), "((def a 1) (+ a b))", s); !errors.Is(err, ErrUnboundName) {
		t.Fatalf("error = %v, want %v", err, ErrUnboundName)
	}

	if v, ok := s.Get("a"); !ok || !v.Equal(Integer(1)) {
		t.Errorf("a = %v, %v; want 1, true", v, ok)
	}
}

func TestEvaluate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Evaluate(ctx, "((def f (lambda () (1))) (f))", NewScope())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}

func TestEval_NilScope(t *testing.T) {
	got, err := Eval(t.Context(), List(Operation(OpAdd), Integer(2), Integer(3)), nil)
	if err != nil {
		t.Fatalf("Eval error: %v", err)
	}

	if !got.Equal(Integer(5)) {
		t.Errorf("got %v, want 5", got)
	}
}

func TestEvaluateReader(t *testing.T) {
	r := strings.NewReader("((def sqr (lambda (r) (* r r))) (sqr 12))")

	got, err := EvaluateReader(t.Context(), r, NewScope())
	if err != nil {
		t.Fatalf("EvaluateReader error: %v", err)
	}

	if !got.Equal(List(Integer(144))) {
		t.Errorf("got %v, want (144)", got)
	}
}
