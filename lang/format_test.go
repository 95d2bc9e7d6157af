package lang

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestExpr_Native(t *testing.T) {
	tree, err := ParseString(t.Context(), "(def sq (lambda (x) (* x x)) 1.5 #f)")
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	got, ok := tree.Native().([]any)
	if !ok || len(got) != 5 {
		t.Fatalf("Native() = %#v", tree.Native())
	}

	if got[0] != "def" || got[1] != "sq" || got[3] != 1.5 || got[4] != false {
		t.Errorf("Native() = %#v", got)
	}

	lam, err := Evaluate(t.Context(), "(lambda (x) (* x x))", NewScope())
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}

	m, ok := lam.Native().(map[string]any)
	if !ok {
		t.Fatalf("lambda Native() = %#v", lam.Native())
	}

	inner, ok := m["lambda"].(map[string]any)
	if !ok {
		t.Fatalf("lambda Native() = %#v", m)
	}

	if params, _ := inner["params"].([]any); len(params) != 1 || params[0] != "x" {
		t.Errorf("params = %#v", inner["params"])
	}

	if Void().Native() != nil {
		t.Error("Void().Native() != nil")
	}
}

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{"compact", "(+ 1 2.5 #t)", 0, `["+",1,2.5,true]` + "\n"},
		{"indented", "(1 (2))", 2, "[\n  1,\n  [\n    2\n  ]\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := ParseString(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("ParseString error: %v", err)
			}

			var buf bytes.Buffer
			if err := FormatJSON(t.Context(), &buf, tree, tt.indent); err != nil {
				t.Fatalf("FormatJSON error: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("FormatJSON = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatYAML(t *testing.T) {
	tree, err := ParseString(t.Context(), "(if #t 1 2)")
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	var buf bytes.Buffer
	if err := FormatYAML(t.Context(), &buf, tree, 2); err != nil {
		t.Fatalf("FormatYAML error: %v", err)
	}

	for _, want := range []string{"- if", "- true", "- 1", "- 2"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("FormatYAML output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()

	if err := FormatYAML(t.Context(), &buf, tree, 0); err != nil {
		t.Fatalf("FormatYAML flow error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "[") {
		t.Errorf("flow output = %q, want a flow sequence", buf.String())
	}
}

func TestFormat(t *testing.T) {
	tree, err := ParseString(t.Context(), "( + 1   2 )")
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	var buf bytes.Buffer
	if err := Format(t.Context(), &buf, tree, 0); err != nil {
		t.Fatalf("Format error: %v", err)
	}

	if got := buf.String(); got != "(+ 1 2)\n" {
		t.Errorf("Format = %q, want %q", got, "(+ 1 2)\n")
	}
}

func TestFormat_BreaksLongLists(t *testing.T) {
	src := "((def a-rather-long-name 1234567890) (def another-rather-long-name 1234567890) (+ a-rather-long-name another-rather-long-name))"

	tree, err := ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	var buf bytes.Buffer
	if err := Format(t.Context(), &buf, tree, 2); err != nil {
		t.Fatalf("Format error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Format produced %d lines, want 3:\n%s", len(lines), buf.String())
	}

	// Broken output still parses to the same tree.
	again, err := ParseString(t.Context(), buf.String())
	if err != nil {
		t.Fatalf("re-parse error: %v", err)
	}

	if !again.Equal(tree) {
		t.Errorf("re-parsed tree differs:\n%v\n%v", again, tree)
	}
}

func TestPrint(t *testing.T) {
	tree, err := ParseString(t.Context(), "(if (> x 1) #t 2.5)")
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}

	var buf bytes.Buffer

	Print(t.Context(), &buf, tree)

	want := strings.Join([]string{
		"List: 4",
		"  Condition",
		"  List: 3",
		"    Operator: >",
		"    Name: x",
		"    Integer: 1",
		"  Bool: #t",
		"  Float: 2.5",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("Print =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestScope_Format(t *testing.T) {
	s := NewScope()

	src := "((def n 3) (def sq (lambda (x) (* x x))) (def xs (1 2.0 #t)) (def v (def w 1)))"
	mustEvaluate(t, src, s)

	var buf bytes.Buffer
	if err := s.Format(t.Context(), &buf); err != nil {
		t.Fatalf("Format error: %v", err)
	}

	want := "((def n 3)\n (def sq (lambda (x) (* x x)))\n (def w 1)\n (def xs (1 2.0 #t)))\n"
	if buf.String() != want {
		t.Errorf("Format =\n%s\nwant\n%s", buf.String(), want)
	}

	// Evaluating the dump recreates the bindings.
	fresh := NewScope()
	mustEvaluate(t, buf.String(), fresh)

	for name, v := range s.All() {
		if v.IsVoid() {
			continue
		}

		got, ok := fresh.Get(name)
		if !ok || !got.Equal(v) {
			t.Errorf("%s = %v, want %v", name, got, v)
		}
	}
}

func TestScope_Format_NonFinite(t *testing.T) {
	s := NewScope()
	mustEvaluate(t, "((def inf (/ 1.0 0.0)) (def ninf (/ -1.0 0.0)) (def nan (/ 0.0 0.0)))", s)

	var buf bytes.Buffer
	if err := s.Format(t.Context(), &buf); err != nil {
		t.Fatalf("Format error: %v", err)
	}

	want := "((def inf (/ 1.0 0.0))\n (def nan (/ 0.0 0.0))\n (def ninf (/ -1.0 0.0)))\n"
	if buf.String() != want {
		t.Errorf("Format =\n%s\nwant\n%s", buf.String(), want)
	}

	fresh := NewScope()
	mustEvaluate(t, buf.String(), fresh)

	tests := []struct {
		name string
		ok   func(float64) bool
	}{
		{"inf", func(f float64) bool { return math.IsInf(f, 1) }},
		{"ninf", func(f float64) bool { return math.IsInf(f, -1) }},
		{"nan", math.IsNaN},
	}

	for _, tt := range tests {
		v, ok := fresh.Get(tt.name)
		if !ok || v.Kind != KindFloat || !tt.ok(v.Float) {
			t.Errorf("%s = %v, %v after reload", tt.name, v, ok)
		}
	}
}
