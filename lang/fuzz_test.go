package lang

import (
	"errors"
	"strings"
	"testing"
)

func FuzzParseString(f *testing.F) {
	seeds := []string{
		"",
		"()",
		"(+ 1 2)",
		"((def sqr (lambda (r) (* r r))) (sqr 10))",
		"(if #t 1.5 -2)",
		"(((",
		")))",
		"(1 % 2)",
		"(é #x -)",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		toks := Lex(src)

		n := 0
		for _, tok := range toks {
			if !strings.HasPrefix(src[tok.Pos:], tok.Text) {
				t.Fatalf("token %+v does not match source at its offset", tok)
			}

			n += len(tok.Text)
		}

		if n > len(src) {
			t.Fatalf("tokens cover %d bytes of %d", n, len(src))
		}

		tree, err := ParseString(t.Context(), src)
		if err != nil {
			if !errors.Is(err, ErrParse) {
				t.Fatalf("ParseString error %v does not match ErrParse", err)
			}

			return
		}

		again, err := ParseString(t.Context(), tree.String())
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", tree.String(), err)
		}

		if !again.Equal(tree) {
			t.Fatalf("round trip changed tree: %v != %v", again, tree)
		}
	})
}

func FuzzEvaluate(f *testing.F) {
	f.Add("((def f (lambda (n) (if (< n 1) 0 (+ n (f (- n 1)))))) (f 5))")
	f.Add("(!= 1 2 3)")
	f.Add("(> #t #f)")

	f.Fuzz(func(t *testing.T, src string) {
		// Integer division panics by definition and unbounded recursion
		// never returns.
		if strings.Contains(src, "/") || strings.Contains(src, "lambda") {
			return
		}

		_, _ = Evaluate(t.Context(), src, NewScope())
	})
}
