package cli

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sexp/lang"
)

func flagNamed(name string) *kong.Flag {
	return &kong.Flag{Value: &kong.Value{Name: name}}
}

func loadConfig(t *testing.T, text string) kong.Resolver {
	t.Helper()

	r, err := resolve(t.Context())(strings.NewReader(text))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return r
}

func TestResolve_Values(t *testing.T) {
	r := loadConfig(t, `
((def log-level debug)
 (def log_format json)
 (def log-pretty #f)
 (def max-depth 500)
 (def ratio 0.25)
 (def path (lib vendor)))`)

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-pretty", false},
		{"max-depth", "500"},
		{"ratio", "0.25"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := r.Resolve(nil, nil, flagNamed(tt.flag))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}

	got, _ := r.Resolve(nil, nil, flagNamed("path"))

	items, ok := got.([]any)
	if !ok || !slices.Equal(items, []any{"lib", "vendor"}) {
		t.Errorf("Resolve(path) = %#v, want [lib vendor]", got)
	}
}

func TestResolve_SingleDef(t *testing.T) {
	r := loadConfig(t, `(def strict #t)`)

	got, _ := r.Resolve(nil, nil, flagNamed("strict"))
	if got != true {
		t.Errorf("Resolve(strict) = %#v, want true", got)
	}
}

func TestResolve_SkipsNonLiterals(t *testing.T) {
	r := loadConfig(t, `
((def sq (lambda (x) (* x x)))
 (def sum (+ 1 2))
 (def nested ((a b)))
 (def ok 1)
 (+ 1 2))`)

	for _, name := range []string{"sq", "sum", "nested"} {
		if got, _ := r.Resolve(nil, nil, flagNamed(name)); got != nil {
			t.Errorf("Resolve(%q) = %#v, want nil", name, got)
		}
	}

	if got, _ := r.Resolve(nil, nil, flagNamed("ok")); got != "1" {
		t.Errorf("Resolve(ok) = %#v, want \"1\"", got)
	}
}

func TestResolve_InvalidConfig(t *testing.T) {
	for _, text := range []string{"", "(def a", "log-level = debug"} {
		r := loadConfig(t, text)

		if got, _ := r.Resolve(nil, nil, flagNamed("log-level")); got != nil {
			t.Errorf("config %q: Resolve = %#v, want nil", text, got)
		}
	}
}

func TestResolve_ReadError(t *testing.T) {
	_, err := resolve(t.Context())(&errorReader{err: bytes.ErrTooLarge})
	if !errors.Is(err, lang.ErrReadInput) {
		t.Errorf("error = %v, want %v", err, lang.ErrReadInput)
	}
}

type errorReader struct{ err error }

func (e *errorReader) Read([]byte) (int, error) { return 0, e.err }
