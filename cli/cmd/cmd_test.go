package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sexp/lang"
)

// commandContext returns a context carrying a kong context parsed from
// model, whose Stdout is the returned buffer, and the given session.
func commandContext(
	t *testing.T,
	model any,
	sess *Session,
	vars kong.Vars,
) (context.Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	parser, err := kong.New(model,
		kong.Writers(&out, io.Discard),
		kong.Exit(func(code int) { t.Fatalf("kong exit %d", code) }),
		vars,
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(t.Context(), ktx)
	if sess != nil {
		ctx = WithSession(ctx, sess)
	}

	return ctx, &out
}

// writeFiles creates each name under dir with the given contents.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSessionFrom(t *testing.T) {
	sess := sessionFrom(t.Context())
	if sess.Scope == nil || len(sess.Options) == 0 {
		t.Errorf("default session = %+v, want a scope and options", sess)
	}

	mine := &Session{Path: []string{"lib"}}

	got := sessionFrom(WithSession(t.Context(), mine))
	if got != mine {
		t.Fatal("sessionFrom did not return the stored session")
	}

	if got.Scope == nil {
		t.Error("stored session without a scope was not given one")
	}
}

func TestKongContextFrom(t *testing.T) {
	if kongContextFrom(t.Context()) != nil {
		t.Error("kongContextFrom(empty) != nil")
	}

	var cli struct{}

	ctx, out := commandContext(t, &cli, nil, nil)

	if kongContextFrom(ctx) == nil {
		t.Fatal("kongContextFrom = nil")
	}

	if stdout(ctx) != io.Writer(out) {
		t.Error("stdout does not use the kong context writer")
	}

	if stdout(t.Context()) != io.Writer(os.Stdout) {
		t.Error("stdout without a kong context is not os.Stdout")
	}
}

func TestOpenSources(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.sexp": "(1)", "b.sexp": "(2)"})

	a := filepath.Join(dir, "a.sexp")
	b := filepath.Join(dir, "b.sexp")
	link := filepath.Join(dir, "link.sexp")

	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlink: %v", err)
	}

	var sess Session

	srcs, err := sess.openSources([]string{a, link, b, a, "-", "-"})
	if err != nil {
		t.Fatalf("openSources: %v", err)
	}
	defer closeSources(srcs)

	var names []string
	for _, src := range srcs {
		names = append(names, src.name)
	}

	want := []string{a, b, "<stdin>"}
	if len(names) != len(want) {
		t.Fatalf("sources = %q, want %q", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("sources[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	text, err := readSource(t.Context(), srcs[1], nil)
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}

	if text != "(2)" {
		t.Errorf("readSource = %q, want %q", text, "(2)")
	}
}

func TestOpenSources_SearchPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	writeFiles(t, first, map[string]string{"shared.sexp": "(1)"})
	writeFiles(t, second, map[string]string{"shared.sexp": "(2)", "only.sexp": "(3)"})

	sess := Session{Path: []string{first, second}}

	tests := []struct {
		name string
		want string
	}{
		{"shared.sexp", filepath.Join(first, "shared.sexp")},
		{"only.sexp", filepath.Join(second, "only.sexp")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sess.lookup(tt.name)
			if !ok || got != tt.want {
				t.Errorf("lookup(%q) = %q, %v; want %q", tt.name, got, ok, tt.want)
			}
		})
	}

	if _, ok := sess.lookup(filepath.Join(first, "only.sexp")); ok {
		t.Error("absolute path was resolved through the search path")
	}
}

func TestOpenSources_Missing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.sexp": "(1)"})

	var sess Session

	srcs, err := sess.openSources([]string{filepath.Join(dir, "a.sexp"), "no-such-file.sexp"})
	if srcs != nil {
		t.Error("sources were returned alongside an error")
	}

	if !errors.Is(err, ErrOpenSource) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want %v wrapping %v", err, ErrOpenSource, os.ErrNotExist)
	}
}

func TestMakeFileKey(t *testing.T) {
	if _, ok := makeFileKey(nil); ok {
		t.Error("makeFileKey(nil) ok")
	}

	path := filepath.Join(t.TempDir(), "f")
	writeFiles(t, filepath.Dir(path), map[string]string{"f": ""})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	k1, ok1 := makeFileKey(info)
	k2, ok2 := makeFileKey(info)

	if !ok1 || !ok2 || k1 != k2 {
		t.Errorf("makeFileKey = %v/%v, %v/%v", k1, ok1, k2, ok2)
	}
}

func TestError(t *testing.T) {
	err := ErrEvaluate.Wrap(lang.ErrArity).With()

	if !errors.Is(err, ErrEvaluate) {
		t.Error("errors.Is(err, ErrEvaluate) = false")
	}

	if !errors.Is(err, lang.ErrArity) {
		t.Error("errors.Is(err, lang.ErrArity) = false")
	}

	if errors.Is(err, ErrOpenSource) {
		t.Error("errors.Is(err, ErrOpenSource) = true")
	}

	if got, want := err.Error(), "evaluation failed: arity error"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
