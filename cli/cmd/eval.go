package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/sexp/lang"
	"github.com/ardnew/sexp/log"
)

// Output formats for evaluation results.
const (
	OutputSexp = "sexp"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Eval evaluates programs against one root scope and prints the value of
// the last one.
type Eval struct {
	Expr    []string `help:"Evaluate program text (repeatable, runs before files)" placeholder:"SRC" short:"e"`
	Output  string   `default:"sexp" enum:"sexp,json,yaml" help:"Result format (${enum})." short:"o"`
	Indent  int      `default:"0" help:"Indent width for json or yaml output; 0 is compact." short:"i"`
	Sources []string `arg:"" help:"Source files, or '-' for stdin." name:"source" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess := sessionFrom(ctx)

	sources := e.Sources
	if len(e.Expr) == 0 && len(sources) == 0 {
		sources = []string{stdinSource}
	}

	srcs, err := sess.openSources(sources)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	result := lang.Void()

	for i, text := range e.Expr {
		result, err = evaluate(ctx, sess, fmt.Sprintf("-e[%d]", i), text)
		if err != nil {
			return err
		}
	}

	for _, src := range srcs {
		text, err := readSource(ctx, src, sess.Options)
		if err != nil {
			return err
		}

		result, err = evaluate(ctx, sess, src.name, text)
		if err != nil {
			return err
		}
	}

	return writeResult(ctx, stdout(ctx), result, e.Output, e.Indent)
}

func evaluate(ctx context.Context, sess *Session, name, text string) (lang.Expr, error) {
	log.TraceContext(ctx, "evaluate",
		slog.String("source", name),
		slog.Int("bytes", len(text)),
	)

	result, err := lang.Evaluate(ctx, text, sess.Scope, sess.Options...)
	if err != nil {
		return lang.Expr{}, ErrEvaluate.
			With(slog.String("source", name)).
			Wrap(err)
	}

	return result, nil
}

// writeResult prints a value in the given output format. A void result
// prints nothing in sexp format and null otherwise.
func writeResult(ctx context.Context, w io.Writer, v lang.Expr, output string, indent int) error {
	switch output {
	case OutputJSON:
		if err := lang.FormatJSON(ctx, w, v, indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	case OutputYAML:
		if err := lang.FormatYAML(ctx, w, v, indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		if v.IsVoid() {
			return nil
		}

		_, err := fmt.Fprintln(w, v.String())

		return err
	}

	return nil
}
