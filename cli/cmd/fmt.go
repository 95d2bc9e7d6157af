package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/sexp/lang"
	"github.com/ardnew/sexp/log"
)

// Fmt parses a program and renders its tree in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as source text (default)."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// parseSource reads and parses the single source named by name.
func parseSource(ctx context.Context, name, format string) (lang.Expr, error) {
	sess := sessionFrom(ctx)

	srcs, err := sess.openSources([]string{name})
	if err != nil {
		return lang.Expr{}, err
	}
	defer closeSources(srcs)

	text, err := readSource(ctx, srcs[0], sess.Options)
	if err != nil {
		return lang.Expr{}, err
	}

	tree, err := lang.ParseString(ctx, text, sess.Options...)
	if err != nil {
		return lang.Expr{}, lang.WrapError(err).
			With(slog.String("format", format), slog.String("source", name))
	}

	return tree, nil
}

// render parses the source called name and writes its tree to stdout
// with write.
func render(
	ctx context.Context,
	name, format string,
	write func(context.Context, io.Writer, lang.Expr) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	tree, err := parseSource(ctx, name, format)
	if err != nil {
		return err
	}

	log.TraceContext(ctx, "fmt render", slog.String("format", format), slog.String("source", name))

	return write(ctx, stdout(ctx), tree)
}

// Native formats input as source text.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

func (f *Native) Run(ctx context.Context) error {
	return render(ctx, f.Source, "native", func(ctx context.Context, w io.Writer, tree lang.Expr) error {
		return lang.Format(ctx, w, tree, f.Indent)
	})
}

// AST formats input as an indented tag tree.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

func (a *AST) Run(ctx context.Context) error {
	return render(ctx, a.Source, "ast", func(ctx context.Context, w io.Writer, tree lang.Expr) error {
		lang.Print(ctx, w, tree)

		return nil
	})
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

func (j *JSON) Run(ctx context.Context) error {
	return render(ctx, j.Source, "json", func(ctx context.Context, w io.Writer, tree lang.Expr) error {
		return writeResult(ctx, w, tree, OutputJSON, j.Indent)
	})
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

func (y *YAML) Run(ctx context.Context) error {
	return render(ctx, y.Source, "yaml", func(ctx context.Context, w io.Writer, tree lang.Expr) error {
		return writeResult(ctx, w, tree, OutputYAML, y.Indent)
	})
}
