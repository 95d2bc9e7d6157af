package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/sexp/cli/cmd/repl"
	"github.com/ardnew/sexp/log"
)

// Repl starts an interactive session.
type Repl struct {
	Load []string `help:"Evaluate source files before the session starts." placeholder:"FILE" short:"l"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess := sessionFrom(ctx)

	srcs, err := sess.openSources(r.Load)
	if err != nil {
		return err
	}
	defer closeSources(srcs)

	for _, src := range srcs {
		text, err := readSource(ctx, src, sess.Options)
		if err != nil {
			return err
		}

		if _, err := evaluate(ctx, sess, src.name, text); err != nil {
			return err
		}

		log.DebugContext(ctx, "loaded", slog.String("source", src.name))
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, sess.Scope, cacheDir, log.Default(), sess.Options...)
}
