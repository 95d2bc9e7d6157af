package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/sexp/log"
)

// DefaultMaxDepth is the default limit on list nesting accepted by the
// parser.
const DefaultMaxDepth = 10000

// options configures lexing, parsing, and evaluation.
type options struct {
	logger   log.Logger // never part of a cache key
	strict   bool
	maxDepth int
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStrict makes unrecognized input a parse error instead of being
// skipped.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithMaxDepth limits how deeply lists may nest. Values below 1 restore
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// Evaluate lexes, parses, and evaluates source against scope, returning the
// value of the program.
//
// Bindings made by top-level def forms persist in scope, so calling
// Evaluate repeatedly with the same scope accumulates a session.
func Evaluate(
	ctx context.Context,
	source string,
	scope *Scope,
	opts ...Option,
) (Expr, error) {
	tree, err := parseCached(ctx, source, opts...)
	if err != nil {
		return Expr{}, err
	}

	return Eval(ctx, tree, scope, opts...)
}

// EvaluateReader reads all of r and evaluates it with [Evaluate].
func EvaluateReader(
	ctx context.Context,
	r io.Reader,
	scope *Scope,
	opts ...Option,
) (Expr, error) {
	source, err := ReadSource(ctx, r, opts...)
	if err != nil {
		return Expr{}, err
	}

	return Evaluate(ctx, source, scope, opts...)
}

// ReadSource reads all of r using an asynchronous read-ahead buffer.
func ReadSource(ctx context.Context, r io.Reader, opts ...Option) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	o := makeOptions(opts...)
	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return string(data), nil
}
