package lang

import (
	"context"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// defineEnv is the environment visible to [Define] expressions.
type defineEnv struct {
	Env func(string) string `expr:"env"`
}

// Define binds name in scope to the value of an expr-lang expression,
// such as "2 * 21" or `env("HOME") != ""`. The function env(key) returns
// the value of an environment variable.
//
// The result must be an integer, a float, or a bool.
func Define(ctx context.Context, scope *Scope, name, source string, opts ...Option) error {
	if name == "" || nameLen(name) != len(name) ||
		name == KeywordDef || name == KeywordLambda || name == KeywordIf {
		return ErrDefine.
			Detail("invalid name %q", name).
			With(slog.String("name", name))
	}

	env := defineEnv{Env: os.Getenv}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	out, err := vm.Run(program, env)
	if err != nil {
		return ErrDefine.Wrap(err).With(slog.String("name", name))
	}

	v, ok := fromNative(out)
	if !ok {
		return ErrDefine.
			Detail("%s: unsupported result type %T", name, out).
			With(slog.String("name", name))
	}

	makeOptions(opts...).logger.DebugContext(ctx, "define",
		slog.String("name", name),
		slog.String("value", v.String()),
	)

	scope.Set(name, v)

	return nil
}

func fromNative(v any) (Expr, bool) {
	switch v := v.(type) {
	case int:
		return Integer(int64(v)), true
	case int64:
		return Integer(v), true
	case float64:
		return Float(v), true
	case bool:
		return Boolean(v), true
	default:
		return Expr{}, false
	}
}
