package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sexp/lang"
	"github.com/ardnew/sexp/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written as programs of def forms:
//
//	((def log-level debug)
//	 (def log-pretty #f)
//	 (def max-depth 500)
//	 (def path (lib vendor)))
//
// The program is parsed but never evaluated. Each (def name value) form
// whose value is a literal sets the flag of the same name; underscores may
// stand in for hyphens. Names become strings, booleans stay booleans, and
// numbers are passed as strings for kong to decode. A list of literals sets
// a slice flag. Any other form is ignored.
//
// A file that fails to parse yields an empty configuration so that a broken
// config never prevents the command line from working.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		text, err := lang.ReadSource(ctx, r)
		if err != nil {
			return nil, err
		}

		tree, err := lang.ParseString(ctx, text)
		if err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration",
				slog.Any("error", err))

			return config{}, nil
		}

		return configFrom(ctx, tree), nil
	}
}

// config implements [kong.Resolver] over the bindings of a parsed
// configuration program.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// configFrom collects the def forms of tree. A lone def form is accepted
// in place of a program.
func configFrom(ctx context.Context, tree lang.Expr) config {
	c := config{}

	forms := tree.Items
	if isDef(tree) {
		forms = []lang.Expr{tree}
	}

	for _, form := range forms {
		if !isDef(form) || len(form.Items) != 3 || form.Items[1].Kind != lang.KindName {
			log.TraceContext(ctx, "config skip form", slog.String("form", form.String()))

			continue
		}

		name := form.Items[1].Str

		value, ok := configValue(form.Items[2])
		if !ok {
			log.TraceContext(ctx, "config skip value",
				slog.String("name", name),
				slog.String("value", form.Items[2].String()))

			continue
		}

		c[name] = value
	}

	return c
}

func isDef(e lang.Expr) bool {
	return e.Kind == lang.KindList && len(e.Items) > 0 &&
		e.Items[0].Kind == lang.KindKeyword && e.Items[0].Str == lang.KeywordDef
}

func configValue(e lang.Expr) (any, bool) {
	switch e.Kind {
	case lang.KindName:
		return e.Str, true

	case lang.KindBool:
		return e.Bool, true

	case lang.KindInteger:
		return strconv.FormatInt(e.Int, 10), true

	case lang.KindFloat:
		return strconv.FormatFloat(e.Float, 'f', -1, 64), true

	case lang.KindList:
		items := make([]any, 0, len(e.Items))

		for _, item := range e.Items {
			v, ok := configValue(item)
			if !ok || item.Kind == lang.KindList {
				return nil, false
			}

			items = append(items, v)
		}

		return items, true

	default:
		return nil, false
	}
}
