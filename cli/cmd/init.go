package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sexp/lang"
	"github.com/ardnew/sexp/log"
	"github.com/ardnew/sexp/profile"
)

const defaultConfigIndent = 2

// Init writes the current flag values as a configuration file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run writes the configuration file named by the ConfigIdentifier var.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	path, ok := kongContextFrom(ctx).Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	failed := ErrWriteConfig.With(slog.String("file", path))

	if _, err := os.Stat(path); err == nil && !i.Force {
		return failed.With(slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	file, err := os.Create(path)
	if err != nil {
		return failed.Wrap(err)
	}
	defer file.Close()

	if err := lang.Format(ctx, file, i.buildConfig(ctx), defaultConfigIndent); err != nil {
		return failed.Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", slog.String("path", path))

	return nil
}

// excluded lists name prefixes of flags never written to the configuration.
var excluded = []string{"help", "version", profile.Tag}

func isExcluded(flag *kong.Flag) bool {
	return flag.Hidden || slices.ContainsFunc(excluded, func(prefix string) bool {
		return strings.HasPrefix(flag.Name, prefix)
	})
}

// buildConfig returns a program of one (def flag-name value) form per
// flag whose current value has a literal form.
func (i *Init) buildConfig(ctx context.Context) lang.Expr {
	ktx := kongContextFrom(ctx)

	var defs []lang.Expr

	for _, flag := range ktx.Model.Flags {
		if isExcluded(flag) {
			continue
		}

		val, ok := flagValue(ktx, flag)
		if !ok {
			log.TraceContext(ctx, "init skip flag", slog.String("flag", flag.Name))

			continue
		}

		defs = append(defs, lang.List(lang.Keyword(lang.KeywordDef), lang.Name(flag.Name), val))
	}

	return lang.List(defs...)
}

// flagValue returns the value of a flag as a literal, or false if the
// value has no literal form. Strings are written as names, so only strings
// that lex as a single name are representable.
func flagValue(ktx *kong.Context, flag *kong.Flag) (lang.Expr, bool) {
	v := reflect.ValueOf(ktx.FlagValue(flag))

	switch v.Kind() {
	case reflect.Bool:
		return lang.Boolean(v.Bool()), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lang.Integer(v.Int()), true

	case reflect.Float32, reflect.Float64:
		return lang.Float(v.Float()), true

	case reflect.String:
		s := v.String()

		toks := lang.Lex(s)
		if len(toks) != 1 || toks[0].Kind != lang.TokenName {
			return lang.Expr{}, false
		}

		return lang.Name(s), true

	default:
		return lang.Expr{}, false
	}
}
