package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sexp/cli/cmd"
	"github.com/ardnew/sexp/lang"
	"github.com/ardnew/sexp/log"
	"github.com/ardnew/sexp/pkg"
)

// CLI is the top-level command-line interface for sexp.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Define   []string `help:"Bind NAME to the value of an expr-lang expression before evaluating" placeholder:"NAME=EXPR" short:"D"`
	Path     []string `help:"Directory searched for relative source files"                        placeholder:"DIR"       short:"I" type:"path"`
	Strict   bool     `help:"Reject input that is not part of the language"                                                short:"s"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum list nesting depth"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Fmt  cmd.Fmt  `cmd:"" help:"Parse and render programs"`
	Repl cmd.Repl `cmd:"" help:"Start an interactive session"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate programs"`
}

// Run parses args and runs the selected command. Parse failures and
// --help call exit.
func Run(ctx context.Context, exit func(code int), args ...string) error {
	if err := mkdirAllRequired(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var cli CLI

	// Logging flags apply before kong reads the configuration files.
	cli.Log.scan(args)

	parser, err := kong.New(&cli, cli.options(ctx, exit)...)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cli.Log.start(ctx)
	defer cli.Pprof.start(ctx)()

	sess, err := cli.session(ctx)
	if err != nil {
		return err
	}

	return ktx.Run(cmd.WithSession(cmd.WithContext(ctx, ktx), sess), &cli)
}

// options configures the kong parser. Flag defaults come from the JSON
// and the sexp configuration files, in that order of precedence.
func (c *CLI) options(ctx context.Context, exit func(int)) []kong.Option {
	conf := configPath(baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: conf,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Version,
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
	}

	return []kong.Option{
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups([]kong.Group{c.Log.group(), c.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, conf+".json"),
		kong.Configuration(resolve(ctx), conf),
		vars.CloneWith(c.Log.vars()).CloneWith(c.Pprof.vars()),
	}
}

// session builds the evaluation state shared by the selected command.
func (c *CLI) session(ctx context.Context) (*cmd.Session, error) {
	sess := &cmd.Session{
		Scope: lang.NewScope(),
		Options: []lang.Option{
			lang.WithLogger(log.Default()),
			lang.WithStrict(c.Strict),
			lang.WithMaxDepth(c.MaxDepth),
		},
		Path: searchPath(c.Path...),
	}

	for _, def := range c.Define {
		name, source, ok := strings.Cut(def, "=")
		if !ok {
			return nil, lang.ErrDefine.
				Detail("expected NAME=EXPR, got %q", def).
				With(slog.String("define", def))
		}

		err := lang.Define(ctx, sess.Scope, strings.TrimSpace(name), source, sess.Options...)
		if err != nil {
			return nil, err
		}
	}

	log.DebugContext(ctx, "session ready",
		slog.Int("defines", len(c.Define)),
		slog.Any("path", sess.Path),
		slog.Bool("strict", c.Strict),
		slog.Int("max_depth", c.MaxDepth),
	)

	return sess, nil
}
