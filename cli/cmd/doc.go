// Package cmd implements the sexp subcommands: eval, fmt, init, and repl.
//
// Commands receive their shared state through the context: the parsed
// [kong.Context] via [WithContext] and the evaluation [Session] via
// [WithSession].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
