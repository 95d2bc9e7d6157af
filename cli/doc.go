// Package cli contains the command line interface for sexp.
//
// # Usage
//
//	sexp [flags] [FILE ...]              evaluate files (or stdin)
//	sexp -e '((def sq (lambda (x) (* x x))) (sq 9))'
//	sexp fmt json prog.sexp              render the parsed tree
//	sexp repl -l prelude.sexp            interactive session
//	sexp init                            write the configuration file
//
// # Session Flags
//
//   - --define, -D NAME=EXPR: bind NAME before evaluation; EXPR is an
//     expr-lang expression with access to env(key)
//   - --path, -I DIR: directory searched for relative source files
//   - --strict, -s: reject unrecognized input instead of skipping it
//   - --max-depth N: maximum list nesting depth
//
// Relative source files are looked up in the working directory, then in
// each --path directory, the lib directory under the configuration
// directory, and finally each entry of $SEXP_PATH.
//
// # Configuration
//
// Flag defaults are read from "config" in the user configuration directory
// (for example ~/.config/sexp/config), itself a program of def forms:
//
//	((def log-level debug)
//	 (def strict #t)
//	 (def path (lib)))
//
// The file is parsed but not evaluated. A config.json alongside it is also
// honored. Command-line flags override both.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn, or error
//   - --log-format: text or json
//   - --log-time-layout: timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize text, indent json
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem,
//     mutex, thread, or trace
//   - --pprof-dir: profile output directory (default ~/.cache/sexp/pprof)
package cli
