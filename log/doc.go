// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options.
// The zero Logger discards everything, which lets other packages accept a
// Logger without requiring one.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
//	logger.TraceContext(ctx, "apply", slog.String("name", "square"))
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below Debug and is printed as
// "TRACE" rather than slog's "DEBUG-4".
//
// The package also keeps a default logger used by the package-level
// functions ([Info], [ErrorContext], ...). [Config] replaces its options.
//
// With pretty printing enabled (the default), text output drops quoting and
// colors keys and values, and JSON output is spread over multiple lines.
package log
