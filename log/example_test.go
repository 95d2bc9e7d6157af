package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/sexp/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelInfo),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("evaluated", slog.String("result", "100.0"))
	logger.Debug("hidden")
	// Output: level=INFO msg=evaluated result=100.0
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithPretty(false)).
		With(slog.String("source", "repl"))

	logger.Warn("unbound name", slog.String("name", "x"))
	// Output: {"level":"WARN","msg":"unbound name","source":"repl","name":"x"}
}
