package lang

import (
	"io"
	"testing"

	"github.com/ardnew/sexp/log"
)

// testLogger returns a logger that emits every record, including trace, to
// the test log.
func testLogger(t *testing.T) log.Logger {
	t.Helper()

	return log.Make(testWriter{t}, log.WithLevel(log.LevelTrace))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))

	return len(p), nil
}

var _ io.Writer = testWriter{}
