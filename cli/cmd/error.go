package cmd

import (
	"errors"
	"log/slog"
	"slices"
)

// Error is a command failure that logs as a group of attributes.
//
// The exported Err values are sentinels. Errors derived from one by
// [Error.Wrap] or [Error.With] match it under [errors.Is].
type Error struct {
	origin *Error
	msg    string
	cause  error
	attrs  []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func (e *Error) root() *Error {
	if e.origin == nil {
		return e
	}

	return e.origin
}

func (e *Error) derive(cause error, attrs ...slog.Attr) *Error {
	return &Error{
		origin: e.root(),
		msg:    e.msg,
		cause:  cause,
		attrs:  append(slices.Clip(e.attrs), attrs...),
	}
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error { return e.derive(err) }

// With returns a copy of e carrying additional attributes.
func (e *Error) With(attrs ...slog.Attr) *Error { return e.derive(e.cause, attrs...) }

func (e *Error) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	}

	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	var t *Error

	return errors.As(target, &t) && e.root() == t.root()
}

func (e *Error) LogValue() slog.Value {
	var attrs []slog.Attr

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.cause != nil {
		attrs = append(attrs, slog.Any("cause", e.cause))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

var (
	ErrJSONMarshal = NewError("marshal JSON")
	ErrYAMLMarshal = NewError("marshal YAML")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
	ErrOpenSource  = NewError("open source file")
	ErrEvaluate    = NewError("evaluation failed")
)
