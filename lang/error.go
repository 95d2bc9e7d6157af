package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Sentinel errors.
//
// Errors returned by this package are derived from these sentinels with
// [Error.With], [Error.Wrap], or [Error.Detail], and still match them with
// [errors.Is]. Errors derived from [ErrParse] also match [ErrParse].
var (
	ErrParse              = NewError("parse error")
	ErrExpectedOpen       = ErrParse.Sub("expected open parenthesis")
	ErrInsufficientTokens = ErrParse.Sub("insufficient tokens")
	ErrTrailingTokens     = ErrParse.Sub("unexpected tokens after program")
	ErrInvalidLexeme      = ErrParse.Sub("unrecognized input")
	ErrMaxDepthExceeded   = ErrParse.Sub("maximum nesting depth exceeded")

	ErrUnboundName   = NewError("unbound name")
	ErrUnboundSymbol = NewError("unbound symbol")
	ErrArity         = NewError("arity error")
	ErrType          = NewError("type error")
	ErrTypeMismatch  = NewError("type mismatch")

	ErrReadInput = NewError("failed to read input")
	ErrDefine    = NewError("invalid definition")
)

// Error is an error that logs as a group of structured attributes.
type Error struct {
	kind  *Error // sentinel this error derives from; nil for a sentinel
	super *Error // broader sentinel, set by [Error.Sub]
	msg   string
	cause error
	attrs []slog.Attr
}

func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns the *Error in the chain of err, or a new Error caused
// by err if there is none.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{cause: err}
}

// Sub returns a sentinel for a narrower kind of e. Errors derived from it
// also match e, and its message is that of e followed by msg.
func (e *Error) Sub(msg string) *Error {
	return &Error{msg: e.msg + ": " + msg, super: e.sentinel()}
}

func (e *Error) sentinel() *Error {
	if e.kind == nil {
		return e
	}

	return e.kind
}

func (e *Error) derive(cause error, attrs ...slog.Attr) *Error {
	return &Error{
		kind:  e.sentinel(),
		msg:   e.msg,
		cause: cause,
		attrs: append(slices.Clip(e.attrs), attrs...),
	}
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error { return e.derive(err) }

// Detail returns a copy of e caused by the formatted message.
func (e *Error) Detail(format string, args ...any) *Error {
	return e.derive(fmt.Errorf(format, args...))
}

// With returns a copy of e carrying additional attributes.
func (e *Error) With(attrs ...slog.Attr) *Error { return e.derive(e.cause, attrs...) }

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

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

// Is reports whether target is the sentinel e derives from, or a broader
// sentinel it was made from with [Error.Sub].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	for s := e.sentinel(); s != nil; s = s.super {
		if s == t {
			return true
		}
	}

	return false
}

func (e *Error) LogValue() slog.Value {
	var attrs []slog.Attr

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}
