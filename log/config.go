package log

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a record. It extends [slog.Level] with a trace
// level below debug.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// Format selects the handler that renders records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// Defaults applied by [Make] before any option.
const (
	DefaultLevel      = LevelWarn
	DefaultFormat     = FormatText
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = true
)

// named pairs a value with the name it is parsed from and printed as.
type named[T comparable] struct {
	value T
	name  string
}

var levels = []named[Level]{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

var formats = []named[Format]{
	{FormatText, "text"},
	{FormatJSON, "json"},
}

func nameOf[T comparable](table []named[T], v T) (string, bool) {
	i := slices.IndexFunc(table, func(n named[T]) bool { return n.value == v })
	if i < 0 {
		return "", false
	}

	return table[i].name, true
}

func valueOf[T comparable](table []named[T], s string) (T, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	i := slices.IndexFunc(table, func(n named[T]) bool { return n.name == s })
	if i < 0 {
		var zero T

		return zero, false
	}

	return table[i].value, true
}

func names[T comparable](table []named[T]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range table {
			if !yield(n.name) {
				return
			}
		}
	}
}

// String returns the lowercase name of a defined level. Levels in between
// use the offset form of [slog.Level], such as "info+2".
func (l Level) String() string {
	if s, ok := nameOf(levels, l); ok {
		return s
	}

	return strings.ToLower(slog.Level(l).String())
}

// Levels yields the name of each defined level, least severe first.
func Levels() iter.Seq[string] { return names(levels) }

// ParseLevel returns the level named by s, ignoring case. Besides the
// names yielded by [Levels], s may use the offset form accepted by
// [slog.Level.UnmarshalText]. Anything else yields [DefaultLevel].
func ParseLevel(s string) Level {
	if l, ok := valueOf(levels, s); ok {
		return l
	}

	var l slog.Level
	if l.UnmarshalText([]byte(strings.TrimSpace(s))) != nil {
		return DefaultLevel
	}

	return Level(l)
}

func (f Format) String() string {
	if s, ok := nameOf(formats, f); ok {
		return s
	}

	return "unknown"
}

// Formats yields the name of each defined format.
func Formats() iter.Seq[string] { return names(formats) }

// ParseFormat returns the format named by s, ignoring case, or
// [DefaultFormat] if s names none.
func ParseFormat(s string) Format {
	if f, ok := valueOf(formats, s); ok {
		return f
	}

	return DefaultFormat
}

// FormatTime renders the timestamp of a record. An empty result omits the
// timestamp.
type FormatTime func(time.Time) string

// config is the state shared by a [Logger] and the handler it builds.
type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{mutex: &sync.RWMutex{}}, append([]Option{WithDefaults(w)}, opts...)...)
}

// clone copies c under a fresh mutex before applying opts.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// replaceAttr formats timestamps with formatTime and prints levels by name,
// so trace appears as "TRACE" rather than "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch v := a.Value.Any().(type) {
	case time.Time:
		if a.Key != slog.TimeKey {
			break
		}

		s := c.formatTime(v)
		if s == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(s)

	case slog.Level:
		if a.Key == slog.LevelKey {
			a.Value = slog.StringValue(strings.ToUpper(Level(v).String()))
		}
	}

	return a
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch c.format {
	case FormatJSON:
		if c.pretty {
			return newPrettyJSONHandler(c.output, opts, c.formatTime)
		}

		return slog.NewJSONHandler(c.output, opts)

	case FormatText:
		if c.pretty {
			return newPrettyTextHandler(c.output, opts, c.formatTime)
		}

		return slog.NewTextHandler(c.output, opts)
	}

	return slog.DiscardHandler
}

// set returns an option that applies fn under the write lock of the config,
// allocating the lock if the config has none yet.
func set(fn func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		fn(&c)

		return c
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

// WithDefaults resets every setting to its Default constant and directs
// output to w.
func WithDefaults(w io.Writer) Option {
	return set(func(c *config) {
		c.output = orDiscard(w)
		c.formatTime = timeFormatter(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty
	})
}

// WithOutput directs output to w, or discards it if w is nil.
func WithOutput(w io.Writer) Option {
	return set(func(c *config) { c.output = orDiscard(w) })
}

// WithLevel discards records less severe than level.
func WithLevel(level Level) Option {
	return set(func(c *config) { c.level = level })
}

func WithFormat(format Format) Option {
	return set(func(c *config) { c.format = format })
}

// WithTimeLayout sets the timestamp layout. A layout naming one of the
// [time] package constants, such as "RFC3339" or "kitchen", selects that
// constant; punctuation and case are ignored in the comparison. Any other
// layout goes to [time.Time.Format] as is. An empty layout or "none"
// omits timestamps.
func WithTimeLayout(layout string) Option {
	format := timeFormatter(layout)

	return set(func(c *config) { c.formatTime = format })
}

// WithCaller adds the source position of the logging call to each record.
func WithCaller(enable bool) Option {
	return set(func(c *config) { c.caller = enable })
}

// WithPretty colors text output and indents JSON output.
func WithPretty(enable bool) Option {
	return set(func(c *config) { c.pretty = enable })
}

var namedLayouts = []struct {
	layout string
	names  []string
}{
	{time.RFC3339, []string{"rfc3339"}},
	{time.RFC3339Nano, []string{"rfc3339nano"}},
	{time.ANSIC, []string{"ansic"}},
	{time.UnixDate, []string{"unixdate"}},
	{time.RubyDate, []string{"rubydate"}},
	{time.RFC822, []string{"rfc822"}},
	{time.RFC822Z, []string{"rfc822z"}},
	{time.RFC850, []string{"rfc850"}},
	{time.Kitchen, []string{"kitchen"}},
	{time.DateTime, []string{"datetime"}},
	{time.TimeOnly, []string{"timeonly"}},
	{time.Stamp, []string{"stamp"}},
	{time.StampMilli, []string{"stampmilli", "ms"}},
	{time.StampMicro, []string{"stampmicro", "us"}},
	{time.StampNano, []string{"stampnano", "ns"}},
	{"", []string{"none"}},
}

// layoutKey reduces layout to its lowercase letters and digits.
func layoutKey(layout string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(layout) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func timeFormatter(layout string) FormatTime {
	key := layoutKey(layout)

	for _, nl := range namedLayouts {
		if slices.Contains(nl.names, key) {
			layout = nl.layout

			break
		}
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
