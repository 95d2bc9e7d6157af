package profile

// Config selects what to profile and where the profile is written.
type Config struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory
	Quiet bool   // suppress the profiler's own log output
}

// Option sets a field of a Config.
type Option func(*Config)

// Make returns the Config produced by applying opts in order.
func Make(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

func WithMode(mode string) Option { return func(c *Config) { c.Mode = mode } }
func WithPath(path string) Option { return func(c *Config) { c.Path = path } }
func WithQuiet(quiet bool) Option { return func(c *Config) { c.Quiet = quiet } }

// Stopper ends a running profile and flushes it to disk.
type Stopper interface{ Stop() }

// Start begins profiling. The returned Stopper does nothing if Mode is
// empty or unknown, or if the binary was built without the pprof tag.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return nop{}
	}

	return start(c)
}

type nop struct{}

func (nop) Stop() {}
