//go:build pprof

package profile

import (
	"iter"
	"slices"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

type mode struct {
	name   string
	enable func(*profile.Profile)
}

// modes is sorted by name.
var modes = []mode{
	{"allocs", profile.MemProfileAllocs},
	{"block", profile.BlockProfile},
	{"clock", profile.ClockProfile},
	{"cpu", profile.CPUProfile},
	{"goroutine", profile.GoroutineProfile},
	{"heap", profile.MemProfileHeap},
	{"mem", profile.MemProfile},
	{"mutex", profile.MutexProfile},
	{"thread", profile.ThreadcreationProfile},
	{"trace", profile.TraceProfile},
}

// Modes yields the supported profiling modes in sorted order.
func Modes() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, m := range modes {
			if !yield(m.name) {
				return
			}
		}
	}
}

func start(c Config) Stopper {
	i := slices.IndexFunc(modes, func(m mode) bool { return m.name == c.Mode })
	if i < 0 {
		return nop{}
	}

	// The CLI cancels its own context on interrupt, so the profiler must
	// not install a signal handler.
	opts := []func(*profile.Profile){modes[i].enable, profile.NoShutdownHook}

	if c.Path != "" {
		opts = append(opts, profile.ProfilePath(c.Path))
	}

	if c.Quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
