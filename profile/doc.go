// Package profile provides optional runtime profiling for sexp.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// with the "pprof" build tag:
//
//	go build -tags pprof .
//	sexp --pprof-mode cpu -e '((def n 30) (+ n 1))'
//
// Without the tag every [Config] starts a no-op profiler and [Modes] yields
// nothing, so callers never need build constraints of their own.
//
// Profiles are written to the directory given by [WithPath] with names
// matching the mode (cpu.pprof, mem.pprof, ...) and can be inspected with
// "go tool pprof". Building with the tag also registers the
// [net/http/pprof] handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
