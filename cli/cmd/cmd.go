package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sexp/lang"
	"github.com/ardnew/sexp/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Session is the evaluation state shared by all commands of one invocation:
// the root scope, the language options, and the directories searched for
// relative source paths.
type Session struct {
	Scope   *lang.Scope
	Options []lang.Option
	Path    []string
}

type sessionKey struct{}

// WithSession returns a new context.Context containing s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// sessionFrom retrieves the session stored in ctx by WithSession.
// A context without one yields a fresh session with default options.
func sessionFrom(ctx context.Context) *Session {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	if !ok || s == nil {
		return &Session{
			Scope:   lang.NewScope(),
			Options: []lang.Option{lang.WithLogger(log.Default())},
		}
	}

	if s.Scope == nil {
		s.Scope = lang.NewScope()
	}

	return s
}

// source is one opened program input.
type source struct {
	name string
	io.ReadCloser
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each named source in order.
//
// Relative names that do not exist in the working directory are looked up
// in the session search path. Sources are deduplicated by resolving
// symlinks and comparing device/inode pairs, and every occurrence of "-"
// refers to a single stdin reader at its first position.
//
// On error, all sources opened so far are closed.
func (s *Session) openSources(names []string) (srcs []source, err error) {
	defer func() {
		if err != nil {
			closeSources(srcs)
			srcs = nil
		}
	}()

	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, stdinOK := makeFileKey(stdinInfo)

	hasStdin := false

	for _, name := range names {
		if name == stdinSource {
			if hasStdin {
				continue
			}

			hasStdin = true

			if stdinOK {
				seen[stdinKey] = struct{}{}
			}

			srcs = append(srcs, source{name: "<stdin>", ReadCloser: io.NopCloser(os.Stdin)})

			continue
		}

		path, ok := s.lookup(name)
		if !ok {
			return srcs, ErrOpenSource.
				With(slog.String("file", name)).
				Wrap(os.ErrNotExist)
		}

		file, dup, err := openUniqueFile(path, seen)
		if err != nil {
			return srcs, ErrOpenSource.
				With(slog.String("file", name)).
				Wrap(err)
		}

		if dup {
			continue
		}

		srcs = append(srcs, source{name: name, ReadCloser: file})
	}

	return srcs, nil
}

func closeSources(srcs []source) {
	for _, src := range srcs {
		_ = src.Close()
	}
}

// lookup resolves name against the working directory and then each
// directory of the search path.
func (s *Session) lookup(name string) (string, bool) {
	if _, err := os.Stat(name); err == nil || filepath.IsAbs(name) {
		return name, err == nil
	}

	for _, dir := range s.Path {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}

	return "", false
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, true, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, false, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// readSource reads the whole of src.
func readSource(ctx context.Context, src source, opts []lang.Option) (string, error) {
	defer src.Close()

	return lang.ReadSource(ctx, src, opts...)
}
