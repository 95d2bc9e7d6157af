package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/sexp/pkg"
)

const (
	// baseConfig is the base name of the configuration file.
	baseConfig = "config"
	// baseLib is the configuration subdirectory searched for source files.
	baseLib = "lib"
)

// envPath names the environment variable holding extra source directories,
// delimited by [os.PathListSeparator].
var envPath = strings.ToUpper(pkg.Name) + "_PATH"

// defaultDirMode is the permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix is the directory name used under the user's configuration and
// cache directories. It is the executable's base name without extension,
// except that a dlv debug binary maps to pkg.Name, leading dots are removed,
// and an empty result falls back to pkg.Name.
var basePrefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, sub := range []struct {
		rex *regexp.Regexp
		rep string
	}{
		{regexp.MustCompile(`^__debug_bin\d+$`), pkg.Name},
		{regexp.MustCompile(`^\.+`), ""},
	} {
		id = sub.rex.ReplaceAllString(id, sub.rep)
	}

	if id == "" {
		return pkg.Name
	}

	return id
})

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the cache directory path used for transient files such
// as REPL history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir returns the basePrefix subdirectory of the directory reported by
// locate. If locate fails, the hidden directory named fallback under the
// user's home is used instead, or else the working directory.
func userDir(locate func() (string, error), fallback string) string {
	dir, err := locate()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// searchPath returns the directories searched for relative source paths, in
// order: the given dirs, the lib directory under the configuration
// directory, then each entry of the environment variable named by envPath.
// Entries that are not existing directories are dropped.
func searchPath(dirs ...string) []string {
	prefix := append(slices.Clone(dirs), configPath(baseLib))

	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(envPath)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(joined)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
