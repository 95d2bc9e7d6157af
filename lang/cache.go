package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// cache stores parsed trees keyed by a hash of the source text and the
// options that affect parsing. Cached trees are shared between callers,
// which is safe because evaluation never modifies a tree.
var cache sync.Map

// entry is the parse state of one cached source.
type entry struct {
	once sync.Once
	expr Expr
	err  error
}

// cacheKey combines the xxh3 hash of source with the hash of the options
// that change how it parses.
func cacheKey(source string, o options) string {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// The logger does not change the result.
	_ = enc.Encode(o.strict)
	_ = enc.Encode(o.maxDepth)

	return strconv.FormatUint(xxh3.HashString(source)^xxh3.Hash(buf.Bytes()), 36) +
		":" + strconv.Itoa(len(source))
}

// parseCached parses source with [ParseString], reusing the result of any
// earlier parse of the same source with equivalent options.
func parseCached(ctx context.Context, source string, opts ...Option) (Expr, error) {
	o := makeOptions(opts...)
	key := cacheKey(source, o)

	v, hit := cache.LoadOrStore(key, new(entry))

	ent, ok := v.(*entry)
	if !ok {
		return ParseString(ctx, source, opts...)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	ent.once.Do(func() {
		ent.expr, ent.err = ParseString(ctx, source, opts...)
	})

	// Context errors belong to the caller, not the source; drop them.
	if ent.err != nil && (errors.Is(ent.err, context.Canceled) || errors.Is(ent.err, context.DeadlineExceeded)) {
		cache.CompareAndDelete(key, ent)
	}

	return ent.expr, ent.err
}

// CacheLen returns the number of sources held in the parse cache.
func CacheLen() int {
	n := 0

	cache.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}

// ClearCache removes all cached parse results.
func ClearCache() {
	cache.Clear()
}
