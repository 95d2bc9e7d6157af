package lang

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Scope is one frame of the environment chain: a mapping from name to value
// plus an optional parent frame.
//
// Lookups fall through to the parent; bindings always go into the local
// frame, so a child frame can shadow but never modify its ancestors. Each
// frame serializes its own access, which lets a front end inspect a scope
// while no evaluation is running against it.
type Scope struct {
	mu     sync.RWMutex
	parent *Scope
	vars   map[string]Expr
}

// NewScope returns an empty root scope.
func NewScope() *Scope {
	return &Scope{vars: make(map[string]Expr)}
}

// Extend returns a new empty frame whose parent is s.
func (s *Scope) Extend() *Scope {
	return &Scope{parent: s, vars: make(map[string]Expr)}
}

// Parent returns the enclosing frame, or nil for a root scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Get resolves name in s or the nearest ancestor that binds it.
func (s *Scope) Get(name string) (Expr, bool) {
	for f := s; f != nil; f = f.parent {
		if v, ok := f.Local(name); ok {
			return v, true
		}
	}

	return Expr{}, false
}

// Local resolves name in s only.
func (s *Scope) Local(name string) (Expr, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vars[name]

	return v, ok
}

// Set binds name to value in s, replacing any existing local binding.
func (s *Scope) Set(name string, value Expr) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vars == nil {
		s.vars = make(map[string]Expr)
	}

	s.vars[name] = value
}

// Len returns the number of bindings in s, excluding ancestors.
func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.vars)
}

// Names returns the names visible from s in sorted order. A name bound in
// several frames is yielded once.
func (s *Scope) Names() iter.Seq[string] {
	seen := make(map[string]struct{})

	for f := s; f != nil; f = f.parent {
		f.mu.RLock()
		for name := range f.vars {
			seen[name] = struct{}{}
		}
		f.mu.RUnlock()
	}

	return slices.Values(slices.Sorted(maps.Keys(seen)))
}

// All returns the visible bindings of s in name order, resolving each name
// to its innermost binding.
func (s *Scope) All() iter.Seq2[string, Expr] {
	return func(yield func(string, Expr) bool) {
		for name := range s.Names() {
			v, ok := s.Get(name)
			if !ok {
				continue
			}

			if !yield(name, v) {
				return
			}
		}
	}
}
