// Package mrl provides a pluggable transform between a nested functional
// query surface form (an MRL, meaning representation language) and a flat,
// tree-annotated linearised token form suitable for sequence-to-sequence
// learners.
package mrl

import (
	"errors"
	"fmt"
)

// ErrUnknownDialect is returned when NewDialect is asked for an unregistered name.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect is the closed set of pure functions a query-language variant must
// supply. There is no virtual dispatch beyond this one interface: the set of
// dialects is small and known ahead of time (generic, nlmaps).
type Dialect interface {
	// Name returns the dialect identifier (e.g. "nlmaps", "generic").
	Name() string

	// Escape maps a Surface Query to an Escaped Surface Query: problematic
	// leaf characters are replaced by textual sentinels and every quoted
	// leaf is tagged as a string atom.
	Escape(query string) string

	// Decode applies the inverse sentinel substitutions to a reconstructed
	// Escaped Surface Query, producing the original Surface Query text.
	// It is the identity on a string containing no sentinels.
	Decode(escaped string) string

	// Linearise consumes an Escaped Surface Query and produces a flat,
	// depth-first pre-order sequence of token@arity / token@s atoms.
	Linearise(escaped string) []string

	// Reconstruct consumes a linearised atom sequence and produces an
	// Escaped Surface Query. ok is false iff the sequence does not encode
	// a well-formed tree.
	Reconstruct(atoms []string) (escaped string, ok bool)

	// QuoteFunctors returns the functor heuristic set: a bare @0 atom that
	// directly follows one of these functors in the atom stream (its first
	// argument) is still quoted on reconstruction, because the surface
	// syntax requires a string there. Later arguments are quoted only when
	// tagged @s.
	QuoteFunctors() map[string]bool
}

// Factory creates a fresh Dialect instance.
type Factory func() Dialect

var dialects = make(map[string]Factory)

// RegisterDialect registers a dialect factory under name. Intended to be
// called from a dialect package's init().
func RegisterDialect(name string, factory Factory) {
	dialects[name] = factory
}

// NewDialect creates a dialect instance by name.
func NewDialect(name string) (Dialect, error) { //nolint:ireturn
	factory, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, name)
	}

	return factory(), nil
}

// RegisteredDialects returns the names of all registered dialects.
func RegisteredDialects() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}

	return names
}
