package document

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Registry maps exact operation source text to descriptors.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	table map[string]Node
}

// NewRegistry copies table into a new Registry.
func NewRegistry(table map[string]Node) *Registry {
	copied := make(map[string]Node, len(table))
	for source, node := range table {
		if node == nil {
			panic(fmt.Sprintf("document: nil descriptor for source %q", source))
		}
		copied[source] = node
	}

	return &Registry{table: copied}
}

// Lookup returns the descriptor registered for source, or EmptyNode.
// Keys are compared byte for byte, whitespace included.
func (r *Registry) Lookup(source string) Node {
	node, ok := r.LookupOK(source)
	if !ok {
		return EmptyNode
	}
	return node
}

func (r *Registry) LookupOK(source string) (Node, bool) {
	if r == nil {
		return EmptyNode, false
	}
	node, ok := r.table[source]
	if !ok {
		return EmptyNode, false
	}
	return node, true
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.table)
}

// Sources returns the registered source texts in sorted order.
func (r *Registry) Sources() []string {
	if r == nil {
		return nil
	}
	sources := make([]string, 0, len(r.table))
	for source := range r.table {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// Lookup is the typed form of (*Registry).Lookup. It returns an empty
// descriptor when source is unknown or registered with other type parameters.
func Lookup[TResult, TVariables any](r *Registry, source string) *Document[TResult, TVariables] {
	node, ok := r.LookupOK(source)
	if !ok {
		return Empty[TResult, TVariables]()
	}
	doc, ok := node.(*Document[TResult, TVariables])
	if !ok {
		return Empty[TResult, TVariables]()
	}
	return doc
}

var global atomic.Pointer[Registry]

// Register populates the process-wide registry. It must be called once,
// normally from the init function of generated code; a second call panics.
func Register(table map[string]Node) {
	r := NewRegistry(table)
	if !global.CompareAndSwap(nil, r) {
		panic("document: Register called more than once")
	}
}

// Default returns the process-wide registry. It is nil until Register is
// called; lookups on a nil Registry always miss.
func Default() *Registry {
	return global.Load()
}

// Graphql looks source up in the process-wide registry.
func Graphql(source string) Node {
	return Default().Lookup(source)
}
