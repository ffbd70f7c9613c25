package document

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindQuery
	KindMutation
	KindSubscription
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindMutation:
		return "mutation"
	case KindSubscription:
		return "subscription"
	case KindFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// KindOf maps a gqlparser operation type to Kind.
func KindOf(op ast.Operation) Kind {
	switch op {
	case ast.Query:
		return KindQuery
	case ast.Mutation:
		return KindMutation
	case ast.Subscription:
		return KindSubscription
	default:
		return KindUnknown
	}
}

// Node is the untyped view of a descriptor.
type Node interface {
	Source() string
	Kind() Kind
	Name() string
	IsEmpty() bool
	// QueryDocument parses Source on first use and caches the result.
	QueryDocument() (*ast.QueryDocument, error)
}

var _ Node = (*Document[json.RawMessage, map[string]interface{}])(nil)

// Document binds one operation source text to the shape of its result and
// its variables. TResult and TVariables are never stored; they exist for the
// type checker only.
type Document[TResult, TVariables any] struct {
	kind   Kind
	name   string
	source string

	once sync.Once
	doc  *ast.QueryDocument
	err  error
}

// NoVariables is the variables type of fragments and of operations that
// declare no variables.
type NoVariables struct{}

// EmptyNode is returned by untyped lookups that miss.
var EmptyNode Node = &Document[json.RawMessage, map[string]interface{}]{}

// New is called by generated code only.
func New[TResult, TVariables any](kind Kind, name, source string) *Document[TResult, TVariables] {
	return &Document[TResult, TVariables]{
		kind:   kind,
		name:   name,
		source: source,
	}
}

// Empty returns an empty descriptor carrying the given type parameters.
func Empty[TResult, TVariables any]() *Document[TResult, TVariables] {
	return &Document[TResult, TVariables]{}
}

func (d *Document[TResult, TVariables]) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

func (d *Document[TResult, TVariables]) Kind() Kind {
	if d == nil {
		return KindUnknown
	}
	return d.kind
}

func (d *Document[TResult, TVariables]) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

func (d *Document[TResult, TVariables]) IsEmpty() bool {
	return d == nil || d.source == ""
}

func (d *Document[TResult, TVariables]) QueryDocument() (*ast.QueryDocument, error) {
	if d.IsEmpty() {
		return nil, fmt.Errorf("empty document has no query document")
	}

	d.once.Do(func() {
		doc, err := parser.ParseQuery(&ast.Source{
			Name:  d.name,
			Input: d.source,
		})
		if err != nil {
			d.err = err
			return
		}
		d.doc = doc
	})

	return d.doc, d.err
}

func (d *Document[TResult, TVariables]) String() string {
	if d.IsEmpty() {
		return "Document(empty)"
	}
	return fmt.Sprintf("Document(%s %s)", d.kind, d.name)
}
