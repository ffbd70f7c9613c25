package codegen

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vvakame/typeddoc/document"
	"github.com/vvakame/typeddoc/internal/log"
	"github.com/vvakame/typeddoc/internal/utils"
)

const (
	RegistryFile = "gql.go"
	TypesFile    = "graphql.go"
)

// File is one generated file.
type File struct {
	Name    string
	Content []byte
}

// Result holds the generated files and the documents they describe.
type Result struct {
	Files   []*File
	Sources []*Source

	docs    []*docModel
	byText  map[string]*docModel
	pkgName string
}

type docModel struct {
	source *Source
	name   string
	kind   document.Kind

	// CreateAccountMutation, VerifiedUserFragment
	goName string
	// CreateAccountDocument, VerifiedUserFragmentDoc
	varName   string
	constName string

	resultBody    string
	variablesBody string
	hasVariables  bool
}

func (m *docModel) variablesType() string {
	if !m.hasVariables {
		return "document.NoVariables"
	}
	return m.goName + "Variables"
}

// Generate loads the schema and every document named by cfg and renders the
// registry package. Nothing is written to disk.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	schema, err := LoadSchema(cfg)
	if err != nil {
		return nil, err
	}

	sources, err := LoadSources(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return GenerateFrom(ctx, cfg, schema, sources)
}

// GenerateFrom renders the registry package from sources already loaded.
func GenerateFrom(ctx context.Context, cfg *Config, schema *ast.Schema, sources []*Source) (*Result, error) {
	g := &generator{
		cfg:     cfg,
		schema:  schema,
		enums:   make(map[string]bool),
		inputs:  make(map[string]bool),
		imports: make(map[string]bool),
	}

	res := &Result{
		Sources: sources,
		byText:  make(map[string]*docModel),
		pkgName: cfg.Package,
	}
	byName := make(map[string]*docModel)

	logger := log.FromContext(ctx)
	for _, source := range sources {
		if _, ok := res.byText[source.Text]; ok {
			continue
		}

		m, err := g.document(source)
		if err != nil {
			return nil, err
		}
		if prev, ok := byName[m.name]; ok {
			return nil, fmt.Errorf("%s: document name %q is already used at %s", source.Pos(), m.name, prev.source.Pos())
		}
		byName[m.name] = m
		res.byText[source.Text] = m
		res.docs = append(res.docs, m)

		logger.V(1).Info("document", "name", m.name, "kind", m.kind.String(), "pos", source.Pos())
	}

	typesFile, err := g.renderTypes(res.docs)
	if err != nil {
		return nil, err
	}
	registryFile, err := g.renderRegistry(res.docs)
	if err != nil {
		return nil, err
	}
	res.Files = []*File{
		{Name: RegistryFile, Content: registryFile},
		{Name: TypesFile, Content: typesFile},
	}

	return res, nil
}

// Write stores the generated files into the output directory.
func (res *Result) Write(cfg *Config) error {
	dir := cfg.OutputDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, f := range res.Files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Content, 0o644); err != nil {
			return err
		}
	}
	return nil
}

type generator struct {
	cfg    *Config
	schema *ast.Schema

	enums   map[string]bool
	inputs  map[string]bool
	imports map[string]bool
}

// scalar maps a scalar to a Go type. A mapping like time.Time or
// github.com/google/uuid.UUID adds the package to the imports. Scalars
// missing from the config become any.
func (g *generator) scalar(name string) (string, error) {
	goType, ok := g.cfg.scalarType(name)
	if !ok {
		return "any", nil
	}
	i := strings.LastIndex(goType, ".")
	if i < 0 {
		return goType, nil
	}
	pkgPath := goType[:i]
	g.imports[pkgPath] = true
	return path.Base(pkgPath) + goType[i:], nil
}

func (g *generator) document(source *Source) (*docModel, error) {
	doc, err := g.parse(source)
	if err != nil {
		return nil, err
	}

	m := &docModel{source: source}

	switch {
	case len(doc.Operations) == 1:
		op := doc.Operations[0]
		if op.Name == "" {
			return nil, fmt.Errorf("%s: operation must be named", source.Pos())
		}
		m.name = op.Name
		m.kind = document.KindOf(op.Operation)
		m.goName = exportName(op.Name) + kindSuffix(m.kind)
		m.varName = exportName(op.Name) + "Document"

		root := g.rootType(op.Operation)
		if root == nil {
			return nil, fmt.Errorf("%s: schema has no %s type", source.Pos(), op.Operation)
		}
		m.resultBody, err = g.structBody(op.SelectionSet)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source.Pos(), err)
		}
		if len(op.VariableDefinitions) != 0 {
			m.hasVariables = true
			m.variablesBody, err = g.variablesBody(op.VariableDefinitions)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", source.Pos(), err)
			}
		}

	case len(doc.Operations) == 0 && len(doc.Fragments) == 1:
		fragment := doc.Fragments[0]
		m.name = fragment.Name
		m.kind = document.KindFragment
		m.goName = exportName(fragment.Name) + kindSuffix(m.kind)
		m.varName = exportName(fragment.Name) + "FragmentDoc"
		m.resultBody, err = g.structBody(fragment.SelectionSet)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source.Pos(), err)
		}

	default:
		return nil, fmt.Errorf("%s: document must define exactly one operation or one fragment", source.Pos())
	}

	m.constName = lowerFirst(m.goName) + "Source"

	return m, nil
}

// parse parses and validates source. A document holding only a fragment is
// allowed to leave it unused.
func (g *generator) parse(source *Source) (*ast.QueryDocument, error) {
	doc, pErr := parser.ParseQuery(&ast.Source{
		Name:  source.Pos(),
		Input: source.Text,
	})
	if pErr != nil {
		return nil, pErr
	}

	fragmentOnly := utils.FragmentOnly(doc)
	var errs gqlerror.List
	for _, vErr := range validator.Validate(g.schema, doc) {
		if fragmentOnly && strings.HasSuffix(vErr.Message, " is never used.") {
			continue
		}
		errs = append(errs, vErr)
	}
	if len(errs) != 0 {
		return nil, fmt.Errorf("%s: %w", source.Pos(), errs)
	}

	return doc, nil
}

func (g *generator) rootType(op ast.Operation) *ast.Definition {
	switch op {
	case ast.Query:
		return g.schema.Query
	case ast.Mutation:
		return g.schema.Mutation
	case ast.Subscription:
		return g.schema.Subscription
	}
	return nil
}

// collectFields flattens fragment spreads and inline fragments. Fields sharing
// a response name are merged.
func collectFields(set ast.SelectionSet, fields []*ast.Field, index map[string]int) []*ast.Field {
	for _, sel := range set {
		switch sel := sel.(type) {
		case *ast.Field:
			if i, ok := index[sel.Alias]; ok {
				merged := *fields[i]
				merged.SelectionSet = append(append(ast.SelectionSet{}, fields[i].SelectionSet...), sel.SelectionSet...)
				fields[i] = &merged
				continue
			}
			index[sel.Alias] = len(fields)
			fields = append(fields, sel)
		case *ast.FragmentSpread:
			if sel.Definition != nil {
				fields = collectFields(sel.Definition.SelectionSet, fields, index)
			}
		case *ast.InlineFragment:
			fields = collectFields(sel.SelectionSet, fields, index)
		}
	}
	return fields
}

func (g *generator) structBody(set ast.SelectionSet) (string, error) {
	var b strings.Builder
	for _, field := range collectFields(set, nil, make(map[string]int)) {
		var typ string
		if field.Name == "__typename" {
			typ = "string"
		} else {
			if field.Definition == nil {
				return "", fmt.Errorf("field %s has no definition", field.Name)
			}
			var err error
			typ, err = g.outputType(field.Definition.Type, field.SelectionSet)
			if err != nil {
				return "", fmt.Errorf("%s: %w", field.Alias, err)
			}
		}
		fmt.Fprintf(&b, "\t%s %s `json:\"%s\"`\n", exportName(field.Alias), typ, field.Alias)
	}
	return b.String(), nil
}

func (g *generator) outputType(t *ast.Type, set ast.SelectionSet) (string, error) {
	if t.Elem != nil {
		elem, err := g.outputType(t.Elem, set)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	}

	def := g.schema.Types[t.NamedType]
	if def == nil {
		return "", fmt.Errorf("unknown type %s", t.NamedType)
	}

	var typ string
	switch def.Kind {
	case ast.Scalar:
		goType, err := g.scalar(def.Name)
		if err != nil {
			return "", err
		}
		typ = goType
	case ast.Enum:
		g.enums[def.Name] = true
		typ = exportName(def.Name)
	case ast.Object, ast.Interface, ast.Union:
		body, err := g.structBody(set)
		if err != nil {
			return "", err
		}
		typ = "struct {\n" + body + "}"
	default:
		return "", fmt.Errorf("unexpected output type %s", def.Name)
	}

	if !t.NonNull && typ != "any" {
		typ = "*" + typ
	}
	return typ, nil
}

func (g *generator) inputType(t *ast.Type) (string, error) {
	if t.Elem != nil {
		elem, err := g.inputType(t.Elem)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	}

	def := g.schema.Types[t.NamedType]
	if def == nil {
		return "", fmt.Errorf("unknown type %s", t.NamedType)
	}

	var typ string
	switch def.Kind {
	case ast.Scalar:
		goType, err := g.scalar(def.Name)
		if err != nil {
			return "", err
		}
		typ = goType
	case ast.Enum:
		g.enums[def.Name] = true
		typ = exportName(def.Name)
	case ast.InputObject:
		g.inputs[def.Name] = true
		typ = exportName(def.Name)
	default:
		return "", fmt.Errorf("unexpected input type %s", def.Name)
	}

	if !t.NonNull && typ != "any" {
		typ = "*" + typ
	}
	return typ, nil
}

func (g *generator) variablesBody(defs ast.VariableDefinitionList) (string, error) {
	var b strings.Builder
	for _, def := range defs {
		typ, err := g.inputType(def.Type)
		if err != nil {
			return "", fmt.Errorf("$%s: %w", def.Variable, err)
		}
		fmt.Fprintf(&b, "\t%s %s `json:\"%s%s\"`\n", exportName(def.Variable), typ, def.Variable, omitEmpty(def.Type))
	}
	return b.String(), nil
}

func omitEmpty(t *ast.Type) string {
	if t.NonNull {
		return ""
	}
	return ",omitempty"
}

func kindSuffix(kind document.Kind) string {
	switch kind {
	case document.KindQuery:
		return "Query"
	case document.KindMutation:
		return "Mutation"
	case document.KindSubscription:
		return "Subscription"
	case document.KindFragment:
		return "Fragment"
	}
	return ""
}
