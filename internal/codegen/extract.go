package codegen

import (
	"bytes"
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strconv"
)

// Source is one operation source text and where it was found.
type Source struct {
	Text     string
	Filename string
	Line     int

	// TypeArgs holds the type arguments written at a Typed call site.
	TypeArgs []string
}

func (s *Source) Pos() string {
	return fmt.Sprintf("%s:%d", s.Filename, s.Line)
}

// ExtractGo finds calls of Graphql(lit) and Typed[R, V](lit) made through the
// package imported from importPath, under pkgName or any other name given in
// the import. Only string literal arguments are collected.
func ExtractGo(filename string, src []byte, importPath, pkgName string) ([]*Source, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	localName := importName(file, importPath, pkgName)
	if localName == "" {
		return nil, nil
	}

	var sources []*Source
	var extractErr error
	goast.Inspect(file, func(n goast.Node) bool {
		call, ok := n.(*goast.CallExpr)
		if !ok || len(call.Args) == 0 || extractErr != nil {
			return true
		}

		fun := call.Fun
		var typeArgs []goast.Expr
		switch expr := fun.(type) {
		case *goast.IndexExpr:
			fun = expr.X
			typeArgs = []goast.Expr{expr.Index}
		case *goast.IndexListExpr:
			fun = expr.X
			typeArgs = expr.Indices
		}

		sel, ok := fun.(*goast.SelectorExpr)
		if !ok {
			return true
		}
		ident, ok := sel.X.(*goast.Ident)
		if !ok || ident.Name != localName {
			return true
		}
		switch sel.Sel.Name {
		case defaultFuncGraphql, defaultFuncTyped:
		default:
			return true
		}

		lit, ok := call.Args[0].(*goast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}
		text, err := strconv.Unquote(lit.Value)
		if err != nil {
			extractErr = fmt.Errorf("%s: %w", fset.Position(lit.Pos()), err)
			return false
		}

		source := &Source{
			Text:     text,
			Filename: filename,
			Line:     fset.Position(lit.Pos()).Line,
		}
		for _, typeArg := range typeArgs {
			var buf bytes.Buffer
			if err := printer.Fprint(&buf, fset, typeArg); err != nil {
				extractErr = err
				return false
			}
			source.TypeArgs = append(source.TypeArgs, buf.String())
		}
		sources = append(sources, source)

		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	return sources, nil
}

// importName returns the name importPath is referred to by in file, or ""
// when file does not import it by name.
func importName(file *goast.File, importPath, pkgName string) string {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != importPath {
			continue
		}
		if spec.Name == nil {
			return pkgName
		}
		switch spec.Name.Name {
		case "_", ".":
			return ""
		}
		return spec.Name.Name
	}
	return ""
}
