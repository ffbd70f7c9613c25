package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	header             = "// Code generated by gqldocgen. DO NOT EDIT.\n\n"
	documentImportPath = "github.com/vvakame/typeddoc/document"
)

var commonInitialisms = map[string]bool{
	"API":  true,
	"HTML": true,
	"HTTP": true,
	"ID":   true,
	"IP":   true,
	"JSON": true,
	"JWT":  true,
	"SQL":  true,
	"URL":  true,
	"UUID": true,
}

// exportName turns a GraphQL name into an exported Go identifier.
// restaurantCount -> RestaurantCount, userId -> UserID, __typename -> Typename.
func exportName(name string) string {
	var words []string
	var word []rune
	flush := func() {
		if len(word) != 0 {
			words = append(words, string(word))
			word = word[:0]
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-':
			flush()
		case unicode.IsUpper(r) && len(word) != 0 && !unicode.IsUpper(word[len(word)-1]):
			flush()
			word = append(word, r)
		default:
			word = append(word, r)
		}
	}
	flush()

	var b strings.Builder
	for _, w := range words {
		if upper := strings.ToUpper(w); commonInitialisms[upper] {
			b.WriteString(upper)
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func (g *generator) renderTypes(docs []*docModel) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(header)
	fmt.Fprintf(&b, "package %s\n\n", g.cfg.Package)

	var body bytes.Buffer
	if err := g.renderInputs(&body); err != nil {
		return nil, err
	}
	g.renderEnums(&body)

	for _, m := range docs {
		fmt.Fprintf(&body, "const %s = %s\n\n", m.constName, strconv.Quote(m.source.Text))

		fmt.Fprintf(&body, "type %s struct {\n%s}\n\n", m.goName, m.resultBody)
		if m.hasVariables {
			fmt.Fprintf(&body, "type %s struct {\n%s}\n\n", m.variablesType(), m.variablesBody)
		}

		fmt.Fprintf(&body, "var %s = document.New[%s, %s](document.%s, %q, %s)\n\n",
			m.varName, m.goName, m.variablesType(), kindConst(m), m.name, m.constName)
	}

	// inputs and enums register their imports while rendering
	var imports []string
	if len(docs) != 0 {
		imports = append(imports, documentImportPath)
	}
	for pkgPath := range g.imports {
		imports = append(imports, pkgPath)
	}
	sort.Strings(imports)
	switch len(imports) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "import %q\n\n", imports[0])
	default:
		b.WriteString("import (\n")
		for _, pkgPath := range imports {
			fmt.Fprintf(&b, "\t%q\n", pkgPath)
		}
		b.WriteString(")\n\n")
	}
	b.Write(body.Bytes())

	return formatSource(TypesFile, b.Bytes())
}

// renderInputs emits input objects reachable from variables, including
// the ones nested in other inputs.
func (g *generator) renderInputs(b *bytes.Buffer) error {
	done := make(map[string]bool)
	for {
		var pending []string
		for name := range g.inputs {
			if !done[name] {
				pending = append(pending, name)
			}
		}
		if len(pending) == 0 {
			break
		}
		sort.Strings(pending)

		for _, name := range pending {
			done[name] = true
		}
		for _, name := range pending {
			def := g.schema.Types[name]
			var body strings.Builder
			for _, field := range def.Fields {
				typ, err := g.inputType(field.Type)
				if err != nil {
					return fmt.Errorf("%s.%s: %w", name, field.Name, err)
				}
				fmt.Fprintf(&body, "\t%s %s `json:\"%s%s\"`\n", exportName(field.Name), typ, field.Name, omitEmpty(field.Type))
			}
			fmt.Fprintf(b, "type %s struct {\n%s}\n\n", exportName(name), body.String())
		}
	}
	return nil
}

func (g *generator) renderEnums(b *bytes.Buffer) {
	names := make([]string, 0, len(g.enums))
	for name := range g.enums {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := g.schema.Types[name]
		typeName := exportName(name)

		fmt.Fprintf(b, "type %s string\n\n", typeName)
		b.WriteString("const (\n")
		for _, v := range def.EnumValues {
			fmt.Fprintf(b, "\t%s%s %s = %q\n", typeName, exportName(v.Name), typeName, v.Name)
		}
		b.WriteString(")\n\n")

		fmt.Fprintf(b, "var All%s = []%s{\n", typeName, typeName)
		for _, v := range def.EnumValues {
			fmt.Fprintf(b, "\t%s%s,\n", typeName, exportName(v.Name))
		}
		b.WriteString("}\n\n")

		fmt.Fprintf(b, "func (e %s) IsValid() bool {\n", typeName)
		b.WriteString("\tswitch e {\n\tcase ")
		for i, v := range def.EnumValues {
			if i != 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s%s", typeName, exportName(v.Name))
		}
		b.WriteString(":\n\t\treturn true\n\t}\n\treturn false\n}\n\n")
	}
}

func (g *generator) renderRegistry(docs []*docModel) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(header)
	fmt.Fprintf(&b, "package %s\n\n", g.cfg.Package)
	fmt.Fprintf(&b, "import %q\n\n", documentImportPath)

	b.WriteString("var documents = map[string]document.Node{\n")
	for _, m := range docs {
		fmt.Fprintf(&b, "\t%s: %s,\n", m.constName, m.varName)
	}
	b.WriteString("}\n\n")

	b.WriteString("func init() {\n\tdocument.Register(documents)\n}\n\n")

	b.WriteString("// Graphql returns the descriptor registered for source, or document.EmptyNode\n")
	b.WriteString("// when source is unknown. Regenerate the package after adding call sites.\n")
	b.WriteString("func Graphql(source string) document.Node {\n\treturn document.Graphql(source)\n}\n\n")

	b.WriteString("// Typed returns the descriptor registered for source with its result and\n")
	b.WriteString("// variables types, or an empty descriptor when source is unknown or the\n")
	b.WriteString("// types do not match.\n")
	b.WriteString("func Typed[TResult, TVariables any](source string) *document.Document[TResult, TVariables] {\n")
	b.WriteString("\treturn document.Lookup[TResult, TVariables](document.Default(), source)\n}\n")

	return formatSource(RegistryFile, b.Bytes())
}

func kindConst(m *docModel) string {
	return "Kind" + kindSuffix(m.kind)
}

func formatSource(name string, src []byte) ([]byte, error) {
	formatted, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return formatted, nil
}
