package codegen

import (
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	testlogr "github.com/go-logr/logr/testing"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/typeddoc/document"
	_ "github.com/vvakame/typeddoc/gql"
	"github.com/vvakame/typeddoc/internal/log"
	"github.com/vvakame/typeddoc/internal/mockapi"
	"github.com/vvakame/typeddoc/internal/testutils"
)

func loadTestSchema(t *testing.T, extra string) *ast.Schema {
	t.Helper()

	sources := []*ast.Source{{Name: "schema.graphqls", Input: mockapi.SchemaSource}}
	if extra != "" {
		sources = append(sources, &ast.Source{Name: "extra.graphqls", Input: extra})
	}
	schema, gErr := gqlparser.LoadSchema(sources...)
	if gErr != nil {
		t.Fatal(gErr)
	}
	return schema
}

func TestExportName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"me", "Me"},
		{"editProfile", "EditProfile"},
		{"restaurantCount", "RestaurantCount"},
		{"id", "ID"},
		{"restaurantId", "RestaurantID"},
		{"userID", "UserID"},
		{"coverImgUrl", "CoverImgURL"},
		{"__typename", "Typename"},
		{"created_at", "CreatedAt"},
		{"Client", "Client"},
		{"DELIVERY", "DELIVERY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exportName(tt.name); got != tt.want {
				t.Errorf("got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractGo(t *testing.T) {
	src := heredoc.Doc(`
		package app

		import "example.com/app/gql"

		var me = gql.Typed[gql.MeQuery, document.NoVariables](` + "`" + `
		  query Me { me { id } }
		` + "`" + `)

		func run(source string) {
			_ = gql.Graphql("fragment F on User { id }")
			_ = gql.Graphql(source)
			_ = other.Graphql("query Other { me { id } }")
			_ = gql.Typed[gql.X](` + "`" + `query X { me { id } }` + "`" + `)
			_ = gql.Unrelated("query Y { me { id } }")
		}
	`)

	sources, err := ExtractGo("app.go", []byte(src), "example.com/app/gql", "gql")
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		text     string
		line     int
		typeArgs []string
	}{
		{"\n  query Me { me { id } }\n", 5, []string{"gql.MeQuery", "document.NoVariables"}},
		{"fragment F on User { id }", 10, nil},
		{"query X { me { id } }", 13, []string{"gql.X"}},
	}
	if v := len(sources); v != len(want) {
		t.Fatalf("got = %v, want %v", v, len(want))
	}
	for i, w := range want {
		s := sources[i]
		if s.Text != w.text {
			t.Errorf("%d: got = %q, want %q", i, s.Text, w.text)
		}
		if s.Line != w.line {
			t.Errorf("%d: got = %v, want %v", i, s.Line, w.line)
		}
		if strings.Join(s.TypeArgs, ",") != strings.Join(w.typeArgs, ",") {
			t.Errorf("%d: got = %v, want %v", i, s.TypeArgs, w.typeArgs)
		}
		if s.Filename != "app.go" {
			t.Errorf("%d: got = %v, want %v", i, s.Filename, "app.go")
		}
	}

	if _, err := ExtractGo("broken.go", []byte("package app\nfunc {"), "example.com/app/gql", "gql"); err == nil {
		t.Error("syntax error expected")
	}
}

func TestExtractGo_imports(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		texts []string
	}{
		{
			name: "renamed import",
			src: heredoc.Doc(`
				package app

				import docs "example.com/app/gql"

				var _ = docs.Graphql("query A { me { id } }")
				var _ = gql.Graphql("query B { me { id } }")
			`),
			texts: []string{"query A { me { id } }"},
		},
		{
			name: "another package named gql",
			src: heredoc.Doc(`
				package app

				import "example.com/vendor/gql"

				var _ = gql.Graphql("query A { me { id } }")
			`),
		},
		{
			name: "both packages",
			src: heredoc.Doc(`
				package app

				import (
					"example.com/app/gql"
					vendored "example.com/vendor/gql"
				)

				var _ = gql.Graphql("query A { me { id } }")
				var _ = vendored.Graphql("query B { me { id } }")
			`),
			texts: []string{"query A { me { id } }"},
		},
		{
			name: "blank import",
			src: heredoc.Doc(`
				package app

				import _ "example.com/app/gql"

				var _ = gql.Graphql("query A { me { id } }")
			`),
		},
		{
			name: "not imported",
			src: heredoc.Doc(`
				package app

				var _ = gql.Graphql("query A { me { id } }")
			`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources, err := ExtractGo("app.go", []byte(tt.src), "example.com/app/gql", "gql")
			if err != nil {
				t.Fatal(err)
			}
			var texts []string
			for _, s := range sources {
				texts = append(texts, s.Text)
			}
			if strings.Join(texts, "|") != strings.Join(tt.texts, "|") {
				t.Errorf("got = %v, want %v", texts, tt.texts)
			}
		})
	}
}

func TestConfig_ImportPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/app\n\ngo 1.23\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{"module root", &Config{Output: ".", baseDir: dir}, "example.com/app"},
		{"nested", &Config{Output: "internal/gql", baseDir: dir}, "example.com/app/internal/gql"},
		{"explicit", &Config{Output: "gql", Import: "example.com/other/gql", baseDir: dir}, "example.com/other/gql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ImportPath()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got = %v, want %v", got, tt.want)
			}
		})
	}

	// this module
	cfg := &Config{Output: "../../gql"}
	got, err := cfg.ImportPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := "github.com/vvakame/typeddoc/gql"; got != want {
		t.Errorf("got = %v, want %v", got, want)
	}
}

func TestGenerate_Golden(t *testing.T) {
	const testFileDir = "./_testdata/assets"
	const expectFileDir = "./_testdata/expected"

	ctx := context.Background()
	ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

	schema := loadTestSchema(t, "")

	files, err := os.ReadDir(testFileDir)
	if err != nil {
		t.Fatal(err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".graphql") {
			continue
		}

		t.Run(file.Name(), func(t *testing.T) {
			b, err := os.ReadFile(path.Join(testFileDir, file.Name()))
			if err != nil {
				t.Fatal(err)
			}

			cfg := &Config{Output: "gql", Package: "gql"}
			res, err := GenerateFrom(ctx, cfg, schema, []*Source{{Text: string(b), Filename: file.Name(), Line: 1}})
			if err != nil {
				t.Fatal(err)
			}

			for _, f := range res.Files {
				testutils.CheckGoldenFile(t, f.Content, path.Join(expectFileDir, file.Name()+"."+f.Name+".golden"))
			}
		})
	}
}

// The registry package in this module is generated from the nuber call sites.
func TestGenerate_matchesRegistry(t *testing.T) {
	ctx := context.Background()
	ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

	cfg := &Config{
		Schema:    []string{"../mockapi/schema.graphqls"},
		Documents: []string{"../../nuber/*.go"},
		Output:    "../../gql",
		Package:   "gql",
	}

	res, err := Generate(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if v := len(res.docs); v != 8 {
		t.Errorf("got = %v, want %v", v, 8)
	}
	if v := len(res.docs); v != document.Default().Len() {
		t.Errorf("got = %v, want %v", v, document.Default().Len())
	}
	for _, m := range res.docs {
		node, ok := document.Default().LookupOK(m.source.Text)
		if !ok {
			t.Errorf("%s is not registered", m.name)
			continue
		}
		if v := node.Name(); v != m.name {
			t.Errorf("got = %v, want %v", v, m.name)
		}
		if v := node.Kind(); v != m.kind {
			t.Errorf("got = %v, want %v", v, m.kind)
		}
	}

	if problems := res.CheckTypeArgs(); len(problems) != 0 {
		t.Errorf("unexpected problems: %v", problems)
	}

	// the committed package must be what generate writes today
	if err := Check(ctx, cfg); err != nil {
		t.Errorf("gql is out of date: %v", err)
	}
}

func TestGenerate_errors(t *testing.T) {
	schema := loadTestSchema(t, "")

	tests := []struct {
		name    string
		sources []string
		want    string
	}{
		{
			name:    "anonymous operation",
			sources: []string{`query { me { id } }`},
			want:    "operation must be named",
		},
		{
			name:    "two operations",
			sources: []string{`query A { me { id } } query B { me { email } }`},
			want:    "exactly one operation or one fragment",
		},
		{
			name:    "two fragments",
			sources: []string{`fragment A on User { id } fragment B on User { email }`},
			want:    "exactly one operation or one fragment",
		},
		{
			name:    "unknown field",
			sources: []string{`query A { me { nope } }`},
			want:    `Cannot query field "nope" on type "User".`,
		},
		{
			name:    "syntax error",
			sources: []string{`query A { me { id }`},
			want:    "a.graphql:1",
		},
		{
			name:    "duplicate name",
			sources: []string{`query Me { me { id } }`, `query Me { me { email } }`},
			want:    `document name "Me" is already used at a.graphql:1`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sources []*Source
			for i, text := range tt.sources {
				sources = append(sources, &Source{Text: text, Filename: string(rune('a'+i)) + ".graphql", Line: 1})
			}
			_, err := GenerateFrom(context.Background(), &Config{Package: "gql"}, schema, sources)
			if err == nil {
				t.Fatal("error expected")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGenerate_dedup(t *testing.T) {
	schema := loadTestSchema(t, heredoc.Doc(`
		scalar Time
		extend type User {
			createdAt: Time
		}
	`))

	text := "fragment Created on User { createdAt }"
	sources := []*Source{
		{Text: text, Filename: "a.go", Line: 3},
		{Text: text, Filename: "b.go", Line: 7},
	}
	cfg := &Config{Package: "gql", Scalars: map[string]string{"Time": "time.Time"}}

	res, err := GenerateFrom(context.Background(), cfg, schema, sources)
	if err != nil {
		t.Fatal(err)
	}
	if v := len(res.docs); v != 1 {
		t.Fatalf("got = %v, want %v", v, 1)
	}
	if v := res.docs[0].resultBody; !strings.Contains(v, "CreatedAt *time.Time `json:\"createdAt\"`") {
		t.Errorf("unexpected body: %s", v)
	}
	if !strings.Contains(string(res.Files[1].Content), "\t\"time\"\n") {
		t.Errorf("time is not imported:\n%s", res.Files[1].Content)
	}

	// unmapped scalars fall back to any
	res, err = GenerateFrom(context.Background(), &Config{Package: "gql"}, schema, sources[:1])
	if err != nil {
		t.Fatal(err)
	}
	if v := res.docs[0].resultBody; !strings.Contains(v, "CreatedAt any `json:\"createdAt\"`") {
		t.Errorf("unexpected body: %s", v)
	}
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	ctx = log.WithLogger(ctx, testlogr.NewTestLogger(t))

	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("go.mod", "module example.com/app\n\ngo 1.23\n")
	write("schema.graphqls", mockapi.SchemaSource)
	write(DefaultConfigFile, heredoc.Doc(`
		schema:
		  - schema.graphqls
		documents:
		  - app/*.go
		  - app/*.graphql
		output: gql
	`))
	write("app/me.graphql", "query Me { me { id email } }\n")
	write("app/app.go", heredoc.Doc(`
		package app

		import "example.com/app/gql"

		var login = gql.Typed[gql.LoginMutation, gql.LoginMutationVariables]("mutation Login($loginInput: LoginInput!) { login(input: $loginInput) { ok token } }")
	`))

	cfg, err := LoadConfig(filepath.Join(dir, DefaultConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	if v := cfg.Package; v != "gql" {
		t.Errorf("got = %v, want %v", v, "gql")
	}

	if err := Check(ctx, cfg); !errors.Is(err, ErrStale) {
		t.Errorf("got = %v, want %v", err, ErrStale)
	}

	res, err := Generate(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := res.Write(cfg); err != nil {
		t.Fatal(err)
	}
	if err := Check(ctx, cfg); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "gql", TypesFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"// Code generated by gqldocgen. DO NOT EDIT.",
		"var LoginDocument = document.New[LoginMutation, LoginMutationVariables](document.KindMutation, \"Login\", loginMutationSource)",
		"var MeDocument = document.New[MeQuery, document.NoVariables](document.KindQuery, \"Me\", meQuerySource)",
	} {
		if !strings.Contains(string(b), want) {
			t.Errorf("%s does not contain %q", TypesFile, want)
		}
	}

	// a new operation makes the package stale
	write("app/restaurants.graphql", "query Restaurants { allCategories { ok } }\n")
	err = Check(ctx, cfg)
	if !errors.Is(err, ErrStale) {
		t.Fatalf("got = %v, want %v", err, ErrStale)
	}
	if !strings.Contains(err.Error(), "gql/graphql.go is out of date") {
		t.Errorf("unexpected error: %v", err)
	}

	// type arguments must follow the generated types
	if err := os.Remove(filepath.Join(dir, "app/restaurants.graphql")); err != nil {
		t.Fatal(err)
	}
	write("app/app.go", heredoc.Doc(`
		package app

		import "example.com/app/gql"

		var login = gql.Typed[gql.MeQuery, document.NoVariables]("mutation Login($loginInput: LoginInput!) { login(input: $loginInput) { ok token } }")
	`))
	err = Check(ctx, cfg)
	if !errors.Is(err, ErrStale) {
		t.Fatalf("got = %v, want %v", err, ErrStale)
	}
	if !strings.Contains(err.Error(), "want gql.Typed[gql.LoginMutation, gql.LoginMutationVariables]") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no schema", "documents: [a.graphql]\noutput: gql\n", "schema is required"},
		{"no documents", "schema: [a.graphqls]\noutput: gql\n", "documents is required"},
		{"no output", "schema: [a.graphqls]\ndocuments: [a.graphql]\n", "output is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), DefaultConfigFile)
			if err := os.WriteFile(p, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadConfig(p)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got = %v, want %v", err, tt.want)
			}
		})
	}
}
