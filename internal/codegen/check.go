package codegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ErrStale is wrapped by Check when the generated package does not match the
// documents used in the code.
var ErrStale = errors.New("generated registry is stale, run gqldocgen generate")

// Check regenerates the package in memory and compares it with the files on
// disk. It also verifies the type arguments written at every Typed call site.
func Check(ctx context.Context, cfg *Config) error {
	res, err := Generate(ctx, cfg)
	if err != nil {
		return err
	}

	var problems []string
	for _, f := range res.Files {
		path := filepath.Join(cfg.OutputDir(), f.Name)
		current, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			problems = append(problems, fmt.Sprintf("%s does not exist", cfg.rel(path)))
			continue
		} else if err != nil {
			return err
		}
		if bytes.Equal(current, f.Content) {
			continue
		}
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(current)),
			B:        difflib.SplitLines(string(f.Content)),
			FromFile: cfg.rel(path),
			ToFile:   "generated",
			Context:  3,
		})
		if err != nil {
			return err
		}
		problems = append(problems, fmt.Sprintf("%s is out of date\n%s", cfg.rel(path), diff))
	}

	problems = append(problems, res.CheckTypeArgs()...)

	if len(problems) != 0 {
		return fmt.Errorf("%w:\n%s", ErrStale, strings.Join(problems, "\n"))
	}
	return nil
}

// CheckTypeArgs reports Typed call sites whose type arguments differ from the
// types generated for their source text.
func (res *Result) CheckTypeArgs() []string {
	var problems []string
	for _, source := range res.Sources {
		if len(source.TypeArgs) == 0 {
			continue
		}
		m, ok := res.byText[source.Text]
		if !ok {
			continue
		}

		want := []string{res.qualify(m.goName), res.qualify(m.variablesType())}
		if len(source.TypeArgs) == len(want) && source.TypeArgs[0] == want[0] && source.TypeArgs[1] == want[1] {
			continue
		}
		problems = append(problems, fmt.Sprintf("%s: %s.Typed[%s] for %s %s, want %s.Typed[%s]",
			source.Pos(), res.pkgName, strings.Join(source.TypeArgs, ", "),
			m.kind, m.name, res.pkgName, strings.Join(want, ", ")))
	}
	return problems
}

func (res *Result) qualify(typeName string) string {
	if strings.Contains(typeName, ".") {
		return typeName
	}
	return res.pkgName + "." + typeName
}
