package codegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/typeddoc/internal/log"
	"golang.org/x/sync/errgroup"
)

func LoadSchema(cfg *Config) (*ast.Schema, error) {
	files, err := cfg.glob(cfg.Schema)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no schema files match %v", cfg.Schema)
	}

	sources := make([]*ast.Source, 0, len(files))
	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		sources = append(sources, &ast.Source{
			Name:  cfg.rel(file),
			Input: string(b),
		})
	}

	schema, gErr := gqlparser.LoadSchema(sources...)
	if gErr != nil {
		return nil, gErr
	}

	return schema, nil
}

// LoadSources reads every document file concurrently. The result is ordered
// by file name, then by position in the file.
func LoadSources(ctx context.Context, cfg *Config) ([]*Source, error) {
	files, err := cfg.glob(cfg.Documents)
	if err != nil {
		return nil, err
	}

	outputDir := cfg.OutputDir()
	var targets []string
	for _, file := range files {
		if filepath.Dir(file) == outputDir {
			continue
		}
		targets = append(targets, file)
	}

	var importPath string
	for _, file := range targets {
		if filepath.Ext(file) != ".go" {
			continue
		}
		importPath, err = cfg.ImportPath()
		if err != nil {
			return nil, err
		}
		break
	}

	logger := log.FromContext(ctx)
	logger.V(1).Info("loading documents", "files", len(targets), "import", importPath)

	results := make([][]*Source, len(targets))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range targets {
		i, file := i, file
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sources, err := cfg.loadFile(file, importPath)
			if err != nil {
				return err
			}
			results[i] = sources
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var sources []*Source
	for _, r := range results {
		sources = append(sources, r...)
	}
	logger.V(1).Info("documents loaded", "sources", len(sources))

	return sources, nil
}

func (cfg *Config) loadFile(file, importPath string) ([]*Source, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	name := cfg.rel(file)
	switch filepath.Ext(file) {
	case ".graphql", ".gql":
		if strings.TrimSpace(string(b)) == "" {
			return nil, nil
		}
		return []*Source{{Text: string(b), Filename: name, Line: 1}}, nil
	case ".go":
		return ExtractGo(name, b, importPath, cfg.Package)
	default:
		return nil, fmt.Errorf("%s: unsupported document file", name)
	}
}

func (cfg *Config) glob(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(cfg.resolve(pattern))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (cfg *Config) rel(file string) string {
	if cfg.baseDir == "" {
		return file
	}
	rel, err := filepath.Rel(cfg.baseDir, file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}
