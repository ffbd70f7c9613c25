package codegen

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"golang.org/x/mod/modfile"
)

const (
	DefaultConfigFile  = "gqldocgen.yml"
	defaultFuncGraphql = "Graphql"
	defaultFuncTyped   = "Typed"
)

// Config is read from gqldocgen.yml. Relative paths are resolved against
// the directory of the file.
type Config struct {
	// Schema lists the SDL files of the server schema.
	Schema []string `yaml:"schema"`
	// Documents lists glob patterns of .graphql and .go files holding operations.
	Documents []string `yaml:"documents"`
	// Output is the directory of the generated package.
	Output string `yaml:"output"`
	// Package defaults to the base name of Output.
	Package string `yaml:"package"`
	// Import is the import path of the generated package. Call sites in Go
	// files are found through it, whatever name the package is imported as.
	// Defaults to the module path of the nearest go.mod joined with Output.
	Import string `yaml:"import"`
	// Scalars maps custom scalar names to Go types.
	Scalars map[string]string `yaml:"scalars"`

	baseDir string
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.baseDir = abs

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if len(cfg.Schema) == 0 {
		return fmt.Errorf("schema is required")
	}
	if len(cfg.Documents) == 0 {
		return fmt.Errorf("documents is required")
	}
	if cfg.Output == "" {
		return fmt.Errorf("output is required")
	}
	if cfg.Package == "" {
		cfg.Package = filepath.Base(cfg.Output)
	}
	return nil
}

func (cfg *Config) resolve(path string) string {
	if filepath.IsAbs(path) || cfg.baseDir == "" {
		return path
	}
	return filepath.Join(cfg.baseDir, path)
}

// OutputDir is the absolute directory generated files are written to.
func (cfg *Config) OutputDir() string {
	return cfg.resolve(cfg.Output)
}

// ImportPath returns the import path of the generated package.
func (cfg *Config) ImportPath() (string, error) {
	if cfg.Import != "" {
		return cfg.Import, nil
	}

	outputDir, err := filepath.Abs(cfg.OutputDir())
	if err != nil {
		return "", err
	}
	for dir := outputDir; ; {
		b, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			modPath := modfile.ModulePath(b)
			if modPath == "" {
				return "", fmt.Errorf("%s: module path not found", filepath.Join(dir, "go.mod"))
			}
			rel, err := filepath.Rel(dir, outputDir)
			if err != nil {
				return "", err
			}
			return path.Join(modPath, filepath.ToSlash(rel)), nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod found for %s, set import in the config", outputDir)
		}
		dir = parent
	}
}

func (cfg *Config) scalarType(name string) (string, bool) {
	switch name {
	case "ID", "String":
		return "string", true
	case "Int":
		return "int", true
	case "Float":
		return "float64", true
	case "Boolean":
		return "bool", true
	}
	goType, ok := cfg.Scalars[name]
	return goType, ok
}
