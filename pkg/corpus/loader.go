package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/jsregexp/pkg/dialect"
	"gopkg.in/yaml.v3"
)

// Loader handles loading cases from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for built-in cases
}

// NewLoader creates a loader with built-in cases from embedded filesystem.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinCasesFS,
	}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// LoadCases loads cases from YAML bytes.
func (l *Loader) LoadCases(data []byte) (*Corpus, error) {
	var yamlFile yamlCasesFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(yamlFile.Translations) == 0 && len(yamlFile.Executions) == 0 {
		return nil, fmt.Errorf("no cases found in YAML")
	}
	return convertYAMLCases(yamlFile)
}

// LoadFile loads cases from a YAML file path.
func (l *Loader) LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	c, err := l.LoadCases(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadBuiltin loads all cases under cases/ in the loader's filesystem.
func (l *Loader) LoadBuiltin() (*Corpus, error) {
	all := &Corpus{}
	seen := make(map[string]string)

	err := fs.WalkDir(l.fs, "cases", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		c, err := l.LoadCases(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		// IDs select cases, so they must be unique across files
		for _, id := range c.ids() {
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("duplicate case id %q in %s and %s", id, prev, path)
			}
			seen[id] = path
		}

		all.Merge(c)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return all, nil
}

func (c *Corpus) ids() []string {
	ids := make([]string, 0, c.Len())
	for _, t := range c.Translations {
		ids = append(ids, t.ID)
	}
	for _, e := range c.Executions {
		ids = append(ids, e.ID)
	}
	return ids
}

// convertYAMLCases converts parsed YAML to a Corpus.
func convertYAMLCases(yf yamlCasesFile) (*Corpus, error) {
	c := &Corpus{}
	for _, yt := range yf.Translations {
		if yt.ID == "" {
			return nil, fmt.Errorf("translation case for %q has no id", yt.Pattern)
		}
		d, err := dialect.ParseDialect(yt.Dialect)
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", yt.ID, err)
		}
		c.Translations = append(c.Translations, &Translation{
			ID:        yt.ID,
			Dialect:   d,
			Pattern:   yt.Pattern,
			BOM:       yt.BOM,
			Multiline: yt.Multiline,
			Expected:  yt.Expected,
		})
	}

	for _, ye := range yf.Executions {
		if ye.ID == "" {
			return nil, fmt.Errorf("execution case for %q has no id", ye.Pattern)
		}
		switch ye.Error {
		case "", ErrorFlag, ErrorCompile:
		default:
			return nil, fmt.Errorf("case %s: unknown error kind %q", ye.ID, ye.Error)
		}
		if ye.Error == "" && len(ye.Steps) == 0 {
			return nil, fmt.Errorf("case %s: no steps", ye.ID)
		}

		e := &Execution{
			ID:          ye.ID,
			Description: ye.Description,
			Pattern:     ye.Pattern,
			Flags:       ye.Flags,
			Literal:     ye.Literal,
			Input:       ye.Input,
			LastIndex:   ye.LastIndex,
			Requires:    ye.Requires,
			Error:       ye.Error,
		}
		for _, ys := range ye.Steps {
			if ys == nil {
				e.Steps = append(e.Steps, nil)
				continue
			}
			e.Steps = append(e.Steps, &Step{
				Index:     ys.Index,
				Groups:    ys.Groups,
				LastIndex: ys.LastIndex,
			})
		}
		c.Executions = append(c.Executions, e)
	}
	return c, nil
}
