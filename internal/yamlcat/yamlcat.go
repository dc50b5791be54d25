// Package yamlcat provides the YAML implementation of the config.Loader
// interface.
//
// A catalog file holds one or more documents of the form:
//
//	suites:
//	  - kind: ExecutableTestSuite
//	    name: wfs
//	    id: 3dd6f9b6-2c6a-4a59-9a4c-2c8b7b1e0f51
//	    depends_on: [ExecutableTestSuite.base]
//	    parameters:
//	      endpoint: https://example.org
package yamlcat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/suitegraph/internal/config"
	"github.com/specialistvlad/suitegraph/internal/ctxlog"
	"github.com/specialistvlad/suitegraph/internal/fsutil"
)

// Extensions lists the file extensions of YAML catalog files.
var Extensions = []string{".yaml", ".yml"}

// File is the root structure of a catalog document.
type File struct {
	Suites []SuiteDef `yaml:"suites"`
}

// SuiteDef defines a single suite in YAML.
type SuiteDef struct {
	Kind       string         `yaml:"kind"`
	Name       string         `yaml:"name"`
	ID         string         `yaml:"id"`
	DependsOn  []string       `yaml:"depends_on"`
	Parameters map[string]any `yaml:"parameters"`
}

// Loader is the YAML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML catalog loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .yaml and .yml file under paths.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, Extensions...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	catalog := &config.Catalog{}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		suites, err := Parse(content)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		for _, s := range suites {
			s.Source = file
		}
		catalog.Suites = append(catalog.Suites, suites...)
	}

	logger.Debug("YAML loading complete.", "files", len(files), "suites", len(catalog.Suites))
	return catalog, nil
}

// Parse decodes every document in content. Unknown keys are rejected.
func Parse(content []byte) ([]*config.Suite, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var out []*config.Suite
	for doc := 1; ; doc++ {
		var f File
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		for i, def := range f.Suites {
			s, err := def.toSuite()
			if err != nil {
				return nil, fmt.Errorf("document %d, suite %d: %w", doc, i+1, err)
			}
			out = append(out, s)
		}
	}
}

func (d SuiteDef) toSuite() (*config.Suite, error) {
	if d.Kind == "" || d.Name == "" {
		return nil, errors.New("kind and name are required")
	}
	s := &config.Suite{
		Kind:      d.Kind,
		Name:      d.Name,
		ID:        d.ID,
		DependsOn: d.DependsOn,
	}
	if d.Parameters != nil {
		s.Parameters = make(map[string]string, len(d.Parameters))
		for k, v := range d.Parameters {
			str, err := scalarString(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", k, err)
			}
			s.Parameters[k] = str
		}
	}
	return s, nil
}

// scalarString renders a decoded YAML scalar.
func scalarString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("expected a scalar, got %T", v)
	}
}
