// Package manifest loads YAML batch descriptions: which statement files to
// ingest and how each one should be interpreted.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tabnorm/tabnorm/pkg/models"
)

// Manifest lists the statements of one batch run.
type Manifest struct {
	Statements []Statement `yaml:"statements"`
}

// Statement describes one input file.
type Statement struct {
	FilePath  string         `yaml:"file"`
	HasHeader bool           `yaml:"has_header"`
	Mapping   map[int]string `yaml:"mapping,omitempty"`
}

// File returns the path to the statement file, expanding a leading ~.
func (s *Statement) File() (string, error) {
	if strings.HasPrefix(s.FilePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, s.FilePath[2:]), nil
	}
	return s.FilePath, nil
}

// ColumnMapping converts the optional mapping entry to the model type.
// Returns nil when no mapping was declared, which means infer from content.
func (s *Statement) ColumnMapping() models.ColumnMapping {
	if len(s.Mapping) == 0 {
		return nil
	}
	m := make(models.ColumnMapping, len(s.Mapping))
	for i, name := range s.Mapping {
		m[i] = models.Field(name)
	}
	return m
}

// FromFile reads a manifest from a YAML file.
func FromFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(m.Statements) == 0 {
		return nil, fmt.Errorf("manifest has no statements")
	}
	return &m, nil
}
