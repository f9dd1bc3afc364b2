package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nestkit/nestkit/internal/model"
)

// Save writes a project to the given path as indented JSON, creating any
// missing parent directories.
func Save(path string, p model.Project) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// Load reads a project from the given path.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	var p model.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if p.Items == nil {
		p.Items = []model.Item{}
	}
	if p.Bins == nil {
		p.Bins = []model.Bin{}
	}
	return p, nil
}
