package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

// ScenarioLoaderAdapter reads scenario YAML files
type ScenarioLoaderAdapter struct {
	root string
}

// NewScenarioLoaderAdapter creates a new ScenarioLoaderAdapter. Relative
// paths resolve against the project root.
func NewScenarioLoaderAdapter(cfg *config.RuntimeConfig) *ScenarioLoaderAdapter {
	return &ScenarioLoaderAdapter{root: cfg.ProjectRoot}
}

// LoadScenario reads and validates a scenario
func (l *ScenarioLoaderAdapter) LoadScenario(_ context.Context, path string) (*domain.Scenario, error) {
	if !filepath.IsAbs(path) && l.root != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = filepath.Join(l.root, path)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}

	var scenario domain.Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	for i, step := range scenario.Steps {
		if step.Do == "" {
			return nil, fmt.Errorf("scenario %s: step %d has no 'do'", path, i+1)
		}
	}
	if scenario.Name == "" {
		scenario.Name = filepath.Base(path)
	}
	return &scenario, nil
}

var _ usecase.ScenarioLoader = (*ScenarioLoaderAdapter)(nil)
