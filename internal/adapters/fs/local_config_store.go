package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

// LocalConfigFileName is read by viper as the lowest-precedence config source
const LocalConfigFileName = "config.local.json"

// LocalConfigStoreAdapter keeps the per-project defaults in the data directory
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a new LocalConfigStoreAdapter
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.DataDir, LocalConfigFileName),
	}
}

// Exists checks if the config file exists
func (s *LocalConfigStoreAdapter) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Load reads the config file. A missing file yields the defaults; unknown
// keys are an error so typos do not silently fall back to defaults.
func (s *LocalConfigStoreAdapter) Load(_ context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.DefaultLocalConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var local config.LocalConfig
	if err := dec.Decode(&local); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", s.configPath, err)
	}
	return &local, nil
}

// Save writes cfg. An empty config removes the file instead.
func (s *LocalConfigStoreAdapter) Save(_ context.Context, cfg *config.LocalConfig) error {
	if *cfg == (config.LocalConfig{}) {
		if err := os.Remove(s.configPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove config file: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := writeFileAtomic(s.configPath, data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetPath returns the path to the config file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

var _ usecase.LocalConfigStore = (*LocalConfigStoreAdapter)(nil)
