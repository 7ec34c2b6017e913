package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"

	internalconfig "github.com/spacegov/spacegov/internal/config"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

const genesisHeader = `# Space genesis. Changing this file invalidates the recorded history;
# run 'spacegov reset' afterwards.

`

// GenesisStoreAdapter reads and writes space.toml
type GenesisStoreAdapter struct {
	path string
}

// NewGenesisStoreAdapter creates a new GenesisStoreAdapter
func NewGenesisStoreAdapter(cfg *config.RuntimeConfig) *GenesisStoreAdapter {
	path := cfg.GenesisFile
	if path == "" {
		path = internalconfig.GenesisFileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	return &GenesisStoreAdapter{path: path}
}

// LoadGenesis reads and resolves the genesis file
func (s *GenesisStoreAdapter) LoadGenesis(_ context.Context) (*config.SpaceConfig, common.Hash, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, common.Hash{}, fmt.Errorf("no genesis at %s, run 'spacegov init' first", s.path)
	}
	return internalconfig.LoadGenesis(s.path)
}

// GenesisExists reports whether the genesis file is present
func (s *GenesisStoreAdapter) GenesisExists(_ context.Context) bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// WriteGenesis encodes genesis as TOML and returns the written path
func (s *GenesisStoreAdapter) WriteGenesis(_ context.Context, genesis *config.GenesisFile) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(genesisHeader)
	if err := toml.NewEncoder(&buf).Encode(genesis); err != nil {
		return "", fmt.Errorf("failed to encode genesis: %w", err)
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return s.path, nil
}

var (
	_ usecase.GenesisLoader = (*GenesisStoreAdapter)(nil)
	_ usecase.GenesisWriter = (*GenesisStoreAdapter)(nil)
)
