package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
)

// DefaultGenesisTime is used when space.toml has no genesis_time
const DefaultGenesisTime uint64 = 1_700_000_000

// DefaultInstaller deploys the space when space.toml names no installer
var DefaultInstaller = common.BytesToAddress(crypto.Keccak256([]byte("spacegov.installer"))[12:])

// LoadGenesis reads and resolves a genesis file. The returned hash identifies
// the exact file content so a transaction log is never replayed on another genesis.
func LoadGenesis(path string) (*config.SpaceConfig, common.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw config.GenesisFile
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg, err := ResolveGenesis(&raw)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("invalid genesis %s: %w", path, err)
	}
	return cfg, crypto.Keccak256Hash(data), nil
}

// ResolveGenesis turns the raw file into a SpaceConfig, resolving account
// aliases and human-readable settings
func ResolveGenesis(raw *config.GenesisFile) (*config.SpaceConfig, error) {
	cfg := &config.SpaceConfig{
		Metadata:    []byte(raw.Space.Metadata),
		GenesisTime: raw.Space.GenesisTime,
		Accounts:    make(map[string]common.Address, len(raw.Accounts)),
	}
	if cfg.GenesisTime == 0 {
		cfg.GenesisTime = DefaultGenesisTime
	}

	for name, value := range raw.Accounts {
		value = os.ExpandEnv(value)
		if !common.IsHexAddress(value) {
			return nil, fmt.Errorf("account %s: invalid address %q", name, value)
		}
		cfg.Accounts[name] = common.HexToAddress(value)
	}

	var err error
	cfg.Installer = DefaultInstaller
	if raw.Space.Installer != "" {
		if cfg.Installer, err = cfg.ResolveAccount(raw.Space.Installer); err != nil {
			return nil, fmt.Errorf("installer: %w", err)
		}
	}
	if cfg.Editors, err = resolveAddresses(cfg, raw.Space.Editors); err != nil {
		return nil, fmt.Errorf("editors: %w", err)
	}
	if cfg.Members, err = resolveAddresses(cfg, raw.Space.Members); err != nil {
		return nil, fmt.Errorf("members: %w", err)
	}
	if raw.Space.PluginUpgrader != "" {
		if cfg.PluginUpgrader, err = cfg.ResolveAccount(raw.Space.PluginUpgrader); err != nil {
			return nil, fmt.Errorf("plugin_upgrader: %w", err)
		}
	}
	if cfg.ProposerGate, err = domain.ParseProposerGate(raw.Space.ProposerGate); err != nil {
		return nil, err
	}
	if raw.Space.Treasury != "" {
		treasury, ok := new(big.Int).SetString(strings.TrimSpace(raw.Space.Treasury), 0)
		if !ok || treasury.Sign() < 0 {
			return nil, fmt.Errorf("treasury: invalid amount %q", raw.Space.Treasury)
		}
		cfg.Treasury = treasury
	}

	if cfg.Voting, err = config.ParseVotingSection(raw.Voting); err != nil {
		return nil, fmt.Errorf("voting: %w", err)
	}
	if cfg.Multisig.ProposalDuration, err = config.ParseSeconds(raw.Multisig.ProposalDuration); err != nil {
		return nil, fmt.Errorf("multisig.proposal_duration: %w", err)
	}
	return cfg, nil
}

func resolveAddresses(cfg *config.SpaceConfig, in []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(in))
	for _, s := range in {
		addr, err := cfg.ResolveAccount(s)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return lo.Uniq(out), nil
}
