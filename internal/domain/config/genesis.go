package config

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/ratio"
)

// GenesisFile is the raw content of space.toml. Accounts may be referenced by
// alias anywhere an address is expected.
type GenesisFile struct {
	Space    SpaceSection      `toml:"space"`
	Accounts map[string]string `toml:"accounts"`
	Voting   VotingSection     `toml:"voting"`
	Multisig MultisigSection   `toml:"multisig"`
}

// SpaceSection describes the DAO and its initial members
type SpaceSection struct {
	Metadata       string   `toml:"metadata"`
	Installer      string   `toml:"installer,omitempty"`
	GenesisTime    uint64   `toml:"genesis_time,omitempty"`
	Treasury       string   `toml:"treasury,omitempty"` // wei, decimal
	Editors        []string `toml:"editors"`
	Members        []string `toml:"members,omitempty"`
	ProposerGate   string   `toml:"proposer_gate,omitempty"` // members | editors
	PluginUpgrader string   `toml:"plugin_upgrader,omitempty"`
}

// VotingSection holds human-readable majority voting settings
type VotingSection struct {
	Mode             string `toml:"mode"`              // standard | early-execution | vote-replacement
	SupportThreshold string `toml:"support_threshold"` // "50%", "0.5" or "500000"
	MinParticipation string `toml:"min_participation"`
	Duration         string `toml:"duration"` // Go duration, e.g. "120h"
}

// MultisigSection holds human-readable member approval settings
type MultisigSection struct {
	ProposalDuration string `toml:"proposal_duration"`
}

// SpaceConfig is a resolved genesis, ready to be installed
type SpaceConfig struct {
	Metadata       []byte
	Installer      common.Address
	GenesisTime    uint64
	Treasury       *big.Int
	Editors        []common.Address
	Members        []common.Address
	ProposerGate   domain.ProposerGate
	PluginUpgrader common.Address // zero when absent
	Voting         domain.VotingSettings
	Multisig       domain.MultisigSettings
	Accounts       map[string]common.Address
}

// AccountName returns the alias of addr, or its hex form
func (c *SpaceConfig) AccountName(addr common.Address) string {
	for name, a := range c.Accounts {
		if a == addr {
			return name
		}
	}
	return addr.Hex()
}

// ResolveAccount resolves an account alias or a hex address
func (c *SpaceConfig) ResolveAccount(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if addr, ok := c.Accounts[s]; ok {
		return addr, nil
	}
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	return common.Address{}, fmt.Errorf("unknown account %q", s)
}

// ParseVotingSection converts the human-readable voting settings
func ParseVotingSection(section VotingSection) (domain.VotingSettings, error) {
	var (
		s   domain.VotingSettings
		err error
	)
	if s.VotingMode, err = domain.ParseVotingMode(section.Mode); err != nil {
		return s, err
	}
	if s.SupportThreshold, err = ratio.Parse(section.SupportThreshold); err != nil {
		return s, fmt.Errorf("support_threshold: %w", err)
	}
	if s.MinParticipation, err = ratio.Parse(section.MinParticipation); err != nil {
		return s, fmt.Errorf("min_participation: %w", err)
	}
	if s.Duration, err = ParseSeconds(section.Duration); err != nil {
		return s, fmt.Errorf("duration: %w", err)
	}
	return s, nil
}

// ParseSeconds reads a Go duration ("120h") or a plain number of seconds
func ParseSeconds(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing duration")
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return uint64(d / time.Second), nil
}
