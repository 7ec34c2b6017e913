package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
)

const sampleGenesis = `
[space]
metadata = "ipfs://space"
editors = ["alice", "0x0000000000000000000000000000000000000b0b"]
members = ["carol", "carol"]
treasury = "1000000000000000000"
proposer_gate = "editors"

[accounts]
alice = "0x000000000000000000000000000000000000a11c"
carol = "${SPACEGOV_TEST_CAROL}"

[voting]
mode = "early-execution"
support_threshold = "50%"
min_participation = "0.25"
duration = "24h"

[multisig]
proposal_duration = "3600"
`

func writeGenesis(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), GenesisFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadGenesis(t *testing.T) {
	t.Setenv("SPACEGOV_TEST_CAROL", "0x000000000000000000000000000000000000CA01")
	path := writeGenesis(t, sampleGenesis)

	cfg, hash, err := LoadGenesis(path)
	require.NoError(t, err)

	alice := common.HexToAddress("0x000000000000000000000000000000000000a11c")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol := common.HexToAddress("0x000000000000000000000000000000000000ca01")

	assert.Equal(t, crypto.Keccak256Hash([]byte(sampleGenesis)), hash)
	assert.Equal(t, []byte("ipfs://space"), cfg.Metadata)
	assert.Equal(t, []common.Address{alice, bob}, cfg.Editors)
	assert.Equal(t, []common.Address{carol}, cfg.Members)
	assert.Equal(t, "1000000000000000000", cfg.Treasury.String())
	assert.Equal(t, domain.ProposerGateEditors, cfg.ProposerGate)
	assert.Equal(t, DefaultInstaller, cfg.Installer)
	assert.Equal(t, DefaultGenesisTime, cfg.GenesisTime)
	assert.Equal(t, (common.Address{}), cfg.PluginUpgrader)

	assert.Equal(t, domain.VotingSettings{
		VotingMode:       domain.VotingModeEarlyExecution,
		SupportThreshold: 500_000,
		MinParticipation: 250_000,
		Duration:         24 * 60 * 60,
	}, cfg.Voting)
	assert.Equal(t, uint64(3600), cfg.Multisig.ProposalDuration)
	assert.Equal(t, "alice", cfg.AccountName(alice))
	assert.Equal(t, bob.Hex(), cfg.AccountName(bob))
}

func TestLoadGenesis_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad toml", "[space", "failed to parse"},
		{"unknown alias", `
[space]
editors = ["mallory"]
[voting]
support_threshold = "50%"
min_participation = "0"
duration = "1h"
[multisig]
proposal_duration = "1h"
`, "unknown account"},
		{"bad account", `
[accounts]
alice = "nope"
`, "invalid address"},
		{"ratio out of bounds", `
[space]
editors = ["0x000000000000000000000000000000000000a11c"]
[voting]
support_threshold = "150%"
min_participation = "0"
duration = "1h"
[multisig]
proposal_duration = "1h"
`, "support_threshold"},
		{"missing multisig duration", `
[space]
editors = ["0x000000000000000000000000000000000000a11c"]
[voting]
support_threshold = "50%"
min_participation = "0"
duration = "1h"
`, "multisig.proposal_duration"},
		{"negative treasury", `
[space]
editors = ["0x000000000000000000000000000000000000a11c"]
treasury = "-5"
`, "treasury"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadGenesis(writeGenesis(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, _, err := LoadGenesis(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "failed to read")
}

func TestResolveGenesis_ExplicitInstallerAndUpgrader(t *testing.T) {
	raw := &config.GenesisFile{
		Space: config.SpaceSection{
			Installer:      "deployer",
			GenesisTime:    42,
			Editors:        []string{"deployer"},
			PluginUpgrader: "0x00000000000000000000000000000000000000ff",
		},
		Accounts: map[string]string{"deployer": "0x00000000000000000000000000000000000000d1"},
		Voting:   config.VotingSection{SupportThreshold: "1", MinParticipation: "0", Duration: "60"},
		Multisig: config.MultisigSection{ProposalDuration: "2m"},
	}

	cfg, err := ResolveGenesis(raw)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xd1"), cfg.Installer)
	assert.Equal(t, common.HexToAddress("0xff"), cfg.PluginUpgrader)
	assert.Equal(t, uint64(42), cfg.GenesisTime)
	assert.Equal(t, domain.VotingModeStandard, cfg.Voting.VotingMode)
	assert.Equal(t, uint32(1), cfg.Voting.SupportThreshold)
	assert.Equal(t, uint64(60), cfg.Voting.Duration)
	assert.Equal(t, uint64(120), cfg.Multisig.ProposalDuration)
	assert.Nil(t, cfg.Treasury)
}
