// Package spacetest installs throwaway spaces for tests.
package spacetest

import (
	"fmt"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/space"
)

const (
	GenesisTime uint64 = 1_700_000_000
	Day         uint64 = 24 * 60 * 60
)

// Installer deploys every test space
var Installer = common.HexToAddress("0x00000000000000000000000000000000000001a5")

// Account returns a deterministic test account
func Account(i int) common.Address {
	return common.BigToAddress(big.NewInt(int64(0x1000 + i)))
}

// Accounts returns n deterministic test accounts
func Accounts(n int) []common.Address {
	out := make([]common.Address, n)
	for i := range out {
		out[i] = Account(i)
	}
	return out
}

// Config returns a genesis with the given editors, Standard 50%/25%/1d voting
// and a one day member proposal duration
func Config(editors ...common.Address) *config.SpaceConfig {
	return &config.SpaceConfig{
		Metadata:    []byte("ipfs://space"),
		Installer:   Installer,
		GenesisTime: GenesisTime,
		Editors:     editors,
		Voting: domain.VotingSettings{
			VotingMode:       domain.VotingModeStandard,
			SupportThreshold: 500_000,
			MinParticipation: 250_000,
			Duration:         Day,
		},
		Multisig: domain.MultisigSettings{ProposalDuration: Day},
		Accounts: map[string]common.Address{},
	}
}

// Fixture is an installed space on a fresh runtime
type Fixture struct {
	t     testing.TB
	RT    *chain.Runtime
	Space *space.Space
}

// New installs cfg on a fresh runtime
func New(t testing.TB, cfg *config.SpaceConfig) *Fixture {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	rt := chain.NewRuntime(cfg.GenesisTime, log)
	s, err := space.Install(rt, cfg, log)
	require.NoError(t, err)
	return &Fixture{t: t, RT: rt, Space: s}
}

// MainVoting sends a main voting plugin call and returns its decoded outputs
func (f *Fixture) MainVoting(from common.Address, method string, args ...any) ([]any, error) {
	return f.send(bindings.MainVoting(), f.Space.MainVotingAddress, from, method, args...)
}

// MemberAccess sends a member approval plugin call and returns its decoded outputs
func (f *Fixture) MemberAccess(from common.Address, method string, args ...any) ([]any, error) {
	return f.send(bindings.MemberAccess(), f.Space.MemberAccessAddress, from, method, args...)
}

// DAO sends a DAO call and returns its decoded outputs
func (f *Fixture) DAO(from common.Address, method string, args ...any) ([]any, error) {
	return f.send(bindings.DAO(), f.Space.DAOAddress, from, method, args...)
}

func (f *Fixture) send(c *bindings.Contract, to, from common.Address, method string, args ...any) ([]any, error) {
	f.t.Helper()
	data, err := c.Pack(method, args...)
	require.NoError(f.t, err)
	receipt, err := f.RT.Send(from, to, nil, data)
	if err != nil {
		return nil, err
	}
	return c.UnpackOutputs(method, receipt.Return)
}

// ProposalOpts tune CreateProposal
type ProposalOpts struct {
	StartDate         uint64
	EndDate           uint64
	VoteOption        domain.VoteOption
	TryEarlyExecution bool
	AllowFailureMap   *big.Int
}

// CreateProposal creates a main voting proposal through calldata
func (f *Fixture) CreateProposal(from common.Address, actions []domain.Action, opts ProposalOpts) (uint64, error) {
	f.t.Helper()
	allow := opts.AllowFailureMap
	if allow == nil {
		allow = new(big.Int)
	}
	out, err := f.MainVoting(from, "createProposal", []byte("ipfs://proposal"),
		bindings.FromDomainActions(actions), allow,
		opts.StartDate, opts.EndDate, uint8(opts.VoteOption), opts.TryEarlyExecution)
	if err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Uint64(), nil
}

// Vote casts a vote through calldata
func (f *Fixture) Vote(from common.Address, id uint64, option domain.VoteOption, tryEarlyExecution bool) error {
	_, err := f.MainVoting(from, "vote", new(big.Int).SetUint64(id), uint8(option), tryEarlyExecution)
	return err
}

// Execute executes a main voting proposal through calldata
func (f *Fixture) Execute(from common.Address, id uint64) error {
	_, err := f.MainVoting(from, "execute", new(big.Int).SetUint64(id))
	return err
}

// Propose opens a member approval proposal through calldata
func (f *Fixture) Propose(from, target common.Address, kind domain.MemberChangeKind) (uint64, error) {
	out, err := f.MemberAccess(from, "proposeMemberChange", []byte("ipfs://request"), target, uint8(kind))
	if err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Uint64(), nil
}

// MemberChange builds the action applying kind to account on the main voting plugin
func (f *Fixture) MemberChange(kind domain.MemberChangeKind, account common.Address) domain.Action {
	f.t.Helper()
	data, err := bindings.PackMemberChange(kind, account)
	require.NoError(f.t, err)
	return domain.Action{To: f.Space.MainVotingAddress, Value: new(big.Int), Data: data}
}

// SettingsChange builds the action updating the voting settings
func (f *Fixture) SettingsChange(s domain.VotingSettings) domain.Action {
	f.t.Helper()
	data, err := bindings.MainVoting().Pack("updateVotingSettings", bindings.FromDomainVotingSettings(s))
	require.NoError(f.t, err)
	return domain.Action{To: f.Space.MainVotingAddress, Value: new(big.Int), Data: data}
}

// PassAndExecute creates a proposal, has every voter vote yes, waits for the
// end date and executes it
func (f *Fixture) PassAndExecute(creator common.Address, voters []common.Address, actions ...domain.Action) uint64 {
	f.t.Helper()
	id, err := f.CreateProposal(creator, actions, ProposalOpts{})
	require.NoError(f.t, err)
	for _, v := range voters {
		require.NoError(f.t, f.Vote(v, id, domain.VoteYes, false), fmt.Sprintf("vote of %s", v.Hex()))
	}
	f.RT.AdvanceTime(f.Space.MainVoting.VotingSettings().Duration)
	require.NoError(f.t, f.Execute(creator, id))
	return id
}

// Now is the current block time
func (f *Fixture) Now() uint64 {
	return f.RT.Timestamp()
}
