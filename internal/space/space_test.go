package space_test

import (
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
	"github.com/spacegov/spacegov/internal/space"
	"github.com/spacegov/spacegov/internal/space/spacetest"
)

var (
	alice    = spacetest.Account(0)
	bob      = spacetest.Account(1)
	carol    = spacetest.Account(2)
	upgrader = spacetest.Account(50)
	outsider = spacetest.Account(99)
)

func hasPermission(t *testing.T, f *spacetest.Fixture, where, who common.Address, id common.Hash) bool {
	t.Helper()
	out, err := f.DAO(outsider, "hasPermission", where, who, [32]byte(id), []byte{})
	require.NoError(t, err)
	return out[0].(bool)
}

func TestInstall_PermissionGraph(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice))
	s := f.Space

	tests := []struct {
		name  string
		where common.Address
		who   common.Address
		id    common.Hash
		want  bool
	}{
		{"main voting executes", s.DAOAddress, s.MainVotingAddress, domain.ExecutePermissionID, true},
		{"dao updates addresses", s.MainVotingAddress, s.DAOAddress, domain.UpdateAddressesPermissionID, true},
		{"dao updates voting settings", s.MainVotingAddress, s.DAOAddress, domain.UpdateVotingSettingsPermissionID, true},
		{"dao upgrades main voting", s.MainVotingAddress, s.DAOAddress, domain.UpgradePluginPermissionID, true},
		{"dao updates multisig settings", s.MemberAccessAddress, s.DAOAddress, domain.UpdateMultisigSettingsPermissionID, true},
		{"dao upgrades member access", s.MemberAccessAddress, s.DAOAddress, domain.UpgradePluginPermissionID, true},
		{"main voting proposes", s.MemberAccessAddress, s.MainVotingAddress, domain.ProposerPermissionID, true},
		{"dao is root", s.DAOAddress, s.DAOAddress, domain.RootPermissionID, true},
		{"dao sets metadata", s.DAOAddress, s.DAOAddress, domain.SetMetadataPermissionID, true},
		{"installer is not root", s.DAOAddress, spacetest.Installer, domain.RootPermissionID, false},
		{"editors hold nothing", s.DAOAddress, alice, domain.ExecutePermissionID, false},
		{"member access does not update addresses", s.MainVotingAddress, s.MemberAccessAddress, domain.UpdateAddressesPermissionID, false},
		// conditional, and empty calldata is no execute call
		{"member access execute is conditional", s.DAOAddress, s.MemberAccessAddress, domain.ExecutePermissionID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasPermission(t, f, tt.where, tt.who, tt.id))
		})
	}

	perms := s.DAO.Permissions()
	conditional := 0
	for _, p := range perms {
		if p.Conditional() {
			conditional++
			assert.Equal(t, s.MemberChangeCondition, p.Condition)
		}
	}
	assert.Equal(t, 1, conditional)
	assert.Len(t, perms, 10)
}

func TestInstall_InstallerCannotGrant(t *testing.T) {
	f := spacetest.New(t, spacetest.Config(alice))

	_, err := f.DAO(spacetest.Installer, "grant", f.Space.DAOAddress, spacetest.Installer, [32]byte(domain.RootPermissionID))
	var unauthorized domain.DaoUnauthorizedErr
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, domain.RootPermissionID, unauthorized.PermissionID)
}

func TestInstall_Treasury(t *testing.T) {
	cfg := spacetest.Config(alice)
	cfg.Treasury = big.NewInt(1_000_000)
	f := spacetest.New(t, cfg)

	assert.Equal(t, int64(1_000_000), f.RT.Balance(f.Space.DAOAddress).Int64())

	// the treasury pays out through proposals
	f.PassAndExecute(alice, []common.Address{alice},
		domain.Action{To: bob, Value: big.NewInt(400_000), Data: []byte{}})
	assert.Equal(t, int64(600_000), f.RT.Balance(f.Space.DAOAddress).Int64())
	assert.Equal(t, int64(400_000), f.RT.Balance(bob).Int64())
}

func TestInstall_OpensANewBlock(t *testing.T) {
	cfg := spacetest.Config(alice)
	f := spacetest.New(t, cfg)

	assert.Equal(t, uint64(chain.GenesisBlock+1), f.RT.BlockNumber())
	_, err := f.CreateProposal(alice, nil, spacetest.ProposalOpts{})
	assert.NoError(t, err)
}

func TestInstall_RequiresAnEditor(t *testing.T) {
	log := slog.New(slog.DiscardHandler)
	rt := chain.NewRuntime(spacetest.GenesisTime, log)

	_, err := space.Install(rt, spacetest.Config(), log)
	assert.ErrorIs(t, err, domain.ErrNoEditorsLeft)
	assert.Empty(t, rt.Logs())
}

func TestInstall_Addresses(t *testing.T) {
	cfg := spacetest.Config(alice)
	f := spacetest.New(t, cfg)
	addrs := f.Space.Addresses()
	assert.Equal(t, f.Space.DAOAddress, addrs["dao"])
	assert.Equal(t, f.Space.MainVotingAddress, addrs["main-voting"])
	assert.Equal(t, f.Space.MemberAccessAddress, addrs["member-access"])
	assert.NotContains(t, addrs, "upgrader-condition")

	cfg.PluginUpgrader = upgrader
	f = spacetest.New(t, cfg)
	assert.Equal(t, f.Space.UpgraderCondition, f.Space.Addresses()["upgrader-condition"])
}

func TestPluginUpgrader(t *testing.T) {
	cfg := spacetest.Config(alice)
	cfg.PluginUpgrader = upgrader
	f := spacetest.New(t, cfg)
	s := f.Space

	_, err := f.DAO(upgrader, "grant", s.MainVotingAddress, upgrader, [32]byte(domain.UpgradePluginPermissionID))
	require.NoError(t, err)
	assert.True(t, hasPermission(t, f, s.MainVotingAddress, upgrader, domain.UpgradePluginPermissionID))

	_, err = f.DAO(upgrader, "revoke", s.MainVotingAddress, upgrader, [32]byte(domain.UpgradePluginPermissionID))
	require.NoError(t, err)
	assert.False(t, hasPermission(t, f, s.MainVotingAddress, upgrader, domain.UpgradePluginPermissionID))

	_, err = f.DAO(upgrader, "grant", s.MemberAccessAddress, carol, [32]byte(domain.UpgradePluginPermissionID))
	require.NoError(t, err)

	_, err = f.DAO(upgrader, "grant", s.DAOAddress, upgrader, [32]byte(domain.ExecutePermissionID))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.DAO(upgrader, "grant", s.MainVotingAddress, upgrader, [32]byte(domain.UpdateAddressesPermissionID))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMemberChangeCondition(t *testing.T) {
	cfg := spacetest.Config(alice)
	cfg.Members = []common.Address{bob}
	f := spacetest.New(t, cfg)
	s := f.Space

	execute := func(actions ...domain.Action) error {
		data, err := bindings.PackExecute(common.Hash{}, actions, nil)
		require.NoError(t, err)
		_, err = f.RT.Send(s.MemberAccessAddress, s.DAOAddress, nil, data)
		return err
	}

	require.NoError(t, execute(f.MemberChange(domain.MemberChangeAddMember, carol)))
	assert.True(t, s.MainVoting.IsMember(carol))

	// every action must share one selector
	err := execute(
		f.MemberChange(domain.MemberChangeAddMember, outsider),
		f.MemberChange(domain.MemberChangeRemoveMember, bob))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, s.MainVoting.IsMember(outsider))
	assert.True(t, s.MainVoting.IsMember(bob))

	err = execute(domain.Action{To: s.MainVotingAddress, Value: new(big.Int), Data: mustPack(t, "updateVotingSettings",
		bindings.FromDomainVotingSettings(s.MainVoting.VotingSettings()))})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, execute(), domain.ErrUnauthorized)
}

func mustPack(t *testing.T, method string, args ...any) []byte {
	t.Helper()
	data, err := bindings.MainVoting().Pack(method, args...)
	require.NoError(t, err)
	return data
}
