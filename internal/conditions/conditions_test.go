package conditions

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

var (
	dao     = common.HexToAddress("0x000000000000000000000000000000000000da00")
	plugin  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	other   = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	grantee = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func memberChange(t *testing.T, to common.Address, kind domain.MemberChangeKind) domain.Action {
	t.Helper()
	data, err := bindings.PackMemberChange(kind, grantee)
	require.NoError(t, err)
	return domain.Action{To: to, Value: big.NewInt(0), Data: data}
}

func executeData(t *testing.T, actions ...domain.Action) []byte {
	t.Helper()
	data, err := bindings.PackExecute(common.Hash{}, actions, nil)
	require.NoError(t, err)
	return data
}

func TestExecuteSelector(t *testing.T) {
	cond := NewExecuteSelector(plugin, bindings.MainVoting().Selector("addMember"))

	tests := []struct {
		name string
		data func(t *testing.T) []byte
		want bool
	}{
		{
			name: "single matching action",
			data: func(t *testing.T) []byte {
				return executeData(t, memberChange(t, plugin, domain.MemberChangeAddMember))
			},
			want: true,
		},
		{
			name: "several matching actions",
			data: func(t *testing.T) []byte {
				return executeData(t,
					memberChange(t, plugin, domain.MemberChangeAddMember),
					memberChange(t, plugin, domain.MemberChangeAddMember))
			},
			want: true,
		},
		{
			name: "one mismatching selector spoils the batch",
			data: func(t *testing.T) []byte {
				return executeData(t,
					memberChange(t, plugin, domain.MemberChangeAddMember),
					memberChange(t, plugin, domain.MemberChangeRemoveMember))
			},
			want: false,
		},
		{
			name: "wrong target",
			data: func(t *testing.T) []byte {
				return executeData(t, memberChange(t, other, domain.MemberChangeAddMember))
			},
			want: false,
		},
		{
			name: "empty batch",
			data: func(t *testing.T) []byte { return executeData(t) },
			want: false,
		},
		{
			name: "action without selector",
			data: func(t *testing.T) []byte {
				return executeData(t, domain.Action{To: plugin, Value: big.NewInt(1), Data: []byte{0x01}})
			},
			want: false,
		},
		{
			name: "not an execute call",
			data: func(t *testing.T) []byte {
				data, err := bindings.PackGrant(plugin, grantee, domain.ExecutePermissionID)
				require.NoError(t, err)
				return data
			},
			want: false,
		},
		{
			name: "garbage",
			data: func(t *testing.T) []byte { return []byte{0xde, 0xad} },
			want: false,
		},
		{
			name: "nil",
			data: func(t *testing.T) []byte { return nil },
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cond.IsGranted(dao, grantee, domain.ExecutePermissionID, tt.data(t))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrantRevoke(t *testing.T) {
	cond := NewGrantRevoke(plugin, domain.UpgradePluginPermissionID)

	grant, err := bindings.PackGrant(plugin, other, domain.UpgradePluginPermissionID)
	require.NoError(t, err)
	assert.True(t, cond.IsGranted(dao, grantee, domain.RootPermissionID, grant))

	revoke, err := bindings.PackRevoke(plugin, grantee, domain.UpgradePluginPermissionID)
	require.NoError(t, err)
	assert.True(t, cond.IsGranted(dao, grantee, domain.RootPermissionID, revoke))

	wrongWhere, err := bindings.PackGrant(other, grantee, domain.UpgradePluginPermissionID)
	require.NoError(t, err)
	assert.False(t, cond.IsGranted(dao, grantee, domain.RootPermissionID, wrongWhere))

	wrongPermission, err := bindings.PackGrant(plugin, grantee, domain.RootPermissionID)
	require.NoError(t, err)
	assert.False(t, cond.IsGranted(dao, grantee, domain.RootPermissionID, wrongPermission))

	withCondition, err := bindings.PackGrantWithCondition(plugin, grantee, domain.UpgradePluginPermissionID, other)
	require.NoError(t, err)
	assert.False(t, cond.IsGranted(dao, grantee, domain.RootPermissionID, withCondition))

	wrapped := executeData(t, domain.Action{To: dao, Value: big.NewInt(0), Data: grant})
	assert.False(t, cond.IsGranted(dao, grantee, domain.RootPermissionID, wrapped))
}

func TestAnyOf(t *testing.T) {
	cond := AnyOf{
		NewExecuteSelector(plugin, bindings.MainVoting().Selector("addMember")),
		NewExecuteSelector(plugin, bindings.MainVoting().Selector("removeMember")),
	}

	assert.True(t, cond.IsGranted(dao, grantee, domain.ExecutePermissionID,
		executeData(t, memberChange(t, plugin, domain.MemberChangeRemoveMember))))
	assert.False(t, cond.IsGranted(dao, grantee, domain.ExecutePermissionID,
		executeData(t, memberChange(t, plugin, domain.MemberChangeAddEditor))))
	// each member condition judges the whole batch on its own
	assert.False(t, cond.IsGranted(dao, grantee, domain.ExecutePermissionID,
		executeData(t,
			memberChange(t, plugin, domain.MemberChangeAddMember),
			memberChange(t, plugin, domain.MemberChangeRemoveMember))))
	assert.False(t, AnyOf{}.IsGranted(dao, grantee, domain.ExecutePermissionID, nil))
	assert.Contains(t, cond.String(), "any(")
}

func TestContract_IsGrantedOverCalldata(t *testing.T) {
	rt := chain.NewRuntime(0, nil)
	var addr common.Address
	_, err := rt.Transact(grantee, func(tx *chain.Tx) error {
		addr = tx.Deploy(NewContract(NewExecuteSelector(plugin, bindings.MainVoting().Selector("addMember"))))
		return nil
	})
	require.NoError(t, err)

	query, err := bindings.PackIsGranted(dao, grantee, domain.ExecutePermissionID,
		executeData(t, memberChange(t, plugin, domain.MemberChangeAddMember)))
	require.NoError(t, err)
	ret, err := rt.StaticCall(dao, addr, query)
	require.NoError(t, err)
	assert.True(t, bindings.UnpackBool(bindings.PermissionCondition(), "isGranted", ret))

	query, err = bindings.PackIsGranted(dao, grantee, domain.ExecutePermissionID, []byte{0x00})
	require.NoError(t, err)
	ret, err = rt.StaticCall(dao, addr, query)
	require.NoError(t, err)
	assert.False(t, bindings.UnpackBool(bindings.PermissionCondition(), "isGranted", ret))

	_, err = rt.StaticCall(dao, addr, []byte{0x01, 0x02, 0x03, 0x04})
	assert.ErrorIs(t, err, domain.ErrUnknownSelector)
}
