package dao

import (
	"errors"
	"log/slog"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/conditions"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

var (
	owner    = common.HexToAddress("0x0000000000000000000000000000000000000001")
	executor = common.HexToAddress("0x0000000000000000000000000000000000000e0e")
	stranger = common.HexToAddress("0x0000000000000000000000000000000000005555")
)

var errTarget = errors.New("target failed")

// target records calls: selector 0x01 succeeds, 0x02 fails, 0x03 re-enters the DAO
type target struct {
	calls int
	dao   common.Address
}

func (c *target) Call(tx *chain.Tx, input []byte) ([]byte, error) {
	chain.Set(tx.Journal(), &c.calls, c.calls+1)
	switch input[0] {
	case 0x01:
		return []byte{0xaa}, nil
	case 0x02:
		return nil, errTarget
	default:
		data, err := bindings.PackExecute(common.Hash{}, nil, nil)
		if err != nil {
			return nil, err
		}
		return tx.Call(c.dao, nil, data)
	}
}

type fixture struct {
	rt     *chain.Runtime
	dao    *DAO
	addr   common.Address
	target *target
	tAddr  common.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	f := &fixture{rt: chain.NewRuntime(1000, log), dao: New(log), target: &target{}}

	_, err := f.rt.Transact(owner, func(tx *chain.Tx) error {
		f.addr = tx.Deploy(f.dao)
		f.target.dao = f.addr
		f.tAddr = tx.Deploy(f.target)
		return tx.Enter(f.addr, func(sub *chain.Tx) error {
			return f.dao.Initialize(sub, []byte("ipfs://space"), owner)
		})
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) send(t *testing.T, from common.Address, data []byte) ([]byte, error) {
	t.Helper()
	receipt, err := f.rt.Send(from, f.addr, nil, data)
	if err != nil {
		return nil, err
	}
	return receipt.Return, nil
}

func (f *fixture) grant(t *testing.T, where, who common.Address, id common.Hash) {
	t.Helper()
	data, err := bindings.PackGrant(where, who, id)
	require.NoError(t, err)
	_, err = f.send(t, owner, data)
	require.NoError(t, err)
}

func (f *fixture) execute(t *testing.T, from common.Address, allowFailure int64, ops ...byte) ([]byte, error) {
	t.Helper()
	actions := make([]domain.Action, len(ops))
	for i, op := range ops {
		actions[i] = domain.Action{To: f.tAddr, Value: big.NewInt(0), Data: []byte{op}}
	}
	data, err := bindings.PackExecute(common.BigToHash(big.NewInt(1)), actions, big.NewInt(allowFailure))
	require.NoError(t, err)
	return f.send(t, from, data)
}

func TestDAO_InitializeGrantsRoot(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []byte("ipfs://space"), f.dao.Metadata())

	perms := f.dao.Permissions()
	require.Len(t, perms, 1)
	assert.Equal(t, "ROOT_PERMISSION", perms[0].Name)
	assert.Equal(t, owner, perms[0].Who)
	assert.False(t, perms[0].Conditional())

	_, err := f.rt.Transact(owner, func(tx *chain.Tx) error {
		return tx.Enter(f.addr, func(sub *chain.Tx) error {
			return f.dao.Initialize(sub, nil, stranger)
		})
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
}

func TestDAO_ExecuteRequiresPermission(t *testing.T) {
	f := newFixture(t)

	_, err := f.execute(t, executor, 0, 0x01)
	var unauthorized domain.DaoUnauthorizedErr
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, domain.ExecutePermissionID, unauthorized.PermissionID)
	assert.Equal(t, 0, f.target.calls)

	f.grant(t, f.addr, executor, domain.ExecutePermissionID)
	ret, err := f.execute(t, executor, 0, 0x01, 0x01)
	require.NoError(t, err)
	assert.Equal(t, 2, f.target.calls)

	out, err := bindings.DAO().UnpackOutputs("execute", ret)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0xaa}, {0xaa}}, out[0])
	assert.Zero(t, out[1].(*big.Int).Sign())
}

func TestDAO_AllowFailureMap(t *testing.T) {
	f := newFixture(t)
	f.grant(t, f.addr, executor, domain.ExecutePermissionID)

	// action 1 fails and is not allowed to: everything reverts
	_, err := f.execute(t, executor, 0, 0x01, 0x02)
	var failed domain.ActionFailedErr
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 1, failed.Index)
	assert.ErrorIs(t, err, errTarget)
	assert.Equal(t, 0, f.target.calls)

	// with bit 1 set the failure is recorded and the rest commits
	ret, err := f.execute(t, executor, 0b10, 0x01, 0x02, 0x01)
	require.NoError(t, err)
	out, err := bindings.DAO().UnpackOutputs("execute", ret)
	require.NoError(t, err)
	assert.Equal(t, int64(0b10), out[1].(*big.Int).Int64())
	// the failed call's own write was reverted
	assert.Equal(t, 2, f.target.calls)

	logs := f.rt.Logs()
	last := logs[len(logs)-1].Event.(*domain.ExecutedEvent)
	assert.Equal(t, executor, last.Actor)
	assert.Len(t, last.Actions, 3)
}

func TestDAO_TooManyActions(t *testing.T) {
	f := newFixture(t)
	f.grant(t, f.addr, executor, domain.ExecutePermissionID)

	ops := make([]byte, domain.MaxActions+1)
	for i := range ops {
		ops[i] = 0x01
	}
	_, err := f.execute(t, executor, 0, ops...)
	assert.ErrorIs(t, err, domain.ErrTooManyActions)
}

func TestDAO_ExecuteIsNotReentrant(t *testing.T) {
	f := newFixture(t)
	f.grant(t, f.addr, executor, domain.ExecutePermissionID)
	f.grant(t, f.addr, f.tAddr, domain.ExecutePermissionID)

	_, err := f.execute(t, executor, 0, 0x03)
	assert.ErrorIs(t, err, domain.ErrReentrantCall)
}

func TestDAO_GrantRevokeRequireRoot(t *testing.T) {
	f := newFixture(t)

	data, err := bindings.PackGrant(f.addr, stranger, domain.ExecutePermissionID)
	require.NoError(t, err)
	_, err = f.send(t, stranger, data)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	f.grant(t, f.addr, stranger, domain.ExecutePermissionID)
	// idempotent
	f.grant(t, f.addr, stranger, domain.ExecutePermissionID)
	assert.Len(t, f.dao.Permissions(), 2)

	data, err = bindings.PackRevoke(f.addr, stranger, domain.ExecutePermissionID)
	require.NoError(t, err)
	_, err = f.send(t, owner, data)
	require.NoError(t, err)
	assert.Len(t, f.dao.Permissions(), 1)
}

func TestDAO_ConditionalExecute(t *testing.T) {
	f := newFixture(t)

	var condAddr common.Address
	_, err := f.rt.Transact(owner, func(tx *chain.Tx) error {
		condAddr = tx.Deploy(conditions.NewContract(conditions.NewExecuteSelector(f.tAddr, [4]byte{0x01})))
		return nil
	})
	require.NoError(t, err)

	data, err := bindings.PackGrantWithCondition(f.addr, executor, domain.ExecutePermissionID, condAddr)
	require.NoError(t, err)
	_, err = f.send(t, owner, data)
	require.NoError(t, err)

	// a plain grant on top of a conditional one conflicts
	data, err = bindings.PackGrant(f.addr, executor, domain.ExecutePermissionID)
	require.NoError(t, err)
	_, err = f.send(t, owner, data)
	assert.ErrorIs(t, err, domain.ErrPermissionConflict)

	// the selector must be exactly 0x01000000; a one-byte call has no selector
	_, err = f.execute(t, executor, 0, 0x01)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	actions := []domain.Action{{To: f.tAddr, Value: big.NewInt(0), Data: []byte{0x01, 0x00, 0x00, 0x00}}}
	data, err = bindings.PackExecute(common.Hash{}, actions, nil)
	require.NoError(t, err)
	_, err = f.send(t, executor, data)
	require.NoError(t, err)
	assert.Equal(t, 1, f.target.calls)
}

func TestDAO_GrantRevokeCondition(t *testing.T) {
	f := newFixture(t)
	plugin := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	var condAddr common.Address
	_, err := f.rt.Transact(owner, func(tx *chain.Tx) error {
		condAddr = tx.Deploy(conditions.NewContract(conditions.NewGrantRevoke(plugin, domain.UpgradePluginPermissionID)))
		return nil
	})
	require.NoError(t, err)

	data, err := bindings.PackGrantWithCondition(f.addr, stranger, domain.RootPermissionID, condAddr)
	require.NoError(t, err)
	_, err = f.send(t, owner, data)
	require.NoError(t, err)

	// stranger may grant UPGRADE_PLUGIN on the plugin to anyone
	data, err = bindings.PackGrant(plugin, executor, domain.UpgradePluginPermissionID)
	require.NoError(t, err)
	_, err = f.send(t, stranger, data)
	require.NoError(t, err)

	// but not anything else
	data, err = bindings.PackGrant(f.addr, stranger, domain.ExecutePermissionID)
	require.NoError(t, err)
	_, err = f.send(t, stranger, data)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDAO_SetMetadata(t *testing.T) {
	f := newFixture(t)

	data, err := bindings.DAO().Pack("setMetadata", []byte("new"))
	require.NoError(t, err)
	_, err = f.send(t, executor, data)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	f.grant(t, f.addr, executor, domain.SetMetadataPermissionID)
	_, err = f.send(t, executor, data)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), f.dao.Metadata())

	query, err := bindings.DAO().Pack("getMetadata")
	require.NoError(t, err)
	ret, err := f.send(t, stranger, query)
	require.NoError(t, err)
	out, err := bindings.DAO().UnpackOutputs("getMetadata", ret)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), out[0])
}

func TestDAO_Deposit(t *testing.T) {
	f := newFixture(t)
	f.rt.Fund(stranger, big.NewInt(10))
	_, err := f.rt.Send(stranger, f.addr, big.NewInt(10), nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), f.rt.Balance(f.addr))
}
