package chain

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

var errBoom = errors.New("boom")

// counter increments on 0x01, fails after incrementing on 0x02, and forwards
// the rest of the input to the address in its first 20 bytes on 0x03.
type counter struct {
	n     uint64
	guard ReentrancyGuard
}

type countedEvent struct{ n uint64 }

func (countedEvent) ContractEventName() string { return "Counted" }
func (e *countedEvent) String() string        { return "Counted" }

func (c *counter) Call(tx *Tx, input []byte) ([]byte, error) {
	switch input[0] {
	case 0x01:
		Set(tx.Journal(), &c.n, c.n+1)
		tx.Emit(&countedEvent{n: c.n})
		return []byte{byte(c.n)}, nil
	case 0x02:
		Set(tx.Journal(), &c.n, c.n+1)
		return nil, errBoom
	case 0x03:
		to := common.BytesToAddress(input[1:21])
		return tx.Call(to, nil, input[21:])
	case 0x04:
		release, err := c.guard.Enter(tx)
		if err != nil {
			return nil, err
		}
		defer release()
		return tx.Call(tx.Self(), nil, []byte{0x04})
	default:
		panic("unknown op")
	}
}

func newTestRuntime(t *testing.T) (*Runtime, common.Address, *counter) {
	t.Helper()
	rt := NewRuntime(1_700_000_000, nil)
	c := &counter{}
	var addr common.Address
	_, err := rt.Transact(alice, func(tx *Tx) error {
		addr = tx.Deploy(c)
		return nil
	})
	require.NoError(t, err)
	return rt, addr, c
}

func TestRuntime_DeployUsesCreateAddress(t *testing.T) {
	rt, addr, _ := newTestRuntime(t)
	assert.Equal(t, crypto.CreateAddress(alice, 0), addr)
	assert.Equal(t, uint64(1), rt.Nonce(alice))

	_, ok := rt.Contract(addr)
	assert.True(t, ok)
}

func TestRuntime_SendCommits(t *testing.T) {
	rt, addr, c := newTestRuntime(t)

	receipt, err := rt.Send(bob, addr, nil, []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, receipt.Return)
	assert.Equal(t, uint64(1), c.n)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, addr, receipt.Logs[0].Address)
	assert.Equal(t, "Counted", receipt.Logs[0].Event.ContractEventName())
}

func TestRuntime_FailedSendRevertsEverything(t *testing.T) {
	rt, addr, c := newTestRuntime(t)

	_, err := rt.Send(bob, addr, nil, []byte{0x02})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, uint64(0), c.n)
	assert.Empty(t, rt.Logs())
}

func TestRuntime_NestedFailureRevertsOnlyCallee(t *testing.T) {
	rt, addr, c := newTestRuntime(t)
	other := &counter{}
	var otherAddr common.Address
	_, err := rt.Transact(bob, func(tx *Tx) error {
		otherAddr = tx.Deploy(other)
		return nil
	})
	require.NoError(t, err)

	// a contract that ignores a failing sub-call keeps its own writes
	_, err = rt.Transact(alice, func(tx *Tx) error {
		_, err := tx.Call(addr, nil, []byte{0x01})
		require.NoError(t, err)
		_, err = tx.Call(otherAddr, nil, []byte{0x02})
		assert.ErrorIs(t, err, errBoom)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.n)
	assert.Equal(t, uint64(0), other.n)
}

func TestRuntime_SenderIsImmediateCaller(t *testing.T) {
	rt, addr, _ := newTestRuntime(t)
	var seen common.Address
	probe := contractFunc(func(tx *Tx, input []byte) ([]byte, error) {
		seen = tx.Sender()
		return nil, nil
	})
	var probeAddr common.Address
	_, err := rt.Transact(bob, func(tx *Tx) error {
		probeAddr = tx.Deploy(probe)
		return nil
	})
	require.NoError(t, err)

	input := append([]byte{0x03}, probeAddr.Bytes()...)
	input = append(input, 0x00)
	_, err = rt.Send(bob, addr, nil, input)
	require.NoError(t, err)
	assert.Equal(t, addr, seen)
}

func TestRuntime_PanicBecomesError(t *testing.T) {
	rt, addr, _ := newTestRuntime(t)
	_, err := rt.Send(bob, addr, nil, []byte{0xff})
	assert.Error(t, err)
}

func TestRuntime_ReentrancyGuard(t *testing.T) {
	rt, addr, c := newTestRuntime(t)
	_, err := rt.Send(bob, addr, nil, []byte{0x04})
	assert.ErrorIs(t, err, domain.ErrReentrantCall)
	assert.False(t, c.guard.entered)
}

func TestRuntime_ValueTransfer(t *testing.T) {
	rt, addr, _ := newTestRuntime(t)
	rt.Fund(bob, big.NewInt(100))

	_, err := rt.Send(bob, addr, big.NewInt(40), []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), rt.Balance(bob))
	assert.Equal(t, big.NewInt(40), rt.Balance(addr))

	_, err = rt.Send(bob, addr, big.NewInt(40), []byte{0x02})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, big.NewInt(60), rt.Balance(bob))

	_, err = rt.Send(bob, alice, big.NewInt(61), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestRuntime_SendDataToAccountWithoutCode(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	_, err := rt.Send(bob, alice, nil, []byte{0x01})
	assert.ErrorIs(t, err, domain.ErrNoContract)
}

func TestRuntime_StaticCallDiscardsWrites(t *testing.T) {
	rt, addr, c := newTestRuntime(t)
	ret, err := rt.StaticCall(bob, addr, []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, ret)
	assert.Equal(t, uint64(0), c.n)
}

func TestRuntime_Clock(t *testing.T) {
	rt := NewRuntime(1000, nil)
	assert.Equal(t, uint64(GenesisBlock), rt.BlockNumber())

	rt.Mine(2)
	assert.Equal(t, uint64(GenesisBlock+2), rt.BlockNumber())
	assert.Equal(t, uint64(1000+2*BlockTime), rt.Timestamp())

	rt.AdvanceTime(3600)
	assert.Equal(t, uint64(GenesisBlock+3), rt.BlockNumber())
	assert.Equal(t, uint64(1000+2*BlockTime+3600), rt.Timestamp())

	assert.ErrorIs(t, rt.Warp(1, 1000), ErrTimeTravel)
	require.NoError(t, rt.Warp(10, 99_999))
	assert.Equal(t, uint64(10), rt.BlockNumber())
}

type contractFunc func(tx *Tx, input []byte) ([]byte, error)

func (f contractFunc) Call(tx *Tx, input []byte) ([]byte, error) { return f(tx, input) }

func TestTx_EnterRunsAsContract(t *testing.T) {
	rt, addr, c := newTestRuntime(t)

	_, err := rt.Transact(bob, func(tx *Tx) error {
		return tx.Enter(addr, func(sub *Tx) error {
			assert.Equal(t, addr, sub.Self())
			assert.Equal(t, bob, sub.Sender())
			Set(sub.Journal(), &c.n, 41)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(41), c.n)

	_, err = rt.Transact(bob, func(tx *Tx) error {
		err := tx.Enter(addr, func(sub *Tx) error {
			Set(sub.Journal(), &c.n, 0)
			return errBoom
		})
		assert.ErrorIs(t, err, errBoom)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(41), c.n, "failed frame is reverted")
}
