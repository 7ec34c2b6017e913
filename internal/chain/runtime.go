// Package chain is a deterministic, in-process execution host for governance
// contracts written in Go. It provides what contract code expects from a
// chain: a caller, a block number and timestamp, dispatch by address and
// calldata, native value transfer, event logs, and all-or-nothing
// transactions backed by a state journal.
package chain

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/spacegov/spacegov/internal/domain"
)

const (
	// BlockTime is the number of seconds Mine advances the clock per block
	BlockTime = 12

	// MaxCallDepth bounds nested contract calls
	MaxCallDepth = 1024

	// GenesisBlock is the first block number; snapshots at block-1 stay valid
	GenesisBlock = 1
)

var (
	ErrCallDepthExceeded = errors.New("max call depth exceeded")
	ErrTimeTravel        = errors.New("block number and time must not decrease")
)

// Contract is code deployed at an address
type Contract interface {
	// Call executes calldata in the context of tx. Any error reverts the writes of the call.
	Call(tx *Tx, input []byte) ([]byte, error)
}

// Log is an emitted event with its origin
type Log struct {
	Address common.Address
	Block   uint64
	Index   int
	Event   domain.ParsedEvent
}

// Receipt summarises a committed top-level transaction
type Receipt struct {
	From   common.Address
	To     common.Address
	Block  uint64
	Time   uint64
	Return []byte
	Logs   []Log
}

// Runtime holds all chain state. Transactions are serialised by a mutex.
type Runtime struct {
	mu sync.Mutex

	journal *Journal
	block   uint64
	time    uint64

	contracts map[common.Address]Contract
	balances  map[common.Address]*big.Int
	nonces    map[common.Address]uint64
	logs      []Log

	log *slog.Logger
}

// NewRuntime creates a runtime at GenesisBlock with the given start time
func NewRuntime(genesisTime uint64, log *slog.Logger) *Runtime {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runtime{
		journal:   NewJournal(),
		block:     GenesisBlock,
		time:      genesisTime,
		contracts: make(map[common.Address]Contract),
		balances:  make(map[common.Address]*big.Int),
		nonces:    make(map[common.Address]uint64),
		log:       log.With("component", "chain"),
	}
}

// BlockNumber returns the current block
func (r *Runtime) BlockNumber() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.block
}

// Timestamp returns the current block time
func (r *Runtime) Timestamp() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.time
}

// Mine closes the current block and opens n new ones
func (r *Runtime) Mine(n uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.block += n
	r.time += n * BlockTime
	r.log.Debug("mined", "blocks", n, "block", r.block, "time", r.time)
}

// AdvanceTime moves the clock forward by seconds and mines one block
func (r *Runtime) AdvanceTime(seconds uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.block++
	r.time += seconds
	r.log.Debug("advanced time", "seconds", seconds, "block", r.block, "time", r.time)
}

// Warp jumps to an exact block and time, used when replaying recorded transactions
func (r *Runtime) Warp(block, time uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if block < r.block || time < r.time {
		return fmt.Errorf("%w: at block %d time %d, asked for block %d time %d",
			ErrTimeTravel, r.block, r.time, block, time)
	}
	r.block, r.time = block, time
	return nil
}

// Fund credits a native balance outside of any transaction
func (r *Runtime) Fund(addr common.Address, amount *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[addr] = new(big.Int).Add(r.balanceOf(addr), amount)
}

// Balance returns the native balance of addr
func (r *Runtime) Balance(addr common.Address) *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return new(big.Int).Set(r.balanceOf(addr))
}

// Nonce returns the number of contracts addr has created
func (r *Runtime) Nonce(addr common.Address) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nonces[addr]
}

// Contract returns the code at addr, if any
func (r *Runtime) Contract(addr common.Address) (Contract, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contracts[addr]
	return c, ok
}

// Logs returns a copy of all committed logs
func (r *Runtime) Logs() []Log {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Log, len(r.logs))
	copy(out, r.logs)
	return out
}

// View runs fn against the current state while holding the runtime lock.
// fn must not write state.
func (r *Runtime) View(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

// Send executes one top-level transaction: a call from an externally owned
// account to a contract. Every write is reverted when the call fails.
func (r *Runtime) Send(from, to common.Address, value *big.Int, input []byte) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(input) > 0 {
		if _, ok := r.contracts[to]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoContract, to.Hex())
		}
	}

	root := r.newTx(from, from, value, input)
	var ret []byte
	receipt, err := r.commit(root, func() error {
		var err error
		ret, err = root.call(to, value, input)
		return err
	})
	if err != nil {
		r.log.Debug("transaction reverted", "from", from, "to", to, "error", err)
		return nil, err
	}
	receipt.To = to
	receipt.Return = ret
	return receipt, nil
}

// Transact runs fn as a transaction sent by from, with from acting as the
// executing account. It is how accounts deploy contracts.
func (r *Runtime) Transact(from common.Address, fn func(tx *Tx) error) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := r.newTx(from, from, nil, nil)
	receipt, err := r.commit(tx, func() error { return fn(tx) })
	if err != nil {
		r.log.Debug("transaction reverted", "from", from, "error", err)
		return nil, err
	}
	return receipt, nil
}

// StaticCall executes a call and discards all of its writes
func (r *Runtime) StaticCall(from, to common.Address, input []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := r.newTx(from, from, nil, input)
	snap := r.journal.Snapshot()
	defer func() {
		r.journal.RevertToSnapshot(snap)
		r.journal.Reset()
	}()
	return tx.call(to, nil, input)
}

func (r *Runtime) newTx(origin, sender common.Address, value *big.Int, input []byte) *Tx {
	if value == nil {
		value = new(big.Int)
	}
	return &Tx{
		rt:     r,
		origin: origin,
		sender: sender,
		self:   sender,
		value:  value,
		input:  input,
	}
}

func (r *Runtime) commit(tx *Tx, run func() error) (*Receipt, error) {
	firstLog := len(r.logs)
	snap := r.journal.Snapshot()
	if err := run(); err != nil {
		r.journal.RevertToSnapshot(snap)
		r.journal.Reset()
		return nil, err
	}
	r.journal.Reset()

	logs := make([]Log, len(r.logs)-firstLog)
	copy(logs, r.logs[firstLog:])
	r.log.Debug("transaction committed", "from", tx.origin, "block", r.block, "logs", len(logs))
	return &Receipt{
		From:  tx.origin,
		Block: r.block,
		Time:  r.time,
		Logs:  logs,
	}, nil
}

func (r *Runtime) balanceOf(addr common.Address) *big.Int {
	if b, ok := r.balances[addr]; ok {
		return b
	}
	return new(big.Int)
}

func (r *Runtime) transfer(from, to common.Address, value *big.Int) error {
	if value == nil || value.Sign() == 0 {
		return nil
	}
	if value.Sign() < 0 {
		return fmt.Errorf("negative value %s", value)
	}
	fromBal := r.balanceOf(from)
	if fromBal.Cmp(value) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s", domain.ErrInsufficientBalance, from.Hex(), fromBal, value)
	}
	// balances are replaced, never mutated, so the journal can restore the old pointer
	MapSet(r.journal, r.balances, from, new(big.Int).Sub(fromBal, value))
	MapSet(r.journal, r.balances, to, new(big.Int).Add(r.balanceOf(to), value))
	return nil
}

func (r *Runtime) deploy(creator common.Address, c Contract) common.Address {
	nonce := r.nonces[creator]
	addr := crypto.CreateAddress(creator, nonce)
	MapSet(r.journal, r.nonces, creator, nonce+1)
	MapSet(r.journal, r.contracts, addr, c)
	r.log.Debug("deployed contract", "creator", creator, "address", addr, "type", fmt.Sprintf("%T", c))
	return addr
}
