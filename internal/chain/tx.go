package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/domain"
)

// Tx is the execution context of one call frame
type Tx struct {
	rt     *Runtime
	origin common.Address
	sender common.Address
	self   common.Address
	value  *big.Int
	input  []byte
	depth  int
	static bool
}

// Sender is the immediate caller (msg.sender)
func (tx *Tx) Sender() common.Address { return tx.sender }

// Origin is the account that signed the top-level transaction
func (tx *Tx) Origin() common.Address { return tx.origin }

// Self is the address of the executing contract (address(this))
func (tx *Tx) Self() common.Address { return tx.self }

// Value is the native value sent with the call
func (tx *Tx) Value() *big.Int { return new(big.Int).Set(tx.value) }

// Input is the calldata of the current frame
func (tx *Tx) Input() []byte { return tx.input }

func (tx *Tx) BlockNumber() uint64 { return tx.rt.block }

func (tx *Tx) Timestamp() uint64 { return tx.rt.time }

// Journal is where contracts record their writes
func (tx *Tx) Journal() *Journal { return tx.rt.journal }

// Balance returns the native balance of addr
func (tx *Tx) Balance(addr common.Address) *big.Int {
	return new(big.Int).Set(tx.rt.balanceOf(addr))
}

// Contract returns the code deployed at addr, if any
func (tx *Tx) Contract(addr common.Address) (Contract, bool) {
	c, ok := tx.rt.contracts[addr]
	return c, ok
}

// Emit appends an event attributed to the executing contract
func (tx *Tx) Emit(ev domain.ParsedEvent) {
	rt := tx.rt
	Append(rt.journal, &rt.logs, Log{
		Address: tx.self,
		Block:   rt.block,
		Index:   len(rt.logs),
		Event:   ev,
	})
}

// Deploy installs c at the next create address of the executing account
func (tx *Tx) Deploy(c Contract) common.Address {
	return tx.rt.deploy(tx.self, c)
}

// Call invokes to with the executing contract as sender. The callee's writes
// are reverted on error without touching the caller's earlier writes.
func (tx *Tx) Call(to common.Address, value *big.Int, input []byte) ([]byte, error) {
	if tx.static && value != nil && value.Sign() != 0 {
		return nil, fmt.Errorf("value transfer in static call")
	}
	return tx.call(to, value, input)
}

// StaticCall invokes to and discards every write it makes
func (tx *Tx) StaticCall(to common.Address, input []byte) ([]byte, error) {
	j := tx.rt.journal
	snap := j.Snapshot()
	defer j.RevertToSnapshot(snap)
	return tx.frame(to, nil, input, true)
}

// Enter runs fn in a new frame executing as the contract at to, with the
// current contract as sender. It is how Go code calls an initializer that has
// no calldata form. Writes made by fn are reverted if it fails.
func (tx *Tx) Enter(to common.Address, fn func(sub *Tx) error) error {
	_, err := tx.run(to, nil, nil, tx.static, func(sub *Tx) ([]byte, error) {
		return nil, fn(sub)
	})
	return err
}

func (tx *Tx) call(to common.Address, value *big.Int, input []byte) ([]byte, error) {
	return tx.frame(to, value, input, tx.static)
}

func (tx *Tx) frame(to common.Address, value *big.Int, input []byte, static bool) ([]byte, error) {
	c, ok := tx.rt.contracts[to]
	if !ok {
		// calls to accounts without code only move value
		return tx.run(to, value, input, static, nil)
	}
	return tx.run(to, value, input, static, func(sub *Tx) ([]byte, error) {
		return c.Call(sub, input)
	})
}

func (tx *Tx) run(to common.Address, value *big.Int, input []byte, static bool, body func(sub *Tx) ([]byte, error)) (ret []byte, err error) {
	if tx.depth+1 > MaxCallDepth {
		return nil, ErrCallDepthExceeded
	}
	rt := tx.rt
	j := rt.journal
	snap := j.Snapshot()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("contract %s panicked: %v", to.Hex(), r)
			ret = nil
		}
		if err != nil {
			j.RevertToSnapshot(snap)
		}
	}()

	if err := rt.transfer(tx.self, to, value); err != nil {
		return nil, err
	}

	if body == nil {
		return nil, nil
	}
	if value == nil {
		value = new(big.Int)
	}
	sub := &Tx{
		rt:     rt,
		origin: tx.origin,
		sender: tx.self,
		self:   to,
		value:  value,
		input:  input,
		depth:  tx.depth + 1,
		static: static,
	}
	return body(sub)
}

// ReentrancyGuard rejects nested entry into a guarded function
type ReentrancyGuard struct {
	entered bool
}

// Enter marks the guard; the returned function releases it
func (g *ReentrancyGuard) Enter(tx *Tx) (func(), error) {
	if g.entered {
		return nil, domain.ErrReentrantCall
	}
	Set(tx.Journal(), &g.entered, true)
	return func() { Set(tx.Journal(), &g.entered, false) }, nil
}
