// Package addresslist keeps an ordered set of addresses together with a
// per-block history, so membership and list length can be read as of any
// past block.
package addresslist

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
)

type checkpoint[T any] struct {
	block uint64
	value T
}

// history is an append-only log of values keyed by block. A write in the
// block of the latest checkpoint replaces it, so reads see end-of-block state.
type history[T any] struct {
	points []checkpoint[T]
}

func (h *history[T]) at(block uint64) (T, bool) {
	// first checkpoint strictly after block, the one before it is in force
	i := sort.Search(len(h.points), func(i int) bool { return h.points[i].block > block })
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.points[i-1].value, true
}

func (h *history[T]) latest() (T, bool) {
	if len(h.points) == 0 {
		var zero T
		return zero, false
	}
	return h.points[len(h.points)-1].value, true
}

func (h *history[T]) push(j *chain.Journal, block uint64, v T) {
	n := len(h.points)
	if n > 0 && h.points[n-1].block == block {
		// copy on write: the journal restores the old slice header
		points := make([]checkpoint[T], n)
		copy(points, h.points)
		points[n-1].value = v
		chain.Set(j, &h.points, points)
		return
	}
	chain.Append(j, &h.points, checkpoint[T]{block: block, value: v})
}

// List is an address set with snapshot reads
type List struct {
	listed     map[common.Address]*history[bool]
	length     history[uint64]
	members    []common.Address
	lastChange uint64
}

// New creates an empty list
func New() *List {
	return &List{
		listed: make(map[common.Address]*history[bool]),
	}
}

// Add lists addrs at block. Duplicates (in the list or in addrs) are rejected.
func (l *List) Add(j *chain.Journal, block uint64, addrs ...common.Address) error {
	if len(addrs) == 0 {
		return nil
	}
	for _, addr := range addrs {
		if addr == (common.Address{}) {
			return fmt.Errorf("%w: zero address", domain.ErrInvalidAddress)
		}
		if l.IsListed(addr) {
			return domain.InvalidListUpdateErr{Address: addr}
		}
		l.set(j, block, addr, true)
		chain.Append(j, &l.members, addr)
	}
	l.touch(j, block)
	return nil
}

// Remove unlists addrs at block. Removing an absent address is rejected, as
// is any removal that would leave the list empty.
func (l *List) Remove(j *chain.Journal, block uint64, addrs ...common.Address) error {
	if len(addrs) == 0 {
		return nil
	}
	for _, addr := range addrs {
		if !l.IsListed(addr) {
			return domain.InvalidListUpdateErr{Address: addr}
		}
		if l.Length() == 1 {
			return domain.ErrNoEditorsLeft
		}
		l.set(j, block, addr, false)

		members := make([]common.Address, 0, len(l.members)-1)
		for _, m := range l.members {
			if m != addr {
				members = append(members, m)
			}
		}
		chain.Set(j, &l.members, members)
	}
	l.touch(j, block)
	return nil
}

func (l *List) set(j *chain.Journal, block uint64, addr common.Address, listed bool) {
	h, ok := l.listed[addr]
	if !ok {
		h = &history[bool]{}
		chain.MapSet(j, l.listed, addr, h)
	}
	h.push(j, block, listed)

	n := l.Length()
	if listed {
		n++
	} else {
		n--
	}
	l.length.push(j, block, n)
}

func (l *List) touch(j *chain.Journal, block uint64) {
	chain.Set(j, &l.lastChange, block)
}

// IsListed reports whether addr is currently listed
func (l *List) IsListed(addr common.Address) bool {
	h, ok := l.listed[addr]
	if !ok {
		return false
	}
	v, _ := h.latest()
	return v
}

// IsListedAt reports whether addr was listed at the end of block
func (l *List) IsListedAt(addr common.Address, block uint64) bool {
	h, ok := l.listed[addr]
	if !ok {
		return false
	}
	v, _ := h.at(block)
	return v
}

// Length returns the current number of listed addresses
func (l *List) Length() uint64 {
	n, _ := l.length.latest()
	return n
}

// LengthAt returns the number of listed addresses at the end of block.
// With one unit of voting power per address this is the total voting power.
func (l *List) LengthAt(block uint64) uint64 {
	n, _ := l.length.at(block)
	return n
}

// Addresses returns the listed addresses in insertion order
func (l *List) Addresses() []common.Address {
	out := make([]common.Address, len(l.members))
	copy(out, l.members)
	return out
}

// LastChangeBlock is the block of the most recent successful mutation
func (l *List) LastChangeBlock() uint64 {
	return l.lastChange
}
