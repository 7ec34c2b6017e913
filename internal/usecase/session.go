package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/space"
)

// Session is an installed space with its recorded history replayed on top.
// Every successful transaction is appended to the log and mined in its own block.
type Session struct {
	rt      *chain.Runtime
	space   *space.Space
	genesis *config.SpaceConfig
	txlog   *domain.TxLog
	store   TxLogStore
	sender  string
	log     *slog.Logger
}

// NewSession wraps an installed space. A nil store keeps history in memory only.
func NewSession(rt *chain.Runtime, s *space.Space, genesis *config.SpaceConfig, txlog *domain.TxLog, store TxLogStore, sender string, log *slog.Logger) *Session {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Session{
		rt:      rt,
		space:   s,
		genesis: genesis,
		txlog:   txlog,
		store:   store,
		sender:  sender,
		log:     log,
	}
}

func (s *Session) Runtime() *chain.Runtime      { return s.rt }
func (s *Session) Space() *space.Space          { return s.space }
func (s *Session) Genesis() *config.SpaceConfig { return s.genesis }
func (s *Session) History() []domain.TxRecord   { return s.txlog.Txs }

// Now returns the current block and time
func (s *Session) Now() (uint64, uint64) {
	return s.rt.BlockNumber(), s.rt.Timestamp()
}

// ResolveAccount resolves an alias or a hex address
func (s *Session) ResolveAccount(name string) (common.Address, error) {
	return s.genesis.ResolveAccount(name)
}

// Sender resolves the sending account, falling back to the configured default
func (s *Session) Sender(name string) (common.Address, error) {
	if name == "" {
		name = s.sender
	}
	if name == "" {
		return common.Address{}, domain.ErrNoSender
	}
	return s.ResolveAccount(name)
}

// AccountName returns the alias of addr, or its role in the space, or its hex form
func (s *Session) AccountName(addr common.Address) string {
	for role, a := range s.space.Addresses() {
		if a == addr {
			return role
		}
	}
	return s.genesis.AccountName(addr)
}

// Submit sends one transaction, records it and mines its block. A reverted
// transaction leaves no trace.
func (s *Session) Submit(ctx context.Context, from, to common.Address, value *big.Int, data []byte, note string) (*chain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	receipt, err := s.rt.Send(from, to, value, data)
	if err != nil {
		return nil, err
	}

	record := domain.TxRecord{
		Block: receipt.Block,
		Time:  receipt.Time,
		From:  from,
		To:    to,
		Data:  common.CopyBytes(data),
		Note:  note,
	}
	if value != nil && value.Sign() > 0 {
		record.Value = (*hexutil.Big)(new(big.Int).Set(value))
	}
	s.txlog.Txs = append(s.txlog.Txs, record)
	s.rt.Mine(1)

	s.log.Debug("transaction recorded", "note", note, "from", from, "to", to, "block", receipt.Block)
	return receipt, s.persist(ctx)
}

// Call packs method for contract, submits it and unpacks the outputs
func (s *Session) Call(ctx context.Context, from, to common.Address, contract *bindings.Contract, method string, args ...any) ([]any, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	receipt, err := s.Submit(ctx, from, to, nil, data, method)
	if err != nil {
		return nil, err
	}
	return contract.UnpackOutputs(method, receipt.Return)
}

// Advance moves the clock forward. Time advances mine one block; blocks
// advance time by the block time each.
func (s *Session) Advance(ctx context.Context, seconds, blocks uint64) error {
	if seconds > 0 {
		s.rt.AdvanceTime(seconds)
	}
	if blocks > 0 {
		s.rt.Mine(blocks)
	}
	return s.persist(ctx)
}

func (s *Session) persist(ctx context.Context) error {
	s.txlog.Block, s.txlog.Time = s.Now()
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.txlog); err != nil {
		return fmt.Errorf("failed to save transaction log: %w", err)
	}
	return nil
}

// replay re-sends recorded transactions at their original block and time,
// then restores the recorded clock
func (s *Session) replay(ctx context.Context, sink ProgressSink) error {
	total := len(s.txlog.Txs)
	for i, rec := range s.txlog.Txs {
		if err := ctx.Err(); err != nil {
			return err
		}
		sink.OnProgress(ctx, ProgressEvent{
			Stage:   "replay",
			Current: i + 1,
			Total:   total,
			Message: fmt.Sprintf("Replaying transaction %d/%d", i+1, total),
			Spinner: true,
		})
		if err := s.rt.Warp(rec.Block, rec.Time); err != nil {
			return fmt.Errorf("replay transaction %d: %w", i, err)
		}
		if _, err := s.rt.Send(rec.From, rec.To, rec.Value.ToInt(), rec.Data); err != nil {
			return fmt.Errorf("replay transaction %d (%s): %w", i, rec.Note, err)
		}
	}
	block, time := s.txlog.Block, s.txlog.Time
	cur, now := s.Now()
	if block < cur || time < now {
		block, time = cur, now
	}
	return s.rt.Warp(block, time)
}
