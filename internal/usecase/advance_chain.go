package usecase

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/spacegov/spacegov/internal/domain"
)

// AdvanceChainParams moves the clock. Both may be set.
type AdvanceChainParams struct {
	Duration time.Duration
	Blocks   uint64
}

// ChainClock is the block and time after a command
type ChainClock struct {
	Block uint64 `json:"block"`
	Time  uint64 `json:"time"`
}

// AdvanceChain is the use case for letting time pass
type AdvanceChain struct {
	open *OpenSpace
}

// NewAdvanceChain creates a new AdvanceChain use case
func NewAdvanceChain(open *OpenSpace) *AdvanceChain {
	return &AdvanceChain{open: open}
}

// Run executes the advance chain use case
func (uc *AdvanceChain) Run(ctx context.Context, params AdvanceChainParams) (*ChainClock, error) {
	if params.Duration < 0 {
		return nil, fmt.Errorf("cannot go back in time")
	}
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Advance(ctx, uint64(params.Duration/time.Second), params.Blocks); err != nil {
		return nil, err
	}
	block, now := s.Now()
	return &ChainClock{Block: block, Time: now}, nil
}

// SubmitCallParams is a raw transaction
type SubmitCallParams struct {
	From  string
	To    string
	Value *big.Int
	Data  string
}

// SubmitCallResult describes a committed raw transaction
type SubmitCallResult struct {
	Block  uint64                `json:"block"`
	Return hexutil.Bytes         `json:"return"`
	Call   *domain.DecodedAction `json:"call"`
	Events []domain.ParsedEvent  `json:"-"`
	Logs   []string              `json:"events"`
}

// SubmitCall is the use case for sending arbitrary calldata to a space contract
type SubmitCall struct {
	open    *OpenSpace
	decoder ActionDecoder
}

// NewSubmitCall creates a new SubmitCall use case
func NewSubmitCall(open *OpenSpace, decoder ActionDecoder) *SubmitCall {
	return &SubmitCall{open: open, decoder: decoder}
}

// Run executes the submit call use case
func (uc *SubmitCall) Run(ctx context.Context, params SubmitCallParams) (*SubmitCallResult, error) {
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	from, err := s.Sender(params.From)
	if err != nil {
		return nil, err
	}
	to, err := s.resolveTarget(params.To)
	if err != nil {
		return nil, err
	}
	data := []byte{}
	if params.Data != "" {
		if data, err = hexutil.Decode(params.Data); err != nil {
			return nil, fmt.Errorf("invalid calldata: %w", err)
		}
	}

	note := "call"
	var decoded *domain.DecodedAction
	if uc.decoder != nil {
		decoded = uc.decoder.DecodeAction(domain.Action{To: to, Value: params.Value, Data: data}, s.AccountName(to))
		if decoded.Method != "" {
			note = decoded.Method
		}
	}

	receipt, err := s.Submit(ctx, from, to, params.Value, data, note)
	if err != nil {
		return nil, err
	}
	result := &SubmitCallResult{Block: receipt.Block, Return: receipt.Return, Call: decoded}
	for _, l := range receipt.Logs {
		result.Events = append(result.Events, l.Event)
		result.Logs = append(result.Logs, fmt.Sprintf("%s %s", s.AccountName(l.Address), l.Event.String()))
	}
	return result, nil
}
