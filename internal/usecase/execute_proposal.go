package usecase

import (
	"context"
	"math/big"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// ProposalActionParams identify a proposal and the account acting on it
type ProposalActionParams struct {
	From string
	// nil asks the selector
	ProposalID *uint64
}

// ExecuteProposal is the use case for executing a passed majority voting proposal
type ExecuteProposal struct {
	open     *OpenSpace
	selector ProposalSelector
	decoder  ActionDecoder
	sink     ProgressSink
}

// NewExecuteProposal creates a new ExecuteProposal use case
func NewExecuteProposal(open *OpenSpace, selector ProposalSelector, decoder ActionDecoder, sink ProgressSink) *ExecuteProposal {
	return &ExecuteProposal{open: open, selector: selector, decoder: decoder, sink: sink}
}

// Run executes the execute proposal use case
func (uc *ExecuteProposal) Run(ctx context.Context, params ProposalActionParams) (*ProposalResult, error) {
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	from, err := s.Sender(params.From)
	if err != nil {
		return nil, err
	}

	var choices []ProposalChoice
	if params.ProposalID == nil {
		views, err := s.proposals()
		if err != nil {
			return nil, err
		}
		for _, v := range views {
			if v.CanExecute {
				choices = append(choices, proposalChoice(v))
			}
		}
	}
	id, err := pickProposal(ctx, uc.selector, params.ProposalID, "Select proposal to execute", choices)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "execute", Message: "Executing proposal", Spinner: true})
	if _, err := s.Call(ctx, from, s.space.MainVotingAddress, bindings.MainVoting(), "execute",
		new(big.Int).SetUint64(id)); err != nil {
		return nil, err
	}
	return proposalResult(s, uc.decoder, id)
}

// CancelProposal is the use case for withdrawing an open proposal
type CancelProposal struct {
	open     *OpenSpace
	selector ProposalSelector
	sink     ProgressSink
}

// NewCancelProposal creates a new CancelProposal use case
func NewCancelProposal(open *OpenSpace, selector ProposalSelector, sink ProgressSink) *CancelProposal {
	return &CancelProposal{open: open, selector: selector, sink: sink}
}

// Run executes the cancel proposal use case
func (uc *CancelProposal) Run(ctx context.Context, params ProposalActionParams) (*ProposalResult, error) {
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	from, err := s.Sender(params.From)
	if err != nil {
		return nil, err
	}

	var choices []ProposalChoice
	if params.ProposalID == nil {
		views, err := s.proposals()
		if err != nil {
			return nil, err
		}
		name := s.AccountName(from)
		for _, v := range views {
			if v.Creator == name && v.Status == domain.ProposalStatusOpen {
				choices = append(choices, proposalChoice(v))
			}
		}
	}
	id, err := pickProposal(ctx, uc.selector, params.ProposalID, "Select proposal to cancel", choices)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "cancel", Message: "Canceling proposal", Spinner: true})
	if _, err := s.Call(ctx, from, s.space.MainVotingAddress, bindings.MainVoting(), "cancelProposal",
		new(big.Int).SetUint64(id)); err != nil {
		return nil, err
	}
	return proposalResult(s, nil, id)
}
