package usecase

import (
	"context"
	"math/big"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// CastVoteParams contains parameters for voting on a proposal
type CastVoteParams struct {
	From string
	// nil asks the selector among proposals the sender may vote on
	ProposalID *uint64
	Option     domain.VoteOption
	TryEarly   bool
}

// CastVote is the use case for voting on a majority voting proposal
type CastVote struct {
	open     *OpenSpace
	selector ProposalSelector
	decoder  ActionDecoder
	sink     ProgressSink
}

// NewCastVote creates a new CastVote use case
func NewCastVote(open *OpenSpace, selector ProposalSelector, decoder ActionDecoder, sink ProgressSink) *CastVote {
	return &CastVote{open: open, selector: selector, decoder: decoder, sink: sink}
}

// Run executes the cast vote use case
func (uc *CastVote) Run(ctx context.Context, params CastVoteParams) (*ProposalResult, error) {
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
		_, now := s.Now()
		for _, v := range views {
			if s.space.MainVoting.CanVote(v.ID, from, params.Option, now) {
				choices = append(choices, proposalChoice(v))
			}
		}
	}
	id, err := pickProposal(ctx, uc.selector, params.ProposalID, "Select proposal to vote on", choices)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "vote", Message: "Casting vote", Spinner: true})
	if _, err := s.Call(ctx, from, s.space.MainVotingAddress, bindings.MainVoting(), "vote",
		new(big.Int).SetUint64(id), uint8(params.Option), params.TryEarly); err != nil {
		return nil, err
	}
	return proposalResult(s, uc.decoder, id)
}
