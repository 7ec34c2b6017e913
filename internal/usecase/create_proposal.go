package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// CreateProposalParams contains parameters for creating a majority voting proposal
type CreateProposalParams struct {
	From     string
	Metadata string

	// Actions in "to:value:0xdata" form
	Actions []string
	// VotingSettings adds an action updating the voting settings
	VotingSettings map[string]string
	// DAOMetadata adds an action replacing the DAO metadata
	DAOMetadata string
	// AllowFailure lists action indexes that may fail without reverting
	AllowFailure []uint

	// zero means now and now+duration
	StartDate uint64
	EndDate   uint64

	Vote     domain.VoteOption
	TryEarly bool
}

// ProposalResult is returned by every use case acting on a main proposal
type ProposalResult struct {
	Proposal *ProposalView
	Block    uint64
}

// CreateProposal is the use case for opening a majority voting proposal
type CreateProposal struct {
	open    *OpenSpace
	decoder ActionDecoder
	sink    ProgressSink
}

// NewCreateProposal creates a new CreateProposal use case
func NewCreateProposal(open *OpenSpace, decoder ActionDecoder, sink ProgressSink) *CreateProposal {
	return &CreateProposal{open: open, decoder: decoder, sink: sink}
}

// Run executes the create proposal use case
func (uc *CreateProposal) Run(ctx context.Context, params CreateProposalParams) (*ProposalResult, error) {
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	from, err := s.Sender(params.From)
	if err != nil {
		return nil, err
	}

	actions, err := BuildActions(s, params.Actions, params.VotingSettings, params.DAOMetadata)
	if err != nil {
		return nil, err
	}
	allowFailureMap := new(big.Int)
	for _, i := range params.AllowFailure {
		if int(i) >= len(actions) {
			return nil, fmt.Errorf("allow-failure index %d out of range (%d actions)", i, len(actions))
		}
		allowFailureMap.SetBit(allowFailureMap, int(i), 1)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "propose", Message: "Creating proposal", Spinner: true})
	out, err := s.Call(ctx, from, s.space.MainVotingAddress, bindings.MainVoting(), "createProposal",
		[]byte(params.Metadata),
		bindings.FromDomainActions(actions),
		allowFailureMap,
		params.StartDate,
		params.EndDate,
		uint8(params.Vote),
		params.TryEarly,
	)
	if err != nil {
		return nil, err
	}
	return proposalResult(s, uc.decoder, out[0].(*big.Int).Uint64())
}

// BuildActions assembles the action list of a proposal
func BuildActions(s *Session, specs []string, settings map[string]string, daoMetadata string) ([]domain.Action, error) {
	actions := make([]domain.Action, 0, len(specs)+2)
	for _, spec := range specs {
		action, err := ParseAction(s, spec)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	if len(settings) > 0 {
		action, err := SettingsAction(s, settings)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	if daoMetadata != "" {
		action, err := MetadataAction(s, daoMetadata)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func proposalResult(s *Session, decoder ActionDecoder, id uint64) (*ProposalResult, error) {
	view, err := s.ProposalView(id)
	if err != nil {
		return nil, err
	}
	decorate(s, view, decoder)
	block, _ := s.Now()
	return &ProposalResult{Proposal: view, Block: block}, nil
}

func decorate(s *Session, view *ProposalView, decoder ActionDecoder) {
	if decoder == nil {
		return
	}
	view.Decoded = make([]*domain.DecodedAction, len(view.Actions))
	for i, a := range view.Actions {
		view.Decoded[i] = decoder.DecodeAction(a, s.AccountName(a.To))
	}
}
