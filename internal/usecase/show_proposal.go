package usecase

import (
	"context"
	"fmt"
)

// ShowProposalParams identifies a proposal or a member request
type ShowProposalParams struct {
	ID uint64
	// Request looks the id up among member requests
	Request bool
}

// ShowProposalResult holds exactly one of Proposal and Request
type ShowProposalResult struct {
	Proposal *ProposalView      `json:"proposal,omitempty"`
	Request  *MemberRequestView `json:"request,omitempty"`
	Time     uint64             `json:"time"`
}

// ShowProposal is the use case for showing one proposal with decoded actions
type ShowProposal struct {
	open    *OpenSpace
	decoder ActionDecoder
}

// NewShowProposal creates a new ShowProposal use case
func NewShowProposal(open *OpenSpace, decoder ActionDecoder) *ShowProposal {
	return &ShowProposal{open: open, decoder: decoder}
}

// Run executes the show proposal use case
func (uc *ShowProposal) Run(ctx context.Context, params ShowProposalParams) (*ShowProposalResult, error) {
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	_, now := s.Now()

	if params.Request {
		view, err := s.MemberRequestView(params.ID)
		if err != nil {
			return nil, fmt.Errorf("member request: %w", err)
		}
		return &ShowProposalResult{Request: view, Time: now}, nil
	}

	view, err := s.ProposalView(params.ID)
	if err != nil {
		return nil, err
	}
	decorate(s, view, uc.decoder)
	return &ShowProposalResult{Proposal: view, Time: now}, nil
}
