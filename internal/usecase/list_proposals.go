package usecase

import (
	"context"

	"github.com/samber/lo"
)

// ListProposalsParams filters the proposal listing
type ListProposalsParams struct {
	// Status keeps only proposals and requests in this state, empty keeps all
	Status string
	// OnlyRequests skips main proposals, OnlyProposals skips member requests
	OnlyRequests  bool
	OnlyProposals bool
}

// ListProposalsResult contains both kinds of proposals
type ListProposalsResult struct {
	Proposals []*ProposalView      `json:"proposals"`
	Requests  []*MemberRequestView `json:"requests"`
	Block     uint64               `json:"block"`
	Time      uint64               `json:"time"`
}

// ListProposals is the use case for listing main proposals and member requests
type ListProposals struct {
	open *OpenSpace
}

// NewListProposals creates a new ListProposals use case
func NewListProposals(open *OpenSpace) *ListProposals {
	return &ListProposals{open: open}
}

// Run executes the list proposals use case
func (uc *ListProposals) Run(ctx context.Context, params ListProposalsParams) (*ListProposalsResult, error) {
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}

	result := &ListProposalsResult{
		Proposals: []*ProposalView{},
		Requests:  []*MemberRequestView{},
	}
	result.Block, result.Time = s.Now()

	if !params.OnlyRequests {
		proposals, err := s.proposals()
		if err != nil {
			return nil, err
		}
		result.Proposals = lo.Filter(proposals, func(v *ProposalView, _ int) bool {
			return params.Status == "" || string(v.Status) == params.Status
		})
	}
	if !params.OnlyProposals {
		requests, err := s.memberRequests()
		if err != nil {
			return nil, err
		}
		result.Requests = lo.Filter(requests, func(v *MemberRequestView, _ int) bool {
			return params.Status == "" || string(v.Status) == params.Status
		})
	}
	return result, nil
}
