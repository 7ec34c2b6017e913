package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// MemberChangeRoute selects which engine decides a membership change
type MemberChangeRoute string

const (
	// RouteAuto lets editors vote on editor changes and removals and sends
	// join requests to member approval
	RouteAuto MemberChangeRoute = ""
	// RouteVote opens a majority voting proposal
	RouteVote MemberChangeRoute = "vote"
	// RouteApproval opens a member approval proposal directly
	RouteApproval MemberChangeRoute = "approval"
)

// ProposeMemberChangeParams contains parameters for proposing a membership change
type ProposeMemberChangeParams struct {
	From     string
	Kind     domain.MemberChangeKind
	Target   string
	Metadata string
	Route    MemberChangeRoute
}

// MemberChangeResult reports where the change was proposed. Exactly one of
// Proposal and Request is set.
type MemberChangeResult struct {
	Route    MemberChangeRoute  `json:"route"`
	Proposal *ProposalView      `json:"proposal,omitempty"`
	Request  *MemberRequestView `json:"request,omitempty"`
}

// ProposeMemberChange is the use case for adding or removing members and editors
type ProposeMemberChange struct {
	open *OpenSpace
	sink ProgressSink
}

// NewProposeMemberChange creates a new ProposeMemberChange use case
func NewProposeMemberChange(open *OpenSpace, sink ProgressSink) *ProposeMemberChange {
	return &ProposeMemberChange{open: open, sink: sink}
}

// Run executes the propose member change use case
func (uc *ProposeMemberChange) Run(ctx context.Context, params ProposeMemberChangeParams) (*MemberChangeResult, error) {
	if !params.Kind.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidMemberChange, params.Kind)
	}
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	from, err := s.Sender(params.From)
	if err != nil {
		return nil, err
	}
	target, err := s.ResolveAccount(params.Target)
	if err != nil {
		return nil, err
	}

	route := params.Route
	if route == RouteAuto {
		route = RouteVote
		if params.Kind == domain.MemberChangeAddMember {
			route = RouteApproval
		}
	}
	metadata := []byte(params.Metadata)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "propose",
		Message: fmt.Sprintf("Proposing %s %s", params.Kind, params.Target),
		Spinner: true,
	})

	switch route {
	case RouteApproval:
		out, err := s.Call(ctx, from, s.space.MemberAccessAddress, bindings.MemberAccess(), "proposeMemberChange",
			metadata, target, uint8(params.Kind))
		if err != nil {
			return nil, err
		}
		view, err := s.MemberRequestView(out[0].(*big.Int).Uint64())
		if err != nil {
			return nil, err
		}
		return &MemberChangeResult{Route: route, Request: view}, nil

	case RouteVote:
		method := map[domain.MemberChangeKind]string{
			domain.MemberChangeAddMember:    "proposeAddMember",
			domain.MemberChangeRemoveMember: "proposeRemoveMember",
			domain.MemberChangeAddEditor:    "proposeAddEditor",
			domain.MemberChangeRemoveEditor: "proposeRemoveEditor",
		}[params.Kind]
		out, err := s.Call(ctx, from, s.space.MainVotingAddress, bindings.MainVoting(), method, metadata, target)
		if err != nil {
			return nil, err
		}
		id := out[0].(*big.Int).Uint64()

		// the main voting plugin hands join requests to member approval
		if params.Kind == domain.MemberChangeAddMember {
			view, err := s.MemberRequestView(id)
			if err != nil {
				return nil, err
			}
			return &MemberChangeResult{Route: RouteApproval, Request: view}, nil
		}
		view, err := s.ProposalView(id)
		if err != nil {
			return nil, err
		}
		return &MemberChangeResult{Route: route, Proposal: view}, nil

	default:
		return nil, fmt.Errorf("unknown route %q", route)
	}
}
