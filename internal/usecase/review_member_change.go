package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// ReviewDecision is what an editor does with a member request
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
	DecisionExecute ReviewDecision = "execute"
)

// ReviewMemberChangeParams contains parameters for reviewing member requests
type ReviewMemberChangeParams struct {
	From     string
	Decision ReviewDecision
	// empty asks the selector, which may return several requests
	RequestIDs []uint64
}

// ReviewMemberChangeResult lists the requests after the review
type ReviewMemberChangeResult struct {
	Requests []*MemberRequestView
}

// ReviewMemberChange is the use case for approving, rejecting or executing member requests
type ReviewMemberChange struct {
	open     *OpenSpace
	selector ProposalSelector
	sink     ProgressSink
}

// NewReviewMemberChange creates a new ReviewMemberChange use case
func NewReviewMemberChange(open *OpenSpace, selector ProposalSelector, sink ProgressSink) *ReviewMemberChange {
	return &ReviewMemberChange{open: open, selector: selector, sink: sink}
}

// Run executes the review member change use case
func (uc *ReviewMemberChange) Run(ctx context.Context, params ReviewMemberChangeParams) (*ReviewMemberChangeResult, error) {
	switch params.Decision {
	case DecisionApprove, DecisionReject, DecisionExecute:
	default:
		return nil, fmt.Errorf("unknown decision %q", params.Decision)
	}

	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	from, err := s.Sender(params.From)
	if err != nil {
		return nil, err
	}

	ids := params.RequestIDs
	if len(ids) == 0 {
		if ids, err = uc.selectRequests(ctx, s, params.Decision, from); err != nil {
			return nil, err
		}
	}

	result := &ReviewMemberChangeResult{}
	for i, id := range ids {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   string(params.Decision),
			Current: i + 1,
			Total:   len(ids),
			Message: fmt.Sprintf("%s request %d", params.Decision, id),
			Spinner: true,
		})
		if _, err := s.Call(ctx, from, s.space.MemberAccessAddress, bindings.MemberAccess(), string(params.Decision),
			new(big.Int).SetUint64(id)); err != nil {
			return result, fmt.Errorf("request %d: %w", id, err)
		}
		view, err := s.MemberRequestView(id)
		if err != nil {
			return result, err
		}
		result.Requests = append(result.Requests, view)
	}
	return result, nil
}

func (uc *ReviewMemberChange) selectRequests(ctx context.Context, s *Session, decision ReviewDecision, from common.Address) ([]uint64, error) {
	views, err := s.memberRequests()
	if err != nil {
		return nil, err
	}

	var choices []ProposalChoice
	for _, v := range views {
		ok := v.CanExecute
		if decision != DecisionExecute {
			ok = s.canApprove(v.ID, from)
		}
		if ok {
			choices = append(choices, requestChoice(v))
		}
	}

	if decision != DecisionApprove {
		id, err := pickProposal(ctx, uc.selector, nil, fmt.Sprintf("Select request to %s", decision), choices)
		if err != nil {
			return nil, err
		}
		return []uint64{id}, nil
	}

	if len(choices) == 0 {
		return nil, domain.ErrNoOpenProposals
	}
	if uc.selector == nil {
		return nil, domain.ErrInteractiveNeeded
	}
	selected, err := uc.selector.SelectProposals(ctx, "Select requests to approve", choices)
	if err != nil {
		return nil, err
	}
	return lo.Map(selected, func(c ProposalChoice, _ int) uint64 { return c.ID }), nil
}

// canApprove asks the plugin through a static call so the check sees chain state
func (s *Session) canApprove(id uint64, account common.Address) bool {
	contract := bindings.MemberAccess()
	data, err := contract.Pack("canApprove", new(big.Int).SetUint64(id), account)
	if err != nil {
		return false
	}
	ret, err := s.rt.StaticCall(account, s.space.MemberAccessAddress, data)
	if err != nil {
		return false
	}
	return bindings.UnpackBool(contract, "canApprove", ret)
}
