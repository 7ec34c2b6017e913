package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/domain"
)

// ProposalView is a majority voting proposal as shown to users
type ProposalView struct {
	ID                   uint64                    `json:"id"`
	Creator              string                    `json:"creator"`
	Metadata             string                    `json:"metadata"`
	Status               domain.ProposalStatus     `json:"status"`
	Parameters           domain.ProposalParameters `json:"parameters"`
	Tally                domain.Tally              `json:"tally"`
	TotalVotingPower     uint64                    `json:"totalVotingPower"`
	Votes                map[string]string         `json:"votes"`
	Actions              []domain.Action           `json:"actions"`
	Decoded              []*domain.DecodedAction   `json:"decoded,omitempty"`
	SupportReached       bool                      `json:"supportReached"`
	SupportReachedEarly  bool                      `json:"supportReachedEarly"`
	ParticipationReached bool                      `json:"participationReached"`
	CanExecute           bool                      `json:"canExecute"`
}

// MemberRequestView is a member approval proposal as shown to users
type MemberRequestView struct {
	ID         uint64                          `json:"id"`
	Kind       domain.MemberChangeKind         `json:"-"`
	KindName   string                          `json:"kind"`
	Target     string                          `json:"target"`
	Creator    string                          `json:"creator"`
	Metadata   string                          `json:"metadata"`
	Status     domain.MemberProposalStatus     `json:"status"`
	Parameters domain.MemberProposalParameters `json:"parameters"`
	Approvals  uint16                          `json:"approvals"`
	Approvers  []string                        `json:"approvers"`
	RejectedBy string                          `json:"rejectedBy,omitempty"`
	CanExecute bool                            `json:"canExecute"`
}

// ProposalView reads a majority voting proposal
func (s *Session) ProposalView(id uint64) (*ProposalView, error) {
	var (
		view *ProposalView
		err  error
	)
	now := s.rt.Timestamp()
	s.rt.View(func() {
		view, err = s.proposalView(id, now)
	})
	return view, err
}

// proposalView must run inside rt.View
func (s *Session) proposalView(id, now uint64) (*ProposalView, error) {
	mv := s.space.MainVoting
	p, err := mv.GetProposal(id)
	if err != nil {
		return nil, err
	}
	status, err := mv.Status(id, now)
	if err != nil {
		return nil, err
	}

	votes := make(map[string]string, len(p.Voters))
	for voter, option := range p.Voters {
		votes[s.AccountName(voter)] = option.String()
	}
	return &ProposalView{
		ID:                   p.ID,
		Creator:              s.AccountName(p.Creator),
		Metadata:             string(p.Metadata),
		Status:               status,
		Parameters:           p.Parameters,
		Tally:                p.Tally,
		TotalVotingPower:     mv.TotalVotingPower(p.Parameters.SnapshotBlock),
		Votes:                votes,
		Actions:              p.Actions,
		SupportReached:       mv.IsSupportThresholdReached(id),
		SupportReachedEarly:  mv.IsSupportThresholdReachedEarly(id),
		ParticipationReached: mv.IsMinParticipationReached(id),
		CanExecute:           mv.CanExecute(id, now),
	}, nil
}

// MemberRequestView reads a member approval proposal
func (s *Session) MemberRequestView(id uint64) (*MemberRequestView, error) {
	var (
		view *MemberRequestView
		err  error
	)
	now := s.rt.Timestamp()
	s.rt.View(func() {
		view, err = s.memberRequestView(id, now)
	})
	return view, err
}

func (s *Session) memberRequestView(id, now uint64) (*MemberRequestView, error) {
	ma := s.space.MemberAccess
	p, err := ma.GetProposal(id)
	if err != nil {
		return nil, err
	}
	status, err := ma.Status(id, now)
	if err != nil {
		return nil, err
	}

	view := &MemberRequestView{
		ID:         p.ID,
		Kind:       p.Kind,
		KindName:   p.Kind.String(),
		Target:     s.AccountName(p.Target),
		Creator:    s.AccountName(p.Creator),
		Metadata:   string(p.Metadata),
		Status:     status,
		Parameters: p.Parameters,
		Approvals:  p.Approvals,
		Approvers:  s.accountNames(p.Approvers),
		CanExecute: ma.CanExecute(id, now),
	}
	if p.Rejected {
		view.RejectedBy = s.AccountName(p.RejectedBy)
	}
	return view, nil
}

func (s *Session) accountNames(set map[common.Address]bool) []string {
	out := make([]string, 0, len(set))
	for addr, ok := range set {
		if ok {
			out = append(out, s.AccountName(addr))
		}
	}
	sort.Strings(out)
	return out
}

// proposals returns every majority voting proposal, oldest first
func (s *Session) proposals() ([]*ProposalView, error) {
	var out []*ProposalView
	var err error
	now := s.rt.Timestamp()
	s.rt.View(func() {
		n := s.space.MainVoting.ProposalCount()
		out = make([]*ProposalView, 0, n)
		for id := uint64(0); id < n; id++ {
			var v *ProposalView
			if v, err = s.proposalView(id, now); err != nil {
				return
			}
			out = append(out, v)
		}
	})
	return out, err
}

// memberRequests returns every member approval proposal, oldest first
func (s *Session) memberRequests() ([]*MemberRequestView, error) {
	var out []*MemberRequestView
	var err error
	now := s.rt.Timestamp()
	s.rt.View(func() {
		n := s.space.MemberAccess.ProposalCount()
		out = make([]*MemberRequestView, 0, n)
		for id := uint64(0); id < n; id++ {
			var v *MemberRequestView
			if v, err = s.memberRequestView(id, now); err != nil {
				return
			}
			out = append(out, v)
		}
	})
	return out, err
}

// pickProposal resolves an optional id, asking the selector when it is missing
func pickProposal(ctx context.Context, selector ProposalSelector, id *uint64, prompt string, choices []ProposalChoice) (uint64, error) {
	if id != nil {
		return *id, nil
	}
	if len(choices) == 0 {
		return 0, domain.ErrNoOpenProposals
	}
	if selector == nil {
		return 0, domain.ErrInteractiveNeeded
	}
	choice, err := selector.SelectProposal(ctx, prompt, choices)
	if err != nil {
		return 0, err
	}
	return choice.ID, nil
}

func proposalChoice(v *ProposalView) ProposalChoice {
	label := v.Metadata
	if label == "" {
		label = fmt.Sprintf("%d action(s) by %s", len(v.Actions), v.Creator)
	}
	return ProposalChoice{ID: v.ID, Label: label, Status: string(v.Status)}
}

func requestChoice(v *MemberRequestView) ProposalChoice {
	return ProposalChoice{
		ID:     v.ID,
		Label:  fmt.Sprintf("%s %s (by %s, %d/%d)", v.KindName, v.Target, v.Creator, v.Approvals, v.Parameters.MinApprovals),
		Status: string(v.Status),
	}
}
