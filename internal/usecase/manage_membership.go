package usecase

import (
	"context"

	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// LeaveSpaceParams contains parameters for leaving a space
type LeaveSpaceParams struct {
	From string
	// EditorOnly gives up editorship but keeps membership
	EditorOnly bool
}

// LeaveSpaceResult reports the sender's roles after leaving
type LeaveSpaceResult struct {
	Account  string `json:"account"`
	IsEditor bool   `json:"isEditor"`
	IsMember bool   `json:"isMember"`
}

// LeaveSpace is the use case for members and editors removing themselves
type LeaveSpace struct {
	open *OpenSpace
	sink ProgressSink
}

// NewLeaveSpace creates a new LeaveSpace use case
func NewLeaveSpace(open *OpenSpace, sink ProgressSink) *LeaveSpace {
	return &LeaveSpace{open: open, sink: sink}
}

// Run executes the leave space use case
func (uc *LeaveSpace) Run(ctx context.Context, params LeaveSpaceParams) (*LeaveSpaceResult, error) {
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}
	from, err := s.Sender(params.From)
	if err != nil {
		return nil, err
	}

	method := "leaveSpace"
	if params.EditorOnly {
		method = "leaveSpaceAsEditor"
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "leave", Message: "Leaving space", Spinner: true})
	if _, err := s.Call(ctx, from, s.space.MainVotingAddress, bindings.MainVoting(), method); err != nil {
		return nil, err
	}

	result := &LeaveSpaceResult{Account: s.AccountName(from)}
	s.rt.View(func() {
		result.IsEditor = s.space.MainVoting.IsEditor(from)
		result.IsMember = s.space.MainVoting.IsMember(from)
	})
	return result, nil
}
