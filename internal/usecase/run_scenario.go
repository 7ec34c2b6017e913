package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
)

// RunScenarioParams names the scenario file
type RunScenarioParams struct {
	Path string
	// KeepGoing runs the remaining steps after an unexpected failure
	KeepGoing bool
}

// StepResult is the outcome of one scenario step
type StepResult struct {
	Index  int    `json:"index"`
	Do     string `json:"do"`
	From   string `json:"from,omitempty"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ScenarioResult lists the outcome of every step that ran
type ScenarioResult struct {
	Name   string       `json:"name"`
	Steps  []StepResult `json:"steps"`
	Failed int          `json:"failed"`
}

// Scenario steps
const (
	StepPropose        = "propose"
	StepVote           = "vote"
	StepExecute        = "execute"
	StepCancel         = "cancel"
	StepProposeMember  = "propose-member"
	StepRequest        = "request"
	StepApprove        = "approve"
	StepReject         = "reject"
	StepExecuteRequest = "execute-request"
	StepLeave          = "leave"
	StepLeaveEditor    = "leave-editor"
	StepAdvance        = "advance"
	StepCall           = "call"
)

// RunScenario is the use case for replaying a scripted governance session.
// Every step goes through the same use cases as the matching command.
type RunScenario struct {
	loader  ScenarioLoader
	open    *OpenSpace
	propose *CreateProposal
	vote    *CastVote
	execute *ExecuteProposal
	cancel  *CancelProposal
	member  *ProposeMemberChange
	review  *ReviewMemberChange
	leave   *LeaveSpace
	advance *AdvanceChain
	call    *SubmitCall
	sink    ProgressSink
}

// NewRunScenario creates a new RunScenario use case
func NewRunScenario(
	loader ScenarioLoader,
	open *OpenSpace,
	propose *CreateProposal,
	vote *CastVote,
	execute *ExecuteProposal,
	cancel *CancelProposal,
	member *ProposeMemberChange,
	review *ReviewMemberChange,
	leave *LeaveSpace,
	advance *AdvanceChain,
	call *SubmitCall,
	sink ProgressSink,
) *RunScenario {
	return &RunScenario{
		loader:  loader,
		open:    open,
		propose: propose,
		vote:    vote,
		execute: execute,
		cancel:  cancel,
		member:  member,
		review:  review,
		leave:   leave,
		advance: advance,
		call:    call,
		sink:    sink,
	}
}

// Run executes the run scenario use case
func (uc *RunScenario) Run(ctx context.Context, params RunScenarioParams) (*ScenarioResult, error) {
	scenario, err := uc.loader.LoadScenario(ctx, params.Path)
	if err != nil {
		return nil, err
	}
	if _, err := uc.open.Run(ctx); err != nil {
		return nil, err
	}

	result := &ScenarioResult{Name: scenario.Name}
	for i, step := range scenario.Steps {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "scenario",
			Current: i + 1,
			Total:   len(scenario.Steps),
			Message: fmt.Sprintf("Step %d: %s", i+1, step.Do),
		})

		detail, err := uc.runStep(ctx, step)
		res := StepResult{Index: i + 1, Do: step.Do, From: step.From, Detail: detail}
		switch {
		case step.ExpectError != "" && err == nil:
			err = domain.ErrExpectedFailure
		case step.ExpectError != "" && !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(step.ExpectError)):
			err = fmt.Errorf("expected error containing %q, got: %w", step.ExpectError, err)
		case step.ExpectError != "":
			res.Detail = "failed as expected: " + err.Error()
			err = nil
		}

		if err != nil {
			res.Error = err.Error()
			result.Failed++
			result.Steps = append(result.Steps, res)
			if !params.KeepGoing {
				return result, fmt.Errorf("step %d (%s): %w", i+1, step.Do, err)
			}
			continue
		}
		res.OK = true
		result.Steps = append(result.Steps, res)
	}
	if result.Failed > 0 {
		return result, fmt.Errorf("%d of %d steps failed", result.Failed, len(scenario.Steps))
	}
	return result, nil
}

func (uc *RunScenario) runStep(ctx context.Context, step domain.ScenarioStep) (string, error) {
	switch step.Do {
	case StepPropose:
		vote, err := domain.ParseVoteOption(step.Option)
		if err != nil {
			return "", err
		}
		res, err := uc.propose.Run(ctx, CreateProposalParams{
			From:           step.From,
			Metadata:       step.Metadata,
			Actions:        step.Actions,
			VotingSettings: step.Settings,
			Vote:           vote,
			TryEarly:       step.TryEarly,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("proposal %d %s", res.Proposal.ID, res.Proposal.Status), nil

	case StepVote:
		if step.Proposal == nil {
			return "", errProposalRequired
		}
		option, err := domain.ParseVoteOption(step.Option)
		if err != nil {
			return "", err
		}
		res, err := uc.vote.Run(ctx, CastVoteParams{
			From:       step.From,
			ProposalID: step.Proposal,
			Option:     option,
			TryEarly:   step.TryEarly,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("proposal %d %s, tally %d/%d/%d", res.Proposal.ID, res.Proposal.Status,
			res.Proposal.Tally.Yes, res.Proposal.Tally.No, res.Proposal.Tally.Abstain), nil

	case StepExecute, StepCancel:
		if step.Proposal == nil {
			return "", errProposalRequired
		}
		params := ProposalActionParams{From: step.From, ProposalID: step.Proposal}
		var (
			res *ProposalResult
			err error
		)
		if step.Do == StepExecute {
			res, err = uc.execute.Run(ctx, params)
		} else {
			res, err = uc.cancel.Run(ctx, params)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("proposal %d %s", res.Proposal.ID, res.Proposal.Status), nil

	case StepProposeMember, StepRequest:
		kind := domain.MemberChangeAddMember
		if step.Kind != "" {
			var err error
			if kind, err = domain.ParseMemberChangeKind(step.Kind); err != nil {
				return "", err
			}
		}
		route := RouteVote
		if step.Do == StepRequest {
			route = RouteApproval
		}
		res, err := uc.member.Run(ctx, ProposeMemberChangeParams{
			From:     step.From,
			Kind:     kind,
			Target:   step.Target,
			Metadata: step.Metadata,
			Route:    route,
		})
		if err != nil {
			return "", err
		}
		if res.Request != nil {
			return fmt.Sprintf("request %d %s", res.Request.ID, res.Request.Status), nil
		}
		return fmt.Sprintf("proposal %d %s", res.Proposal.ID, res.Proposal.Status), nil

	case StepApprove, StepReject, StepExecuteRequest:
		if step.Proposal == nil {
			return "", errProposalRequired
		}
		decision := ReviewDecision(step.Do)
		if step.Do == StepExecuteRequest {
			decision = DecisionExecute
		}
		res, err := uc.review.Run(ctx, ReviewMemberChangeParams{
			From:       step.From,
			Decision:   decision,
			RequestIDs: []uint64{*step.Proposal},
		})
		if err != nil {
			return "", err
		}
		r := res.Requests[0]
		return fmt.Sprintf("request %d %s, %d/%d approvals", r.ID, r.Status, r.Approvals, r.Parameters.MinApprovals), nil

	case StepLeave, StepLeaveEditor:
		res, err := uc.leave.Run(ctx, LeaveSpaceParams{From: step.From, EditorOnly: step.Do == StepLeaveEditor})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s editor=%t member=%t", res.Account, res.IsEditor, res.IsMember), nil

	case StepAdvance:
		var d time.Duration
		if step.Duration != "" {
			seconds, err := config.ParseSeconds(step.Duration)
			if err != nil {
				return "", err
			}
			d = time.Duration(seconds) * time.Second
		}
		clock, err := uc.advance.Run(ctx, AdvanceChainParams{Duration: d, Blocks: step.Blocks})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("block %d, time %d", clock.Block, clock.Time), nil

	case StepCall:
		if len(step.Actions) != 1 {
			return "", fmt.Errorf("call takes exactly one action")
		}
		parts := strings.SplitN(step.Actions[0], ":", 3)
		params := SubmitCallParams{From: step.From, To: parts[0]}
		if len(parts) > 2 {
			params.Data = parts[2]
		}
		if len(parts) > 1 && parts[1] != "" {
			s, err := uc.open.Run(ctx)
			if err != nil {
				return "", err
			}
			action, err := ParseAction(s, step.Actions[0])
			if err != nil {
				return "", err
			}
			params.Value = action.Value
		}
		res, err := uc.call.Run(ctx, params)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("block %d, %d events", res.Block, len(res.Events)), nil

	default:
		return "", fmt.Errorf("unknown step %q", step.Do)
	}
}

var errProposalRequired = errors.New("step needs a proposal id")
