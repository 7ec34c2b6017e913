package domain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for governance operations.
// Every one of them reverts the enclosing transaction.
var (
	// ErrAlreadyInitialized is returned when initialize is called twice
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrNotInitialized is returned when a plugin is used before initialize
	ErrNotInitialized = errors.New("not initialized")

	// ErrUnauthorized is returned when the caller lacks a permission
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotAnEditor is returned when an editor-only operation is called by someone else
	ErrNotAnEditor = errors.New("not an editor")

	// ErrNotAMember is returned when a member-only operation is called by someone else
	ErrNotAMember = errors.New("not a member")

	// ErrAlreadyAnEditor is returned when adding an existing editor
	ErrAlreadyAnEditor = errors.New("already an editor")

	// ErrAlreadyAMember is returned when adding an existing member
	ErrAlreadyAMember = errors.New("already a member")

	// ErrNoEditorsLeft is returned when removing the last remaining editor
	ErrNoEditorsLeft = errors.New("no editors left")

	// ErrProposalCreationForbidden is returned when the editor list or the settings
	// changed in the same block a proposal is being created in
	ErrProposalCreationForbidden = errors.New("proposal creation forbidden: state changed in the same block")

	// ErrNoVotingPower is returned when nobody could vote at the snapshot block
	ErrNoVotingPower = errors.New("no voting power at snapshot")

	// ErrProposalNotFound is returned for unknown proposal ids
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrProposalNotOpen is returned when a proposal no longer accepts changes
	ErrProposalNotOpen = errors.New("proposal is not open")

	// ErrProposalExecutionForbidden is returned when a proposal cannot be executed
	ErrProposalExecutionForbidden = errors.New("proposal execution forbidden")

	// ErrOnlyCreatorCanCancel is returned when someone other than the creator cancels
	ErrOnlyCreatorCanCancel = errors.New("only the creator can cancel")

	// ErrVoteCastForbidden is returned when a vote is not allowed
	ErrVoteCastForbidden = errors.New("vote cast forbidden")

	// ErrApprovalCastForbidden is returned when an approval or rejection is not allowed
	ErrApprovalCastForbidden = errors.New("approval cast forbidden")

	// ErrRatioOutOfBounds is returned for ratios above their limit
	ErrRatioOutOfBounds = errors.New("ratio out of bounds")

	// ErrDurationOutOfBounds is returned for voting or proposal durations outside the allowed range
	ErrDurationOutOfBounds = errors.New("duration out of bounds")

	// ErrDateOutOfBounds is returned for proposal start/end dates that are not allowed
	ErrDateOutOfBounds = errors.New("date out of bounds")

	// ErrTooManyActions is returned when an action bundle exceeds MaxActions
	ErrTooManyActions = errors.New("too many actions")

	// ErrInvalidListUpdate is returned for duplicate additions or absent removals
	ErrInvalidListUpdate = errors.New("invalid address list update")

	// ErrInvalidAddress is returned when the zero address is used where an account is required
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidMemberChange is returned for unknown member change kinds
	ErrInvalidMemberChange = errors.New("invalid member change")

	// ErrActionFailed is returned when a DAO action fails and its failure is not allowed
	ErrActionFailed = errors.New("action failed")

	// ErrReentrantCall is returned when a non-reentrant entry point is re-entered
	ErrReentrantCall = errors.New("reentrant call")

	// ErrPermissionConflict is returned when granting a permission already held under another condition
	ErrPermissionConflict = errors.New("permission already granted for a different condition")

	// ErrDecode is returned for calldata that cannot be decoded
	ErrDecode = errors.New("calldata decode failed")

	// ErrUnknownSelector is returned when a contract has no method for a selector
	ErrUnknownSelector = errors.New("unknown function selector")

	// ErrNoContract is returned when calling an address without a contract
	ErrNoContract = errors.New("no contract at address")

	// ErrInsufficientBalance is returned when a value transfer exceeds the sender balance
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Client errors never reach the chain
var (
	ErrNoSender          = errors.New("no sender: pass --from or set SPACEGOV_FROM")
	ErrGenesisChanged    = errors.New("space.toml changed since the transaction log was recorded")
	ErrNoOpenProposals   = errors.New("no matching proposals")
	ErrInteractiveNeeded = errors.New("selection required but running in non-interactive mode")
	ErrExpectedFailure   = errors.New("step succeeded but was expected to fail")
)

// DaoUnauthorizedErr is returned when a permission check on the DAO fails
type DaoUnauthorizedErr struct {
	DAO          common.Address
	Where        common.Address
	Who          common.Address
	PermissionID common.Hash
}

func (e DaoUnauthorizedErr) Error() string {
	return fmt.Sprintf("unauthorized: %s lacks %s on %s (dao %s)",
		e.Who.Hex(), PermissionName(e.PermissionID), e.Where.Hex(), e.DAO.Hex())
}

func (e DaoUnauthorizedErr) Unwrap() error { return ErrUnauthorized }

// VoteCastForbiddenErr carries the rejected vote
type VoteCastForbiddenErr struct {
	ProposalID uint64
	Account    common.Address
	Option     VoteOption
}

func (e VoteCastForbiddenErr) Error() string {
	return fmt.Sprintf("vote cast forbidden: proposal %d, account %s, option %s",
		e.ProposalID, e.Account.Hex(), e.Option)
}

func (e VoteCastForbiddenErr) Unwrap() error { return ErrVoteCastForbidden }

// ApprovalCastForbiddenErr carries the rejected approval or rejection
type ApprovalCastForbiddenErr struct {
	ProposalID uint64
	Account    common.Address
}

func (e ApprovalCastForbiddenErr) Error() string {
	return fmt.Sprintf("approval cast forbidden: proposal %d, account %s", e.ProposalID, e.Account.Hex())
}

func (e ApprovalCastForbiddenErr) Unwrap() error { return ErrApprovalCastForbidden }

// ActionFailedErr reports the first action that failed without its allow-failure bit set
type ActionFailedErr struct {
	Index int
	Cause error
}

func (e ActionFailedErr) Error() string {
	return fmt.Sprintf("action %d failed: %v", e.Index, e.Cause)
}

func (e ActionFailedErr) Unwrap() []error { return []error{ErrActionFailed, e.Cause} }

// InvalidListUpdateErr names the address that made a list update invalid
type InvalidListUpdateErr struct {
	Address common.Address
}

func (e InvalidListUpdateErr) Error() string {
	return fmt.Sprintf("invalid address list update: %s", e.Address.Hex())
}

func (e InvalidListUpdateErr) Unwrap() error { return ErrInvalidListUpdate }

// DecodeErr is returned by the calldata decoder
type DecodeErr struct {
	Reason string
}

func (e DecodeErr) Error() string {
	return fmt.Sprintf("calldata decode failed: %s", e.Reason)
}

func (e DecodeErr) Unwrap() error { return ErrDecode }

// ProposalNotFoundErr names the unknown proposal id
type ProposalNotFoundErr struct {
	ProposalID uint64
}

func (e ProposalNotFoundErr) Error() string {
	return fmt.Sprintf("proposal %d not found", e.ProposalID)
}

func (e ProposalNotFoundErr) Unwrap() error { return ErrProposalNotFound }
