package domain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Core governance types shared by the engines, the DAO and the CLI.

// MaxActions is the largest action bundle a proposal may carry.
const MaxActions = 256

// Action is a single call the DAO performs on execution
type Action struct {
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
	Data  []byte         `json:"data"`
}

// Selector returns the 4-byte function selector of the action, if any
func (a Action) Selector() ([4]byte, bool) {
	var sel [4]byte
	if len(a.Data) < 4 {
		return sel, false
	}
	copy(sel[:], a.Data[:4])
	return sel, true
}

// CopyActions deep-copies an action list so stored proposals never alias caller memory
func CopyActions(actions []Action) []Action {
	out := make([]Action, len(actions))
	for i, a := range actions {
		value := new(big.Int)
		if a.Value != nil {
			value.Set(a.Value)
		}
		out[i] = Action{
			To:    a.To,
			Value: value,
			Data:  common.CopyBytes(a.Data),
		}
	}
	return out
}

// VotingMode selects how votes are counted and when a proposal may execute
type VotingMode uint8

const (
	VotingModeStandard VotingMode = iota
	VotingModeEarlyExecution
	VotingModeVoteReplacement
)

func (m VotingMode) String() string {
	switch m {
	case VotingModeStandard:
		return "standard"
	case VotingModeEarlyExecution:
		return "early-execution"
	case VotingModeVoteReplacement:
		return "vote-replacement"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseVotingMode parses the textual form used in config files and flags
func ParseVotingMode(s string) (VotingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return VotingModeStandard, nil
	case "early-execution", "early_execution", "earlyexecution", "early":
		return VotingModeEarlyExecution, nil
	case "vote-replacement", "vote_replacement", "votereplacement", "replacement":
		return VotingModeVoteReplacement, nil
	default:
		return 0, fmt.Errorf("unknown voting mode %q", s)
	}
}

// VoteOption is the choice a voter casts. None is the zero value and is never a valid cast.
type VoteOption uint8

const (
	VoteNone VoteOption = iota
	VoteAbstain
	VoteYes
	VoteNo
)

func (o VoteOption) String() string {
	switch o {
	case VoteNone:
		return "none"
	case VoteAbstain:
		return "abstain"
	case VoteYes:
		return "yes"
	case VoteNo:
		return "no"
	default:
		return fmt.Sprintf("option(%d)", uint8(o))
	}
}

// ParseVoteOption parses yes/no/abstain (and none)
func ParseVoteOption(s string) (VoteOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return VoteNone, nil
	case "yes", "y", "for":
		return VoteYes, nil
	case "no", "n", "against":
		return VoteNo, nil
	case "abstain", "a":
		return VoteAbstain, nil
	default:
		return VoteNone, fmt.Errorf("unknown vote option %q", s)
	}
}

// VotingSettings configure the majority voting engine.
// Ratios are numerators over ratio.RatioBase.
type VotingSettings struct {
	VotingMode       VotingMode `json:"votingMode" toml:"mode"`
	SupportThreshold uint32     `json:"supportThreshold" toml:"support_threshold"`
	MinParticipation uint32     `json:"minParticipation" toml:"min_participation"`
	Duration         uint64     `json:"duration" toml:"duration"` // seconds
}

// ProposerGate decides who may create majority voting proposals
type ProposerGate uint8

const (
	ProposerGateMembers ProposerGate = iota
	ProposerGateEditors
)

func (g ProposerGate) String() string {
	if g == ProposerGateEditors {
		return "editors"
	}
	return "members"
}

// ParseProposerGate parses "members" or "editors"
func ParseProposerGate(s string) (ProposerGate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "members", "member":
		return ProposerGateMembers, nil
	case "editors", "editor":
		return ProposerGateEditors, nil
	default:
		return 0, fmt.Errorf("unknown proposer gate %q", s)
	}
}

// Tally counts cast voting power per option
type Tally struct {
	Yes     uint64 `json:"yes"`
	No      uint64 `json:"no"`
	Abstain uint64 `json:"abstain"`
}

// Total returns the voting power cast so far
func (t Tally) Total() uint64 {
	return t.Yes + t.No + t.Abstain
}

// ProposalParameters are frozen when a majority voting proposal is created
type ProposalParameters struct {
	VotingMode       VotingMode `json:"votingMode"`
	SupportThreshold uint32     `json:"supportThreshold"`
	StartDate        uint64     `json:"startDate"`
	EndDate          uint64     `json:"endDate"`
	SnapshotBlock    uint64     `json:"snapshotBlock"`
	MinVotingPower   uint64     `json:"minVotingPower"`
}

// ProposalStatus is the derived lifecycle state of a majority voting proposal
type ProposalStatus string

const (
	ProposalStatusPending   ProposalStatus = "pending"
	ProposalStatusOpen      ProposalStatus = "open"
	ProposalStatusSucceeded ProposalStatus = "succeeded"
	ProposalStatusExecuted  ProposalStatus = "executed"
	ProposalStatusCanceled  ProposalStatus = "canceled"
	ProposalStatusExpired   ProposalStatus = "expired"
)

// MultisigSettings configure the member approval engine
type MultisigSettings struct {
	ProposalDuration uint64 `json:"proposalDuration" toml:"proposal_duration"` // seconds
}

// MemberChangeKind is the only kind of action a member approval proposal carries
type MemberChangeKind uint8

const (
	MemberChangeAddMember MemberChangeKind = iota
	MemberChangeRemoveMember
	MemberChangeAddEditor
	MemberChangeRemoveEditor
)

func (k MemberChangeKind) String() string {
	switch k {
	case MemberChangeAddMember:
		return "add-member"
	case MemberChangeRemoveMember:
		return "remove-member"
	case MemberChangeAddEditor:
		return "add-editor"
	case MemberChangeRemoveEditor:
		return "remove-editor"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k names a known member change
func (k MemberChangeKind) Valid() bool {
	return k <= MemberChangeRemoveEditor
}

// ParseMemberChangeKind parses the CLI/YAML spelling of a member change
func ParseMemberChangeKind(s string) (MemberChangeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add-member", "add_member", "addmember":
		return MemberChangeAddMember, nil
	case "remove-member", "remove_member", "removemember":
		return MemberChangeRemoveMember, nil
	case "add-editor", "add_editor", "addeditor":
		return MemberChangeAddEditor, nil
	case "remove-editor", "remove_editor", "removeeditor":
		return MemberChangeRemoveEditor, nil
	default:
		return 0, fmt.Errorf("unknown member change %q", s)
	}
}

// MemberProposalParameters are frozen when a member approval proposal is created
type MemberProposalParameters struct {
	MinApprovals  uint16 `json:"minApprovals"`
	SnapshotBlock uint64 `json:"snapshotBlock"`
	StartDate     uint64 `json:"startDate"`
	EndDate       uint64 `json:"endDate"`
}

// MemberProposalStatus is the derived lifecycle state of a member approval proposal
type MemberProposalStatus string

const (
	MemberProposalStatusOpen     MemberProposalStatus = "open"
	MemberProposalStatusExecuted MemberProposalStatus = "executed"
	MemberProposalStatusRejected MemberProposalStatus = "rejected"
	MemberProposalStatusExpired  MemberProposalStatus = "expired"
)
