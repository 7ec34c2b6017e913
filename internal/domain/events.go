package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type EventType string

const (
	EventTypeProposalCreated         EventType = "ProposalCreated"
	EventTypeVoteCast                EventType = "VoteCast"
	EventTypeProposalExecuted        EventType = "ProposalExecuted"
	EventTypeProposalCanceled        EventType = "ProposalCanceled"
	EventTypeVotingSettingsUpdated   EventType = "VotingSettingsUpdated"
	EventTypeEditorAdded             EventType = "EditorAdded"
	EventTypeEditorRemoved           EventType = "EditorRemoved"
	EventTypeMemberAdded             EventType = "MemberAdded"
	EventTypeMemberRemoved           EventType = "MemberRemoved"
	EventTypeMemberProposalCreated   EventType = "MemberProposalCreated"
	EventTypeApproved                EventType = "Approved"
	EventTypeRejected                EventType = "Rejected"
	EventTypeMultisigSettingsUpdated EventType = "MultisigSettingsUpdated"
	EventTypeExecuted                EventType = "Executed"
	EventTypeGranted                 EventType = "Granted"
	EventTypeRevoked                 EventType = "Revoked"
	EventTypeMetadataSet             EventType = "MetadataSet"
	EventTypeSignatureValidatorSet   EventType = "SignatureValidatorSet"
)

// ParsedEvent is the interface for all emitted events
type ParsedEvent interface {
	ContractEventName() string
	String() string
}

func short(a common.Address) string {
	return a.Hex()[:10] + "..."
}

// ProposalCreatedEvent is emitted by the majority voting engine
type ProposalCreatedEvent struct {
	ProposalID      uint64
	Creator         common.Address
	StartDate       uint64
	EndDate         uint64
	Metadata        []byte
	Actions         []Action
	AllowFailureMap *big.Int
}

func (ProposalCreatedEvent) ContractEventName() string {
	return string(EventTypeProposalCreated)
}

func (e *ProposalCreatedEvent) String() string {
	return fmt.Sprintf("%s: id=%d, creator=%s, start=%d, end=%d, actions=%d",
		e.ContractEventName(), e.ProposalID, short(e.Creator), e.StartDate, e.EndDate, len(e.Actions))
}

// VoteCastEvent is emitted on every accepted vote
type VoteCastEvent struct {
	ProposalID  uint64
	Voter       common.Address
	VoteOption  VoteOption
	VotingPower uint64
}

func (VoteCastEvent) ContractEventName() string {
	return string(EventTypeVoteCast)
}

func (e *VoteCastEvent) String() string {
	return fmt.Sprintf("%s: id=%d, voter=%s, option=%s",
		e.ContractEventName(), e.ProposalID, short(e.Voter), e.VoteOption)
}

// ProposalExecutedEvent is emitted by either engine once the DAO ran the actions
type ProposalExecutedEvent struct {
	ProposalID uint64
}

func (ProposalExecutedEvent) ContractEventName() string {
	return string(EventTypeProposalExecuted)
}

func (e *ProposalExecutedEvent) String() string {
	return fmt.Sprintf("%s: id=%d", e.ContractEventName(), e.ProposalID)
}

// ProposalCanceledEvent is emitted when the creator cancels a proposal
type ProposalCanceledEvent struct {
	ProposalID uint64
}

func (ProposalCanceledEvent) ContractEventName() string {
	return string(EventTypeProposalCanceled)
}

func (e *ProposalCanceledEvent) String() string {
	return fmt.Sprintf("%s: id=%d", e.ContractEventName(), e.ProposalID)
}

// VotingSettingsUpdatedEvent is emitted when voting settings change
type VotingSettingsUpdatedEvent struct {
	Settings VotingSettings
}

func (VotingSettingsUpdatedEvent) ContractEventName() string {
	return string(EventTypeVotingSettingsUpdated)
}

func (e *VotingSettingsUpdatedEvent) String() string {
	return fmt.Sprintf("%s: mode=%s, support=%d, participation=%d, duration=%ds",
		e.ContractEventName(), e.Settings.VotingMode, e.Settings.SupportThreshold,
		e.Settings.MinParticipation, e.Settings.Duration)
}

// AddressEvent covers the editor/member add/remove events
type AddressEvent struct {
	Type    EventType
	Account common.Address
}

func (e AddressEvent) ContractEventName() string {
	return string(e.Type)
}

func (e *AddressEvent) String() string {
	return fmt.Sprintf("%s: %s", e.ContractEventName(), e.Account.Hex())
}

// MemberProposalCreatedEvent is emitted by the member approval engine
type MemberProposalCreatedEvent struct {
	ProposalID uint64
	Creator    common.Address
	Kind       MemberChangeKind
	Target     common.Address
	StartDate  uint64
	EndDate    uint64
	Metadata   []byte
}

func (MemberProposalCreatedEvent) ContractEventName() string {
	return string(EventTypeMemberProposalCreated)
}

func (e *MemberProposalCreatedEvent) String() string {
	return fmt.Sprintf("%s: id=%d, creator=%s, %s %s",
		e.ContractEventName(), e.ProposalID, short(e.Creator), e.Kind, e.Target.Hex())
}

// ApprovalEvent covers Approved and Rejected
type ApprovalEvent struct {
	Type       EventType
	ProposalID uint64
	Editor     common.Address
}

func (e ApprovalEvent) ContractEventName() string {
	return string(e.Type)
}

func (e *ApprovalEvent) String() string {
	return fmt.Sprintf("%s: id=%d, editor=%s", e.ContractEventName(), e.ProposalID, short(e.Editor))
}

// MultisigSettingsUpdatedEvent is emitted when the member approval settings change
type MultisigSettingsUpdatedEvent struct {
	Settings MultisigSettings
}

func (MultisigSettingsUpdatedEvent) ContractEventName() string {
	return string(EventTypeMultisigSettingsUpdated)
}

func (e *MultisigSettingsUpdatedEvent) String() string {
	return fmt.Sprintf("%s: duration=%ds", e.ContractEventName(), e.Settings.ProposalDuration)
}

// ExecutedEvent is emitted by the DAO after running an action bundle
type ExecutedEvent struct {
	Actor      common.Address
	CallID     common.Hash
	Actions    []Action
	FailureMap *big.Int
	Results    [][]byte
}

func (ExecutedEvent) ContractEventName() string {
	return string(EventTypeExecuted)
}

func (e *ExecutedEvent) String() string {
	return fmt.Sprintf("%s: actor=%s, call=%s, actions=%d, failures=%s",
		e.ContractEventName(), short(e.Actor), e.CallID.Hex()[:10]+"...", len(e.Actions), e.FailureMap)
}

// PermissionEvent covers Granted and Revoked
type PermissionEvent struct {
	Type         EventType
	PermissionID common.Hash
	Here         common.Address
	Where        common.Address
	Who          common.Address
	Condition    common.Address
}

func (e PermissionEvent) ContractEventName() string {
	return string(e.Type)
}

func (e *PermissionEvent) String() string {
	s := fmt.Sprintf("%s: %s, where=%s, who=%s",
		e.ContractEventName(), PermissionName(e.PermissionID), short(e.Where), short(e.Who))
	if e.Condition != (common.Address{}) && e.Condition != AllowFlag {
		s += ", condition=" + short(e.Condition)
	}
	return s
}

// MetadataSetEvent is emitted when the DAO metadata changes
type MetadataSetEvent struct {
	Metadata []byte
}

func (MetadataSetEvent) ContractEventName() string {
	return string(EventTypeMetadataSet)
}

func (e *MetadataSetEvent) String() string {
	return fmt.Sprintf("%s: %d bytes", e.ContractEventName(), len(e.Metadata))
}

// SignatureValidatorSetEvent is emitted when the DAO signature validator changes
type SignatureValidatorSetEvent struct {
	Validator common.Address
}

func (SignatureValidatorSetEvent) ContractEventName() string {
	return string(EventTypeSignatureValidatorSet)
}

func (e *SignatureValidatorSetEvent) String() string {
	return fmt.Sprintf("%s: %s", e.ContractEventName(), e.Validator.Hex())
}
