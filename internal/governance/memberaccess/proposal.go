package memberaccess

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
	"github.com/spacegov/spacegov/internal/governance"
)

// Proposal is a pending membership change
type Proposal struct {
	ID         uint64                          `json:"id"`
	Creator    common.Address                  `json:"creator"`
	Kind       domain.MemberChangeKind         `json:"kind"`
	Target     common.Address                  `json:"target"`
	Metadata   []byte                          `json:"metadata"`
	Action     domain.Action                   `json:"action"`
	Parameters domain.MemberProposalParameters `json:"parameters"`
	Approvals  uint16                          `json:"approvals"`
	Approvers  map[common.Address]bool         `json:"approvers"`
	Executed   bool                            `json:"executed"`
	Rejected   bool                            `json:"rejected"`
	RejectedBy common.Address                  `json:"rejectedBy,omitempty"`
}

func (pr *Proposal) clone() *Proposal {
	out := *pr
	out.Metadata = common.CopyBytes(pr.Metadata)
	out.Action = domain.CopyActions([]domain.Action{pr.Action})[0]
	out.Approvers = make(map[common.Address]bool, len(pr.Approvers))
	for k, v := range pr.Approvers {
		out.Approvers[k] = v
	}
	return &out
}

func (pr *Proposal) isOpen(now uint64) bool {
	return !pr.Executed && !pr.Rejected && now < pr.Parameters.EndDate
}

// Propose opens a membership change with the sender as proposer. Anyone may
// request to join; every other kind needs the proposer to be a member.
func (p *Plugin) Propose(tx *chain.Tx, metadata []byte, target common.Address, kind domain.MemberChangeKind) (uint64, error) {
	if !p.initialized {
		return 0, domain.ErrNotInitialized
	}
	return p.propose(tx, metadata, target, kind, tx.Sender())
}

// ProposeFor opens a membership change on behalf of proposer. The sender needs PROPOSER_PERMISSION.
func (p *Plugin) ProposeFor(tx *chain.Tx, metadata []byte, target common.Address, kind domain.MemberChangeKind, proposer common.Address) (uint64, error) {
	if err := p.auth(tx, domain.ProposerPermissionID); err != nil {
		return 0, err
	}
	return p.propose(tx, metadata, target, kind, proposer)
}

func (p *Plugin) propose(tx *chain.Tx, metadata []byte, target common.Address, kind domain.MemberChangeKind, proposer common.Address) (uint64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidMemberChange, kind)
	}
	if target == (common.Address{}) {
		return 0, fmt.Errorf("%w: target", domain.ErrInvalidAddress)
	}
	reg, err := p.registry(tx)
	if err != nil {
		return 0, err
	}
	if kind != domain.MemberChangeAddMember && !reg.IsMember(proposer) {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotAMember, proposer.Hex())
	}
	if err := checkChange(reg, kind, target); err != nil {
		return 0, err
	}

	block := tx.BlockNumber()
	if reg.EditorsChangedAt() == block || p.settingsChangedAt == block {
		return 0, domain.ErrProposalCreationForbidden
	}
	snapshot := block - 1
	editors := reg.EditorCountAt(snapshot)
	if editors == 0 {
		return 0, domain.ErrNoVotingPower
	}
	minApprovals := uint16(2)
	if editors == 1 {
		minApprovals = 1
	}

	data, err := bindings.PackMemberChange(kind, target)
	if err != nil {
		return 0, err
	}
	now := tx.Timestamp()
	id := uint64(len(p.proposals))
	proposal := &Proposal{
		ID:       id,
		Creator:  proposer,
		Kind:     kind,
		Target:   target,
		Metadata: common.CopyBytes(metadata),
		Action:   domain.Action{To: p.mainVoting, Value: new(big.Int), Data: data},
		Parameters: domain.MemberProposalParameters{
			MinApprovals:  minApprovals,
			SnapshotBlock: snapshot,
			StartDate:     now,
			EndDate:       now + p.settings.ProposalDuration,
		},
		Approvers: make(map[common.Address]bool),
	}
	chain.Append(tx.Journal(), &p.proposals, proposal)

	tx.Emit(&domain.MemberProposalCreatedEvent{
		ProposalID: id,
		Creator:    proposer,
		Kind:       kind,
		Target:     target,
		StartDate:  proposal.Parameters.StartDate,
		EndDate:    proposal.Parameters.EndDate,
		Metadata:   common.CopyBytes(metadata),
	})
	p.log.Debug("member proposal created", "id", id, "proposer", proposer, "kind", kind,
		"target", target, "minApprovals", minApprovals)

	if reg.IsEditorAt(proposer, snapshot) {
		if err := p.approve(tx, proposal, proposer); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func checkChange(reg EditorRegistry, kind domain.MemberChangeKind, target common.Address) error {
	switch kind {
	case domain.MemberChangeAddMember:
		if reg.IsMember(target) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyAMember, target.Hex())
		}
	case domain.MemberChangeRemoveMember:
		if !reg.HasExplicitMembership(target) {
			return fmt.Errorf("%w: %s", domain.ErrNotAMember, target.Hex())
		}
	case domain.MemberChangeAddEditor:
		if reg.IsEditor(target) {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyAnEditor, target.Hex())
		}
	case domain.MemberChangeRemoveEditor:
		if !reg.IsEditor(target) {
			return fmt.Errorf("%w: %s", domain.ErrNotAnEditor, target.Hex())
		}
	}
	return nil
}

func (p *Plugin) proposal(id uint64) (*Proposal, error) {
	if id >= uint64(len(p.proposals)) {
		return nil, domain.ProposalNotFoundErr{ProposalID: id}
	}
	return p.proposals[id], nil
}

// Approve records the sender's approval and executes once enough editors approved
func (p *Plugin) Approve(tx *chain.Tx, id uint64) error {
	proposal, err := p.proposal(id)
	if err != nil {
		return err
	}
	return p.approve(tx, proposal, tx.Sender())
}

func (p *Plugin) approve(tx *chain.Tx, proposal *Proposal, editor common.Address) error {
	ok, err := p.canApprove(tx, proposal, editor)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ApprovalCastForbiddenErr{ProposalID: proposal.ID, Account: editor}
	}
	j := tx.Journal()
	chain.MapSet(j, proposal.Approvers, editor, true)
	chain.Set(j, &proposal.Approvals, proposal.Approvals+1)
	tx.Emit(&domain.ApprovalEvent{Type: domain.EventTypeApproved, ProposalID: proposal.ID, Editor: editor})
	p.log.Debug("approved", "id", proposal.ID, "editor", editor,
		"approvals", proposal.Approvals, "min", proposal.Parameters.MinApprovals)

	if proposal.Approvals >= proposal.Parameters.MinApprovals {
		return p.execute(tx, proposal)
	}
	return nil
}

func (p *Plugin) canApprove(tx *chain.Tx, proposal *Proposal, editor common.Address) (bool, error) {
	if !proposal.isOpen(tx.Timestamp()) {
		return false, nil
	}
	if proposal.Approvers[editor] {
		return false, nil
	}
	reg, err := p.registry(tx)
	if err != nil {
		return false, err
	}
	return reg.IsEditorAt(editor, proposal.Parameters.SnapshotBlock), nil
}

// Reject closes the proposal for good
func (p *Plugin) Reject(tx *chain.Tx, id uint64) error {
	proposal, err := p.proposal(id)
	if err != nil {
		return err
	}
	editor := tx.Sender()
	ok, err := p.canApprove(tx, proposal, editor)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ApprovalCastForbiddenErr{ProposalID: id, Account: editor}
	}
	j := tx.Journal()
	chain.Set(j, &proposal.Rejected, true)
	chain.Set(j, &proposal.RejectedBy, editor)
	tx.Emit(&domain.ApprovalEvent{Type: domain.EventTypeRejected, ProposalID: id, Editor: editor})
	p.log.Debug("rejected", "id", id, "editor", editor)
	return nil
}

// Execute applies an approved change. Approvals execute on their own, so
// this only matters when an earlier automatic execution was not possible.
func (p *Plugin) Execute(tx *chain.Tx, id uint64) error {
	proposal, err := p.proposal(id)
	if err != nil {
		return err
	}
	if !p.canExecute(proposal, tx.Timestamp()) {
		return fmt.Errorf("%w: member proposal %d", domain.ErrProposalExecutionForbidden, id)
	}
	return p.execute(tx, proposal)
}

func (p *Plugin) canExecute(proposal *Proposal, now uint64) bool {
	return proposal.isOpen(now) && proposal.Approvals >= proposal.Parameters.MinApprovals
}

func (p *Plugin) execute(tx *chain.Tx, proposal *Proposal) error {
	chain.Set(tx.Journal(), &proposal.Executed, true)
	actions := []domain.Action{proposal.Action}
	if err := governance.ExecuteOnDAO(tx, p.dao, proposal.ID, actions, nil); err != nil {
		return err
	}
	tx.Emit(&domain.ProposalExecutedEvent{ProposalID: proposal.ID})
	p.log.Debug("member proposal executed", "id", proposal.ID, "kind", proposal.Kind, "target", proposal.Target)
	return nil
}

// CanApprove reports whether account may approve or reject the proposal
func (p *Plugin) CanApprove(tx *chain.Tx, id uint64, account common.Address) bool {
	proposal, err := p.proposal(id)
	if err != nil {
		return false
	}
	ok, err := p.canApprove(tx, proposal, account)
	return err == nil && ok
}

// CanExecute reports whether the proposal has enough approvals and is still open
func (p *Plugin) CanExecute(id uint64, now uint64) bool {
	proposal, err := p.proposal(id)
	if err != nil {
		return false
	}
	return p.canExecute(proposal, now)
}

// GetProposal returns a copy of a proposal
func (p *Plugin) GetProposal(id uint64) (*Proposal, error) {
	proposal, err := p.proposal(id)
	if err != nil {
		return nil, err
	}
	return proposal.clone(), nil
}

// ProposalCount is the number of member proposals ever created
func (p *Plugin) ProposalCount() uint64 {
	return uint64(len(p.proposals))
}

// Status derives the lifecycle state of a proposal at time now
func (p *Plugin) Status(id uint64, now uint64) (domain.MemberProposalStatus, error) {
	proposal, err := p.proposal(id)
	if err != nil {
		return "", err
	}
	switch {
	case proposal.Executed:
		return domain.MemberProposalStatusExecuted, nil
	case proposal.Rejected:
		return domain.MemberProposalStatusRejected, nil
	case now < proposal.Parameters.EndDate:
		return domain.MemberProposalStatusOpen, nil
	default:
		return domain.MemberProposalStatusExpired, nil
	}
}
