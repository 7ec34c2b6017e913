package mainvoting

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/ratio"
	"github.com/spacegov/spacegov/internal/governance"
)

// Proposal is a majority voting proposal
type Proposal struct {
	ID              uint64                               `json:"id"`
	Creator         common.Address                       `json:"creator"`
	Metadata        []byte                               `json:"metadata"`
	Actions         []domain.Action                      `json:"actions"`
	AllowFailureMap *big.Int                             `json:"allowFailureMap"`
	Parameters      domain.ProposalParameters            `json:"parameters"`
	Tally           domain.Tally                         `json:"tally"`
	Voters          map[common.Address]domain.VoteOption `json:"voters"`
	Executed        bool                                 `json:"executed"`
	Canceled        bool                                 `json:"canceled"`
}

func (p *Proposal) clone() *Proposal {
	out := *p
	out.Metadata = common.CopyBytes(p.Metadata)
	out.Actions = domain.CopyActions(p.Actions)
	out.AllowFailureMap = new(big.Int).Set(p.AllowFailureMap)
	out.Voters = make(map[common.Address]domain.VoteOption, len(p.Voters))
	for k, v := range p.Voters {
		out.Voters[k] = v
	}
	return &out
}

// CreateProposalParams are the inputs of CreateProposal
type CreateProposalParams struct {
	Metadata          []byte
	Actions           []domain.Action
	AllowFailureMap   *big.Int
	StartDate         uint64
	EndDate           uint64
	VoteOption        domain.VoteOption
	TryEarlyExecution bool
}

func (p *Plugin) checkProposer(addr common.Address) error {
	switch p.gate {
	case domain.ProposerGateEditors:
		if !p.IsEditor(addr) {
			return fmt.Errorf("%w: %s", domain.ErrNotAnEditor, addr.Hex())
		}
	default:
		if !p.IsMember(addr) {
			return fmt.Errorf("%w: %s", domain.ErrNotAMember, addr.Hex())
		}
	}
	return nil
}

// CreateProposal stores a new proposal and optionally casts the creator's vote
func (p *Plugin) CreateProposal(tx *chain.Tx, params CreateProposalParams) (uint64, error) {
	if !p.initialized {
		return 0, domain.ErrNotInitialized
	}
	creator := tx.Sender()
	if err := p.checkProposer(creator); err != nil {
		return 0, err
	}
	return p.createProposal(tx, creator, params)
}

func (p *Plugin) createProposal(tx *chain.Tx, creator common.Address, params CreateProposalParams) (uint64, error) {
	block := tx.BlockNumber()
	if p.stateChangedAt(block) {
		return 0, domain.ErrProposalCreationForbidden
	}
	if len(params.Actions) > domain.MaxActions {
		return 0, fmt.Errorf("%w: %d > %d", domain.ErrTooManyActions, len(params.Actions), domain.MaxActions)
	}

	snapshot := block - 1
	total := p.TotalVotingPower(snapshot)
	if total == 0 {
		return 0, domain.ErrNoVotingPower
	}

	start, end, err := p.validateDates(tx.Timestamp(), params.StartDate, params.EndDate)
	if err != nil {
		return 0, err
	}
	minVotingPower, err := ratio.ApplyRatioCeiled(total, p.settings.MinParticipation)
	if err != nil {
		return 0, err
	}

	allowFailureMap := new(big.Int)
	if params.AllowFailureMap != nil {
		allowFailureMap.Set(params.AllowFailureMap)
	}

	id := uint64(len(p.proposals))
	proposal := &Proposal{
		ID:              id,
		Creator:         creator,
		Metadata:        common.CopyBytes(params.Metadata),
		Actions:         domain.CopyActions(params.Actions),
		AllowFailureMap: allowFailureMap,
		Parameters: domain.ProposalParameters{
			VotingMode:       p.settings.VotingMode,
			SupportThreshold: p.settings.SupportThreshold,
			StartDate:        start,
			EndDate:          end,
			SnapshotBlock:    snapshot,
			MinVotingPower:   minVotingPower,
		},
		Voters: make(map[common.Address]domain.VoteOption),
	}
	chain.Append(tx.Journal(), &p.proposals, proposal)

	tx.Emit(&domain.ProposalCreatedEvent{
		ProposalID:      id,
		Creator:         creator,
		StartDate:       start,
		EndDate:         end,
		Metadata:        common.CopyBytes(params.Metadata),
		Actions:         domain.CopyActions(params.Actions),
		AllowFailureMap: new(big.Int).Set(allowFailureMap),
	})
	p.log.Debug("proposal created", "id", id, "creator", creator, "snapshot", snapshot,
		"start", start, "end", end, "minVotingPower", minVotingPower)

	if params.VoteOption != domain.VoteNone {
		if err := p.vote(tx, id, creator, params.VoteOption, params.TryEarlyExecution); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (p *Plugin) validateDates(now, start, end uint64) (uint64, uint64, error) {
	if start == 0 {
		start = now
	} else if start < now {
		return 0, 0, fmt.Errorf("%w: start %d is before now %d", domain.ErrDateOutOfBounds, start, now)
	}
	earliestEnd := start + p.settings.Duration
	if end == 0 {
		end = earliestEnd
	} else if end < earliestEnd {
		return 0, 0, fmt.Errorf("%w: end %d is before %d", domain.ErrDateOutOfBounds, end, earliestEnd)
	}
	return start, end, nil
}

func (p *Plugin) proposal(id uint64) (*Proposal, error) {
	if id >= uint64(len(p.proposals)) {
		return nil, domain.ProposalNotFoundErr{ProposalID: id}
	}
	return p.proposals[id], nil
}

// Vote casts option for the sender
func (p *Plugin) Vote(tx *chain.Tx, id uint64, option domain.VoteOption, tryEarlyExecution bool) error {
	if _, err := p.proposal(id); err != nil {
		return err
	}
	return p.vote(tx, id, tx.Sender(), option, tryEarlyExecution)
}

func (p *Plugin) vote(tx *chain.Tx, id uint64, voter common.Address, option domain.VoteOption, tryEarlyExecution bool) error {
	proposal, err := p.proposal(id)
	if err != nil {
		return err
	}
	if !p.canVote(proposal, voter, option, tx.Timestamp()) {
		return domain.VoteCastForbiddenErr{ProposalID: id, Account: voter, Option: option}
	}

	tally := proposal.Tally
	switch proposal.Voters[voter] {
	case domain.VoteYes:
		tally.Yes--
	case domain.VoteNo:
		tally.No--
	case domain.VoteAbstain:
		tally.Abstain--
	}
	switch option {
	case domain.VoteYes:
		tally.Yes++
	case domain.VoteNo:
		tally.No++
	case domain.VoteAbstain:
		tally.Abstain++
	}
	j := tx.Journal()
	chain.Set(j, &proposal.Tally, tally)
	chain.MapSet(j, proposal.Voters, voter, option)

	tx.Emit(&domain.VoteCastEvent{ProposalID: id, Voter: voter, VoteOption: option, VotingPower: 1})
	p.log.Debug("vote cast", "id", id, "voter", voter, "option", option,
		"yes", tally.Yes, "no", tally.No, "abstain", tally.Abstain)

	if tryEarlyExecution && p.canExecute(proposal, tx.Timestamp()) {
		return p.execute(tx, proposal)
	}
	return nil
}

func (p *Plugin) canVote(proposal *Proposal, voter common.Address, option domain.VoteOption, now uint64) bool {
	if !proposal.isOpen(now) {
		return false
	}
	if option == domain.VoteNone || option > domain.VoteNo {
		return false
	}
	if !p.editors.IsListedAt(voter, proposal.Parameters.SnapshotBlock) {
		return false
	}
	prior := proposal.Voters[voter]
	if prior != domain.VoteNone {
		if proposal.Parameters.VotingMode != domain.VotingModeVoteReplacement {
			return false
		}
		if prior == option {
			return false
		}
	}
	return true
}

func (pr *Proposal) isOpen(now uint64) bool {
	return !pr.Executed && !pr.Canceled &&
		pr.Parameters.StartDate <= now && now < pr.Parameters.EndDate
}

func (p *Plugin) supportReached(pr *Proposal) bool {
	return ratio.SupportReached(pr.Tally.Yes, pr.Tally.No, pr.Parameters.SupportThreshold)
}

func (p *Plugin) supportReachedEarly(pr *Proposal) bool {
	total := p.TotalVotingPower(pr.Parameters.SnapshotBlock)
	return ratio.SupportReachedEarly(pr.Tally.Yes, pr.Tally.Abstain, total, pr.Parameters.SupportThreshold)
}

func (p *Plugin) participationReached(pr *Proposal) bool {
	return ratio.ParticipationReached(pr.Tally.Total(), pr.Parameters.MinVotingPower)
}

func (p *Plugin) canExecute(pr *Proposal, now uint64) bool {
	if pr.Executed || pr.Canceled {
		return false
	}
	if now < pr.Parameters.StartDate {
		return false
	}
	if pr.isOpen(now) {
		if pr.Parameters.VotingMode != domain.VotingModeEarlyExecution {
			return false
		}
		if !p.supportReachedEarly(pr) {
			return false
		}
	} else if !p.supportReached(pr) {
		return false
	}
	return p.participationReached(pr)
}

// Execute runs the actions of a proposal through the DAO. Anyone may call it.
func (p *Plugin) Execute(tx *chain.Tx, id uint64) error {
	proposal, err := p.proposal(id)
	if err != nil {
		return err
	}
	if !p.canExecute(proposal, tx.Timestamp()) {
		return fmt.Errorf("%w: proposal %d", domain.ErrProposalExecutionForbidden, id)
	}
	return p.execute(tx, proposal)
}

func (p *Plugin) execute(tx *chain.Tx, proposal *Proposal) error {
	chain.Set(tx.Journal(), &proposal.Executed, true)
	if err := governance.ExecuteOnDAO(tx, p.dao, proposal.ID, proposal.Actions, proposal.AllowFailureMap); err != nil {
		return err
	}
	tx.Emit(&domain.ProposalExecutedEvent{ProposalID: proposal.ID})
	p.log.Debug("proposal executed", "id", proposal.ID)
	return nil
}

// CancelProposal lets the creator withdraw a proposal before its end date
func (p *Plugin) CancelProposal(tx *chain.Tx, id uint64) error {
	proposal, err := p.proposal(id)
	if err != nil {
		return err
	}
	if proposal.Creator != tx.Sender() {
		return domain.ErrOnlyCreatorCanCancel
	}
	if !proposal.isOpen(tx.Timestamp()) {
		return fmt.Errorf("%w: proposal %d", domain.ErrProposalNotOpen, id)
	}
	chain.Set(tx.Journal(), &proposal.Canceled, true)
	tx.Emit(&domain.ProposalCanceledEvent{ProposalID: id})
	p.log.Debug("proposal canceled", "id", id)
	return nil
}

// GetProposal returns a copy of a proposal
func (p *Plugin) GetProposal(id uint64) (*Proposal, error) {
	proposal, err := p.proposal(id)
	if err != nil {
		return nil, err
	}
	return proposal.clone(), nil
}

// ProposalCount is the number of proposals ever created
func (p *Plugin) ProposalCount() uint64 {
	return uint64(len(p.proposals))
}

// GetVoteOption returns the current vote of voter, VoteNone if absent
func (p *Plugin) GetVoteOption(id uint64, voter common.Address) domain.VoteOption {
	proposal, err := p.proposal(id)
	if err != nil {
		return domain.VoteNone
	}
	return proposal.Voters[voter]
}

// CanVote reports whether voter may cast option at time now
func (p *Plugin) CanVote(id uint64, voter common.Address, option domain.VoteOption, now uint64) bool {
	proposal, err := p.proposal(id)
	if err != nil {
		return false
	}
	return p.canVote(proposal, voter, option, now)
}

// CanExecute reports whether the proposal may be executed at time now
func (p *Plugin) CanExecute(id uint64, now uint64) bool {
	proposal, err := p.proposal(id)
	if err != nil {
		return false
	}
	return p.canExecute(proposal, now)
}

// IsSupportThresholdReached compares yes against no votes cast so far
func (p *Plugin) IsSupportThresholdReached(id uint64) bool {
	proposal, err := p.proposal(id)
	if err != nil {
		return false
	}
	return p.supportReached(proposal)
}

// IsSupportThresholdReachedEarly treats every missing vote as no
func (p *Plugin) IsSupportThresholdReachedEarly(id uint64) bool {
	proposal, err := p.proposal(id)
	if err != nil {
		return false
	}
	return p.supportReachedEarly(proposal)
}

// IsMinParticipationReached compares votes cast against the frozen minimum
func (p *Plugin) IsMinParticipationReached(id uint64) bool {
	proposal, err := p.proposal(id)
	if err != nil {
		return false
	}
	return p.participationReached(proposal)
}

// Status derives the lifecycle state of a proposal at time now
func (p *Plugin) Status(id uint64, now uint64) (domain.ProposalStatus, error) {
	proposal, err := p.proposal(id)
	if err != nil {
		return "", err
	}
	switch {
	case proposal.Executed:
		return domain.ProposalStatusExecuted, nil
	case proposal.Canceled:
		return domain.ProposalStatusCanceled, nil
	case now < proposal.Parameters.StartDate:
		return domain.ProposalStatusPending, nil
	case proposal.isOpen(now):
		return domain.ProposalStatusOpen, nil
	case p.canExecute(proposal, now):
		return domain.ProposalStatusSucceeded, nil
	default:
		return domain.ProposalStatusExpired, nil
	}
}
