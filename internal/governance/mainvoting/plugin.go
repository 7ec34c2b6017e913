// Package mainvoting is the majority voting plugin of a space. Editors vote
// on proposals bundling DAO actions; one editor is one unit of voting power.
// The plugin also owns the space's editor and member lists.
package mainvoting

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/spacegov/spacegov/internal/addresslist"
	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/ratio"
	"github.com/spacegov/spacegov/internal/governance"
)

// Plugin is the majority voting engine and membership facade
type Plugin struct {
	initialized bool
	dao         common.Address
	memberAcc   common.Address
	gate        domain.ProposerGate

	settings          domain.VotingSettings
	settingsChangedAt uint64

	editors *addresslist.List
	members map[common.Address]bool

	proposals []*Proposal

	log *slog.Logger
}

var _ chain.Contract = (*Plugin)(nil)

// New creates an uninitialized plugin
func New(log *slog.Logger) *Plugin {
	return &Plugin{
		editors: addresslist.New(),
		members: make(map[common.Address]bool),
		log:     log.With("component", "mainvoting"),
	}
}

// InitParams configure a fresh plugin
type InitParams struct {
	DAO            common.Address
	Settings       domain.VotingSettings
	InitialEditors []common.Address
	InitialMembers []common.Address
	MemberAccess   common.Address
	ProposerGate   domain.ProposerGate
}

// Initialize sets up the plugin exactly once. tx must execute as the plugin.
func (p *Plugin) Initialize(tx *chain.Tx, params InitParams) error {
	if p.initialized {
		return domain.ErrAlreadyInitialized
	}
	if params.DAO == (common.Address{}) {
		return fmt.Errorf("%w: dao", domain.ErrInvalidAddress)
	}
	editors := lo.Uniq(params.InitialEditors)
	if len(editors) == 0 {
		return fmt.Errorf("%w: at least one initial editor is required", domain.ErrNoEditorsLeft)
	}

	j := tx.Journal()
	chain.Set(j, &p.initialized, true)
	chain.Set(j, &p.dao, params.DAO)
	chain.Set(j, &p.memberAcc, params.MemberAccess)
	chain.Set(j, &p.gate, params.ProposerGate)

	if err := p.updateSettings(tx, params.Settings); err != nil {
		return err
	}
	if err := p.editors.Add(j, tx.BlockNumber(), editors...); err != nil {
		return err
	}
	for _, editor := range editors {
		tx.Emit(&domain.AddressEvent{Type: domain.EventTypeEditorAdded, Account: editor})
	}
	members := lo.Uniq(params.InitialMembers)
	for _, member := range members {
		if member == (common.Address{}) {
			return fmt.Errorf("%w: member", domain.ErrInvalidAddress)
		}
		chain.MapSet(j, p.members, member, true)
		tx.Emit(&domain.AddressEvent{Type: domain.EventTypeMemberAdded, Account: member})
	}
	p.log.Debug("initialized", "dao", params.DAO, "editors", len(editors), "members", len(members),
		"gate", params.ProposerGate)
	return nil
}

// ValidateSettings checks ratio and duration bounds
func ValidateSettings(s domain.VotingSettings) error {
	if s.VotingMode > domain.VotingModeVoteReplacement {
		return fmt.Errorf("unknown voting mode %d", s.VotingMode)
	}
	if s.SupportThreshold > ratio.RatioBase-1 {
		return fmt.Errorf("%w: support threshold %d > %d", domain.ErrRatioOutOfBounds, s.SupportThreshold, ratio.RatioBase-1)
	}
	if s.MinParticipation > ratio.RatioBase {
		return fmt.Errorf("%w: min participation %d > %d", domain.ErrRatioOutOfBounds, s.MinParticipation, ratio.RatioBase)
	}
	return governance.CheckDuration(s.Duration)
}

// UpdateVotingSettings replaces the settings used by future proposals
func (p *Plugin) UpdateVotingSettings(tx *chain.Tx, s domain.VotingSettings) error {
	if err := p.auth(tx, domain.UpdateVotingSettingsPermissionID); err != nil {
		return err
	}
	return p.updateSettings(tx, s)
}

func (p *Plugin) updateSettings(tx *chain.Tx, s domain.VotingSettings) error {
	if err := ValidateSettings(s); err != nil {
		return err
	}
	j := tx.Journal()
	chain.Set(j, &p.settings, s)
	chain.Set(j, &p.settingsChangedAt, tx.BlockNumber())
	tx.Emit(&domain.VotingSettingsUpdatedEvent{Settings: s})
	p.log.Debug("voting settings updated", "mode", s.VotingMode, "support", s.SupportThreshold,
		"participation", s.MinParticipation, "duration", s.Duration)
	return nil
}

func (p *Plugin) auth(tx *chain.Tx, id common.Hash) error {
	if !p.initialized {
		return domain.ErrNotInitialized
	}
	return governance.Auth(tx, p.dao, id)
}

// VotingSettings returns the settings future proposals will use
func (p *Plugin) VotingSettings() domain.VotingSettings { return p.settings }

// DAO returns the DAO this plugin executes through
func (p *Plugin) DAO() common.Address { return p.dao }

// MemberAccess returns the member approval plugin ProposeAddMember forwards to
func (p *Plugin) MemberAccess() common.Address { return p.memberAcc }

// ProposerGate returns who may create proposals
func (p *Plugin) ProposerGate() domain.ProposerGate { return p.gate }

// TotalVotingPower is the number of editors at the end of block
func (p *Plugin) TotalVotingPower(block uint64) uint64 {
	return p.editors.LengthAt(block)
}

// stateChangedAt reports whether proposal inputs changed in block
func (p *Plugin) stateChangedAt(block uint64) bool {
	return p.editors.LastChangeBlock() == block || p.settingsChangedAt == block
}

// EditorsChangedAt is the block of the last editor list change
func (p *Plugin) EditorsChangedAt() uint64 {
	return p.editors.LastChangeBlock()
}
