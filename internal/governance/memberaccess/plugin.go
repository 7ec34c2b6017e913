// Package memberaccess is the member approval plugin: a small multisig in
// which editors approve or reject single membership changes.
package memberaccess

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/governance"
)

// EditorRegistry is the view of the majority voting plugin this plugin reads
type EditorRegistry interface {
	IsEditor(addr common.Address) bool
	IsMember(addr common.Address) bool
	HasExplicitMembership(addr common.Address) bool
	IsEditorAt(addr common.Address, block uint64) bool
	EditorCountAt(block uint64) uint64
	EditorsChangedAt() uint64
}

// Plugin is the member approval engine
type Plugin struct {
	initialized       bool
	dao               common.Address
	mainVoting        common.Address
	settings          domain.MultisigSettings
	settingsChangedAt uint64

	proposals []*Proposal

	log *slog.Logger
}

var _ chain.Contract = (*Plugin)(nil)

// New creates an uninitialized plugin
func New(log *slog.Logger) *Plugin {
	return &Plugin{log: log.With("component", "memberaccess")}
}

// Initialize sets up the plugin exactly once. tx must execute as the plugin.
func (p *Plugin) Initialize(tx *chain.Tx, dao common.Address, settings domain.MultisigSettings, mainVoting common.Address) error {
	if p.initialized {
		return domain.ErrAlreadyInitialized
	}
	if dao == (common.Address{}) || mainVoting == (common.Address{}) {
		return fmt.Errorf("%w: dao and main voting plugin are required", domain.ErrInvalidAddress)
	}
	j := tx.Journal()
	chain.Set(j, &p.initialized, true)
	chain.Set(j, &p.dao, dao)
	chain.Set(j, &p.mainVoting, mainVoting)
	if err := p.updateSettings(tx, settings); err != nil {
		return err
	}
	p.log.Debug("initialized", "dao", dao, "mainVoting", mainVoting)
	return nil
}

// UpdateMultisigSettings replaces the settings used by future proposals
func (p *Plugin) UpdateMultisigSettings(tx *chain.Tx, settings domain.MultisigSettings) error {
	if err := p.auth(tx, domain.UpdateMultisigSettingsPermissionID); err != nil {
		return err
	}
	return p.updateSettings(tx, settings)
}

func (p *Plugin) updateSettings(tx *chain.Tx, settings domain.MultisigSettings) error {
	if err := governance.CheckDuration(settings.ProposalDuration); err != nil {
		return err
	}
	j := tx.Journal()
	chain.Set(j, &p.settings, settings)
	chain.Set(j, &p.settingsChangedAt, tx.BlockNumber())
	tx.Emit(&domain.MultisigSettingsUpdatedEvent{Settings: settings})
	p.log.Debug("multisig settings updated", "duration", settings.ProposalDuration)
	return nil
}

func (p *Plugin) auth(tx *chain.Tx, id common.Hash) error {
	if !p.initialized {
		return domain.ErrNotInitialized
	}
	return governance.Auth(tx, p.dao, id)
}

// registry resolves the majority voting plugin in the current transaction
func (p *Plugin) registry(tx *chain.Tx) (EditorRegistry, error) {
	c, ok := tx.Contract(p.mainVoting)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoContract, p.mainVoting.Hex())
	}
	reg, ok := c.(EditorRegistry)
	if !ok {
		return nil, fmt.Errorf("%s does not keep an editor list", p.mainVoting.Hex())
	}
	return reg, nil
}

// MultisigSettings returns the settings future proposals will use
func (p *Plugin) MultisigSettings() domain.MultisigSettings { return p.settings }

// DAO returns the DAO this plugin executes through
func (p *Plugin) DAO() common.Address { return p.dao }

// MainVoting returns the plugin holding the editor and member lists
func (p *Plugin) MainVoting() common.Address { return p.mainVoting }
