package mainvoting

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
)

// IsEditor reports whether addr is currently an editor
func (p *Plugin) IsEditor(addr common.Address) bool {
	return p.editors.IsListed(addr)
}

// IsEditorAt reports whether addr was an editor at the end of block
func (p *Plugin) IsEditorAt(addr common.Address, block uint64) bool {
	return p.editors.IsListedAt(addr, block)
}

// EditorCountAt is the number of editors at the end of block
func (p *Plugin) EditorCountAt(block uint64) uint64 {
	return p.editors.LengthAt(block)
}

// IsMember reports whether addr is an editor or holds an explicit membership
func (p *Plugin) IsMember(addr common.Address) bool {
	return p.IsEditor(addr) || p.members[addr]
}

// HasExplicitMembership reports whether addr was added as a member
func (p *Plugin) HasExplicitMembership(addr common.Address) bool {
	return p.members[addr]
}

// Editors returns the current editors in insertion order
func (p *Plugin) Editors() []common.Address {
	return p.editors.Addresses()
}

// Members returns every explicit member and every editor, sorted
func (p *Plugin) Members() []common.Address {
	all := lo.Union(p.Editors(), lo.Keys(p.members))
	sort.Slice(all, func(i, k int) bool { return all[i].Cmp(all[k]) < 0 })
	return all
}

// AddEditor lists account as an editor
func (p *Plugin) AddEditor(tx *chain.Tx, account common.Address) error {
	if err := p.auth(tx, domain.UpdateAddressesPermissionID); err != nil {
		return err
	}
	if p.IsEditor(account) {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyAnEditor, account.Hex())
	}
	return p.addEditor(tx, account)
}

func (p *Plugin) addEditor(tx *chain.Tx, account common.Address) error {
	if err := p.editors.Add(tx.Journal(), tx.BlockNumber(), account); err != nil {
		return err
	}
	tx.Emit(&domain.AddressEvent{Type: domain.EventTypeEditorAdded, Account: account})
	p.log.Debug("editor added", "account", account, "editors", p.editors.Length())
	return nil
}

// RemoveEditor unlists account. Explicit membership is kept.
func (p *Plugin) RemoveEditor(tx *chain.Tx, account common.Address) error {
	if err := p.auth(tx, domain.UpdateAddressesPermissionID); err != nil {
		return err
	}
	if !p.IsEditor(account) {
		return fmt.Errorf("%w: %s", domain.ErrNotAnEditor, account.Hex())
	}
	return p.removeEditor(tx, account)
}

func (p *Plugin) removeEditor(tx *chain.Tx, account common.Address) error {
	if err := p.editors.Remove(tx.Journal(), tx.BlockNumber(), account); err != nil {
		return err
	}
	tx.Emit(&domain.AddressEvent{Type: domain.EventTypeEditorRemoved, Account: account})
	p.log.Debug("editor removed", "account", account, "editors", p.editors.Length())
	return nil
}

// AddMember grants explicit membership to account. Editors may hold one too.
func (p *Plugin) AddMember(tx *chain.Tx, account common.Address) error {
	if err := p.auth(tx, domain.UpdateAddressesPermissionID); err != nil {
		return err
	}
	if account == (common.Address{}) {
		return fmt.Errorf("%w: member", domain.ErrInvalidAddress)
	}
	if p.members[account] {
		return fmt.Errorf("%w: %s", domain.ErrAlreadyAMember, account.Hex())
	}
	chain.MapSet(tx.Journal(), p.members, account, true)
	tx.Emit(&domain.AddressEvent{Type: domain.EventTypeMemberAdded, Account: account})
	p.log.Debug("member added", "account", account)
	return nil
}

// RemoveMember revokes the explicit membership of account. Editorship is untouched.
func (p *Plugin) RemoveMember(tx *chain.Tx, account common.Address) error {
	if err := p.auth(tx, domain.UpdateAddressesPermissionID); err != nil {
		return err
	}
	if !p.members[account] {
		return fmt.Errorf("%w: %s", domain.ErrNotAMember, account.Hex())
	}
	p.removeMember(tx, account)
	return nil
}

func (p *Plugin) removeMember(tx *chain.Tx, account common.Address) {
	chain.MapDelete(tx.Journal(), p.members, account)
	tx.Emit(&domain.AddressEvent{Type: domain.EventTypeMemberRemoved, Account: account})
	p.log.Debug("member removed", "account", account)
}

// LeaveSpace strips both editorship and membership from the sender
func (p *Plugin) LeaveSpace(tx *chain.Tx) error {
	if !p.initialized {
		return domain.ErrNotInitialized
	}
	account := tx.Sender()
	if !p.IsMember(account) {
		return fmt.Errorf("%w: %s", domain.ErrNotAMember, account.Hex())
	}
	if p.IsEditor(account) {
		if err := p.removeEditor(tx, account); err != nil {
			return err
		}
	}
	if p.members[account] {
		p.removeMember(tx, account)
	}
	return nil
}

// LeaveSpaceAsEditor strips only editorship from the sender
func (p *Plugin) LeaveSpaceAsEditor(tx *chain.Tx) error {
	if !p.initialized {
		return domain.ErrNotInitialized
	}
	account := tx.Sender()
	if !p.IsEditor(account) {
		return fmt.Errorf("%w: %s", domain.ErrNotAnEditor, account.Hex())
	}
	return p.removeEditor(tx, account)
}

// ProposeAddEditor creates a proposal whose single action lists account as an editor
func (p *Plugin) ProposeAddEditor(tx *chain.Tx, metadata []byte, account common.Address) (uint64, error) {
	if account == (common.Address{}) {
		return 0, fmt.Errorf("%w: editor", domain.ErrInvalidAddress)
	}
	if p.IsEditor(account) {
		return 0, fmt.Errorf("%w: %s", domain.ErrAlreadyAnEditor, account.Hex())
	}
	return p.proposeMemberChange(tx, metadata, domain.MemberChangeAddEditor, account)
}

// ProposeRemoveEditor creates a proposal whose single action unlists account
func (p *Plugin) ProposeRemoveEditor(tx *chain.Tx, metadata []byte, account common.Address) (uint64, error) {
	if !p.IsEditor(account) {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotAnEditor, account.Hex())
	}
	return p.proposeMemberChange(tx, metadata, domain.MemberChangeRemoveEditor, account)
}

// ProposeRemoveMember creates a proposal whose single action revokes the membership of account
func (p *Plugin) ProposeRemoveMember(tx *chain.Tx, metadata []byte, account common.Address) (uint64, error) {
	if !p.members[account] {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotAMember, account.Hex())
	}
	return p.proposeMemberChange(tx, metadata, domain.MemberChangeRemoveMember, account)
}

func (p *Plugin) proposeMemberChange(tx *chain.Tx, metadata []byte, kind domain.MemberChangeKind, account common.Address) (uint64, error) {
	if !p.initialized {
		return 0, domain.ErrNotInitialized
	}
	creator := tx.Sender()
	if err := p.checkProposer(creator); err != nil {
		return 0, err
	}
	data, err := bindings.PackMemberChange(kind, account)
	if err != nil {
		return 0, err
	}
	params := CreateProposalParams{
		Metadata: metadata,
		Actions:  []domain.Action{{To: tx.Self(), Value: new(big.Int), Data: data}},
	}
	// an editor proposing counts as a yes vote
	if p.IsEditorAt(creator, tx.BlockNumber()-1) {
		params.VoteOption = domain.VoteYes
		params.TryEarlyExecution = true
	}
	return p.createProposal(tx, creator, params)
}

// ProposeAddMember asks the member approval plugin to admit account, with the sender as proposer
func (p *Plugin) ProposeAddMember(tx *chain.Tx, metadata []byte, account common.Address) (uint64, error) {
	if !p.initialized {
		return 0, domain.ErrNotInitialized
	}
	if p.memberAcc == (common.Address{}) {
		return 0, fmt.Errorf("%w: no member access plugin", domain.ErrInvalidAddress)
	}
	if metadata == nil {
		metadata = []byte{}
	}
	contract := bindings.MemberAccess()
	data, err := contract.Pack("proposeMemberChangeFor", metadata, account, uint8(domain.MemberChangeAddMember), tx.Sender())
	if err != nil {
		return 0, err
	}
	ret, err := tx.Call(p.memberAcc, nil, data)
	if err != nil {
		return 0, err
	}
	out, err := contract.UnpackOutputs("proposeMemberChangeFor", ret)
	if err != nil {
		return 0, err
	}
	return out[0].(*big.Int).Uint64(), nil
}
