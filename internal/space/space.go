// Package space installs a DAO with its two governance plugins and wires
// the permission graph between them.
package space

import (
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/chain"
	"github.com/spacegov/spacegov/internal/conditions"
	"github.com/spacegov/spacegov/internal/dao"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/bindings"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/governance/mainvoting"
	"github.com/spacegov/spacegov/internal/governance/memberaccess"
)

// Space is an installed DAO with its plugins
type Space struct {
	Runtime *chain.Runtime

	DAO          *dao.DAO
	MainVoting   *mainvoting.Plugin
	MemberAccess *memberaccess.Plugin

	DAOAddress          common.Address
	MainVotingAddress   common.Address
	MemberAccessAddress common.Address

	// condition limiting the member approval plugin to membership changes
	MemberChangeCondition common.Address
	// condition limiting the plugin upgrader, zero without an upgrader
	UpgraderCondition common.Address
}

// MemberChangeMethods are the main voting methods the member approval plugin may have the DAO call
var MemberChangeMethods = []string{"addMember", "removeMember", "addEditor", "removeEditor"}

// Install deploys and initializes a space in one transaction sent by
// cfg.Installer, then mines a block so proposals can be created right away.
// The installer holds no permission afterwards.
func Install(rt *chain.Runtime, cfg *config.SpaceConfig, log *slog.Logger) (*Space, error) {
	log = log.With("component", "space")
	s := &Space{
		Runtime:      rt,
		DAO:          dao.New(log),
		MainVoting:   mainvoting.New(log),
		MemberAccess: memberaccess.New(log),
	}

	_, err := rt.Transact(cfg.Installer, func(tx *chain.Tx) error {
		s.DAOAddress = tx.Deploy(s.DAO)
		s.MainVotingAddress = tx.Deploy(s.MainVoting)
		s.MemberAccessAddress = tx.Deploy(s.MemberAccess)

		if err := tx.Enter(s.DAOAddress, func(sub *chain.Tx) error {
			return s.DAO.Initialize(sub, cfg.Metadata, cfg.Installer)
		}); err != nil {
			return fmt.Errorf("initialize dao: %w", err)
		}
		if err := tx.Enter(s.MainVotingAddress, func(sub *chain.Tx) error {
			return s.MainVoting.Initialize(sub, mainvoting.InitParams{
				DAO:            s.DAOAddress,
				Settings:       cfg.Voting,
				InitialEditors: cfg.Editors,
				InitialMembers: cfg.Members,
				MemberAccess:   s.MemberAccessAddress,
				ProposerGate:   cfg.ProposerGate,
			})
		}); err != nil {
			return fmt.Errorf("initialize main voting: %w", err)
		}
		if err := tx.Enter(s.MemberAccessAddress, func(sub *chain.Tx) error {
			return s.MemberAccess.Initialize(sub, s.DAOAddress, cfg.Multisig, s.MainVotingAddress)
		}); err != nil {
			return fmt.Errorf("initialize member access: %w", err)
		}

		memberChange := make(conditions.AnyOf, 0, len(MemberChangeMethods))
		for _, method := range MemberChangeMethods {
			memberChange = append(memberChange,
				conditions.NewExecuteSelector(s.MainVotingAddress, bindings.MainVoting().Selector(method)))
		}
		s.MemberChangeCondition = tx.Deploy(conditions.NewContract(memberChange))

		return s.grantAll(tx, cfg)
	})
	if err != nil {
		return nil, err
	}
	if cfg.Treasury != nil && cfg.Treasury.Sign() > 0 {
		rt.Fund(s.DAOAddress, cfg.Treasury)
	}
	rt.Mine(1)

	log.Debug("space installed",
		"dao", s.DAOAddress, "mainVoting", s.MainVotingAddress, "memberAccess", s.MemberAccessAddress,
		"editors", len(cfg.Editors), "members", len(cfg.Members))
	return s, nil
}

type grant struct {
	where, who common.Address
	id         common.Hash
	condition  common.Address
}

func (s *Space) grantAll(tx *chain.Tx, cfg *config.SpaceConfig) error {
	grants := []grant{
		{s.DAOAddress, s.MainVotingAddress, domain.ExecutePermissionID, domain.AllowFlag},
		{s.DAOAddress, s.MemberAccessAddress, domain.ExecutePermissionID, s.MemberChangeCondition},
		{s.MainVotingAddress, s.DAOAddress, domain.UpdateAddressesPermissionID, domain.AllowFlag},
		{s.MainVotingAddress, s.DAOAddress, domain.UpdateVotingSettingsPermissionID, domain.AllowFlag},
		{s.MainVotingAddress, s.DAOAddress, domain.UpgradePluginPermissionID, domain.AllowFlag},
		{s.MemberAccessAddress, s.DAOAddress, domain.UpdateMultisigSettingsPermissionID, domain.AllowFlag},
		{s.MemberAccessAddress, s.DAOAddress, domain.UpgradePluginPermissionID, domain.AllowFlag},
		{s.MemberAccessAddress, s.MainVotingAddress, domain.ProposerPermissionID, domain.AllowFlag},
		{s.DAOAddress, s.DAOAddress, domain.RootPermissionID, domain.AllowFlag},
		{s.DAOAddress, s.DAOAddress, domain.SetMetadataPermissionID, domain.AllowFlag},
	}

	if cfg.PluginUpgrader != (common.Address{}) {
		s.UpgraderCondition = tx.Deploy(conditions.NewContract(conditions.AnyOf{
			conditions.NewGrantRevoke(s.MainVotingAddress, domain.UpgradePluginPermissionID),
			conditions.NewGrantRevoke(s.MemberAccessAddress, domain.UpgradePluginPermissionID),
		}))
		grants = append(grants, grant{s.DAOAddress, cfg.PluginUpgrader, domain.RootPermissionID, s.UpgraderCondition})
	}

	for _, g := range grants {
		var (
			data []byte
			err  error
		)
		if g.condition == domain.AllowFlag {
			data, err = bindings.PackGrant(g.where, g.who, g.id)
		} else {
			data, err = bindings.PackGrantWithCondition(g.where, g.who, g.id, g.condition)
		}
		if err != nil {
			return err
		}
		if _, err := tx.Call(s.DAOAddress, nil, data); err != nil {
			return fmt.Errorf("grant %s to %s: %w", domain.PermissionName(g.id), g.who.Hex(), err)
		}
	}

	data, err := bindings.PackRevoke(s.DAOAddress, cfg.Installer, domain.RootPermissionID)
	if err != nil {
		return err
	}
	if _, err := tx.Call(s.DAOAddress, nil, data); err != nil {
		return fmt.Errorf("revoke installer root: %w", err)
	}
	return nil
}

// Addresses lists the deployed contracts by role
func (s *Space) Addresses() map[string]common.Address {
	out := map[string]common.Address{
		"dao":           s.DAOAddress,
		"main-voting":   s.MainVotingAddress,
		"member-access": s.MemberAccessAddress,
		"member-change": s.MemberChangeCondition,
	}
	if s.UpgraderCondition != (common.Address{}) {
		out["upgrader-condition"] = s.UpgraderCondition
	}
	return out
}
