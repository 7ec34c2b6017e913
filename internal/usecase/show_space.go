package usecase

import (
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/domain"
)

// MemberInfo is one account with its roles
type MemberInfo struct {
	Name     string         `json:"name"`
	Address  common.Address `json:"address"`
	Editor   bool           `json:"editor"`
	Explicit bool           `json:"explicitMember"`
}

// SpaceInfo summarises an installed space
type SpaceInfo struct {
	Metadata         string                    `json:"metadata"`
	Contracts        map[string]common.Address `json:"contracts"`
	Treasury         *big.Int                  `json:"treasury"`
	VotingSettings   domain.VotingSettings     `json:"votingSettings"`
	Settings         map[string]string         `json:"settings"`
	MultisigSettings domain.MultisigSettings   `json:"multisigSettings"`
	ProposerGate     string                    `json:"proposerGate"`
	Members          []MemberInfo              `json:"members"`
	Block            uint64                    `json:"block"`
	Time             uint64                    `json:"time"`
	Transactions     int                       `json:"transactions"`
}

// ShowSpace is the use case for listing members, editors and settings
type ShowSpace struct {
	open *OpenSpace
}

// NewShowSpace creates a new ShowSpace use case
func NewShowSpace(open *OpenSpace) *ShowSpace {
	return &ShowSpace{open: open}
}

// Run executes the show space use case
func (uc *ShowSpace) Run(ctx context.Context) (*SpaceInfo, error) {
	s, err := uc.open.Run(ctx)
	if err != nil {
		return nil, err
	}

	info := &SpaceInfo{
		Contracts:    s.space.Addresses(),
		Treasury:     s.rt.Balance(s.space.DAOAddress),
		Transactions: len(s.History()),
	}
	info.Block, info.Time = s.Now()

	s.rt.View(func() {
		mv := s.space.MainVoting
		info.Metadata = string(s.space.DAO.Metadata())
		info.VotingSettings = mv.VotingSettings()
		info.Settings = FormatSettings(info.VotingSettings)
		info.MultisigSettings = s.space.MemberAccess.MultisigSettings()
		info.ProposerGate = mv.ProposerGate().String()

		for _, addr := range mv.Members() {
			info.Members = append(info.Members, MemberInfo{
				Name:     s.AccountName(addr),
				Address:  addr,
				Editor:   mv.IsEditor(addr),
				Explicit: mv.HasExplicitMembership(addr),
			})
		}
	})

	sort.Slice(info.Members, func(i, j int) bool {
		if info.Members[i].Editor != info.Members[j].Editor {
			return info.Members[i].Editor
		}
		return info.Members[i].Name < info.Members[j].Name
	})
	return info, nil
}
