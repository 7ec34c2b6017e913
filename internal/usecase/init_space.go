package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/spacegov/spacegov/internal/domain/config"
)

// InitSpaceParams contains parameters for creating a new space project
type InitSpaceParams struct {
	Metadata string
	// Editors and Members name accounts; every name gets a deterministic address
	Editors []string
	Members []string
	Mode    string
	Force   bool
}

// InitSpaceResult reports the written genesis
type InitSpaceResult struct {
	Path    string
	Genesis *config.GenesisFile
}

// InitSpace is the use case for writing a starter space.toml
type InitSpace struct {
	writer GenesisWriter
	store  TxLogStore
}

// NewInitSpace creates a new InitSpace use case
func NewInitSpace(writer GenesisWriter, store TxLogStore) *InitSpace {
	return &InitSpace{writer: writer, store: store}
}

// Run executes the init space use case
func (uc *InitSpace) Run(ctx context.Context, params InitSpaceParams) (*InitSpaceResult, error) {
	if uc.writer.GenesisExists(ctx) && !params.Force {
		return nil, fmt.Errorf("space.toml already exists, use --force to overwrite")
	}
	if len(params.Editors) == 0 {
		params.Editors = []string{"alice"}
	}
	if params.Mode == "" {
		params.Mode = "standard"
	}
	if params.Metadata == "" {
		params.Metadata = "ipfs://space"
	}

	genesis := &config.GenesisFile{
		Space: config.SpaceSection{
			Metadata: params.Metadata,
			Editors:  params.Editors,
			Members:  params.Members,
		},
		Accounts: make(map[string]string),
		Voting: config.VotingSection{
			Mode:             params.Mode,
			SupportThreshold: "50%",
			MinParticipation: "25%",
			Duration:         "24h",
		},
		Multisig: config.MultisigSection{ProposalDuration: "168h"},
	}
	for _, name := range append(append([]string{}, params.Editors...), params.Members...) {
		genesis.Accounts[name] = DevAccount(name)
	}

	// validate before writing
	if _, err := config.ParseVotingSection(genesis.Voting); err != nil {
		return nil, err
	}

	path, err := uc.writer.WriteGenesis(ctx, genesis)
	if err != nil {
		return nil, err
	}
	if err := uc.store.Reset(ctx); err != nil {
		return nil, err
	}
	return &InitSpaceResult{Path: path, Genesis: genesis}, nil
}

// DevAccount derives a stable address for an account name
func DevAccount(name string) string {
	return common.BytesToAddress(crypto.Keccak256([]byte("spacegov.account." + name))[12:]).Hex()
}

// ResetSpace is the use case for discarding the recorded history
type ResetSpace struct {
	store TxLogStore
}

// NewResetSpace creates a new ResetSpace use case
func NewResetSpace(store TxLogStore) *ResetSpace {
	return &ResetSpace{store: store}
}

// Run executes the reset space use case
func (uc *ResetSpace) Run(ctx context.Context) error {
	return uc.store.Reset(ctx)
}
