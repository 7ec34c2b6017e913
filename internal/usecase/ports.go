package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
)

// TxLogStore persists the transaction history of a space
type TxLogStore interface {
	// Load returns nil when nothing was recorded yet
	Load(ctx context.Context) (*domain.TxLog, error)
	Save(ctx context.Context, log *domain.TxLog) error
	Reset(ctx context.Context) error
}

// GenesisLoader reads the space genesis. The hash identifies the file content.
type GenesisLoader interface {
	LoadGenesis(ctx context.Context) (*config.SpaceConfig, common.Hash, error)
}

// GenesisWriter creates a new genesis file
type GenesisWriter interface {
	GenesisExists(ctx context.Context) bool
	WriteGenesis(ctx context.Context, genesis *config.GenesisFile) (string, error)
}

// ScenarioLoader reads a scripted sequence of governance steps
type ScenarioLoader interface {
	LoadScenario(ctx context.Context, path string) (*domain.Scenario, error)
}

// ProposalSelector lets the user pick proposals interactively
type ProposalSelector interface {
	SelectProposal(ctx context.Context, prompt string, choices []ProposalChoice) (*ProposalChoice, error)
	SelectProposals(ctx context.Context, prompt string, choices []ProposalChoice) ([]ProposalChoice, error)
}

// ActionDecoder turns raw action calldata into something readable. Target is
// the display name of action.To, which picks the ABI when it names a space contract.
type ActionDecoder interface {
	DecodeAction(action domain.Action, target string) *domain.DecodedAction
}

// ProposalChoice is one selectable proposal
type ProposalChoice struct {
	ID     uint64
	Label  string
	Status string
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// LocalConfigStore persists the local config
type LocalConfigStore interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}
