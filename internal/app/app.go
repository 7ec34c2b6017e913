package app

import (
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Progress usecase.ProgressSink

	// Use cases
	OpenSpace           *usecase.OpenSpace
	InitSpace           *usecase.InitSpace
	ResetSpace          *usecase.ResetSpace
	ShowSpace           *usecase.ShowSpace
	CreateProposal      *usecase.CreateProposal
	CastVote            *usecase.CastVote
	ExecuteProposal     *usecase.ExecuteProposal
	CancelProposal      *usecase.CancelProposal
	ListProposals       *usecase.ListProposals
	ShowProposal        *usecase.ShowProposal
	ProposeMemberChange *usecase.ProposeMemberChange
	ReviewMemberChange  *usecase.ReviewMemberChange
	LeaveSpace          *usecase.LeaveSpace
	AdvanceChain        *usecase.AdvanceChain
	SubmitCall          *usecase.SubmitCall
	RunScenario         *usecase.RunScenario
	ShowConfig          *usecase.ShowConfig
	SetConfig           *usecase.SetConfig
	RemoveConfig        *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	sink usecase.ProgressSink,
	openSpace *usecase.OpenSpace,
	initSpace *usecase.InitSpace,
	resetSpace *usecase.ResetSpace,
	showSpace *usecase.ShowSpace,
	createProposal *usecase.CreateProposal,
	castVote *usecase.CastVote,
	executeProposal *usecase.ExecuteProposal,
	cancelProposal *usecase.CancelProposal,
	listProposals *usecase.ListProposals,
	showProposal *usecase.ShowProposal,
	proposeMemberChange *usecase.ProposeMemberChange,
	reviewMemberChange *usecase.ReviewMemberChange,
	leaveSpace *usecase.LeaveSpace,
	advanceChain *usecase.AdvanceChain,
	submitCall *usecase.SubmitCall,
	runScenario *usecase.RunScenario,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:              cfg,
		Progress:            sink,
		OpenSpace:           openSpace,
		InitSpace:           initSpace,
		ResetSpace:          resetSpace,
		ShowSpace:           showSpace,
		CreateProposal:      createProposal,
		CastVote:            castVote,
		ExecuteProposal:     executeProposal,
		CancelProposal:      cancelProposal,
		ListProposals:       listProposals,
		ShowProposal:        showProposal,
		ProposeMemberChange: proposeMemberChange,
		ReviewMemberChange:  reviewMemberChange,
		LeaveSpace:          leaveSpace,
		AdvanceChain:        advanceChain,
		SubmitCall:          submitCall,
		RunScenario:         runScenario,
		ShowConfig:          showConfig,
		SetConfig:           setConfig,
		RemoveConfig:        removeConfig,
	}, nil
}
