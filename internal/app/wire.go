//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/spacegov/spacegov/internal/adapters"
	"github.com/spacegov/spacegov/internal/config"
	"github.com/spacegov/spacegov/internal/logging"
	"github.com/spacegov/spacegov/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewOpenSpace,
		usecase.NewInitSpace,
		usecase.NewResetSpace,
		usecase.NewShowSpace,
		usecase.NewCreateProposal,
		usecase.NewCastVote,
		usecase.NewExecuteProposal,
		usecase.NewCancelProposal,
		usecase.NewListProposals,
		usecase.NewShowProposal,
		usecase.NewProposeMemberChange,
		usecase.NewReviewMemberChange,
		usecase.NewLeaveSpace,
		usecase.NewAdvanceChain,
		usecase.NewSubmitCall,
		usecase.NewRunScenario,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
