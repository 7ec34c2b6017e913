package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/app"
	"github.com/spacegov/spacegov/internal/cli/render"
	"github.com/spacegov/spacegov/internal/usecase"
)

type proposalAction func(ctx context.Context, params usecase.ProposalActionParams) (*usecase.ProposalResult, error)

// NewExecuteCmd creates the execute command
func NewExecuteCmd() *cobra.Command {
	return newProposalActionCmd("execute", "Execute a passed proposal", "Executed",
		func(a *app.App) proposalAction { return a.ExecuteProposal.Run })
}

// NewCancelCmd creates the cancel command
func NewCancelCmd() *cobra.Command {
	return newProposalActionCmd("cancel", "Cancel your own proposal before it ends", "Canceled",
		func(a *app.App) proposalAction { return a.CancelProposal.Run })
}

func newProposalActionCmd(use, short, done string, pick func(*app.App) proposalAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [proposal-id]",
		Short: short,
		Long:  short + ". Without an id, pick among the eligible proposals.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := optionalID(args, 0)
			if err != nil {
				return err
			}

			result, err := pick(app)(cmd.Context(), usecase.ProposalActionParams{ProposalID: id})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result.Proposal)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("%s proposal #%d", done, result.Proposal.ID)))
			return render.NewProposalsRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderProposal(result.Proposal, chainTime(cmd, app))
		},
	}
}
