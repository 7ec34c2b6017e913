package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/cli/render"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/usecase"
)

// NewVoteCmd creates the vote command
func NewVoteCmd() *cobra.Command {
	var tryEarly bool

	cmd := &cobra.Command{
		Use:   "vote <yes|no|abstain> [proposal-id]",
		Short: "Vote on a proposal",
		Long: `Cast the sender's vote on a majority voting proposal. Only editors hold
voting power. Without an id, pick among the proposals the sender can vote on.`,
		Example: `  spacegov vote yes 0 --from bob
  spacegov vote no --try-early`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			option, err := domain.ParseVoteOption(args[0])
			if err != nil {
				return err
			}
			if option == domain.VoteNone {
				return fmt.Errorf("vote option required: yes, no or abstain")
			}
			id, err := optionalID(args, 1)
			if err != nil {
				return err
			}

			result, err := app.CastVote.Run(cmd.Context(), usecase.CastVoteParams{
				ProposalID: id,
				Option:     option,
				TryEarly:   tryEarly,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result.Proposal)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Voted %s on proposal #%d", option, result.Proposal.ID)))
			return render.NewProposalsRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderProposal(result.Proposal, chainTime(cmd, app))
		},
	}

	cmd.Flags().BoolVar(&tryEarly, "try-early", false, "Execute right away when this vote settles the outcome")

	return cmd
}
