package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/cli/render"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/usecase"
)

// NewProposeCmd creates the propose command
func NewProposeCmd() *cobra.Command {
	var (
		metadata     string
		actions      []string
		settings     []string
		daoMetadata  string
		allowFailure []uint
		startDate    uint64
		endDate      uint64
		vote         string
		tryEarly     bool
	)

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Create a majority voting proposal",
		Long: `Create a majority voting proposal carrying zero or more actions the DAO
executes once the proposal passes.

Actions are written as to:value:0xdata where "to" is an account alias, a
space contract role (dao, main-voting, member-access) or an address.`,
		Example: `  # Signal-only proposal, voting yes right away
  spacegov propose --metadata "Adopt the charter" --vote yes

  # Change the voting settings
  spacegov propose --metadata "Stricter votes" --setting support=66% --setting mode=early-execution

  # Send 1 wei from the treasury to carol
  spacegov propose --action carol:1:0x`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.CreateProposalParams{
				Metadata:     metadata,
				Actions:      actions,
				DAOMetadata:  daoMetadata,
				AllowFailure: allowFailure,
				StartDate:    startDate,
				EndDate:      endDate,
				TryEarly:     tryEarly,
			}
			if params.Vote, err = domain.ParseVoteOption(vote); err != nil {
				return err
			}
			if params.VotingSettings, err = parseSettings(settings); err != nil {
				return err
			}

			result, err := app.CreateProposal.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result.Proposal)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.FormatSuccess(fmt.Sprintf("Proposal #%d created in block %d", result.Proposal.ID, result.Block)))
			return render.NewProposalsRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderProposal(result.Proposal, chainTime(cmd, app))
		},
	}

	cmd.Flags().StringVarP(&metadata, "metadata", "m", "", "Proposal description")
	cmd.Flags().StringArrayVarP(&actions, "action", "a", nil, "Action as to:value:0xdata (repeatable)")
	cmd.Flags().StringArrayVar(&settings, "setting", nil, "Voting setting change as key=value: mode, support, participation, duration (repeatable)")
	cmd.Flags().StringVar(&daoMetadata, "dao-metadata", "", "Replace the DAO metadata")
	cmd.Flags().UintSliceVar(&allowFailure, "allow-failure", nil, "Indexes of actions allowed to fail")
	cmd.Flags().Uint64Var(&startDate, "start", 0, "Voting start as unix time (default: now)")
	cmd.Flags().Uint64Var(&endDate, "end", 0, "Voting end as unix time (default: start + voting duration)")
	cmd.Flags().StringVar(&vote, "vote", "", "Vote right away: yes, no or abstain")
	cmd.Flags().BoolVar(&tryEarly, "try-early", false, "Execute right away when the creator's vote settles the outcome")

	return cmd
}

// parseSettings reads key=value pairs
func parseSettings(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q, expected key=value", pair)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}
