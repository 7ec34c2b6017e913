package cli

import (
	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/cli/render"
	"github.com/spacegov/spacegov/internal/usecase"
)

// NewProposalsCmd creates the proposals command
func NewProposalsCmd() *cobra.Command {
	var params usecase.ListProposalsParams

	cmd := &cobra.Command{
		Use:     "proposals",
		Aliases: []string{"ls", "list"},
		Short:   "List proposals and member requests",
		Example: `  spacegov proposals
  spacegov proposals --status open --requests`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListProposals.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result)
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderList(result)
		},
	}

	cmd.Flags().StringVar(&params.Status, "status", "", "Filter by status (pending, open, succeeded, executed, canceled, rejected, expired)")
	cmd.Flags().BoolVar(&params.OnlyRequests, "requests", false, "Only member requests")
	cmd.Flags().BoolVar(&params.OnlyProposals, "votes", false, "Only majority voting proposals")
	cmd.MarkFlagsMutuallyExclusive("requests", "votes")

	return cmd
}

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var request bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a proposal or member request",
		Example: `  spacegov show 0
  spacegov show 2 --request`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			result, err := app.ShowProposal.Run(cmd.Context(), usecase.ShowProposalParams{ID: id, Request: request})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result)
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderShow(result)
		},
	}

	cmd.Flags().BoolVarP(&request, "request", "r", false, "Look the id up among member requests")

	return cmd
}
