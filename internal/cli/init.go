package cli

import (
	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/cli/render"
	"github.com/spacegov/spacegov/internal/usecase"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var params usecase.InitSpaceParams

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new space",
		Long: `Write a space.toml genesis in the current directory and clear any
recorded history. Every named account gets a deterministic development
address; edit the [accounts] table to use real ones.`,
		Example: `  spacegov init
  spacegov init --editor alice --editor bob --member carol --mode early-execution`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.InitSpace.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result)
			}
			return render.NewInitRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVarP(&params.Metadata, "metadata", "m", "", "DAO metadata")
	cmd.Flags().StringArrayVar(&params.Editors, "editor", nil, "Initial editor name (repeatable, default: alice)")
	cmd.Flags().StringArrayVar(&params.Members, "member", nil, "Initial member name (repeatable)")
	cmd.Flags().StringVar(&params.Mode, "mode", "", "Voting mode: standard, early-execution or vote-replacement")
	cmd.Flags().BoolVarP(&params.Force, "force", "f", false, "Overwrite an existing space.toml")

	return cmd
}
