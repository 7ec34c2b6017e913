package cli

import (
	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/cli/render"
)

// NewSpaceCmd creates the space command
func NewSpaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "space",
		Aliases: []string{"status"},
		Short:   "Show the space settings, contracts and members",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			info, err := app.ShowSpace.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, info)
			}
			return render.NewSpaceRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderSpace(info)
		},
	}
}
