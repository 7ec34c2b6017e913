package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget every recorded transaction",
		Long: `Delete the transaction log under .spacegov/ so the next command starts
again from the genesis in space.toml. Needed after editing space.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			if !app.Config.NonInteractive {
				fmt.Fprint(cmd.OutOrStdout(), "Are you sure you want to reset the space history? This cannot be undone. [y/N]: ")
				var response string
				if _, err := fmt.Fscanln(cmd.InOrStdin(), &response); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
					return nil
				}

				if strings.ToLower(strings.TrimSpace(response)) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
					return nil
				}
			}

			if err := app.ResetSpace.Run(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Successfully reset the space history.")
			return nil
		},
	}

	return cmd
}
