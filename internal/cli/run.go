package cli

import (
	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/cli/render"
	"github.com/spacegov/spacegov/internal/usecase"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scripted governance scenario",
		Long: `Run the steps of a YAML scenario against the space. Each step is the same
operation as the matching command; steps may expect an error, in which
case failing with that message counts as success.`,
		Example: `  spacegov run scenarios/onboarding.yaml
  spacegov run flow.yaml --keep-going --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, runErr := app.RunScenario.Run(cmd.Context(), usecase.RunScenarioParams{
				Path:      args[0],
				KeepGoing: keepGoing,
			})
			if result == nil {
				return runErr
			}

			// the step table is shown even when a step failed
			var renderErr error
			if app.Config.JSON {
				renderErr = writeJSON(cmd, result)
			} else {
				renderErr = render.NewScenarioRenderer(cmd.OutOrStdout(), useColor(cmd)).Render(result)
			}
			if runErr != nil {
				return runErr
			}
			return renderErr
		},
	}

	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Run the remaining steps after a failure")

	return cmd
}
