package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/app"
	"github.com/spacegov/spacegov/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// releaseKey is the context key for the func that stops the app's
	// progress output and cancels the command context
	releaseKey contextKey = "release"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spacegov",
		Short: "Local governance for personal DAO spaces",
		Long: `spacegov runs a DAO space with majority voting and member approval
plugins on a local simulated chain. Every transaction is recorded under
.spacegov/ and replayed on the next command, so proposals, votes and
membership persist between runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				// init creates the project
				if cmd.Name() != "init" {
					return err
				}
				if projectRoot, err = os.Getwd(); err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			var (
				ctx    context.Context
				cancel context.CancelFunc
			)
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(cmd.Context(), appInstance.Config.Timeout)
			} else {
				ctx, cancel = context.WithCancel(cmd.Context())
			}
			release := func() {
				if s, ok := appInstance.Progress.(interface{ Stop() }); ok {
					s.Stop()
				}
				cancel()
			}
			ctx = context.WithValue(ctx, appKey, appInstance)
			ctx = context.WithValue(ctx, releaseKey, release)

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("from", "", "Account alias or address to send transactions from")
	rootCmd.PersistentFlags().String("genesis", "", "Genesis file (defaults to space.toml in the project root)")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "governance",
		Title: "Governance Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "membership",
		Title: "Membership Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	for _, c := range []*cobra.Command{
		NewProposeCmd(),
		NewVoteCmd(),
		NewExecuteCmd(),
		NewCancelCmd(),
		NewProposalsCmd(),
		NewShowCmd(),
	} {
		c.GroupID = "governance"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewRequestCmd(),
		NewApproveCmd(),
		NewRejectCmd(),
		NewExecuteRequestCmd(),
		NewLeaveCmd(),
		NewMembersCmd(),
	} {
		c.GroupID = "membership"
		rootCmd.AddCommand(c)
	}

	for _, c := range []*cobra.Command{
		NewInitCmd(),
		NewSpaceCmd(),
		NewAdvanceCmd(),
		NewCallCmd(),
		NewRunCmd(),
		NewResetCmd(),
		NewConfigCmd(),
	} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	rootCmd.AddCommand(NewVersionCmd())
	releaseAfterRun(rootCmd)

	return rootCmd
}

// releaseAfterRun wraps every RunE so the app is released whether the
// command succeeds or fails. Cobra skips the post-run hooks on error.
func releaseAfterRun(cmd *cobra.Command) {
	for _, c := range cmd.Commands() {
		releaseAfterRun(c)
		if c.RunE == nil {
			continue
		}
		run := c.RunE
		c.RunE = func(cmd *cobra.Command, args []string) error {
			defer release(cmd)
			return run(cmd, args)
		}
	}
}

func release(cmd *cobra.Command) {
	if fn, ok := cmd.Context().Value(releaseKey).(func()); ok {
		fn()
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
