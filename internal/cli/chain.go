package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/cli/render"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

// NewAdvanceCmd creates the advance command
func NewAdvanceCmd() *cobra.Command {
	var blocks uint64

	cmd := &cobra.Command{
		Use:   "advance [duration]",
		Short: "Let time pass on the local chain",
		Long: `Move the chain clock forward. The duration is a Go duration ("25h",
"90m") or a number of seconds. With --blocks, also mine that many blocks.`,
		Example: `  spacegov advance 168h
  spacegov advance --blocks 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.AdvanceChainParams{Blocks: blocks}
			if len(args) == 1 {
				seconds, err := config.ParseSeconds(args[0])
				if err != nil {
					return err
				}
				params.Duration = time.Duration(seconds) * time.Second
			}
			if params.Duration == 0 && params.Blocks == 0 {
				return fmt.Errorf("nothing to advance: give a duration or --blocks")
			}

			clock, err := app.AdvanceChain.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, clock)
			}
			return render.NewChainRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderClock(clock)
		},
	}

	cmd.Flags().Uint64Var(&blocks, "blocks", 0, "Number of blocks to mine")

	return cmd
}

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	var value string

	cmd := &cobra.Command{
		Use:   "call <to> <0xdata>",
		Short: "Send a raw transaction to a space contract",
		Long: `Send calldata straight to a contract, bypassing the proposal flow. The
target is a space contract role (dao, main-voting, member-access), an
account alias or an address. Most DAO methods need a permission the
sender does not hold, so this mostly shows how the permission checks bite.`,
		Example: `  spacegov call dao 0x... --from alice`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.SubmitCallParams{To: args[0], Data: args[1]}
			if value != "" {
				v, ok := new(big.Int).SetString(value, 10)
				if !ok || v.Sign() < 0 {
					return fmt.Errorf("invalid value %q", value)
				}
				params.Value = v
			}

			result, err := app.SubmitCall.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result)
			}
			return render.NewChainRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderCall(result)
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Wei to send along")

	return cmd
}
