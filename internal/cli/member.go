package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/cli/render"
	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/usecase"
)

// NewRequestCmd creates the request command
func NewRequestCmd() *cobra.Command {
	var (
		metadata string
		route    string
	)

	cmd := &cobra.Command{
		Use:     "request <add-member|remove-member|add-editor|remove-editor> <account>",
		Aliases: []string{"propose-member"},
		Short:   "Propose a membership change",
		Long: `Propose adding or removing a member or editor.

By default joining goes through member approval, where editors approve or
reject, and every other change opens a majority vote among editors. Use
--route to pick the engine explicitly.`,
		Example: `  # Ask to join
  spacegov request add-member carol --from carol --metadata "hi!"

  # Promote a member by editor vote
  spacegov request add-editor carol`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			kind, err := domain.ParseMemberChangeKind(args[0])
			if err != nil {
				return err
			}

			var r usecase.MemberChangeRoute
			switch route {
			case "", "auto":
				r = usecase.RouteAuto
			case string(usecase.RouteVote), string(usecase.RouteApproval):
				r = usecase.MemberChangeRoute(route)
			default:
				return fmt.Errorf("invalid route: %s (valid: auto, vote, approval)", route)
			}

			result, err := app.ProposeMemberChange.Run(cmd.Context(), usecase.ProposeMemberChangeParams{
				Kind:     kind,
				Target:   args[1],
				Metadata: metadata,
				Route:    r,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result)
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderMemberChange(result, chainTime(cmd, app))
		},
	}

	cmd.Flags().StringVarP(&metadata, "metadata", "m", "", "Request description")
	cmd.Flags().StringVar(&route, "route", "auto", "Decision engine: auto, vote or approval")

	return cmd
}

// NewApproveCmd creates the approve command
func NewApproveCmd() *cobra.Command {
	return newReviewCmd(usecase.DecisionApprove, "approve [request-id...]",
		"Approve member requests",
		"Approve one or more member requests as an editor. A request executes as soon as it has enough approvals.",
		cobra.ArbitraryArgs)
}

// NewRejectCmd creates the reject command
func NewRejectCmd() *cobra.Command {
	return newReviewCmd(usecase.DecisionReject, "reject [request-id]",
		"Reject a member request",
		"Reject a member request as an editor. A rejected request can no longer pass.",
		cobra.MaximumNArgs(1))
}

// NewExecuteRequestCmd creates the execute-request command
func NewExecuteRequestCmd() *cobra.Command {
	return newReviewCmd(usecase.DecisionExecute, "execute-request [request-id...]",
		"Execute approved member requests",
		"Execute member requests that reached their approvals but were not executed yet.",
		cobra.ArbitraryArgs)
}

func newReviewCmd(decision usecase.ReviewDecision, use, short, long string, argsCheck cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long + "\nWithout ids, pick among the open requests.",
		Args:  argsCheck,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ids := make([]uint64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			result, err := app.ReviewMemberChange.Run(cmd.Context(), usecase.ReviewMemberChangeParams{
				Decision:   decision,
				RequestIDs: ids,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result.Requests)
			}
			return render.NewProposalsRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderReview(result, decision, chainTime(cmd, app))
		},
	}
}

// NewLeaveCmd creates the leave command
func NewLeaveCmd() *cobra.Command {
	var editorOnly bool

	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Leave the space",
		Long: `Give up the sender's membership. Editors leave entirely unless
--editor-only is set, which keeps an explicit membership. The last editor
cannot leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.LeaveSpace.Run(cmd.Context(), usecase.LeaveSpaceParams{EditorOnly: editorOnly})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return writeJSON(cmd, result)
			}
			return render.NewSpaceRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderLeave(result)
		},
	}

	cmd.Flags().BoolVar(&editorOnly, "editor-only", false, "Step down as editor but stay a member")

	return cmd
}

// NewMembersCmd creates the members command
func NewMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List members and editors",
		Args:  cobra.NoArgs,
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
				return writeJSON(cmd, info.Members)
			}
			return render.NewSpaceRenderer(cmd.OutOrStdout(), useColor(cmd)).RenderMembers(info.Members)
		},
	}
}
