package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/spacegov/spacegov/internal/usecase"
)

// SpaceRenderer renders the space overview
type SpaceRenderer struct {
	out   io.Writer
	color bool
}

// NewSpaceRenderer creates a new space renderer
func NewSpaceRenderer(out io.Writer, color bool) *SpaceRenderer {
	return &SpaceRenderer{
		out:   out,
		color: color,
	}
}

// RenderSpace renders settings, contracts and members
func (r *SpaceRenderer) RenderSpace(info *usecase.SpaceInfo) error {
	heading := info.Metadata
	if heading == "" {
		heading = "Space"
	}
	fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "%s", heading))
	fmt.Fprintf(r.out, "%s\n\n", paint(r.color, timestampStyle, "block %d · %s · %d transactions", info.Block, formatTime(info.Time), info.Transactions))

	fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "Voting"))
	for _, key := range []string{"mode", "support", "participation", "duration"} {
		r.field(title(key), info.Settings[key])
	}
	r.field("Proposers", info.ProposerGate)
	r.field("Requests", "open for "+formatSeconds(info.MultisigSettings.ProposalDuration))
	r.field("Treasury", info.Treasury.String()+" wei")
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "Contracts"))
	roles := make([]string, 0, len(info.Contracts))
	for role := range info.Contracts {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		r.field(role, info.Contracts[role].Hex())
	}
	fmt.Fprintln(r.out)

	return r.RenderMembers(info.Members)
}

// RenderMembers renders the member table
func (r *SpaceRenderer) RenderMembers(members []usecase.MemberInfo) error {
	fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "Members"))
	if len(members) == 0 {
		fmt.Fprintln(r.out, "No members")
		return nil
	}

	t := newPlainTable()
	t.AppendHeader(table.Row{"Name", "Address", "Role"})
	for _, m := range members {
		role := "member"
		if m.Editor {
			role = paint(r.color, yesStyle, "editor")
			if m.Explicit {
				role += ", member"
			}
		}
		t.AppendRow(table.Row{paint(r.color, accountStyle, "%s", m.Name), m.Address.Hex(), role})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderLeave renders the sender's standing after leaving
func (r *SpaceRenderer) RenderLeave(result *usecase.LeaveSpaceResult) error {
	switch {
	case result.IsEditor:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is still an editor", result.Account)))
	case result.IsMember:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s is no longer an editor but stays a member", result.Account)))
	default:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s left the space", result.Account)))
	}
	return nil
}

func (r *SpaceRenderer) field(name, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", paint(r.color, labelStyle, "%-14s", name+":"), value)
}
