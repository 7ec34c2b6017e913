package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/ratio"
	"github.com/spacegov/spacegov/internal/usecase"
)

// ProposalsRenderer renders proposals and member requests
type ProposalsRenderer struct {
	out   io.Writer
	color bool
}

// NewProposalsRenderer creates a new proposals renderer
func NewProposalsRenderer(out io.Writer, color bool) *ProposalsRenderer {
	return &ProposalsRenderer{
		out:   out,
		color: color,
	}
}

// RenderList renders the proposal and request tables
func (r *ProposalsRenderer) RenderList(result *usecase.ListProposalsResult) error {
	fmt.Fprintf(r.out, "%s\n\n", paint(r.color, timestampStyle, "block %d · %s", result.Block, formatTime(result.Time)))

	if len(result.Proposals) == 0 && len(result.Requests) == 0 {
		fmt.Fprintln(r.out, "No proposals found")
		return nil
	}

	if len(result.Proposals) > 0 {
		fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "Proposals"))
		t := newPlainTable()
		t.AppendHeader(table.Row{"ID", "Status", "Yes/No/Abstain", "Ends", "Creator", "Metadata"})
		for _, p := range result.Proposals {
			t.AppendRow(table.Row{
				paint(r.color, idStyle, "#%d", p.ID),
				paint(r.color, statusStyle(string(p.Status)), "%s", p.Status),
				r.tally(p.Tally),
				formatRemaining(result.Time, p.Parameters.EndDate),
				paint(r.color, accountStyle, "%s", p.Creator),
				truncate(p.Metadata, 40),
			})
		}
		fmt.Fprintln(r.out, t.Render())
		fmt.Fprintln(r.out)
	}

	if len(result.Requests) > 0 {
		fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "Member requests"))
		t := newPlainTable()
		t.AppendHeader(table.Row{"ID", "Status", "Change", "Approvals", "Ends", "Creator"})
		for _, q := range result.Requests {
			t.AppendRow(table.Row{
				paint(r.color, idStyle, "#%d", q.ID),
				paint(r.color, statusStyle(string(q.Status)), "%s", q.Status),
				fmt.Sprintf("%s %s", q.KindName, paint(r.color, accountStyle, "%s", q.Target)),
				fmt.Sprintf("%d/%d", q.Approvals, q.Parameters.MinApprovals),
				formatRemaining(result.Time, q.Parameters.EndDate),
				paint(r.color, accountStyle, "%s", q.Creator),
			})
		}
		fmt.Fprintln(r.out, t.Render())
	}
	return nil
}

// RenderShow renders one proposal or request in detail
func (r *ProposalsRenderer) RenderShow(result *usecase.ShowProposalResult) error {
	if result.Request != nil {
		return r.RenderRequest(result.Request, result.Time)
	}
	return r.RenderProposal(result.Proposal, result.Time)
}

// RenderProposal renders a majority voting proposal
func (r *ProposalsRenderer) RenderProposal(p *usecase.ProposalView, now uint64) error {
	fmt.Fprintf(r.out, "%s %s\n",
		paint(r.color, idStyle, "Proposal #%d", p.ID),
		paint(r.color, statusStyle(string(p.Status)), "[%s]", p.Status))
	if p.Metadata != "" {
		fmt.Fprintf(r.out, "%s\n", p.Metadata)
	}
	fmt.Fprintln(r.out)

	params := p.Parameters
	r.field("Creator", paint(r.color, accountStyle, "%s", p.Creator))
	r.field("Mode", params.VotingMode.String())
	r.field("Voting", fmt.Sprintf("%s → %s (%s)", formatTime(params.StartDate), formatTime(params.EndDate), formatRemaining(now, params.EndDate)))
	r.field("Snapshot", fmt.Sprintf("block %d, %d voting power", params.SnapshotBlock, p.TotalVotingPower))
	r.field("Support", fmt.Sprintf("%s needed, %s", ratio.Format(params.SupportThreshold), r.check(p.SupportReached, "reached", "not reached")))
	if params.VotingMode == domain.VotingModeEarlyExecution {
		r.field("Early", r.check(p.SupportReachedEarly, "support locked in", "not locked in"))
	}
	r.field("Participation", fmt.Sprintf("%d needed, %s", params.MinVotingPower, r.check(p.ParticipationReached, "reached", "not reached")))
	r.field("Tally", r.tally(p.Tally))
	r.field("Executable", r.check(p.CanExecute, "yes", "no"))

	if len(p.Votes) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "Votes"))
		voters := make([]string, 0, len(p.Votes))
		for v := range p.Votes {
			voters = append(voters, v)
		}
		sort.Strings(voters)
		for _, v := range voters {
			fmt.Fprintf(r.out, "  %s %s\n", paint(r.color, accountStyle, "%-14s", v), r.option(p.Votes[v]))
		}
	}

	if len(p.Actions) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "Actions"))
		for i, a := range p.Actions {
			if i < len(p.Decoded) && p.Decoded[i] != nil {
				r.RenderDecoded(i, p.Decoded[i])
				continue
			}
			fmt.Fprintf(r.out, "  %d. %s value=%s data=%x\n", i, a.To.Hex(), a.Value, a.Data)
		}
	}
	return nil
}

// RenderDecoded renders one decoded action
func (r *ProposalsRenderer) RenderDecoded(i int, d *domain.DecodedAction) {
	call := d.Method
	if d.Contract != "" {
		call = d.Contract + "." + d.Method
	}
	if call == "" {
		call = "call"
	}
	args := make([]string, len(d.Args))
	for j, a := range d.Args {
		name := strings.TrimPrefix(a.Name, "_")
		if name == "" {
			name = a.Type
		}
		args[j] = fmt.Sprintf("%s=%s", name, a.Value)
	}
	fmt.Fprintf(r.out, "  %d. %s → %s(%s)", i, paint(r.color, accountStyle, "%s", d.To), call, strings.Join(args, ", "))
	if d.Value != nil && d.Value.Sign() > 0 {
		fmt.Fprintf(r.out, " value=%s", d.Value)
	}
	fmt.Fprintln(r.out)
	if d.Method == "unknown" && d.Raw != "" {
		fmt.Fprintf(r.out, "     %s\n", paint(r.color, labelStyle, "%s", truncate(d.Raw, 74)))
	}
}

// RenderRequest renders a member approval proposal
func (r *ProposalsRenderer) RenderRequest(q *usecase.MemberRequestView, now uint64) error {
	fmt.Fprintf(r.out, "%s %s\n",
		paint(r.color, idStyle, "Member request #%d", q.ID),
		paint(r.color, statusStyle(string(q.Status)), "[%s]", q.Status))
	if q.Metadata != "" {
		fmt.Fprintf(r.out, "%s\n", q.Metadata)
	}
	fmt.Fprintln(r.out)

	r.field("Change", fmt.Sprintf("%s %s", q.KindName, paint(r.color, accountStyle, "%s", q.Target)))
	r.field("Creator", paint(r.color, accountStyle, "%s", q.Creator))
	r.field("Window", fmt.Sprintf("%s → %s (%s)", formatTime(q.Parameters.StartDate), formatTime(q.Parameters.EndDate), formatRemaining(now, q.Parameters.EndDate)))
	r.field("Approvals", fmt.Sprintf("%d/%d %s", q.Approvals, q.Parameters.MinApprovals, strings.Join(q.Approvers, ", ")))
	if q.RejectedBy != "" {
		r.field("Rejected by", paint(r.color, noStyle, "%s", q.RejectedBy))
	}
	r.field("Executable", r.check(q.CanExecute, "yes", "no"))
	return nil
}

// RenderMemberChange renders where a member change ended up
func (r *ProposalsRenderer) RenderMemberChange(result *usecase.MemberChangeResult, now uint64) error {
	if result.Request != nil {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Member request #%d created", result.Request.ID)))
		return r.RenderRequest(result.Request, now)
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Proposal #%d created", result.Proposal.ID)))
	return r.RenderProposal(result.Proposal, now)
}

// RenderReview renders the requests touched by approve, reject or execute-request
func (r *ProposalsRenderer) RenderReview(result *usecase.ReviewMemberChangeResult, decision usecase.ReviewDecision, now uint64) error {
	for i, q := range result.Requests {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s request #%d", title(string(decision)), q.ID)))
		if err := r.RenderRequest(q, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProposalsRenderer) field(name, value string) {
	fmt.Fprintf(r.out, "%s %s\n", paint(r.color, labelStyle, "%-14s", name+":"), value)
}

func (r *ProposalsRenderer) check(ok bool, yes, no string) string {
	if ok {
		return paint(r.color, yesStyle, "✓ %s", yes)
	}
	return paint(r.color, noStyle, "✗ %s", no)
}

func (r *ProposalsRenderer) tally(t domain.Tally) string {
	return fmt.Sprintf("%s/%s/%s",
		paint(r.color, yesStyle, "%d", t.Yes),
		paint(r.color, noStyle, "%d", t.No),
		paint(r.color, abstainStyle, "%d", t.Abstain))
}

func (r *ProposalsRenderer) option(o string) string {
	switch o {
	case "yes":
		return paint(r.color, yesStyle, "%s", o)
	case "no":
		return paint(r.color, noStyle, "%s", o)
	default:
		return paint(r.color, abstainStyle, "%s", o)
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
