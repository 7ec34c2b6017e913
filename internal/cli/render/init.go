package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/spacegov/spacegov/internal/usecase"
)

// InitRenderer renders init command results
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

// Render renders the init space result
func (r *InitRenderer) Render(result *usecase.InitSpaceResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Wrote %s", getRelativePath(result.Path))))

	g := result.Genesis
	fmt.Fprintf(r.out, "   editors: %v\n", g.Space.Editors)
	if len(g.Space.Members) > 0 {
		fmt.Fprintf(r.out, "   members: %v\n", g.Space.Members)
	}
	fmt.Fprintf(r.out, "   voting:  %s, support %s, participation %s, %s\n",
		g.Voting.Mode, g.Voting.SupportThreshold, g.Voting.MinParticipation, g.Voting.Duration)

	fmt.Fprintln(r.out, "")
	color.New(color.FgGreen, color.Bold).Fprintln(r.out, "🎉 Space ready!")
	fmt.Fprintln(r.out, "")
	color.New(color.FgCyan, color.Bold).Fprintln(r.out, "📋 Next steps:")

	fmt.Fprintln(r.out, "1. Pick who you are:")
	color.New(color.FgHiBlack).Fprintf(r.out, "   spacegov config set from %s\n", first(g.Space.Editors))
	fmt.Fprintln(r.out, "")

	fmt.Fprintln(r.out, "2. Propose and vote:")
	color.New(color.FgHiBlack).Fprintln(r.out, "   spacegov propose --metadata \"hello\" --vote yes")
	color.New(color.FgHiBlack).Fprintln(r.out, "   spacegov vote yes 0 --from <editor>")
	fmt.Fprintln(r.out, "")

	fmt.Fprintln(r.out, "3. Let time pass and execute:")
	color.New(color.FgHiBlack).Fprintln(r.out, "   spacegov advance 25h")
	color.New(color.FgHiBlack).Fprintln(r.out, "   spacegov execute 0")
	return nil
}

func first(names []string) string {
	if len(names) == 0 {
		return "<account>"
	}
	return names[0]
}
