package render

import (
	"fmt"
	"io"

	"github.com/spacegov/spacegov/internal/usecase"
)

// ScenarioRenderer renders the outcome of a scenario run
type ScenarioRenderer struct {
	out   io.Writer
	color bool
}

// NewScenarioRenderer creates a new scenario renderer
func NewScenarioRenderer(out io.Writer, color bool) *ScenarioRenderer {
	return &ScenarioRenderer{
		out:   out,
		color: color,
	}
}

// Render renders one line per step and a summary
func (r *ScenarioRenderer) Render(result *usecase.ScenarioResult) error {
	if result.Name != "" {
		fmt.Fprintln(r.out, paint(r.color, sectionHeaderStyle, "Scenario %s", result.Name))
	}
	for _, step := range result.Steps {
		who := ""
		if step.From != "" {
			who = paint(r.color, accountStyle, " (%s)", step.From)
		}
		if step.OK {
			fmt.Fprintf(r.out, "%s %2d %s%s %s\n", paint(r.color, yesStyle, "✓"), step.Index, step.Do, who, paint(r.color, labelStyle, "%s", step.Detail))
			continue
		}
		fmt.Fprintf(r.out, "%s %2d %s%s %s\n", paint(r.color, noStyle, "✗"), step.Index, step.Do, who, paint(r.color, noStyle, "%s", step.Error))
	}

	fmt.Fprintln(r.out)
	if result.Failed == 0 {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%d steps passed", len(result.Steps))))
	} else {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%d of %d steps failed", result.Failed, len(result.Steps))))
	}
	return nil
}
