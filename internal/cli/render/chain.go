package render

import (
	"fmt"
	"io"

	"github.com/spacegov/spacegov/internal/usecase"
)

// ChainRenderer renders clock moves and raw calls
type ChainRenderer struct {
	out   io.Writer
	color bool
}

// NewChainRenderer creates a new chain renderer
func NewChainRenderer(out io.Writer, color bool) *ChainRenderer {
	return &ChainRenderer{
		out:   out,
		color: color,
	}
}

// RenderClock renders the block and time after advancing
func (r *ChainRenderer) RenderClock(clock *usecase.ChainClock) error {
	fmt.Fprintf(r.out, "⏱  block %d · %s\n", clock.Block, formatTime(clock.Time))
	return nil
}

// RenderCall renders a submitted call and what it emitted
func (r *ChainRenderer) RenderCall(result *usecase.SubmitCallResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Call mined in block %d", result.Block)))
	if result.Call != nil {
		NewProposalsRenderer(r.out, r.color).RenderDecoded(0, result.Call)
	}
	if len(result.Return) > 0 {
		fmt.Fprintf(r.out, "  returned %s\n", result.Return)
	}
	for _, l := range result.Logs {
		fmt.Fprintf(r.out, "  %s %s\n", paint(r.color, labelStyle, "event"), l)
	}
	return nil
}
