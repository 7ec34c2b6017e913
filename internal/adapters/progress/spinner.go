package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/spacegov/spacegov/internal/usecase"
)

// SpinnerSink reports progress with a terminal spinner
type SpinnerSink struct {
	spinner *spinner.Spinner
	out     io.Writer
	stage   string
}

// NewSpinnerSink creates a new spinner-based progress sink
func NewSpinnerSink() *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.HideCursor = false

	return &SpinnerSink{spinner: s, out: os.Stdout}
}

// OnProgress handles progress events
func (r *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.stage = event.Stage

	if event.Spinner {
		r.spinner.Suffix = " " + describe(event)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerSink) Info(message string) {
	r.pause(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerSink) Error(message string) {
	r.pause(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// pause stops the spinner while fn writes, then restarts it
func (r *SpinnerSink) pause(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

// Stop halts the spinner, if running
func (r *SpinnerSink) Stop() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// describe renders "[2/5] message" style spinner text
func describe(event usecase.ProgressEvent) string {
	text := event.Message
	if event.Total > 0 {
		text = fmt.Sprintf("%s %s", color.New(color.FgYellow).Sprintf("[%d/%d]", event.Current, event.Total), text)
	}
	return text
}

// Ensure SpinnerSink implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
