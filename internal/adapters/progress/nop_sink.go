package progress

import (
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

// NewNopSink creates a progress sink that drops everything
func NewNopSink() usecase.ProgressSink {
	return usecase.NopProgress{}
}

// NewSink picks the spinner for interactive terminals and stays silent when
// output is JSON or nobody is watching
func NewSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON || cfg.NonInteractive {
		return NewNopSink()
	}
	return NewSpinnerSink()
}
