package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/spacegov/spacegov/internal/app"
)

// writeJSON prints v as indented JSON
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// useColor reports whether output goes to a terminal that wants color
func useColor(cmd *cobra.Command) bool {
	if color.NoColor {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// chainTime returns the current chain timestamp of the open session
func chainTime(cmd *cobra.Command, a *app.App) uint64 {
	s, err := a.OpenSpace.Run(cmd.Context())
	if err != nil {
		return 0
	}
	_, now := s.Now()
	return now
}

// parseID reads a proposal or request id argument
func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// optionalID parses args[i] when present; nil lets the use case prompt
func optionalID(args []string, i int) (*uint64, error) {
	if len(args) <= i {
		return nil, nil
	}
	id, err := parseID(args[i])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
