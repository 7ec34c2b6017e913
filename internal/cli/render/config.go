package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/spacegov/spacegov/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig shows the values in effect and where each comes from
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	t := newPlainTable()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"KEY", "VALUE", "SOURCE"})
	for _, v := range result.Effective {
		t.AppendRow(table.Row{v.Key, orNotSet(v.Value), v.Source})
	}
	t.Render()

	if result.Exists {
		fmt.Fprintf(r.out, "\n📁 config file: %s\n", getRelativePath(result.ConfigPath))
	} else {
		fmt.Fprintf(r.out, "\nNo config file yet; set defaults with 'spacegov config set from <account>'\n")
	}
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintf(r.out, "⚠️  %s was not set\n", result.Key)
	} else {
		fmt.Fprintf(r.out, "✅ Removed %s (was: %s)\n", result.Key, result.RemovedValue)
	}
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
