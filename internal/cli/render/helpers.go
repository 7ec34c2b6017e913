package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	idStyle            = color.New(color.FgWhite, color.Bold)
	accountStyle       = color.New(color.FgCyan)
	timestampStyle     = color.New(color.Faint)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	labelStyle         = color.New(color.FgHiBlack)
	yesStyle           = color.New(color.FgGreen)
	noStyle            = color.New(color.FgRed)
	abstainStyle       = color.New(color.FgYellow)
)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// paint applies c unless color output is off
func paint(enabled bool, c *color.Color, format string, a ...any) string {
	if !enabled {
		return fmt.Sprintf(format, a...)
	}
	return c.Sprintf(format, a...)
}

// statusStyle picks the color of a proposal or request status
func statusStyle(status string) *color.Color {
	switch status {
	case "open":
		return color.New(color.FgYellow)
	case "succeeded":
		return color.New(color.FgGreen)
	case "executed":
		return color.New(color.FgGreen, color.Bold)
	case "canceled", "rejected":
		return color.New(color.FgRed)
	case "expired":
		return color.New(color.Faint)
	default:
		return color.New(color.FgWhite)
	}
}

// formatTime renders a chain timestamp
func formatTime(unix uint64) string {
	return time.Unix(int64(unix), 0).UTC().Format("2006-01-02 15:04:05")
}

// formatRemaining renders the time between now and end, or "ended"
func formatRemaining(now, end uint64) string {
	if now >= end {
		return "ended"
	}
	return (time.Duration(end-now) * time.Second).String()
}

// formatSeconds renders a duration given in seconds
func formatSeconds(s uint64) string {
	return (time.Duration(s) * time.Second).String()
}

// newPlainTable returns a borderless table in the style of the list views
func newPlainTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	return t
}

// title capitalizes each word, for headings built from identifiers
func title(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "-", " "))
}
