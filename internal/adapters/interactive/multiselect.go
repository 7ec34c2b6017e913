package interactive

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
)

var errSelectionCancelled = errors.New("selection cancelled")

// multiSelectModel is the bubbletea model for ticking several proposals
type multiSelectModel struct {
	items     []string
	cursor    int
	selected  map[int]bool
	title     string
	done      bool
	cancelled bool
}

func newMultiSelectModel(items []string, title string) multiSelectModel {
	return multiSelectModel{
		items:    items,
		selected: make(map[int]bool),
		title:    title,
	}
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.done = true
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := len(m.indices()) < len(m.items)
		for i := range m.items {
			m.selected[i] = all
		}
	case "enter":
		if len(m.indices()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m multiSelectModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, item))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

// indices returns the ticked rows in display order
func (m multiSelectModel) indices() []int {
	var out []int
	for i, on := range m.selected {
		if on {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// runMultiSelect shows the multi-select interface and returns the ticked indices
func runMultiSelect(items []string, title string) ([]int, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("nothing to select")
	}

	finalModel, err := tea.NewProgram(newMultiSelectModel(items, title)).Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if m.cancelled || !m.done {
		return nil, errSelectionCancelled
	}
	return m.indices(), nil
}
