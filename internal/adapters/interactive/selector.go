package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

// SelectorAdapter handles interactive proposal selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectProposal selects one proposal from a list
func (s *SelectorAdapter) SelectProposal(ctx context.Context, prompt string, choices []usecase.ProposalChoice) (*usecase.ProposalChoice, error) {
	if s.config.NonInteractive {
		return nil, domain.ErrInteractiveNeeded
	}
	if len(choices) == 0 {
		return nil, domain.ErrNoOpenProposals
	}

	// If only one match, return it directly
	if len(choices) == 1 {
		return &choices[0], nil
	}

	options := formatChoices(choices)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return &choices[index], nil
}

// SelectProposals lets the user tick any number of proposals
func (s *SelectorAdapter) SelectProposals(ctx context.Context, prompt string, choices []usecase.ProposalChoice) ([]usecase.ProposalChoice, error) {
	if s.config.NonInteractive {
		return nil, domain.ErrInteractiveNeeded
	}
	if len(choices) == 0 {
		return nil, domain.ErrNoOpenProposals
	}

	indices, err := runMultiSelect(formatChoices(choices), prompt)
	if err != nil {
		return nil, err
	}

	selected := make([]usecase.ProposalChoice, len(indices))
	for i, idx := range indices {
		selected[i] = choices[idx]
	}
	return selected, nil
}

// formatChoices creates display strings like "#3 raise the bar [open]"
func formatChoices(choices []usecase.ProposalChoice) []string {
	options := make([]string, len(choices))
	for i, c := range choices {
		id := color.New(color.FgWhite, color.Bold).Sprintf("#%d", c.ID)
		if c.Status == "" {
			options[i] = fmt.Sprintf("%s %s", id, c.Label)
			continue
		}
		status := color.New(color.FgBlue).Sprintf("[%s]", c.Status)
		options[i] = fmt.Sprintf("%s %s %s", id, c.Label, status)
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.ProposalSelector = (*SelectorAdapter)(nil)
