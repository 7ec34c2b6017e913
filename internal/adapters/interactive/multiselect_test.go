package interactive

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacegov/spacegov/internal/domain"
	"github.com/spacegov/spacegov/internal/domain/config"
	"github.com/spacegov/spacegov/internal/usecase"
)

func press(m multiSelectModel, keys ...string) (multiSelectModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(multiSelectModel)
	}
	return m, cmd
}

func TestMultiSelectModel(t *testing.T) {
	items := []string{"#0 add carol", "#1 add dave", "#2 remove erin"}

	t.Run("toggle and confirm", func(t *testing.T) {
		m, cmd := press(newMultiSelectModel(items, "pick"), "down", "down", " ", "up", "up", " ", "enter")
		require.NotNil(t, cmd)
		assert.True(t, m.done)
		assert.False(t, m.cancelled)
		assert.Equal(t, []int{0, 2}, m.indices())
		assert.Empty(t, m.View())
	})

	t.Run("enter needs a selection", func(t *testing.T) {
		m, cmd := press(newMultiSelectModel(items, "pick"), "enter")
		assert.Nil(t, cmd)
		assert.False(t, m.done)
		assert.Contains(t, m.View(), "pick")
	})

	t.Run("select all then none", func(t *testing.T) {
		m, _ := press(newMultiSelectModel(items, "pick"), "a")
		assert.Equal(t, []int{0, 1, 2}, m.indices())
		m, _ = press(m, "a")
		assert.Empty(t, m.indices())
	})

	t.Run("cursor stays in range", func(t *testing.T) {
		m, _ := press(newMultiSelectModel(items, "pick"), "up", "down", "down", "down", "down")
		assert.Equal(t, 2, m.cursor)
	})

	t.Run("quit cancels", func(t *testing.T) {
		m, _ := press(newMultiSelectModel(items, "pick"), " ", "q")
		assert.True(t, m.cancelled)
	})
}

func TestSelectorAdapter_NonInteractive(t *testing.T) {
	ctx := context.Background()
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	choices := []usecase.ProposalChoice{{ID: 1, Label: "x"}}

	_, err := s.SelectProposal(ctx, "pick", choices)
	assert.ErrorIs(t, err, domain.ErrInteractiveNeeded)
	_, err = s.SelectProposals(ctx, "pick", choices)
	assert.ErrorIs(t, err, domain.ErrInteractiveNeeded)
}

func TestSelectorAdapter_SingleChoice(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{})
	choice, err := s.SelectProposal(context.Background(), "pick", []usecase.ProposalChoice{{ID: 4, Label: "only"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), choice.ID)
}

func TestFuzzySearch(t *testing.T) {
	search := createFuzzySearchFunc([]string{"#0 Raise quorum", "#1 add carol"})
	assert.True(t, search("", 0))
	assert.True(t, search("quorum", 0))
	assert.True(t, search("rsqr", 0))
	assert.False(t, search("carol", 0))
	assert.True(t, search("carol", 1))
}
