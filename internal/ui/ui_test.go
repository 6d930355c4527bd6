package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestColorsAreUnique(t *testing.T) {
	colors := []lipgloss.Color{
		ColorSuccess, ColorError, ColorWarning, ColorInfo,
		ColorPrimary, ColorSecondary, ColorMuted,
	}

	seen := make(map[lipgloss.Color]bool)
	for _, c := range colors {
		assert.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate color %q", c)
		seen[c] = true
	}
}

func TestSymbolsAreUnique(t *testing.T) {
	symbols := []string{SymbolSuccess, SymbolFail, SymbolPending, SymbolComplete}

	seen := make(map[string]bool)
	for _, s := range symbols {
		assert.NotEmpty(t, s)
		assert.False(t, seen[s], "duplicate symbol %q", s)
		seen[s] = true
	}
}
