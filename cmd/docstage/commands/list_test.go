package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemeLines(t *testing.T) {
	lines := themeLines("rtd")
	require.NotEmpty(t, lines)

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "alabaster")
	assert.Contains(t, joined, "Read the Docs")

	var active []string
	for _, l := range lines {
		if strings.HasPrefix(l, ">") {
			active = append(active, l)
		}
	}
	require.Len(t, active, 1)
	assert.Contains(t, active[0], "rtd")
}

func TestThemeLinesUnregisteredTheme(t *testing.T) {
	lines := themeLines("mystery theme")

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "(unregistered)")
	// title-cased display name for themes the registry does not know
	assert.Contains(t, joined, "Mystery Theme")
}
