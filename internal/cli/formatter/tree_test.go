package formatter

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/trestle/internal/domain"
)

func TestRenderTree_Empty(t *testing.T) {
	assert.Empty(t, RenderTree(nil))
}

func TestRenderTree_ConnectorsAndBadges(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "Framing", ID: 1, Detail: "50%"},
		{Title: "Raise walls", ID: 2, Level: 1, Status: domain.TaskDelayed, Detail: "3d late"},
		{Title: "Stairs", ID: 3, Level: 1, IsLast: true, Status: domain.TaskCompleted, Pending: true},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "#1 Framing"))
	assert.True(t, strings.HasPrefix(lines[1], "├─ ▲ #2 Raise walls"))
	assert.True(t, strings.HasPrefix(lines[2], "└─ ✔ #3 Stairs …"))

	// Badges share one column.
	col := func(line string) int { return lipgloss.Width(line[:strings.Index(line, "[")]) }
	assert.Equal(t, col(lines[0]), col(lines[1]))
	assert.NotContains(t, lines[2], "[")
}

func TestRenderTree_NestedLevels(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "root"},
		{Title: "child", Level: 1},
		{Title: "grandchild", Level: 2, IsLast: true},
	}))
	assert.Contains(t, out, "│  └─ grandchild")
}
