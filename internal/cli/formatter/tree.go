package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/trestle/internal/domain"
)

// TreeItem is one line of a rendered tree.
type TreeItem struct {
	Title string
	// ID is shown as a dim "#12" prefix; 0 hides it.
	ID     int64
	Level  int
	IsLast bool
	Status domain.TaskStatus
	// Pending marks an item whose change is still waiting on the server.
	Pending bool
	Detail  string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

func statusPrefix(s domain.TaskStatus) string {
	switch s {
	case domain.TaskCompleted:
		return StyleGreen.Render("✔ ")
	case domain.TaskInProgress:
		return StyleYellowBold.Render("▶ ")
	case domain.TaskDelayed:
		return StyleRed.Render("▲ ")
	case domain.TaskNotStarted:
		return StyleDim.Render("○ ")
	default:
		return ""
	}
}

// RenderTree draws items with box-drawing connectors and right-aligns
// detail badges in one column.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	badges := make([]string, len(items))
	widest := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		switch item.Status {
		case domain.TaskCompleted:
			title = Dim(title)
		case domain.TaskInProgress:
			title = StyleYellowBold.Render(title)
		}
		if item.ID > 0 {
			title = StyleDim.Render(fmt.Sprintf("#%d ", item.ID)) + title
		}
		if item.Pending {
			title += StylePurple.Render(" …")
		}

		contents[idx] = prefix + statusPrefix(item.Status) + title
		if item.Detail != "" {
			badges[idx] = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		widest = max(widest, lipgloss.Width(contents[idx]))
	}

	var b strings.Builder
	for i, content := range contents {
		b.WriteString(content)
		if badges[i] != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(content)+2))
			b.WriteString(badges[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
