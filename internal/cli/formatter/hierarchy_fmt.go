package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/trestle/internal/contract"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/alexanderramin/trestle/internal/progress"
)

const stageBarWidth = 12

// FormatTree renders a project's stages and tasks with progress bars,
// statuses and overdue days.
func FormatTree(tree contract.Tree, project domain.Project) string {
	var b strings.Builder
	b.WriteString(Header(project.Name))
	b.WriteString("\n")

	switch tree.State {
	case domain.LoadFailed:
		b.WriteString(StyleRed.Render("Could not load stages: "+tree.LastError) + "\n")
		return b.String()
	case domain.LoadEmpty:
		b.WriteString(Dim("No stages yet. Add one with: trestle stage add --project "+fmt.Sprint(project.ID)) + "\n")
		return b.String()
	case domain.LoadNotLoaded, domain.LoadLoading:
		b.WriteString(Dim("Loading…") + "\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s  %s\n", RenderProgress(tree.Progress, 20), summaryLine(tree.Summary)))
	if project.TargetDate != nil {
		b.WriteString(Dim("Target "+project.TargetDate.Format(domain.DateLayout)+" ("+RelativeDay(*project.TargetDate, tree.AsOf)+")") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(RenderTree(TreeItems(tree)))

	if tree.LastError != "" {
		b.WriteString("\n" + StyleRed.Render("! "+tree.LastError) + "\n")
	}
	return b.String()
}

// TreeItems flattens a tree into render rows: one per stage, then its tasks.
func TreeItems(tree contract.Tree) []TreeItem {
	var items []TreeItem
	for _, sv := range tree.Stages {
		items = append(items, TreeItem{
			Title:   Bold(sv.Stage.Name),
			ID:      sv.Stage.ID,
			Pending: sv.Pending,
			Detail:  fmt.Sprintf("%s %3d%%", RenderCompactBar(sv.Progress, stageBarWidth, false), sv.Progress),
		})
		if sv.HydrateErr != "" {
			items = append(items, TreeItem{
				Title:  StyleRed.Render("tasks unavailable: " + sv.HydrateErr),
				Level:  1,
				IsLast: true,
			})
			continue
		}
		for i, tv := range sv.Tasks {
			items = append(items, TreeItem{
				Title:   tv.Task.Name,
				ID:      tv.Task.ID,
				Level:   1,
				IsLast:  i == len(sv.Tasks)-1,
				Status:  tv.Status,
				Pending: tv.Pending,
				Detail:  taskDetail(tv),
			})
		}
	}
	return items
}

func taskDetail(tv contract.TaskView) string {
	parts := make([]string, 0, 2)
	if r := DateRange(tv.Task.StartDate, tv.Task.ExpectedEndDate); r != "" {
		parts = append(parts, r)
	}
	if late := Overdue(tv.OverdueDays); late != "" {
		parts = append(parts, late)
	}
	return strings.Join(parts, " · ")
}

func summaryLine(s progress.Summary) string {
	if s.Total == 0 {
		return Dim("no tasks")
	}
	parts := []string{fmt.Sprintf("%d/%d done", s.Completed, s.Total)}
	if s.InProgress > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("%d in progress", s.InProgress)))
	}
	if s.Delayed > 0 {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("%d delayed", s.Delayed)))
	}
	return strings.Join(parts, Dim(" · "))
}
