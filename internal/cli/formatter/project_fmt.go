package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/trestle/internal/domain"
)

// FormatProjectList renders projects as a boxed table.
func FormatProjectList(projects []domain.Project, now time.Time) string {
	headers := []string{"ID", "NAME", "LOCATION", "START", "TARGET"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		location := p.Location
		if location == "" {
			location = Dim("--")
		}
		target := Dim("--")
		if p.TargetDate != nil {
			target = p.TargetDate.Format(domain.DateLayout) + " " + Dim("("+RelativeDay(*p.TargetDate, now)+")")
		}
		rows = append(rows, []string{
			Dim(fmt.Sprintf("#%d", p.ID)),
			Bold(p.Name),
			location,
			p.StartDate.Format(domain.DateLayout),
			target,
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}
