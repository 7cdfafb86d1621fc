package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/trestle/internal/domain"
)

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDay describes day relative to now in whole calendar days.
func RelativeDay(day, now time.Time) string {
	days := int(domain.DateOf(day).Sub(domain.DateOf(now)).Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DateRange renders "Jan 3 → Jan 9" for whichever ends are known.
func DateRange(start, end *time.Time) string {
	const layout = "Jan 2"
	switch {
	case start != nil && end != nil:
		return start.Format(layout) + " → " + end.Format(layout)
	case start != nil:
		return "from " + start.Format(layout)
	case end != nil:
		return "due " + end.Format(layout)
	default:
		return ""
	}
}

// Overdue renders a red "5d late" label, or "" when on time.
func Overdue(days int) string {
	if days <= 0 {
		return ""
	}
	return StyleRed.Render(fmt.Sprintf("%dd late", days))
}
