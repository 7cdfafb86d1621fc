package formatter

import (
	"errors"

	"github.com/alexanderramin/trestle/internal/hierarchy"
)

// FormatOutcome renders one line describing what a mutation did. what is a
// short description such as "task #12 completed".
func FormatOutcome(what string, outcome hierarchy.Outcome, err error) string {
	var refresh *hierarchy.RefreshError
	switch outcome {
	case hierarchy.OutcomeApplied:
		line := StyleGreen.Render("✔ ") + what
		if errors.As(err, &refresh) {
			line += "\n" + StyleYellow.Render("  view may be stale: "+refresh.Err.Error())
		}
		return line
	case hierarchy.OutcomeReverted:
		return StyleRed.Render("↺ ") + "reverted: " + errMessage(err)
	case hierarchy.OutcomeRejected:
		return StyleRed.Render("✖ ") + "rejected: " + errMessage(err)
	case hierarchy.OutcomeIgnored:
		return Dim("· already in progress, ignored")
	case hierarchy.OutcomeNoop:
		return Dim("· not found in this project")
	default:
		return outcome.String()
	}
}

func errMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
