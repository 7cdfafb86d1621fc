package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trestle/internal/cli/formatter"
	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// trestleHuhTheme returns a huh theme built on the formatter palette.
func trestleHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// entryFields backs the stage and task forms. Dates stay strings until
// the form is submitted.
type entryFields struct {
	Name        string
	Description string
	Start       string
	End         string
}

// stageForm asks for a stage's name, description and date range.
func stageForm(f *entryFields) *huh.Form {
	return entryForm("Stage", "End date", f)
}

// taskForm asks for a task's name, description and expected end.
func taskForm(f *entryFields) *huh.Form {
	return entryForm("Task", "Expected end", f)
}

func entryForm(kind, endTitle string, f *entryFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(kind+" name").
				Value(&f.Name).
				Validate(validateName),
			huh.NewText().
				Title("Description").
				Value(&f.Description).
				Lines(3),
			huh.NewInput().
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Start).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title(endTitle).
				Placeholder("YYYY-MM-DD").
				Value(&f.End).
				Validate(func(s string) error { return validateEndAfter(f.Start, s) }),
		),
	).WithTheme(trestleHuhTheme()).WithShowHelp(false)
}

// confirmForm asks a yes/no question.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(trestleHuhTheme()).WithShowHelp(false)
}

func validateName(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("name is required")
	}
	if len(s) > 200 {
		return fmt.Errorf("keep it under 200 characters")
	}
	return nil
}

// validateOptionalDate accepts an empty string or a valid YYYY-MM-DD date.
func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateEndAfter checks end is a valid optional date not before start.
func validateEndAfter(start, end string) error {
	if err := validateOptionalDate(end); err != nil {
		return err
	}
	s, e := domain.ParseDate(start), domain.ParseDate(end)
	if s != nil && e != nil && e.Before(*s) {
		return fmt.Errorf("must not be before the start date")
	}
	return nil
}
