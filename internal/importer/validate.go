package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexanderramin/trestle/internal/domain"
	"github.com/go-playground/validator/v10"
)

// schemaValidate checks struct tags. Field names in messages follow the
// JSON keys of the import file.
var schemaValidate *validator.Validate

func init() {
	schemaValidate = validator.New()
	schemaValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if err := schemaValidate.Struct(schema); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return []error{err}
		}
		for _, fe := range fieldErrs {
			errs = append(errs, describeFieldError(fe))
		}
	}

	errs = append(errs, validateProjectDates(&schema.Project)...)

	stageRefs := make(map[string]bool, len(schema.Stages))
	for i, s := range schema.Stages {
		if s.Ref != "" {
			if stageRefs[s.Ref] {
				errs = append(errs, fmt.Errorf("stages[%d].ref: duplicate ref %q", i, s.Ref))
			}
			stageRefs[s.Ref] = true
		}
		errs = append(errs, validateRange(fmt.Sprintf("stages[%d]", i), "end_date", s.StartDate, s.EndDate)...)
	}

	for i, t := range schema.Tasks {
		if t.StageRef != "" && !stageRefs[t.StageRef] {
			errs = append(errs, fmt.Errorf("tasks[%d].stage_ref: unknown stage %q", i, t.StageRef))
		}
		errs = append(errs, validateRange(fmt.Sprintf("tasks[%d]", i), "expected_end_date", t.StartDate, t.ExpectedEndDate)...)
	}

	return errs
}

func describeFieldError(fe validator.FieldError) error {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", path)
	case "datetime":
		return fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", path, fe.Value())
	case "max":
		return fmt.Errorf("%s: longer than %s characters", path, fe.Param())
	case "gte":
		return fmt.Errorf("%s: must be >= %s", path, fe.Param())
	default:
		return fmt.Errorf("%s: failed %q check", path, fe.Tag())
	}
}

func validateProjectDates(p *ProjectImport) []error {
	if p.TargetDate == nil {
		return nil
	}
	start := domain.ParseDate(p.StartDate)
	target := domain.ParseDate(*p.TargetDate)
	if start != nil && target != nil && target.Before(*start) {
		return []error{fmt.Errorf("project.target_date %q is before start_date %q", *p.TargetDate, p.StartDate)}
	}
	return nil
}

// validateRange reports an end date before its start. Malformed dates are
// already reported by the tag checks.
func validateRange(path, endField string, start, end *string) []error {
	if start == nil || end == nil {
		return nil
	}
	s := domain.ParseDate(*start)
	e := domain.ParseDate(*end)
	if s != nil && e != nil && e.Before(*s) {
		return []error{fmt.Errorf("%s.%s %q is before start_date %q", path, endField, *end, *start)}
	}
	return nil
}
