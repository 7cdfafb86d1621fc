package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for project import.
type ImportSchema struct {
	Project ProjectImport `json:"project"`
	Stages  []StageImport `json:"stages" validate:"dive"`
	Tasks   []TaskImport  `json:"tasks" validate:"dive"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Location   string  `json:"location" validate:"max=200"`
	StartDate  string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	TargetDate *string `json:"target_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// StageImport defines a stage. Ref is file-local and only links tasks to
// their stage; the record store assigns real ids.
type StageImport struct {
	Ref         string  `json:"ref" validate:"required"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	StartDate   *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,gte=0"`
}

// TaskImport defines a task in the import file.
type TaskImport struct {
	StageRef        string  `json:"stage_ref" validate:"required"`
	Name            string  `json:"name" validate:"required,max=200"`
	Description     string  `json:"description,omitempty"`
	StartDate       *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpectedEndDate *string `json:"expected_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Completed       bool    `json:"completed,omitempty"`
}

// LoadImportSchema reads and parses a project import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

// ParseImportSchema decodes an import document. Unknown fields are rejected
// so typos like "stage_id" fail loudly instead of being dropped.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
