package importer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a planning import file. Teams
// are referenced from capacity and assignments by Ref.
type ImportSchema struct {
	// PlanningYear is the default for initiatives that omit their own.
	PlanningYear int                `json:"planning_year,omitempty" yaml:"planning_year,omitempty" validate:"omitempty,gt=0"`
	Teams        []TeamImport       `json:"teams,omitempty" yaml:"teams,omitempty" validate:"dive"`
	Capacity     []CapacityImport   `json:"capacity,omitempty" yaml:"capacity,omitempty" validate:"dive"`
	Initiatives  []InitiativeImport `json:"initiatives,omitempty" yaml:"initiatives,omitempty" validate:"dive"`
}

type TeamImport struct {
	Ref  string `json:"ref" yaml:"ref" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
}

type FigureImport struct {
	Gross float64 `json:"gross" yaml:"gross" validate:"gte=0"`
	Net   float64 `json:"net" yaml:"net" validate:"gte=0"`
}

// CapacityImport gives one scope's figures. Scope is a team ref or "totals".
type CapacityImport struct {
	Scope        string       `json:"scope" yaml:"scope" validate:"required"`
	FundedHC     FigureImport `json:"funded_hc" yaml:"funded_hc"`
	TeamBIS      FigureImport `json:"team_bis" yaml:"team_bis"`
	EffectiveBIS FigureImport `json:"effective_bis" yaml:"effective_bis"`
}

type AssignmentImport struct {
	Team     string  `json:"team" yaml:"team" validate:"required"`
	SDEYears float64 `json:"sde_years" yaml:"sde_years" validate:"gt=0"`
}

type InitiativeImport struct {
	Title         string             `json:"title" yaml:"title" validate:"required"`
	Description   string             `json:"description,omitempty" yaml:"description,omitempty"`
	Status        string             `json:"status,omitempty" yaml:"status,omitempty"`
	Protected     bool               `json:"protected,omitempty" yaml:"protected,omitempty"`
	PlanningYear  int                `json:"planning_year,omitempty" yaml:"planning_year,omitempty" validate:"omitempty,gt=0"`
	PrimaryGoalID string             `json:"primary_goal_id,omitempty" yaml:"primary_goal_id,omitempty"`
	TargetDueDate string             `json:"target_due_date,omitempty" yaml:"target_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Assignments   []AssignmentImport `json:"assignments,omitempty" yaml:"assignments,omitempty" validate:"dive"`
}

// LoadImportSchema reads an import file. .json files are decoded as JSON,
// anything else as YAML. Unknown fields are rejected in both.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

func ParseJSON(data []byte) (*ImportSchema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, errors.Wrap(err, "parsing import file")
	}
	return &schema, nil
}

func ParseYAML(data []byte) (*ImportSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, errors.Wrap(err, "parsing import file")
	}
	return &schema, nil
}
