package domain

import (
	"fmt"
	"strings"
)

type InitiativeStatus string

const (
	StatusBacklog    InitiativeStatus = "Backlog"
	StatusDefined    InitiativeStatus = "Defined"
	StatusCommitted  InitiativeStatus = "Committed"
	StatusInProgress InitiativeStatus = "In Progress"
	StatusCompleted  InitiativeStatus = "Completed"
)

// ValidInitiativeStatuses is the canonical set of accepted status strings.
var ValidInitiativeStatuses = map[InitiativeStatus]bool{
	StatusBacklog: true, StatusDefined: true, StatusCommitted: true,
	StatusInProgress: true, StatusCompleted: true,
}

// ParseInitiativeStatus accepts the display form ("In Progress") as well as
// snake_case and lower-case spellings.
func ParseInitiativeStatus(s string) (InitiativeStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "_", " ")
	norm = strings.ReplaceAll(norm, "-", " ")
	for status := range ValidInitiativeStatuses {
		if strings.ToLower(string(status)) == norm {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid initiative status %q", s)
}

type Classification string

const (
	ClassUnset Classification = ""
	ClassATL   Classification = "ATL"
	ClassBTL   Classification = "BTL"
)

type Scenario string

const (
	ScenarioFundedHC     Scenario = "fundedHC"
	ScenarioTeamBIS      Scenario = "teamBIS"
	ScenarioEffectiveBIS Scenario = "effectiveBIS"
)

// Scenarios lists every capacity scenario in display order.
var Scenarios = []Scenario{ScenarioFundedHC, ScenarioTeamBIS, ScenarioEffectiveBIS}

// ParseScenario accepts the canonical keys and the short aliases used by
// older exports ("funded", "team_bis", "effective").
func ParseScenario(s string) (Scenario, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fundedhc", "funded", "funded_hc":
		return ScenarioFundedHC, nil
	case "teambis", "team_bis":
		return ScenarioTeamBIS, nil
	case "effectivebis", "effective", "effective_bis":
		return ScenarioEffectiveBIS, nil
	}
	return "", fmt.Errorf("invalid scenario %q (want fundedHC, teamBIS or effectiveBIS)", s)
}

// Label returns the human-readable scenario name.
func (s Scenario) Label() string {
	switch s {
	case ScenarioFundedHC:
		return "Funded HC"
	case ScenarioTeamBIS:
		return "Team BIS"
	case ScenarioEffectiveBIS:
		return "Effective BIS"
	default:
		return string(s)
	}
}

type LoadStatus string

const (
	LoadOK         LoadStatus = "OK"
	LoadNearLimit  LoadStatus = "Near Limit"
	LoadOverloaded LoadStatus = "Overloaded"
)
