package domain

import "fmt"

// TotalsScope is the metrics key holding organization-wide capacity.
const TotalsScope = "totals"

// CapacityFigure is a pair of SDE-year totals before and after deductions.
type CapacityFigure struct {
	Gross float64
	Net   float64
}

// Value returns Net when useNet is set, Gross otherwise.
func (f CapacityFigure) Value(useNet bool) float64 {
	if useNet {
		return f.Net
	}
	return f.Gross
}

// ScenarioCapacity holds the figures for every scenario of one scope.
type ScenarioCapacity struct {
	FundedHC     CapacityFigure
	TeamBIS      CapacityFigure
	EffectiveBIS CapacityFigure
}

// Figure returns the figure for the given scenario. ok is false for an
// unknown scenario.
func (c ScenarioCapacity) Figure(s Scenario) (CapacityFigure, bool) {
	switch s {
	case ScenarioFundedHC:
		return c.FundedHC, true
	case ScenarioTeamBIS:
		return c.TeamBIS, true
	case ScenarioEffectiveBIS:
		return c.EffectiveBIS, true
	}
	return CapacityFigure{}, false
}

// SetFigure replaces the figure for the given scenario.
func (c *ScenarioCapacity) SetFigure(s Scenario, f CapacityFigure) {
	switch s {
	case ScenarioFundedHC:
		c.FundedHC = f
	case ScenarioTeamBIS:
		c.TeamBIS = f
	case ScenarioEffectiveBIS:
		c.EffectiveBIS = f
	}
}

// CapacityMetrics is the precomputed capacity snapshot keyed by team id,
// plus TotalsScope. The planner treats it as read-only.
type CapacityMetrics map[string]ScenarioCapacity

// Validate returns one error per scope/scenario where net exceeds gross.
func (m CapacityMetrics) Validate() []error {
	var errs []error
	for scope, sc := range m {
		for _, s := range Scenarios {
			f, _ := sc.Figure(s)
			if f.Net > f.Gross {
				errs = append(errs, fmt.Errorf("%s/%s: net (%.2f) exceeds gross (%.2f)", scope, s, f.Net, f.Gross))
			}
		}
	}
	return errs
}
