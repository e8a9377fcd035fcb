package planner

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Context selects the working year and the capacity figure used for every
// limit lookup. It is owned by the caller and passed into each computation.
type Context struct {
	Year     int
	Scenario domain.Scenario
	UseNet   bool
}

func (c Context) Validate() error {
	if c.Year <= 0 {
		return fmt.Errorf("planning year must be positive, got %d", c.Year)
	}
	switch c.Scenario {
	case domain.ScenarioFundedHC, domain.ScenarioTeamBIS, domain.ScenarioEffectiveBIS:
		return nil
	}
	return fmt.Errorf("invalid scenario %q", c.Scenario)
}

// ConstraintsLabel describes the gross/net toggle for display and export.
func (c Context) ConstraintsLabel() string {
	if c.UseNet {
		return "Net (constraints applied)"
	}
	return "Gross (no constraints)"
}
