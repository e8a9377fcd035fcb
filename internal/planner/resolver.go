package planner

import (
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/sirupsen/logrus"
)

// ResolveLimit returns the capacity figure for scope under the selected
// scenario. scope is a team id or domain.TotalsScope. Unknown scopes and
// scenarios resolve to 0: a team deleted out from under stale initiative
// data reads as a team with no capacity.
func ResolveLimit(metrics domain.CapacityMetrics, scope string, scenario domain.Scenario, useNet bool) float64 {
	sc, ok := metrics[scope]
	if !ok {
		logger.WithFields(logrus.Fields{"scope": scope, "scenario": scenario}).
			Warn("capacity metrics missing for scope, using 0")
		return 0
	}
	fig, ok := sc.Figure(scenario)
	if !ok {
		logger.WithFields(logrus.Fields{"scope": scope, "scenario": scenario}).
			Warn("unknown capacity scenario, using 0")
		return 0
	}
	return fig.Value(useNet)
}

// TotalCapacity resolves the organization-wide limit for ctx.
func TotalCapacity(metrics domain.CapacityMetrics, ctx Context) float64 {
	return ResolveLimit(metrics, domain.TotalsScope, ctx.Scenario, ctx.UseNet)
}
