package planner

import (
	"sort"

	"github.com/alexanderramin/capplan/internal/domain"
)

// NearLimitThreshold is the slack, in SDE-years, below which a team with
// positive capacity is reported as near its limit.
const NearLimitThreshold = 0.5

// TeamLoadRow is the derived assigned-vs-available summary for one team.
type TeamLoadRow struct {
	TeamID            string
	TeamName          string
	AssignedATLSDE    float64
	ScenarioCapacity  float64
	RemainingCapacity float64
	Status            domain.LoadStatus
	// Stale marks rows for team ids referenced by assignments but absent
	// from the team list.
	Stale bool
}

// TeamLoad is the per-team breakdown plus the organization-wide totals row.
type TeamLoad struct {
	Rows   []TeamLoadRow
	Totals TeamLoadRow
}

// LoadStatusFor tiers remaining capacity into OK / Near Limit / Overloaded.
func LoadStatusFor(capacity, remaining float64) domain.LoadStatus {
	switch {
	case remaining < 0:
		return domain.LoadOverloaded
	case remaining < NearLimitThreshold && capacity > 0:
		return domain.LoadNearLimit
	default:
		return domain.LoadOK
	}
}

// AggregateTeamLoad sums ATL assignments per team and compares them with
// each team's capacity under ctx. Only initiatives classified ATL
// contribute. Assignments to teams missing from teams produce a stale row
// with zero capacity so the load stays visible.
func AggregateTeamLoad(
	classified []*domain.Initiative,
	teams []*domain.Team,
	metrics domain.CapacityMetrics,
	ctx Context,
) TeamLoad {
	assigned := make(map[string]float64, len(teams))
	for _, t := range teams {
		assigned[t.ID] = 0
	}

	var staleIDs []string
	for _, init := range classified {
		if init.Classification != domain.ClassATL || init.IsCompleted() {
			continue
		}
		for _, a := range init.Assignments {
			if _, seen := assigned[a.TeamID]; !seen {
				staleIDs = append(staleIDs, a.TeamID)
			}
			assigned[a.TeamID] += a.SDEYears
		}
	}

	var load TeamLoad
	for _, t := range teams {
		capacity := ResolveLimit(metrics, t.ID, ctx.Scenario, ctx.UseNet)
		load.Rows = append(load.Rows, newRow(t.ID, t.DisplayName(), assigned[t.ID], capacity, false))
	}
	sort.SliceStable(load.Rows, func(i, j int) bool {
		a, b := load.Rows[i], load.Rows[j]
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		return a.TeamID < b.TeamID
	})

	sort.Strings(staleIDs)
	for _, id := range staleIDs {
		logger.WithField("team_id", id).Warn("ATL assignment references unknown team")
		load.Rows = append(load.Rows, newRow(id, id, assigned[id], 0, true))
	}

	var capTotal, assignedTotal float64
	for _, r := range load.Rows {
		capTotal += r.ScenarioCapacity
		assignedTotal += r.AssignedATLSDE
	}
	load.Totals = newRow(domain.TotalsScope, "Totals", assignedTotal, capTotal, false)
	return load
}

func newRow(id, name string, assigned, capacity float64, stale bool) TeamLoadRow {
	remaining := capacity - assigned
	return TeamLoadRow{
		TeamID:            id,
		TeamName:          name,
		AssignedATLSDE:    assigned,
		ScenarioCapacity:  capacity,
		RemainingCapacity: remaining,
		Status:            LoadStatusFor(capacity, remaining),
		Stale:             stale,
	}
}
