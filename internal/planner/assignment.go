package planner

import (
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

// ParseSDE parses a raw SDE-year edit. ok is false for anything that should
// be treated as a deletion: non-numeric, non-finite, zero or negative.
func ParseSDE(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, isPositiveFinite(v)
}

func isPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// SetAssignment applies a raw edit of teamID's SDE-years on init. Invalid
// or non-positive input removes the team's entry; anything else upserts it.
// No upper bound is enforced: over-commitment shows up in team load.
// It reports whether the assignments changed.
func SetAssignment(init *domain.Initiative, teamID, raw string) bool {
	v, ok := ParseSDE(raw)
	if !ok {
		return removeAssignment(init, teamID)
	}
	return upsertAssignment(init, teamID, v)
}

// SetAssignmentValue is SetAssignment for an already-parsed value.
func SetAssignmentValue(init *domain.Initiative, teamID string, v float64) bool {
	if !isPositiveFinite(v) {
		return removeAssignment(init, teamID)
	}
	return upsertAssignment(init, teamID, v)
}

func removeAssignment(init *domain.Initiative, teamID string) bool {
	if !init.HasAssignment(teamID) {
		return false
	}
	kept := make([]domain.Assignment, 0, len(init.Assignments)-1)
	for _, a := range init.Assignments {
		if a.TeamID != teamID {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	init.Assignments = kept
	return true
}

func upsertAssignment(init *domain.Initiative, teamID string, v float64) bool {
	for i := range init.Assignments {
		if init.Assignments[i].TeamID == teamID {
			if init.Assignments[i].SDEYears == v {
				return false
			}
			init.Assignments[i].SDEYears = v
			return true
		}
	}
	init.Assignments = append(init.Assignments, domain.Assignment{TeamID: teamID, SDEYears: v})
	return true
}
