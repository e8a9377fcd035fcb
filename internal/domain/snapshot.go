package domain

import "time"

// MaxSnapshotsPerYear bounds how many plan snapshots are retained per year.
const MaxSnapshotsPerYear = 5

// PlanSnapshot is a point-in-time copy of one year's initiatives, in order.
type PlanSnapshot struct {
	ID           string
	PlanningYear int
	Label        string
	Scenario     Scenario
	UseNet       bool
	Initiatives  []*Initiative
	CreatedAt    time.Time
}
