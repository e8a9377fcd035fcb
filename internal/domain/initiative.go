package domain

import (
	"fmt"
	"time"
)

// Assignment is one team's share of an initiative, in SDE-years.
type Assignment struct {
	TeamID   string
	SDEYears float64
}

type Initiative struct {
	ID            string
	Title         string
	Description   string
	Status        InitiativeStatus
	IsProtected   bool
	Assignments   []Assignment
	PlanningYear  int
	PrimaryGoalID string
	TargetDueDate *time.Time

	// Written by the planner on every recompute. Never persisted.
	CumulativeSDE  float64
	Classification Classification

	// CommittedAs is the classification the last commit saw.
	CommittedAs Classification

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalSDE sums the SDE-years of every assignment.
func (i *Initiative) TotalSDE() float64 {
	total := 0.0
	for _, a := range i.Assignments {
		total += a.SDEYears
	}
	return total
}

// AssignmentFor returns the SDE-years assigned to teamID, or 0.
func (i *Initiative) AssignmentFor(teamID string) float64 {
	for _, a := range i.Assignments {
		if a.TeamID == teamID {
			return a.SDEYears
		}
	}
	return 0
}

// HasAssignment reports whether an entry for teamID exists.
func (i *Initiative) HasAssignment(teamID string) bool {
	for _, a := range i.Assignments {
		if a.TeamID == teamID {
			return true
		}
	}
	return false
}

func (i *Initiative) IsCompleted() bool {
	return i.Status == StatusCompleted
}

// Clone returns a deep copy, including the assignment slice.
func (i *Initiative) Clone() *Initiative {
	c := *i
	if i.Assignments != nil {
		c.Assignments = make([]Assignment, len(i.Assignments))
		copy(c.Assignments, i.Assignments)
	}
	if i.TargetDueDate != nil {
		d := *i.TargetDueDate
		c.TargetDueDate = &d
	}
	return &c
}

// Validate checks the record shape accepted at the store boundary.
func (i *Initiative) Validate() error {
	if i.Title == "" {
		return fmt.Errorf("initiative title is required")
	}
	if !ValidInitiativeStatuses[i.Status] {
		return fmt.Errorf("initiative %q: invalid status %q", i.Title, i.Status)
	}
	if i.PlanningYear <= 0 {
		return fmt.Errorf("initiative %q: planning year is required", i.Title)
	}
	seen := make(map[string]bool, len(i.Assignments))
	for _, a := range i.Assignments {
		if a.TeamID == "" {
			return fmt.Errorf("initiative %q: assignment team id is required", i.Title)
		}
		if seen[a.TeamID] {
			return fmt.Errorf("initiative %q: duplicate assignment for team %q", i.Title, a.TeamID)
		}
		seen[a.TeamID] = true
		if a.SDEYears < 0 {
			return fmt.Errorf("initiative %q: negative SDE-years for team %q", i.Title, a.TeamID)
		}
	}
	return nil
}

// CloneInitiatives deep-copies a list of initiatives, preserving order.
func CloneInitiatives(list []*Initiative) []*Initiative {
	out := make([]*Initiative, len(list))
	for idx, init := range list {
		out[idx] = init.Clone()
	}
	return out
}
