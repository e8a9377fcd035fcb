package testutil

import (
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/google/uuid"
)

// TestYear is the planning year fixtures default to.
const TestYear = 2026

func NewTestTeam(name string) *domain.Team {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Team{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Initiative options
type InitiativeOption func(*domain.Initiative)

func WithYear(year int) InitiativeOption {
	return func(i *domain.Initiative) {
		i.PlanningYear = year
	}
}

func WithStatus(s domain.InitiativeStatus) InitiativeOption {
	return func(i *domain.Initiative) {
		i.Status = s
	}
}

func Protected() InitiativeOption {
	return func(i *domain.Initiative) {
		i.IsProtected = true
	}
}

func WithAssignment(teamID string, sdeYears float64) InitiativeOption {
	return func(i *domain.Initiative) {
		i.Assignments = append(i.Assignments, domain.Assignment{TeamID: teamID, SDEYears: sdeYears})
	}
}

func WithDueDate(d time.Time) InitiativeOption {
	return func(i *domain.Initiative) {
		i.TargetDueDate = &d
	}
}

func WithDescription(desc string) InitiativeOption {
	return func(i *domain.Initiative) {
		i.Description = desc
	}
}

func NewTestInitiative(title string, opts ...InitiativeOption) *domain.Initiative {
	now := time.Now().UTC().Truncate(time.Second)
	i := &domain.Initiative{
		ID:           uuid.New().String(),
		Title:        title,
		Status:       domain.StatusBacklog,
		PlanningYear: TestYear,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// UniformCapacity sets the same gross and net figure for every scenario.
func UniformCapacity(gross, net float64) domain.ScenarioCapacity {
	fig := domain.CapacityFigure{Gross: gross, Net: net}
	return domain.ScenarioCapacity{FundedHC: fig, TeamBIS: fig, EffectiveBIS: fig}
}
