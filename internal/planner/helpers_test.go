package planner

import (
	"github.com/alexanderramin/capplan/internal/domain"
)

const testYear = 2026

func makeInit(id string, protected bool, sde ...domain.Assignment) *domain.Initiative {
	return &domain.Initiative{
		ID:           id,
		Title:        id,
		Status:       domain.StatusBacklog,
		IsProtected:  protected,
		Assignments:  sde,
		PlanningYear: testYear,
	}
}

func on(team string, years float64) domain.Assignment {
	return domain.Assignment{TeamID: team, SDEYears: years}
}

func ids(list []*domain.Initiative) []string {
	out := make([]string, len(list))
	for i, init := range list {
		out[i] = init.ID
	}
	return out
}

func totalsMetrics(gross, net float64) domain.CapacityMetrics {
	fig := domain.CapacityFigure{Gross: gross, Net: net}
	return domain.CapacityMetrics{
		domain.TotalsScope: {FundedHC: fig, TeamBIS: fig, EffectiveBIS: fig},
	}
}

var testCtx = Context{Year: testYear, Scenario: domain.ScenarioEffectiveBIS, UseNet: true}
