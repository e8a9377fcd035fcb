package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Converted is a validated import file turned into domain records.
type Converted struct {
	// NewTeams are teams the store does not know by name yet.
	NewTeams    []*domain.Team
	Metrics     domain.CapacityMetrics
	Initiatives []*domain.Initiative
}

// Convert resolves team refs and builds domain records. A file team whose
// name matches an existing team (case-insensitively) reuses that team's id.
// Assignment and capacity references that are not file refs are matched
// against existing team names. Call ValidateImportSchema first.
func Convert(schema *ImportSchema, existing []*domain.Team) (*Converted, error) {
	now := time.Now().UTC().Truncate(time.Second)

	byName := make(map[string]string, len(existing))
	for _, t := range existing {
		byName[strings.ToLower(t.Name)] = t.ID
	}

	out := &Converted{Metrics: domain.CapacityMetrics{}}
	refs := make(map[string]string, len(schema.Teams))
	for _, t := range schema.Teams {
		if id, ok := byName[strings.ToLower(t.Name)]; ok {
			refs[t.Ref] = id
			continue
		}
		team := &domain.Team{ID: uuid.New().String(), Name: t.Name, CreatedAt: now, UpdatedAt: now}
		refs[t.Ref] = team.ID
		byName[strings.ToLower(t.Name)] = team.ID
		out.NewTeams = append(out.NewTeams, team)
	}

	resolve := func(ref string) (string, error) {
		if id, ok := refs[ref]; ok {
			return id, nil
		}
		if id, ok := byName[strings.ToLower(ref)]; ok {
			return id, nil
		}
		return "", errors.Errorf("unknown team %q", ref)
	}

	for _, c := range schema.Capacity {
		scope := c.Scope
		if scope != domain.TotalsScope {
			id, err := resolve(scope)
			if err != nil {
				return nil, errors.Wrap(err, "capacity")
			}
			scope = id
		}
		out.Metrics[scope] = domain.ScenarioCapacity{
			FundedHC:     domain.CapacityFigure(c.FundedHC),
			TeamBIS:      domain.CapacityFigure(c.TeamBIS),
			EffectiveBIS: domain.CapacityFigure(c.EffectiveBIS),
		}
	}

	for _, in := range schema.Initiatives {
		status := domain.StatusBacklog
		if in.Status != "" {
			s, err := domain.ParseInitiativeStatus(in.Status)
			if err != nil {
				return nil, err
			}
			status = s
		}
		year := in.PlanningYear
		if year == 0 {
			year = schema.PlanningYear
		}

		init := &domain.Initiative{
			ID:            uuid.New().String(),
			Title:         in.Title,
			Description:   in.Description,
			Status:        status,
			IsProtected:   in.Protected,
			PlanningYear:  year,
			PrimaryGoalID: in.PrimaryGoalID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if in.TargetDueDate != "" {
			d, err := time.Parse("2006-01-02", in.TargetDueDate)
			if err != nil {
				return nil, errors.Wrapf(err, "initiative %q target_due_date", in.Title)
			}
			init.TargetDueDate = &d
		}
		for _, a := range in.Assignments {
			teamID, err := resolve(a.Team)
			if err != nil {
				return nil, errors.Wrapf(err, "initiative %q", in.Title)
			}
			init.Assignments = append(init.Assignments, domain.Assignment{TeamID: teamID, SDEYears: a.SDEYears})
		}
		out.Initiatives = append(out.Initiatives, init)
	}
	return out, nil
}
