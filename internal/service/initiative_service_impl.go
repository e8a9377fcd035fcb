package service

import (
	"context"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/google/uuid"
)

type initiativeService struct {
	initiatives repository.InitiativeRepo
	observer    UseCaseObserver
}

func NewInitiativeService(initiatives repository.InitiativeRepo, observers ...UseCaseObserver) InitiativeService {
	return &initiativeService{initiatives: initiatives, observer: useCaseObserverOrNoop(observers)}
}

// Create stores a new initiative at the end of its year's order.
// Assignments with non-positive SDE-years are dropped.
func (s *initiativeService) Create(ctx context.Context, i *domain.Initiative) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "initiative_create", startedAt, err, map[string]any{"title": i.Title, "year": i.PlanningYear})
	}()

	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.Status == "" {
		i.Status = domain.StatusBacklog
	}
	normalizeAssignments(i)
	if err := i.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)
	i.CreatedAt = now
	i.UpdatedAt = now
	return s.initiatives.Create(ctx, i)
}

func (s *initiativeService) GetByID(ctx context.Context, id string) (*domain.Initiative, error) {
	return s.initiatives.GetByID(ctx, id)
}

func (s *initiativeService) ListByYear(ctx context.Context, year int) ([]*domain.Initiative, error) {
	return s.initiatives.ListByYear(ctx, year)
}

func (s *initiativeService) Update(ctx context.Context, i *domain.Initiative) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "initiative_update", startedAt, err, map[string]any{"id": i.ID})
	}()

	normalizeAssignments(i)
	if err := i.Validate(); err != nil {
		return err
	}
	i.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return s.initiatives.Update(ctx, i)
}

func (s *initiativeService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() {
		observe(ctx, s.observer, "initiative_delete", startedAt, err, map[string]any{"id": id})
	}()
	return s.initiatives.Delete(ctx, id)
}

func normalizeAssignments(i *domain.Initiative) {
	kept := i.Assignments[:0]
	for _, a := range i.Assignments {
		if a.SDEYears > 0 {
			kept = append(kept, a)
		}
	}
	i.Assignments = kept
}
