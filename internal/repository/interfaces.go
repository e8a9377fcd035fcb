package repository

import (
	"context"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-faster/errors"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type TeamRepo interface {
	Create(ctx context.Context, t *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	GetByName(ctx context.Context, name string) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	Update(ctx context.Context, t *domain.Team) error
	Delete(ctx context.Context, id string) error
}

// InitiativeRepo stores initiatives with their assignments. Within a
// planning year, initiatives are kept in a persisted order.
type InitiativeRepo interface {
	// Create appends the initiative to the end of its year's order.
	Create(ctx context.Context, i *domain.Initiative) error
	GetByID(ctx context.Context, id string) (*domain.Initiative, error)
	ListByYear(ctx context.Context, year int) ([]*domain.Initiative, error)
	ListYears(ctx context.Context) ([]int, error)
	Update(ctx context.Context, i *domain.Initiative) error
	ReplaceAssignments(ctx context.Context, id string, assignments []domain.Assignment) error
	UpdateStatus(ctx context.Context, id string, status domain.InitiativeStatus, class domain.Classification) error
	// SaveOrder rewrites order_index for ids in the given sequence.
	SaveOrder(ctx context.Context, year int, ids []string) error
	Delete(ctx context.Context, id string) error
	DeleteByYear(ctx context.Context, year int) error
}

type MetricsRepo interface {
	Get(ctx context.Context) (domain.CapacityMetrics, error)
	Upsert(ctx context.Context, scope string, caps domain.ScenarioCapacity) error
	DeleteScope(ctx context.Context, scope string) error
}

type SnapshotRepo interface {
	Create(ctx context.Context, s *domain.PlanSnapshot) error
	GetByID(ctx context.Context, id string) (*domain.PlanSnapshot, error)
	// ListByYear returns snapshots newest first.
	ListByYear(ctx context.Context, year int) ([]*domain.PlanSnapshot, error)
	// Prune keeps the newest keep snapshots of year and deletes the rest.
	Prune(ctx context.Context, year, keep int) (int, error)
	Delete(ctx context.Context, id string) error
}
