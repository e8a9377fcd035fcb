package service

import (
	"context"
	"io"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/importer"
	"github.com/alexanderramin/capplan/internal/planner"
)

// PlanResponse is one recomputed plan plus the store data it was computed
// from, so callers can render it without another round trip.
type PlanResponse struct {
	Result  planner.Result
	Teams   []*domain.Team
	Metrics domain.CapacityMetrics
	// Warnings are non-fatal data problems such as net above gross.
	Warnings []string
}

type AssignRequest struct {
	Context      planner.Context
	InitiativeID string
	// TeamRef is a team id or name.
	TeamRef string
	// Value is the raw SDE-years input; anything that is not a positive
	// number removes the assignment.
	Value string
}

type MoveRequest struct {
	Context   planner.Context
	DraggedID string
	TargetID  string
	Position  planner.DropPosition
}

type CommitResponse struct {
	Commit planner.CommitResult
	Plan   *PlanResponse
}

type PlanningService interface {
	Plan(ctx context.Context, pctx planner.Context) (*PlanResponse, error)
	SetAssignment(ctx context.Context, req AssignRequest) (*PlanResponse, error)
	// Move returns a *planner.MoveRejection when the move breaks the
	// protected-first invariant; nothing is persisted in that case.
	Move(ctx context.Context, req MoveRequest) (*PlanResponse, error)
	// SaveOrder persists the full order of a year's initiatives.
	SaveOrder(ctx context.Context, year int, ids []string) error
	Commit(ctx context.Context, pctx planner.Context) (*CommitResponse, error)
	// LoadSession builds an interactive planning session over the year.
	LoadSession(ctx context.Context, pctx planner.Context) (*planner.Session, error)
}

type TeamService interface {
	Create(ctx context.Context, name string) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	// Resolve finds a team by id, then by name.
	Resolve(ctx context.Context, ref string) (*domain.Team, error)
	Rename(ctx context.Context, ref, name string) (*domain.Team, error)
	Delete(ctx context.Context, ref string) error
}

type InitiativeService interface {
	Create(ctx context.Context, i *domain.Initiative) error
	GetByID(ctx context.Context, id string) (*domain.Initiative, error)
	ListByYear(ctx context.Context, year int) ([]*domain.Initiative, error)
	Update(ctx context.Context, i *domain.Initiative) error
	Delete(ctx context.Context, id string) error
}

type MetricsService interface {
	Get(ctx context.Context) (domain.CapacityMetrics, error)
	// SetFigure updates one scenario figure for a scope, which is a team
	// ref or domain.TotalsScope. Other figures of the scope are kept.
	SetFigure(ctx context.Context, scope string, scenario domain.Scenario, fig domain.CapacityFigure) error
	DeleteScope(ctx context.Context, scope string) error
}

type SnapshotService interface {
	// Create snapshots the year of pctx and prunes the year down to
	// domain.MaxSnapshotsPerYear.
	Create(ctx context.Context, pctx planner.Context, label string) (*domain.PlanSnapshot, error)
	List(ctx context.Context, year int) ([]*domain.PlanSnapshot, error)
	// Restore replaces the snapshot year's initiatives with the snapshot copy.
	Restore(ctx context.Context, id string) (*domain.PlanSnapshot, error)
	Delete(ctx context.Context, id string) error
}

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

type ExportRequest struct {
	Context planner.Context
	Format  ExportFormat
	// TeamRef restricts the export to one team; empty exports all teams.
	TeamRef string
}

type ExportService interface {
	Export(ctx context.Context, req ExportRequest, w io.Writer) error
}

// ImportResult holds the outcome of an import.
type ImportResult struct {
	TeamsCreated       int
	ScopesUpdated      int
	InitiativesCreated int
	Warnings           []string
}

type ImportService interface {
	ImportFile(ctx context.Context, path string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
