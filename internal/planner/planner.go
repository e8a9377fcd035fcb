package planner

import "github.com/alexanderramin/capplan/internal/domain"

// Result is everything the renderer needs after one recomputation.
type Result struct {
	Context Context
	// Limit is the organization-wide capacity the cut line is drawn at.
	Limit float64
	// Initiatives is the classification order: protected first, completed
	// initiatives excluded.
	Initiatives []*domain.Initiative
	// Completed holds the year's completed initiatives, which take no part
	// in classification or load.
	Completed []*domain.Initiative
	TeamLoad  TeamLoad
}

// ATLTotal is the SDE-years committed above the line.
func (r Result) ATLTotal() float64 {
	total := 0.0
	for _, init := range r.Initiatives {
		if init.Classification == domain.ClassATL {
			total += init.TotalSDE()
		}
	}
	return total
}

// ForYear returns the initiatives planned for year, preserving order.
func ForYear(initiatives []*domain.Initiative, year int) []*domain.Initiative {
	var out []*domain.Initiative
	for _, init := range initiatives {
		if init.PlanningYear == year {
			out = append(out, init)
		}
	}
	return out
}

// Compute runs a full recomputation for ctx: year selection, limit
// resolution, classification and team load. Classification fields on the
// year's initiatives are overwritten; nothing else is mutated.
func Compute(
	initiatives []*domain.Initiative,
	teams []*domain.Team,
	metrics domain.CapacityMetrics,
	ctx Context,
) Result {
	year := ForYear(initiatives, ctx.Year)
	limit := TotalCapacity(metrics, ctx)
	classified := Classify(year, limit)

	var completed []*domain.Initiative
	for _, init := range year {
		if init.IsCompleted() {
			completed = append(completed, init)
		}
	}

	return Result{
		Context:     ctx,
		Limit:       limit,
		Initiatives: classified,
		Completed:   completed,
		TeamLoad:    AggregateTeamLoad(classified, teams, metrics, ctx),
	}
}

// Session keeps one working set of initiatives and recomputes the whole
// plan after every mutation. It is not safe for concurrent use; callers
// serialize user actions.
type Session struct {
	all       []*domain.Initiative
	teams     []*domain.Team
	metrics   domain.CapacityMetrics
	ctx       Context
	reorderer *Reorderer
	result    Result
}

// NewSession computes an initial plan. initiatives is kept in the given
// order, which is the order the reorder engine edits.
func NewSession(
	initiatives []*domain.Initiative,
	teams []*domain.Team,
	metrics domain.CapacityMetrics,
	ctx Context,
) *Session {
	s := &Session{all: initiatives, teams: teams, metrics: metrics, ctx: ctx}
	s.reorderer = NewReorderer(nil, s.applyYearOrder)
	s.recompute()
	return s
}

func (s *Session) Result() Result { return s.result }
func (s *Session) Context() Context { return s.ctx }
func (s *Session) Initiatives() []*domain.Initiative { return s.all }
func (s *Session) DragState() DragState { return s.reorderer.State() }
func (s *Session) DraggingID() string { return s.reorderer.DraggingID() }

// YearOrder is the working order of the active year's initiatives.
func (s *Session) YearOrder() []*domain.Initiative {
	return s.reorderer.List()
}

// SetContext switches year, scenario or gross/net and recomputes. A drag
// in flight is cancelled.
func (s *Session) SetContext(ctx Context) {
	s.reorderer.Cancel()
	s.ctx = ctx
	s.recompute()
}

// SetAssignment edits one team's SDE-years on an initiative and recomputes.
// An unknown initiative id is a no-op.
func (s *Session) SetAssignment(initiativeID, teamID, raw string) bool {
	idx := indexOf(s.all, initiativeID)
	if idx < 0 {
		return false
	}
	changed := SetAssignment(s.all[idx], teamID, raw)
	s.recompute()
	return changed
}

func (s *Session) BeginMove(id string) *MoveRejection {
	return s.reorderer.BeginMove(id)
}

// AttemptDrop finishes the current drag; an accepted drop recomputes.
func (s *Session) AttemptDrop(targetID string, pos DropPosition) *MoveRejection {
	return s.reorderer.AttemptDrop(targetID, pos)
}

func (s *Session) Cancel() {
	s.reorderer.Cancel()
}

// Commit applies CommitPlan to the active year using the current
// classification.
func (s *Session) Commit() CommitResult {
	res := CommitPlan(s.all, s.ctx.Year)
	s.recompute()
	return res
}

// applyYearOrder replaces the initiatives of the reordered list with the
// new order, keeping everything else in place.
func (s *Session) applyYearOrder(ordered []*domain.Initiative) {
	moved := make(map[string]bool, len(ordered))
	for _, init := range ordered {
		moved[init.ID] = true
	}
	rest := make([]*domain.Initiative, 0, len(s.all))
	for _, init := range s.all {
		if !moved[init.ID] {
			rest = append(rest, init)
		}
	}
	s.all = append(rest, ordered...)
	s.recompute()
}

func (s *Session) recompute() {
	s.result = Compute(s.all, s.teams, s.metrics, s.ctx)
	if s.reorderer.State() == Idle {
		s.reorderer.list = ForYear(s.all, s.ctx.Year)
	}
}
