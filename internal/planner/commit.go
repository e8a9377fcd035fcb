package planner

import "github.com/alexanderramin/capplan/internal/domain"

// StatusChange records one workflow transition made by CommitPlan.
type StatusChange struct {
	InitiativeID   string
	Title          string
	From           domain.InitiativeStatus
	To             domain.InitiativeStatus
	Classification domain.Classification
}

type CommitResult struct {
	Year    int
	Changes []StatusChange
}

// Updated is the number of initiatives whose status changed.
func (r CommitResult) Updated() int { return len(r.Changes) }

// CommitPlan turns the last computed classification of year's initiatives
// into workflow status: ATL Backlog/Defined become Committed, BTL
// Committed/In Progress fall back to Backlog. Completed and unclassified
// initiatives are never touched, so a second run with no edits in between
// changes nothing. Every considered initiative records the classification
// it was committed under.
func CommitPlan(initiatives []*domain.Initiative, year int) CommitResult {
	res := CommitResult{Year: year}
	for _, init := range initiatives {
		if init.PlanningYear != year || init.IsCompleted() || init.Classification == domain.ClassUnset {
			continue
		}
		init.CommittedAs = init.Classification
		next, ok := commitTarget(init.Status, init.Classification)
		if !ok {
			continue
		}
		res.Changes = append(res.Changes, StatusChange{
			InitiativeID:   init.ID,
			Title:          init.Title,
			From:           init.Status,
			To:             next,
			Classification: init.Classification,
		})
		init.Status = next
	}
	return res
}

func commitTarget(status domain.InitiativeStatus, class domain.Classification) (domain.InitiativeStatus, bool) {
	switch class {
	case domain.ClassATL:
		if status == domain.StatusBacklog || status == domain.StatusDefined {
			return domain.StatusCommitted, true
		}
	case domain.ClassBTL:
		if status == domain.StatusCommitted || status == domain.StatusInProgress {
			return domain.StatusBacklog, true
		}
	}
	return status, false
}
