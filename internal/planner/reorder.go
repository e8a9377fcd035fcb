package planner

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/sirupsen/logrus"
)

// DropPosition says which side of the target the dragged initiative lands on.
type DropPosition int

const (
	DropBefore DropPosition = iota
	DropAfter
)

func (p DropPosition) String() string {
	if p == DropAfter {
		return "after"
	}
	return "before"
}

// PositionFromOffset maps a drop point to a side of the target: the upper
// half of the target's extent means before, anything else after.
func PositionFromOffset(offset, extent float64) DropPosition {
	if offset < extent/2 {
		return DropBefore
	}
	return DropAfter
}

type RejectReason string

const (
	RejectProtectedSource   RejectReason = "protected_source"
	RejectProtectedTarget   RejectReason = "protected_target"
	RejectAboveProtected    RejectReason = "above_protected_block"
	RejectUnknownInitiative RejectReason = "unknown_initiative"
	RejectNotDragging       RejectReason = "not_dragging"
)

// MoveRejection explains why a reorder was refused. The list it was
// attempted on is left unchanged.
type MoveRejection struct {
	Reason  RejectReason
	Message string
}

func (r *MoveRejection) Error() string { return r.Message }

func reject(reason RejectReason, format string, args ...any) *MoveRejection {
	r := &MoveRejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
	logger.WithFields(logrus.Fields{"reason": reason}).Info("reorder rejected: " + r.Message)
	return r
}

func indexOf(list []*domain.Initiative, id string) int {
	for i, init := range list {
		if init.ID == id {
			return i
		}
	}
	return -1
}

func firstNonProtectedIndex(list []*domain.Initiative) int {
	for i, init := range list {
		if !init.IsProtected {
			return i
		}
	}
	return -1
}

// Move returns a new list with draggedID placed before or after targetID.
// On rejection it returns the input list itself, unmodified, and a
// *MoveRejection.
func Move(list []*domain.Initiative, draggedID, targetID string, pos DropPosition) ([]*domain.Initiative, *MoveRejection) {
	from := indexOf(list, draggedID)
	if from < 0 {
		return list, reject(RejectUnknownInitiative, "initiative %q is no longer in the plan", draggedID)
	}
	to := indexOf(list, targetID)
	if to < 0 {
		return list, reject(RejectUnknownInitiative, "drop target %q is no longer in the plan", targetID)
	}
	if list[from].IsProtected {
		return list, reject(RejectProtectedSource, "cannot move protected initiative %q", list[from].Title)
	}
	if list[to].IsProtected {
		return list, reject(RejectProtectedTarget, "cannot drop onto protected initiative %q", list[to].Title)
	}
	if from == to {
		return list, nil
	}

	rest := make([]*domain.Initiative, 0, len(list))
	rest = append(rest, list[:from]...)
	rest = append(rest, list[from+1:]...)

	insertAt := indexOf(rest, targetID)
	if pos == DropAfter {
		insertAt++
	}
	if fnp := firstNonProtectedIndex(list); fnp >= 0 && insertAt < fnp {
		return list, reject(RejectAboveProtected, "cannot move %q above the protected block", list[from].Title)
	}

	out := make([]*domain.Initiative, 0, len(list))
	out = append(out, rest[:insertAt]...)
	out = append(out, list[from])
	out = append(out, rest[insertAt:]...)
	return out, nil
}

type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Reorderer drives one interactive move at a time:
// Idle -> Dragging -> (Dropped | Cancelled) -> Idle.
// Dropped and Cancelled are transitions, not resting states.
type Reorderer struct {
	list     []*domain.Initiative
	state    DragState
	dragging string
	onDrop   func([]*domain.Initiative)
}

// NewReorderer starts Idle over list. onDrop, if set, runs after every
// accepted drop with the new list.
func NewReorderer(list []*domain.Initiative, onDrop func([]*domain.Initiative)) *Reorderer {
	return &Reorderer{list: list, onDrop: onDrop}
}

func (r *Reorderer) State() DragState { return r.state }
func (r *Reorderer) List() []*domain.Initiative { return r.list }
func (r *Reorderer) DraggingID() string { return r.dragging }

// SetList replaces the list being reordered. Any drag in flight is cancelled.
func (r *Reorderer) SetList(list []*domain.Initiative) {
	r.list = list
	r.Cancel()
}

// BeginMove picks up id. Protected or unknown initiatives are refused and
// the state stays Idle.
func (r *Reorderer) BeginMove(id string) *MoveRejection {
	if r.state == Dragging {
		r.Cancel()
	}
	idx := indexOf(r.list, id)
	if idx < 0 {
		return reject(RejectUnknownInitiative, "initiative %q is no longer in the plan", id)
	}
	if r.list[idx].IsProtected {
		return reject(RejectProtectedSource, "cannot move protected initiative %q", r.list[idx].Title)
	}
	r.state = Dragging
	r.dragging = id
	return nil
}

// AttemptDrop validates and applies the move of the dragged initiative
// relative to targetID. Whatever the outcome the machine returns to Idle.
func (r *Reorderer) AttemptDrop(targetID string, pos DropPosition) *MoveRejection {
	if r.state != Dragging {
		return reject(RejectNotDragging, "no initiative is being moved")
	}
	dragged := r.dragging
	r.state = Idle
	r.dragging = ""

	next, rej := Move(r.list, dragged, targetID, pos)
	if rej != nil {
		return rej
	}
	r.list = next
	if r.onDrop != nil {
		r.onDrop(next)
	}
	return nil
}

// Cancel abandons any drag in flight without touching the list.
func (r *Reorderer) Cancel() {
	r.state = Idle
	r.dragging = ""
}
