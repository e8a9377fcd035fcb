package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-faster/errors"
)

// SQLiteSnapshotRepo stores plan snapshots with the initiative list
// serialized as JSON.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

type snapshotAssignment struct {
	TeamID   string  `json:"team_id"`
	SDEYears float64 `json:"sde_years"`
}

type snapshotInitiative struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description,omitempty"`
	Status        string               `json:"status"`
	IsProtected   bool                 `json:"is_protected"`
	PlanningYear  int                  `json:"planning_year"`
	PrimaryGoalID string               `json:"primary_goal_id,omitempty"`
	TargetDueDate string               `json:"target_due_date,omitempty"`
	CommittedAs   string               `json:"committed_as,omitempty"`
	Assignments   []snapshotAssignment `json:"assignments,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

func encodeSnapshot(list []*domain.Initiative) ([]byte, error) {
	out := make([]snapshotInitiative, len(list))
	for idx, i := range list {
		si := snapshotInitiative{
			ID:            i.ID,
			Title:         i.Title,
			Description:   i.Description,
			Status:        string(i.Status),
			IsProtected:   i.IsProtected,
			PlanningYear:  i.PlanningYear,
			PrimaryGoalID: i.PrimaryGoalID,
			CommittedAs:   string(i.CommittedAs),
			CreatedAt:     i.CreatedAt,
			UpdatedAt:     i.UpdatedAt,
		}
		if i.TargetDueDate != nil {
			si.TargetDueDate = i.TargetDueDate.Format(dateLayout)
		}
		for _, a := range i.Assignments {
			si.Assignments = append(si.Assignments, snapshotAssignment{TeamID: a.TeamID, SDEYears: a.SDEYears})
		}
		out[idx] = si
	}
	return json.Marshal(out)
}

func decodeSnapshot(payload string) ([]*domain.Initiative, error) {
	var in []snapshotInitiative
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot payload")
	}
	list := make([]*domain.Initiative, len(in))
	for idx, si := range in {
		i := &domain.Initiative{
			ID:            si.ID,
			Title:         si.Title,
			Description:   si.Description,
			Status:        domain.InitiativeStatus(si.Status),
			IsProtected:   si.IsProtected,
			PlanningYear:  si.PlanningYear,
			PrimaryGoalID: si.PrimaryGoalID,
			CommittedAs:   domain.Classification(si.CommittedAs),
			CreatedAt:     si.CreatedAt,
			UpdatedAt:     si.UpdatedAt,
		}
		if si.TargetDueDate != "" {
			if d, err := time.Parse(dateLayout, si.TargetDueDate); err == nil {
				i.TargetDueDate = &d
			}
		}
		for _, a := range si.Assignments {
			i.Assignments = append(i.Assignments, domain.Assignment{TeamID: a.TeamID, SDEYears: a.SDEYears})
		}
		list[idx] = i
	}
	return list, nil
}

func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.PlanSnapshot) error {
	payload, err := encodeSnapshot(s.Initiatives)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot payload")
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO plan_snapshots (id, planning_year, label, scenario, use_net, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.PlanningYear, s.Label, string(s.Scenario), boolToInt(s.UseNet), string(payload),
		s.CreatedAt.UTC().Format(snapshotLayout),
	)
	if err != nil {
		return errors.Wrap(err, "inserting snapshot")
	}
	return nil
}

const snapshotColumns = `id, planning_year, label, scenario, use_net, payload, created_at`

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.PlanSnapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM plan_snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

func (r *SQLiteSnapshotRepo) ListByYear(ctx context.Context, year int) ([]*domain.PlanSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM plan_snapshots
		WHERE planning_year = ? ORDER BY created_at DESC, rowid DESC`, year)
	if err != nil {
		return nil, errors.Wrap(err, "listing snapshots")
	}
	defer rows.Close()

	var out []*domain.PlanSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating snapshots")
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) Prune(ctx context.Context, year, keep int) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM plan_snapshots WHERE planning_year = ? AND id NOT IN (
			SELECT id FROM plan_snapshots WHERE planning_year = ?
			ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, year, year, keep)
	if err != nil {
		return 0, errors.Wrap(err, "pruning snapshots")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "pruned rows")
	}
	return int(n), nil
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plan_snapshots WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting snapshot")
	}
	return requireAffected(res, "snapshot")
}

func scanSnapshot(row rowScanner) (*domain.PlanSnapshot, error) {
	var s domain.PlanSnapshot
	var scenario, payload, createdAt string
	var useNet int
	err := row.Scan(&s.ID, &s.PlanningYear, &s.Label, &scenario, &useNet, &payload, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "snapshot")
		}
		return nil, errors.Wrap(err, "scanning snapshot")
	}
	s.Scenario = domain.Scenario(scenario)
	s.UseNet = intToBool(useNet)
	if s.CreatedAt, err = time.Parse(snapshotLayout, createdAt); err != nil {
		return nil, errors.Wrap(err, "parsing created_at")
	}
	if s.Initiatives, err = decodeSnapshot(payload); err != nil {
		return nil, err
	}
	return &s, nil
}
