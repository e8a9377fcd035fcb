package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-faster/errors"
)

// SQLiteInitiativeRepo implements InitiativeRepo. Assignments live in their
// own table and are always read and written together with the initiative.
type SQLiteInitiativeRepo struct {
	db db.DBTX
}

func NewSQLiteInitiativeRepo(conn db.DBTX) *SQLiteInitiativeRepo {
	return &SQLiteInitiativeRepo{db: conn}
}

const initiativeColumns = `id, title, description, status, is_protected, planning_year,
	primary_goal_id, target_due_date, committed_classification, created_at, updated_at`

func (r *SQLiteInitiativeRepo) Create(ctx context.Context, i *domain.Initiative) error {
	query := `INSERT INTO initiatives (` + initiativeColumns + `, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(order_index), 0) + 1 FROM initiatives WHERE planning_year = ?))`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.Title,
		i.Description,
		string(i.Status),
		boolToInt(i.IsProtected),
		i.PlanningYear,
		nullableString(i.PrimaryGoalID),
		nullableTimeToString(i.TargetDueDate, dateLayout),
		string(i.CommittedAs),
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
		i.PlanningYear,
	)
	if err != nil {
		return errors.Wrap(err, "inserting initiative")
	}
	return r.insertAssignments(ctx, i.ID, i.Assignments)
}

func (r *SQLiteInitiativeRepo) GetByID(ctx context.Context, id string) (*domain.Initiative, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+initiativeColumns+` FROM initiatives WHERE id = ?`, id)
	init, err := scanInitiative(row)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT initiative_id, team_id, sde_years FROM assignments
		WHERE initiative_id = ? ORDER BY position, team_id`, id)
	if err != nil {
		return nil, errors.Wrap(err, "loading assignments")
	}
	byID, err := collectAssignments(rows)
	if err != nil {
		return nil, err
	}
	init.Assignments = byID[id]
	return init, nil
}

// ListByYear returns the year's initiatives in persisted order.
func (r *SQLiteInitiativeRepo) ListByYear(ctx context.Context, year int) ([]*domain.Initiative, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+initiativeColumns+` FROM initiatives
		WHERE planning_year = ? ORDER BY order_index, created_at, id`, year)
	if err != nil {
		return nil, errors.Wrap(err, "listing initiatives")
	}
	var list []*domain.Initiative
	for rows.Next() {
		init, err := scanInitiative(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, init)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, errors.Wrap(err, "iterating initiatives")
	}
	rows.Close()

	aRows, err := r.db.QueryContext(ctx,
		`SELECT a.initiative_id, a.team_id, a.sde_years
		FROM assignments a JOIN initiatives i ON i.id = a.initiative_id
		WHERE i.planning_year = ?
		ORDER BY a.initiative_id, a.position, a.team_id`, year)
	if err != nil {
		return nil, errors.Wrap(err, "loading assignments")
	}
	byID, err := collectAssignments(aRows)
	if err != nil {
		return nil, err
	}
	for _, init := range list {
		init.Assignments = byID[init.ID]
	}
	return list, nil
}

func (r *SQLiteInitiativeRepo) ListYears(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT planning_year FROM initiatives ORDER BY planning_year`)
	if err != nil {
		return nil, errors.Wrap(err, "listing planning years")
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, errors.Wrap(err, "scanning planning year")
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// Update writes every stored field and replaces the assignments. Moving an
// initiative to another year appends it to that year's order.
func (r *SQLiteInitiativeRepo) Update(ctx context.Context, i *domain.Initiative) error {
	query := `UPDATE initiatives SET
		title = ?, description = ?, status = ?, is_protected = ?,
		order_index = CASE WHEN planning_year = ? THEN order_index
			ELSE (SELECT COALESCE(MAX(order_index), 0) + 1 FROM initiatives WHERE planning_year = ?) END,
		planning_year = ?, primary_goal_id = ?, target_due_date = ?,
		committed_classification = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		i.Title,
		i.Description,
		string(i.Status),
		boolToInt(i.IsProtected),
		i.PlanningYear,
		i.PlanningYear,
		i.PlanningYear,
		nullableString(i.PrimaryGoalID),
		nullableTimeToString(i.TargetDueDate, dateLayout),
		string(i.CommittedAs),
		i.UpdatedAt.Format(time.RFC3339),
		i.ID,
	)
	if err != nil {
		return errors.Wrap(err, "updating initiative")
	}
	if err := requireAffected(res, "initiative"); err != nil {
		return err
	}
	return r.ReplaceAssignments(ctx, i.ID, i.Assignments)
}

func (r *SQLiteInitiativeRepo) ReplaceAssignments(ctx context.Context, id string, assignments []domain.Assignment) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE initiative_id = ?`, id); err != nil {
		return errors.Wrap(err, "clearing assignments")
	}
	return r.insertAssignments(ctx, id, assignments)
}

func (r *SQLiteInitiativeRepo) insertAssignments(ctx context.Context, id string, assignments []domain.Assignment) error {
	for pos, a := range assignments {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO assignments (initiative_id, team_id, sde_years, position) VALUES (?, ?, ?, ?)`,
			id, a.TeamID, a.SDEYears, pos)
		if err != nil {
			return errors.Wrapf(err, "inserting assignment for team %q", a.TeamID)
		}
	}
	return nil
}

func (r *SQLiteInitiativeRepo) UpdateStatus(ctx context.Context, id string, status domain.InitiativeStatus, class domain.Classification) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE initiatives SET status = ?, committed_classification = ?, updated_at = ? WHERE id = ?`,
		string(status), string(class), nowUTC().Format(time.RFC3339), id)
	if err != nil {
		return errors.Wrap(err, "updating initiative status")
	}
	return requireAffected(res, "initiative")
}

func (r *SQLiteInitiativeRepo) SaveOrder(ctx context.Context, year int, ids []string) error {
	for idx, id := range ids {
		res, err := r.db.ExecContext(ctx,
			`UPDATE initiatives SET order_index = ? WHERE id = ? AND planning_year = ?`,
			idx+1, id, year)
		if err != nil {
			return errors.Wrap(err, "saving order")
		}
		if err := requireAffected(res, "initiative "+id); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteInitiativeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM initiatives WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting initiative")
	}
	return requireAffected(res, "initiative")
}

func (r *SQLiteInitiativeRepo) DeleteByYear(ctx context.Context, year int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM initiatives WHERE planning_year = ?`, year); err != nil {
		return errors.Wrapf(err, "deleting initiatives for %d", year)
	}
	return nil
}

func scanInitiative(row rowScanner) (*domain.Initiative, error) {
	var i domain.Initiative
	var status, committed, createdAt, updatedAt string
	var protected int
	var goalID, dueDate sql.NullString

	err := row.Scan(
		&i.ID, &i.Title, &i.Description, &status, &protected, &i.PlanningYear,
		&goalID, &dueDate, &committed, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "initiative")
		}
		return nil, errors.Wrap(err, "scanning initiative")
	}

	i.Status = domain.InitiativeStatus(status)
	i.IsProtected = intToBool(protected)
	i.PrimaryGoalID = goalID.String
	i.TargetDueDate = parseNullableTime(dueDate, dateLayout)
	i.CommittedAs = domain.Classification(committed)

	if i.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, errors.Wrap(err, "parsing created_at")
	}
	if i.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, errors.Wrap(err, "parsing updated_at")
	}
	return &i, nil
}

// collectAssignments drains rows of (initiative_id, team_id, sde_years)
// and closes them.
func collectAssignments(rows *sql.Rows) (map[string][]domain.Assignment, error) {
	defer rows.Close()
	out := make(map[string][]domain.Assignment)
	for rows.Next() {
		var id string
		var a domain.Assignment
		if err := rows.Scan(&id, &a.TeamID, &a.SDEYears); err != nil {
			return nil, errors.Wrap(err, "scanning assignment")
		}
		out[id] = append(out[id], a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating assignments")
	}
	return out, nil
}
