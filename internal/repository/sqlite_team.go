package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-faster/errors"
)

// SQLiteTeamRepo implements TeamRepo using a SQLite database.
type SQLiteTeamRepo struct {
	db db.DBTX
}

func NewSQLiteTeamRepo(conn db.DBTX) *SQLiteTeamRepo {
	return &SQLiteTeamRepo{db: conn}
}

const teamColumns = `id, name, created_at, updated_at`

func (r *SQLiteTeamRepo) Create(ctx context.Context, t *domain.Team) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (`+teamColumns+`) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrap(err, "inserting team")
	}
	return nil
}

func (r *SQLiteTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ?`, id)
	return scanTeam(row)
}

// GetByName matches case-insensitively.
func (r *SQLiteTeamRepo) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE LOWER(name) = LOWER(?)`, name)
	return scanTeam(row)
}

func (r *SQLiteTeamRepo) List(ctx context.Context) ([]*domain.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY name, id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing teams")
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating teams")
	}
	return teams, nil
}

func (r *SQLiteTeamRepo) Update(ctx context.Context, t *domain.Team) error {
	res, err := r.db.ExecContext(ctx, `UPDATE teams SET name = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.UpdatedAt.Format(time.RFC3339), t.ID)
	if err != nil {
		return errors.Wrap(err, "updating team")
	}
	return requireAffected(res, "team")
}

// Delete removes the team row. Assignments that still reference it are
// left in place and show up as stale load.
func (r *SQLiteTeamRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting team")
	}
	return requireAffected(res, "team")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*domain.Team, error) {
	var t domain.Team
	var createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.Name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrNotFound, "team")
		}
		return nil, errors.Wrap(err, "scanning team")
	}
	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, errors.Wrap(err, "parsing created_at")
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, errors.Wrap(err, "parsing updated_at")
	}
	return &t, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "%s rows affected", what)
	}
	if n == 0 {
		return errors.Wrap(ErrNotFound, what)
	}
	return nil
}
