package repository

import (
	"context"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/go-faster/errors"
)

// SQLiteMetricsRepo stores capacity figures, one row per scope and scenario.
type SQLiteMetricsRepo struct {
	db db.DBTX
}

func NewSQLiteMetricsRepo(conn db.DBTX) *SQLiteMetricsRepo {
	return &SQLiteMetricsRepo{db: conn}
}

// Get returns every stored scope. An empty store yields an empty map.
func (r *SQLiteMetricsRepo) Get(ctx context.Context) (domain.CapacityMetrics, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT scope, scenario, gross, net FROM capacity_metrics`)
	if err != nil {
		return nil, errors.Wrap(err, "loading capacity metrics")
	}
	defer rows.Close()

	metrics := domain.CapacityMetrics{}
	for rows.Next() {
		var scope, scenario string
		var fig domain.CapacityFigure
		if err := rows.Scan(&scope, &scenario, &fig.Gross, &fig.Net); err != nil {
			return nil, errors.Wrap(err, "scanning capacity metric")
		}
		caps := metrics[scope]
		caps.SetFigure(domain.Scenario(scenario), fig)
		metrics[scope] = caps
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating capacity metrics")
	}
	return metrics, nil
}

// Upsert writes all three scenarios for scope.
func (r *SQLiteMetricsRepo) Upsert(ctx context.Context, scope string, caps domain.ScenarioCapacity) error {
	for _, s := range domain.Scenarios {
		fig, _ := caps.Figure(s)
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO capacity_metrics (scope, scenario, gross, net) VALUES (?, ?, ?, ?)
			ON CONFLICT(scope, scenario) DO UPDATE SET gross = excluded.gross, net = excluded.net`,
			scope, string(s), fig.Gross, fig.Net)
		if err != nil {
			return errors.Wrapf(err, "upserting %s capacity for %q", s, scope)
		}
	}
	return nil
}

func (r *SQLiteMetricsRepo) DeleteScope(ctx context.Context, scope string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM capacity_metrics WHERE scope = ?`, scope)
	if err != nil {
		return errors.Wrap(err, "deleting capacity metrics")
	}
	return requireAffected(res, "capacity scope")
}
