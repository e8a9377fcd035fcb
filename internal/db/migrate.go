package db

import (
	"database/sql"

	"github.com/go-faster/errors"
)

// Migrate applies the schema. Every statement is idempotent so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "migration %d", i)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS initiatives (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'Backlog'
		                CHECK(status IN ('Backlog','Defined','Committed','In Progress','Completed')),
		is_protected    INTEGER NOT NULL DEFAULT 0,
		planning_year   INTEGER NOT NULL CHECK(planning_year > 0),
		primary_goal_id TEXT,
		target_due_date TEXT,
		order_index     INTEGER NOT NULL DEFAULT 0,
		committed_classification TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_initiatives_year_order ON initiatives(planning_year, order_index)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		initiative_id TEXT NOT NULL REFERENCES initiatives(id) ON DELETE CASCADE,
		team_id       TEXT NOT NULL,
		sde_years     REAL NOT NULL CHECK(sde_years > 0),
		position      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (initiative_id, team_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignments_team ON assignments(team_id)`,

	`CREATE TABLE IF NOT EXISTS capacity_metrics (
		scope    TEXT NOT NULL,
		scenario TEXT NOT NULL CHECK(scenario IN ('fundedHC','teamBIS','effectiveBIS')),
		gross    REAL NOT NULL DEFAULT 0,
		net      REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (scope, scenario)
	)`,

	`CREATE TABLE IF NOT EXISTS plan_snapshots (
		id            TEXT PRIMARY KEY,
		planning_year INTEGER NOT NULL,
		label         TEXT NOT NULL DEFAULT '',
		scenario      TEXT NOT NULL,
		use_net       INTEGER NOT NULL DEFAULT 1,
		payload       TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_year ON plan_snapshots(planning_year, created_at)`,
}
