package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileTestDB creates a file-backed database. Unlike :memory:, every
// pooled connection sees the same data, which the WAL tests need.
func newFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "capplan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// A `plan reorder` session reads the year repeatedly while another
// invocation may be adding initiatives.
func TestConcurrentAccess_ReadYearDuringWrites(t *testing.T) {
	database := newFileTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteInitiativeRepo(database)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			init := testutil.NewTestInitiative(fmt.Sprintf("Init-%d", i), testutil.WithAssignment("t1", 1))
			if err := repo.Create(ctx, init); err != nil {
				t.Errorf("writer: create initiative %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				list, err := repo.ListByYear(ctx, testutil.TestYear)
				if err != nil {
					t.Errorf("reader %d: list year: %v", reader, err)
					return
				}
				for _, init := range list {
					if init.ID == "" || init.Title == "" {
						t.Errorf("reader %d: got half-read initiative", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	list, err := repo.ListByYear(ctx, testutil.TestYear)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

func TestConcurrentAccess_ConcurrentReadersSeeSameMetrics(t *testing.T) {
	database := newFileTestDB(t)
	ctx := context.Background()
	teams := NewSQLiteTeamRepo(database)
	metrics := NewSQLiteMetricsRepo(database)

	const teamCount = 8
	for i := 0; i < teamCount; i++ {
		team := testutil.NewTestTeam(fmt.Sprintf("Team-%02d", i))
		require.NoError(t, teams.Create(ctx, team))
		require.NoError(t, metrics.Upsert(ctx, team.ID, testutil.UniformCapacity(float64(i+1), float64(i))))
	}

	var wg sync.WaitGroup
	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			list, err := teams.List(ctx)
			if err != nil {
				t.Errorf("reader %d: list teams: %v", reader, err)
				return
			}
			if len(list) != teamCount {
				t.Errorf("reader %d: expected %d teams, got %d", reader, teamCount, len(list))
			}
			m, err := metrics.Get(ctx)
			if err != nil {
				t.Errorf("reader %d: get metrics: %v", reader, err)
				return
			}
			if len(m) != teamCount {
				t.Errorf("reader %d: expected %d scopes, got %d", reader, teamCount, len(m))
			}
		}(r)
	}
	wg.Wait()
}
