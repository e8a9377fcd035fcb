package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRepo_EmptyStore(t *testing.T) {
	repo := NewSQLiteMetricsRepo(testutil.NewTestDB(t))

	metrics, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, metrics)
}

func TestMetricsRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteMetricsRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	caps := domain.ScenarioCapacity{
		FundedHC:     domain.CapacityFigure{Gross: 12, Net: 10},
		TeamBIS:      domain.CapacityFigure{Gross: 11, Net: 9},
		EffectiveBIS: domain.CapacityFigure{Gross: 10, Net: 8.5},
	}
	require.NoError(t, repo.Upsert(ctx, "t1", caps))
	require.NoError(t, repo.Upsert(ctx, domain.TotalsScope, testutil.UniformCapacity(30, 25)))

	metrics, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, caps, metrics["t1"])
	assert.Equal(t, testutil.UniformCapacity(30, 25), metrics[domain.TotalsScope])

	caps.EffectiveBIS.Net = 7
	require.NoError(t, repo.Upsert(ctx, "t1", caps))
	metrics, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, metrics["t1"].EffectiveBIS.Net)
}

func TestMetricsRepo_DeleteScope(t *testing.T) {
	repo := NewSQLiteMetricsRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "t1", testutil.UniformCapacity(1, 1)))
	require.NoError(t, repo.DeleteScope(ctx, "t1"))
	assert.ErrorIs(t, repo.DeleteScope(ctx, "t1"), ErrNotFound)
}
