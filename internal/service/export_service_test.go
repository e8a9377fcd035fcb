package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/export"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newExportService(r *repos) ExportService {
	svc := NewExportService(r.planning(), r.teams).(*exportService)
	svc.now = func() time.Time { return time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestExport_CSV(t *testing.T) {
	r := setupRepos(t)
	seedPlan(t, r)

	var buf bytes.Buffer
	err := newExportService(r).Export(context.Background(), ExportRequest{Context: testContext(), Format: ExportCSV}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Planning Year,2026")
	assert.Contains(t, out, "Generated At,2026-04-02T12:00:00Z")
	assert.Contains(t, out, "Core (SDE Years)")
	assert.Contains(t, out, ",Billing,")
	assert.Contains(t, out, "Totals")
}

func TestExport_TeamFilterByName(t *testing.T) {
	r := setupRepos(t)
	seedPlan(t, r)
	ctx := context.Background()
	other := testutil.NewTestTeam("Other")
	require.NoError(t, r.teams.Create(ctx, other))

	var buf bytes.Buffer
	err := newExportService(r).Export(ctx, ExportRequest{Context: testContext(), Format: ExportCSV, TeamRef: "core"}, &buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "Other (SDE Years)")

	err = newExportService(r).Export(ctx, ExportRequest{Context: testContext(), TeamRef: "missing"}, &buf)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestExport_XLSX(t *testing.T) {
	r := setupRepos(t)
	seedPlan(t, r)

	var buf bytes.Buffer
	err := newExportService(r).Export(context.Background(), ExportRequest{Context: testContext(), Format: ExportXLSX}, &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{export.SheetMetadata, export.SheetSummary, export.SheetInitiatives}, f.GetSheetList())
}

func TestExport_UnknownFormat(t *testing.T) {
	r := setupRepos(t)
	var buf bytes.Buffer
	err := newExportService(r).Export(context.Background(), ExportRequest{Context: testContext(), Format: "pdf"}, &buf)
	require.Error(t, err)
}
