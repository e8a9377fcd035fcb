package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/planner"
	"github.com/go-faster/errors"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogUseCaseObserver_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	obs := NewLogUseCaseObserver(logger)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "plan", Success: true, Duration: 3 * time.Millisecond, Fields: map[string]any{"year": 2026}})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "commit", Err: errors.New("boom")})

	out := buf.String()
	assert.Contains(t, out, `"use_case":"plan"`)
	assert.Contains(t, out, `"year":2026`)
	assert.Contains(t, out, `"level":"debug"`)
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestNewLogUseCaseObserver_NilIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestMetricsObserver_CountsOutcomes(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()

	m.ObserveUseCase(ctx, UseCaseEvent{Name: "plan", Success: true})
	m.ObserveUseCase(ctx, UseCaseEvent{Name: "move", Fields: map[string]any{FieldRejectReason: string(planner.RejectProtectedTarget)}})
	m.ObserveUseCase(ctx, UseCaseEvent{Name: "commit", Success: true, Fields: map[string]any{FieldStatusChanges: 3}})

	assert.Equal(t, 1.0, promtest.ToFloat64(m.useCases.WithLabelValues("plan", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.useCases.WithLabelValues("move", "rejected")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.rejectedMoves.WithLabelValues("protected_target")))
	assert.Equal(t, 3.0, promtest.ToFloat64(m.statusChanges))
}

func TestMetricsObserver_WriteTextfile(t *testing.T) {
	m := NewMetricsObserver()
	m.ObserveUseCase(context.Background(), UseCaseEvent{Name: "plan", Success: true})

	path := filepath.Join(t.TempDir(), "capplan.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `capplan_use_case_total{outcome="success",use_case="plan"} 1`)
}

func TestUseCaseObserverOrNoop_FansOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	obs := useCaseObserverOrNoop([]UseCaseObserver{a, nil, b})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
}
