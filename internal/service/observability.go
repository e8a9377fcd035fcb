package service

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// Field keys with meaning beyond logging.
const (
	FieldRejectReason  = "reject_reason"
	FieldStatusChanges = "status_changes"
)

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger logrus.FieldLogger
}

// NewLogUseCaseObserver logs every use case at debug level, failures at
// error level.
func NewLogUseCaseObserver(logger logrus.FieldLogger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	fields := logrus.Fields{
		"use_case":    event.Name,
		"duration_ms": event.Duration.Milliseconds(),
		"success":     event.Success,
	}
	for k, v := range event.Fields {
		fields[k] = v
	}
	entry := o.logger.WithFields(fields)
	if event.Err != nil {
		entry.WithError(event.Err).Error("service_use_case")
		return
	}
	entry.Debug("service_use_case")
}

// MetricsObserver counts use cases and planning outcomes in its own
// registry. The registry is written as a node-exporter textfile by
// WriteTextfile.
type MetricsObserver struct {
	registry      *prometheus.Registry
	useCases      *prometheus.CounterVec
	durations     *prometheus.HistogramVec
	rejectedMoves *prometheus.CounterVec
	statusChanges prometheus.Counter
}

func NewMetricsObserver() *MetricsObserver {
	m := &MetricsObserver{
		registry: prometheus.NewRegistry(),
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capplan",
			Name:      "use_case_total",
			Help:      "Service use cases executed, by name and outcome.",
		}, []string{"use_case", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "capplan",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"use_case"}),
		rejectedMoves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capplan",
			Name:      "rejected_moves_total",
			Help:      "Reorder attempts rejected, by reason.",
		}, []string{"reason"}),
		statusChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "capplan",
			Name:      "commit_status_changes_total",
			Help:      "Initiative status transitions written by plan commits.",
		}),
	}
	m.registry.MustRegister(m.useCases, m.durations, m.rejectedMoves, m.statusChanges)
	return m
}

func (m *MetricsObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	outcome := "success"
	if !event.Success {
		outcome = "error"
	}
	if reason, ok := event.Fields[FieldRejectReason].(string); ok && reason != "" {
		outcome = "rejected"
		m.rejectedMoves.WithLabelValues(reason).Inc()
	}
	m.useCases.WithLabelValues(event.Name, outcome).Inc()
	m.durations.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
	if n, ok := event.Fields[FieldStatusChanges].(int); ok && n > 0 {
		m.statusChanges.Add(float64(n))
	}
}

func (m *MetricsObserver) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the Prometheus text format.
func (m *MetricsObserver) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrap(err, "writing metrics textfile")
	}
	return nil
}

type multiUseCaseObserver []UseCaseObserver

func (m multiUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, o := range m {
		o.ObserveUseCase(ctx, event)
	}
}

// useCaseObserverOrNoop fans out to every non-nil observer.
func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	var live multiUseCaseObserver
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}
