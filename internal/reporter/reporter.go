// Package reporter periodically refreshes runtime gauges and publishes the
// overall completion stats.
package reporter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/MikeSquared-Agency/Arranger/internal/metrics"
)

// StatsPublisher publishes overall stats. *arranger.Arranger satisfies it.
type StatsPublisher interface {
	PublishStats(ctx context.Context) error
}

type Reporter struct {
	cron      *cron.Cron
	publisher StatsPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	timeout   time.Duration
}

// New schedules a report every interval. It does not run until Start.
func New(interval time.Duration, p StatsPublisher, m *metrics.Metrics, logger *slog.Logger) (*Reporter, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}

	r := &Reporter{
		cron:      cron.New(cron.WithSeconds()),
		publisher: p,
		metrics:   m,
		logger:    logger,
		timeout:   interval,
	}
	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), r.run); err != nil {
		return nil, fmt.Errorf("schedule report: %w", err)
	}
	return r, nil
}

func (r *Reporter) Start() {
	r.cron.Start()
}

// Stop waits for a running report to finish.
func (r *Reporter) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Reporter) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.Report(ctx)
}

// Report refreshes the gauges and publishes stats once.
func (r *Reporter) Report(ctx context.Context) {
	if r.metrics != nil {
		r.metrics.Refresh()
	}
	if err := r.publisher.PublishStats(ctx); err != nil {
		r.logger.Warn("failed to publish stats", "error", err)
		if r.metrics != nil {
			r.metrics.Errors.WithLabelValues("report").Inc()
		}
	}
}
