package reporter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Arranger/internal/metrics"
)

type countingPublisher struct {
	calls atomic.Int32
	err   error
}

func (p *countingPublisher) PublishStats(context.Context) error {
	p.calls.Add(1)
	return p.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReportRefreshesGauges(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	p := &countingPublisher{}
	r, err := New(10*time.Second, p, m, discard())
	require.NoError(t, err)

	r.Report(context.Background())

	assert.Equal(t, int32(1), p.calls.Load())
	assert.Greater(t, testutil.ToFloat64(m.MemoryUsage), 0.0)
	assert.Greater(t, testutil.ToFloat64(m.SessionDuration), 0.0)
}

func TestReportCountsPublishErrors(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	p := &countingPublisher{err: errors.New("nats down")}
	r, err := New(time.Second, p, m, discard())
	require.NoError(t, err)

	r.Report(context.Background())
	r.Report(context.Background())

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Errors.WithLabelValues("report")))
}

func TestScheduledRun(t *testing.T) {
	p := &countingPublisher{}
	r, err := New(time.Second, p, nil, discard())
	require.NoError(t, err)

	r.Start()
	defer r.Stop()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestRejectsNonPositiveInterval(t *testing.T) {
	_, err := New(0, &countingPublisher{}, nil, discard())
	assert.Error(t, err)
}
