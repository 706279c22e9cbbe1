package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRefresher struct {
	calls []time.Time
	n     int
	err   error
}

func (r *recordingRefresher) RefreshUpdatedSince(_ context.Context, since time.Time) (int, error) {
	r.calls = append(r.calls, since)
	return r.n, r.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewScoreRefreshJob_RejectsBadSpec(t *testing.T) {
	_, err := NewScoreRefreshJob("every tuesday", &recordingRefresher{}, quietLogger(), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "every tuesday")
}

func TestNewScoreRefreshJob_AcceptsDescriptors(t *testing.T) {
	for _, spec := range []string{"@daily", "@every 1h", "0 3 * * *"} {
		j, err := NewScoreRefreshJob(spec, &recordingRefresher{}, quietLogger(), time.Hour)
		require.NoError(t, err, spec)
		assert.Len(t, j.cron.Entries(), 1)
	}
}

func TestScoreRefreshJob_RunAdvancesWatermark(t *testing.T) {
	refresher := &recordingRefresher{n: 3}
	j, err := NewScoreRefreshJob("@daily", refresher, quietLogger(), 24*time.Hour)
	require.NoError(t, err)

	t0 := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	j.lastRun = t0.Add(-24 * time.Hour)
	j.now = func() time.Time { return t0 }

	j.Run(context.Background())
	j.now = func() time.Time { return t0.Add(24 * time.Hour) }
	j.Run(context.Background())

	require.Len(t, refresher.calls, 2)
	assert.Equal(t, t0.Add(-24*time.Hour), refresher.calls[0])
	assert.Equal(t, t0, refresher.calls[1])
}

func TestScoreRefreshJob_FailedRunKeepsWatermark(t *testing.T) {
	refresher := &recordingRefresher{err: errors.New("partial")}
	j, err := NewScoreRefreshJob("@daily", refresher, quietLogger(), time.Hour)
	require.NoError(t, err)

	start := j.lastRun
	j.now = func() time.Time { return start.Add(48 * time.Hour) }

	j.Run(context.Background())
	j.Run(context.Background())

	require.Len(t, refresher.calls, 2)
	assert.Equal(t, start, refresher.calls[1])
}

func TestScoreRefreshJob_StartStop(t *testing.T) {
	j, err := NewScoreRefreshJob("@daily", &recordingRefresher{}, quietLogger(), time.Hour)
	require.NoError(t, err)

	j.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	j.Stop(ctx)
}
