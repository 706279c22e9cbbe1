package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher recomputes cached scores for users changed since a point in time.
type Refresher interface {
	RefreshUpdatedSince(ctx context.Context, since time.Time) (int, error)
}

// ScoreRefreshJob periodically refreshes the cached full score of every user
// updated since the previous run.
type ScoreRefreshJob struct {
	cron      *cron.Cron
	refresher Refresher
	logger    *slog.Logger
	now       func() time.Time
	timeout   time.Duration

	mu      sync.Mutex
	lastRun time.Time
}

// NewScoreRefreshJob parses spec (standard five-field syntax or a descriptor
// such as "@daily") and schedules the job. The first run covers lookback.
func NewScoreRefreshJob(spec string, refresher Refresher, logger *slog.Logger, lookback time.Duration) (*ScoreRefreshJob, error) {
	j := &ScoreRefreshJob{
		refresher: refresher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		timeout:   30 * time.Minute,
	}
	j.lastRun = j.now().Add(-lookback)

	cl := cronLogger{logger: logger}
	j.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := j.cron.AddFunc(spec, func() { j.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule score refresh %q: %w", spec, err)
	}
	return j, nil
}

// Start runs the scheduler in its own goroutine.
func (j *ScoreRefreshJob) Start() {
	j.logger.Info("score refresh scheduler started", "entries", len(j.cron.Entries()))
	j.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish or ctx to end.
func (j *ScoreRefreshJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.logger.Warn("score refresh still running at shutdown")
	}
}

// Run performs one refresh pass. The watermark only advances when every user
// was refreshed, so failed users are retried on the next pass.
func (j *ScoreRefreshJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	j.mu.Lock()
	since := j.lastRun
	j.mu.Unlock()

	started := j.now()
	n, err := j.refresher.RefreshUpdatedSince(ctx, since)
	if err != nil {
		j.logger.ErrorContext(ctx, "score refresh pass incomplete",
			"since", since,
			"refreshed", n,
			"error", err,
		)
		return
	}

	j.mu.Lock()
	j.lastRun = started
	j.mu.Unlock()

	j.logger.InfoContext(ctx, "score refresh pass complete",
		"since", since,
		"refreshed", n,
		"duration", j.now().Sub(started),
	)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
