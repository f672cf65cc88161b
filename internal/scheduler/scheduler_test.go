package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error // returned instead of "boom" when set

	mu       sync.Mutex
	calls    int
	failures int // first n calls fail
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	if j.calls <= j.failures {
		if j.err != nil {
			return j.err
		}
		return errors.New("boom")
	}
	return nil
}

func newTestScheduler(maxRetries int) *Scheduler {
	return New(logger.Nop(), Options{MaxRetries: maxRetries, RetryDelay: time.Millisecond, Location: time.UTC})
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler(0)

	require.NoError(t, s.AddJob(&fakeJob{name: "rv_scan", schedule: "0 30 17 * * 1-5"}))
	assert.Error(t, s.AddJob(&fakeJob{name: "rv_scan", schedule: "0 30 17 * * 1-5"}), "duplicate name")
	assert.Error(t, s.AddJob(&fakeJob{name: "bad", schedule: "not a cron"}))

	assert.Equal(t, []string{"rv_scan"}, s.GetAllJobs())
}

func TestRunJob_RetriesUntilSuccess(t *testing.T) {
	s := newTestScheduler(3)
	job := &fakeJob{name: "flaky", schedule: "@daily", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "flaky")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)

	history, err := s.GetJobHistory("flaky")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
}

func TestRunJob_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler(2)
	job := &fakeJob{name: "broken", schedule: "@daily", failures: 100}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "broken")
	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "boom", result.Error)
	assert.Equal(t, 3, job.calls)

	stats := s.GetJobStats()
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].FailureCount)
	assert.Equal(t, 0, stats[0].SuccessCount)
	assert.NotNil(t, stats[0].LastFailure)
	assert.Nil(t, stats[0].LastSuccess)
}

func TestRunJob_InvalidInputIsNotRetried(t *testing.T) {
	s := newTestScheduler(3)
	job := &fakeJob{
		name:     "rv_scan",
		schedule: "@daily",
		failures: 100,
		err:      fmt.Errorf("run scan: S3 failed: %w: empty shortlist", contracts.ErrInvalidInput),
	}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "rv_scan")
	require.Error(t, err)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, job.calls)
	assert.Contains(t, result.Error, "empty shortlist")
}

func TestRunJob_CanceledContextStopsRetrying(t *testing.T) {
	s := New(logger.Nop(), Options{MaxRetries: 5, RetryDelay: time.Hour})
	job := &fakeJob{name: "broken", schedule: "@daily", failures: 100}
	require.NoError(t, s.AddJob(job))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.RunJob(ctx, "broken")
	require.Error(t, err)
	assert.Equal(t, 1, result.Attempts)
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler(0)
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@daily"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.ErrorIs(t, s.RemoveJob("a"), ErrJobNotFound)

	_, err := s.RunJob(context.Background(), "a")
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = s.GetJobHistory("a")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobStats_NextRun(t *testing.T) {
	s := newTestScheduler(0)
	require.NoError(t, s.AddJob(&fakeJob{name: "b", schedule: "@daily"}))
	require.NoError(t, s.AddJob(&fakeJob{name: "a", schedule: "@hourly"}))

	s.Start()
	defer s.Stop()

	stats := s.GetJobStats()
	require.Len(t, stats, 2)
	assert.Equal(t, "a", stats[0].JobName)
	assert.Equal(t, "b", stats[1].JobName)
	assert.NotNil(t, stats[0].NextRun)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.AddResult(JobResult{Success: i%2 == 0, Attempts: i})
	}

	assert.Len(t, h.Results, historyLimit)
	assert.Equal(t, 50, h.Results[0].Attempts, "oldest entries are dropped")
	assert.Equal(t, 50, h.FailureCount())
	assert.InDelta(t, 0.5, h.GetSuccessRate(), 1e-9)

	latest := h.GetLatestResults(3)
	require.Len(t, latest, 3)
	assert.Equal(t, 149, latest[2].Attempts)

	assert.Empty(t, (&JobHistory{}).GetLatestResults(5))
	assert.Equal(t, 0.0, (&JobHistory{}).GetSuccessRate())
}
