package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/rvscan/internal/contracts"
	"github.com/wonny/rvscan/pkg/logger"
)

// ErrJobNotFound is returned for an unknown job name
var ErrJobNotFound = errors.New("job not found")

// Options configures retry behaviour
type Options struct {
	MaxRetries int
	RetryDelay time.Duration
	Location   *time.Location
}

// DefaultOptions retries three times, one minute apart, in local time
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		RetryDelay: time.Minute,
		Location:   time.Local,
	}
}

type entry struct {
	job     Job
	id      cron.EntryID
	history *JobHistory
}

// Scheduler manages scheduled jobs
// ⭐ SSOT: schedules are managed by this scheduler only
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	options Options

	mu      sync.RWMutex
	entries map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler
func New(log *logger.Logger, opts Options) *Scheduler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(opts.Location)),
		logger:  log.Component("scheduler"),
		options: opts,
		entries: make(map[string]*entry),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	id, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(s.ctx, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.entries[name] = &entry{job: job, id: id, history: &JobHistory{}}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// RemoveJob unschedules a job
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	s.cron.Remove(e.id)
	delete(s.entries, name)
	s.logger.WithField("job", name).Info("Job removed from scheduler")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunJob runs a job immediately and waits for it, outside of its schedule
func (s *Scheduler) RunJob(ctx context.Context, name string) (JobResult, error) {
	s.mu.RLock()
	e, exists := s.entries[name]
	s.mu.RUnlock()

	if !exists {
		return JobResult{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	result := s.runJob(ctx, e.job)
	if !result.Success {
		return result, errors.New(result.Error)
	}
	return result, nil
}

// runJob executes a job with retry logic and records the outcome
func (s *Scheduler) runJob(ctx context.Context, job Job) JobResult {
	name := job.Name()
	result := JobResult{JobName: name, StartTime: time.Now()}
	log := s.logger.WithField("job", name)

	log.Info("Job started")

	var lastErr error
	for attempt := 0; attempt <= s.options.MaxRetries; attempt++ {
		result.Attempts = attempt + 1

		lastErr = job.Run(ctx)
		if lastErr == nil {
			result.Success = true
			break
		}

		log.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		}).Warn("Job execution failed")

		// invalid input fails the same way on every attempt
		if errors.Is(lastErr, contracts.ErrInvalidInput) {
			break
		}
		if attempt == s.options.MaxRetries || !s.wait(ctx) {
			break
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	if !result.Success && lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	if e, exists := s.entries[name]; exists {
		e.history.AddResult(result)
	}
	s.mu.Unlock()

	if result.Success {
		log.WithField("duration", result.Duration).Info("Job completed successfully")
	} else {
		log.WithFields(map[string]interface{}{
			"duration": result.Duration,
			"attempts": result.Attempts,
		}).WithError(lastErr).Error("Job failed after all retries")
	}

	return result
}

// wait sleeps for the retry delay, returning false if ctx ends first
func (s *Scheduler) wait(ctx context.Context) bool {
	timer := time.NewTimer(s.options.RetryDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// GetJobHistory returns a copy of the history for a job
func (s *Scheduler) GetJobHistory(name string) ([]JobResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return e.history.GetLatestResults(len(e.history.Results)), nil
}

// GetAllJobs returns the registered job names in order
func (s *Scheduler) GetAllJobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// GetJobStats returns statistics for all jobs, sorted by name
func (s *Scheduler) GetJobStats() []JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make([]JobStats, 0, len(s.entries))
	for name, e := range s.entries {
		h := e.history
		st := JobStats{
			JobName:      name,
			Schedule:     e.job.Schedule(),
			TotalRuns:    len(h.Results),
			FailureCount: h.FailureCount(),
			SuccessRate:  h.GetSuccessRate(),
		}
		st.SuccessCount = st.TotalRuns - st.FailureCount

		if next := s.cron.Entry(e.id).Next; !next.IsZero() {
			st.NextRun = &next
		}

		for i := len(h.Results) - 1; i >= 0; i-- {
			r := h.Results[i]
			if st.LastRun == nil {
				st.LastRun = &r.StartTime
			}
			if r.Success && st.LastSuccess == nil {
				st.LastSuccess = &r.StartTime
			}
			if !r.Success && st.LastFailure == nil {
				st.LastFailure = &r.StartTime
			}
		}

		stats = append(stats, st)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].JobName < stats[j].JobName })
	return stats
}

// JobStats represents statistics for a job
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	NextRun      *time.Time `json:"next_run,omitempty"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastFailure  *time.Time `json:"last_failure,omitempty"`
}
