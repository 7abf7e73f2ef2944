package batch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// JobState is an async batch job's lifecycle state.
type JobState string

const (
	JobPending   JobState = "PENDING"
	JobRunning   JobState = "RUNNING"
	JobCompleted JobState = "COMPLETED"
	JobFailed    JobState = "FAILED"
	JobCancelled JobState = "CANCELLED"
)

// jobTTL bounds how long a finished async job's result stays retrievable.
const jobTTL = 1 * time.Hour

// Job is the status/result record for one async batch submission.
type Job struct {
	ID        string
	State     JobState
	Response  Response
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AsyncExecutor wraps an Executor with a job registry for fire-and-forget
// batch submissions, backed by an in-memory TTL cache (the same
// patrickmn/go-cache dependency used by internal/trace, here for job
// results instead of trace records -- bounded lifetime, no durable queue,
// consistent with not persisting batch jobs across process restarts).
type AsyncExecutor struct {
	exec *Executor
	jobs *cache.Cache

	// mu guards cancels and every read/write of a stored *Job; the cache
	// itself is safe for concurrent use but the Job records it holds are
	// mutated in place as the state machine advances.
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewAsync wraps exec with async job tracking.
func NewAsync(exec *Executor) *AsyncExecutor {
	return &AsyncExecutor{
		exec:    exec,
		jobs:    cache.New(jobTTL, 10*time.Minute),
		cancels: map[string]context.CancelFunc{},
	}
}

// Submit registers a new job and runs it in the background, returning the
// job ID immediately.
func (a *AsyncExecutor) Submit(items []Item, opts Options) string {
	id := uuid.NewString()
	now := time.Now()
	job := &Job{ID: id, State: JobPending, CreatedAt: now, UpdatedAt: now}

	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.jobs.Set(id, job, cache.DefaultExpiration)
	a.cancels[id] = cancel
	a.mu.Unlock()

	go a.run(ctx, id, items, opts)
	return id
}

func (a *AsyncExecutor) run(ctx context.Context, id string, items []Item, opts Options) {
	a.update(id, func(j *Job) { j.State = JobRunning })

	resp, err := a.exec.Screen(ctx, items, opts)

	a.mu.Lock()
	delete(a.cancels, id)
	a.mu.Unlock()

	switch {
	case ctx.Err() == context.Canceled:
		a.update(id, func(j *Job) { j.State = JobCancelled })
	case err != nil:
		a.update(id, func(j *Job) { j.State = JobFailed; j.Error = err.Error() })
	default:
		a.update(id, func(j *Job) { j.State = JobCompleted; j.Response = resp })
	}
}

func (a *AsyncExecutor) update(id string, mutate func(*Job)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.jobs.Get(id)
	if !ok {
		return
	}
	job := v.(*Job)
	mutate(job)
	job.UpdatedAt = time.Now()
	a.jobs.Set(id, job, cache.DefaultExpiration)
}

// Status returns a copy of the job's current state, or false if
// unknown/expired.
func (a *AsyncExecutor) Status(id string) (Job, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.jobs.Get(id)
	if !ok {
		return Job{}, false
	}
	return *v.(*Job), true
}

// Cancel requests cooperative cancellation of a running job. Returns false
// if the job is unknown or already terminal.
func (a *AsyncExecutor) Cancel(id string) bool {
	a.mu.Lock()
	cancel, ok := a.cancels[id]
	a.mu.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}
