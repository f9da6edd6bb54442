package generate

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBusy is returned by Start while a job is still running.
var ErrBusy = errors.New("generation already running")

// Runner runs at most one job at a time in the background. A started job
// cannot be cancelled.
type Runner struct {
	// OnStart is called before the job starts, OnFinish after it ends
	// whatever the outcome.
	OnStart  func(Job)
	OnFinish func(Report, error)

	mu     sync.Mutex
	active bool
	done   chan struct{}
	report Report
	err    error
}

// Start validates job and runs it on a new goroutine with its own copy of the
// settings.
func (r *Runner) Start(job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrBusy
	}
	r.active = true
	done := make(chan struct{})
	r.done = done
	r.mu.Unlock()

	job.Settings = job.Settings.Clone()
	if r.OnStart != nil {
		r.OnStart(job)
	}

	go func() {
		defer close(done)
		rep, err := runSafely(job)
		if r.OnFinish != nil {
			r.OnFinish(rep, err)
		}
		r.mu.Lock()
		r.report, r.err = rep, err
		r.active = false
		r.mu.Unlock()
	}()
	return nil
}

func runSafely(job Job) (rep Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("generation panicked: %v", p)
		}
	}()
	return job.Run()
}

// Busy reports whether a job is running.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Done is closed when the most recently started job ends. Before any job it
// is already closed.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		c := make(chan struct{})
		close(c)
		return c
	}
	return r.done
}

// Wait blocks until the most recent job ends and returns its result.
func (r *Runner) Wait() (Report, error) {
	<-r.Done()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.report, r.err
}
