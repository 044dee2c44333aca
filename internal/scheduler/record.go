package scheduler

import (
	"fmt"
	"sync"

	"github.com/krisbarrett/go-appsweep/internal/uninstall"
)

// Status is the lifecycle state of a job record. Transitions are
// one-directional: waiting moves to running or skipped, running moves
// to completed or failed, and terminal states never change again.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusRunning   Status = "running"
	StatusSkipped   Status = "skipped"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Executor launches the external uninstaller for a record. Launch must
// return promptly; the executor resolves the record to Completed or
// Failed on its own goroutine.
type Executor interface {
	Launch(rec *JobRecord, preferQuiet, simulate bool)
}

// JobRecord is the mutable per-job state shared between the scheduler
// loop, the executor, and external observers. The id is assigned once
// at batch construction and identifies the record in logs; it carries
// no ordering guarantee beyond the original batch order.
type JobRecord struct {
	id   int
	desc uninstall.Descriptor
	exec Executor

	mu      sync.Mutex
	status  Status
	lastErr error
}

func newJobRecord(id int, desc uninstall.Descriptor, exec Executor) *JobRecord {
	return &JobRecord{
		id:     id,
		desc:   desc,
		exec:   exec,
		status: StatusWaiting,
	}
}

// ID returns the record's batch-assigned identifier (1..N).
func (r *JobRecord) ID() int {
	return r.id
}

// Descriptor returns the application description this record wraps.
func (r *JobRecord) Descriptor() uninstall.Descriptor {
	return r.desc
}

// Status returns the current lifecycle state.
func (r *JobRecord) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// IsRunning reports whether the record is currently executing.
func (r *JobRecord) IsRunning() bool {
	return r.Status() == StatusRunning
}

// Err returns the failure reported by the executor, nil unless the
// record is Failed.
func (r *JobRecord) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Launch moves the record from Waiting to Running and hands it to the
// executor. It returns an error if the record is not Waiting; callers
// are expected to gate on status so this never fires in practice.
func (r *JobRecord) Launch(preferQuiet, simulate bool) error {
	r.mu.Lock()
	if r.status != StatusWaiting {
		status := r.status
		r.mu.Unlock()
		return fmt.Errorf("job %d: launch from status %q", r.id, status)
	}
	r.status = StatusRunning
	r.mu.Unlock()

	r.exec.Launch(r, preferQuiet, simulate)
	return nil
}

// SkipIfWaiting moves a Waiting record to Skipped without launching
// it. It reports whether the transition happened; records in any other
// state are left untouched.
func (r *JobRecord) SkipIfWaiting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusWaiting {
		return false
	}
	r.status = StatusSkipped
	return true
}

// Complete is called by the executor when the uninstall succeeded.
func (r *JobRecord) Complete() {
	r.finish(StatusCompleted, nil)
}

// Fail is called by the executor when the uninstall did not succeed.
func (r *JobRecord) Fail(err error) {
	r.finish(StatusFailed, err)
}

func (r *JobRecord) finish(status Status, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRunning {
		return
	}
	r.status = status
	r.lastErr = err
}
