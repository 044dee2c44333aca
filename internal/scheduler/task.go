// Package scheduler runs a fixed batch of removal jobs with bounded
// concurrency. Jobs that contend for the same installer mechanism or
// the same installed footprint are never run together, and at most one
// interactive job runs at a time when configured so.
package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/krisbarrett/go-appsweep/internal/uninstall"
)

const defaultPollInterval = 300 * time.Millisecond

// Concurrency limit bounds enforced at construction.
const (
	minConcurrency = 1
	maxConcurrency = 1000
)

// ErrInvalidArgument marks construction failures: missing batch,
// missing configuration, or missing executor. These are always
// reported synchronously, before any goroutine is spawned.
var ErrInvalidArgument = errors.New("invalid argument")

// Config controls one batch run. The zero value is not useful; the
// config package supplies defaults for file-driven runs.
type Config struct {
	// ConcurrencyLimit caps simultaneously running jobs. Values
	// outside [1,1000] are clamped by NewTask.
	ConcurrencyLimit int

	// OneLoudLimit prevents two interactive (non-silent) jobs from
	// running at the same time.
	OneLoudLimit bool

	// PreferQuiet makes the executor pick a job's unattended command
	// variant when one exists.
	PreferQuiet bool

	// Simulate runs the batch without invoking any uninstaller.
	Simulate bool

	// PollInterval is the scheduler's tick period. Zero or negative
	// selects the 300ms default.
	PollInterval time.Duration
}

// Task owns one batch of removal jobs: it assigns record ids, runs the
// scheduling loop, and fans status-change notifications out to
// subscribers. A Task runs its batch at most once.
type Task struct {
	cfg      Config
	records  []*JobRecord
	poll     time.Duration
	logger   *slog.Logger
	listener *listenerRegistry

	startMu  sync.Mutex
	started  bool
	aborted  atomic.Bool
	finished atomic.Bool
}

// NewTask builds a task over the given descriptors. Records are
// assigned ids 1..N in input order. The configuration's concurrency
// limit is clamped here, not by the caller.
func NewTask(cfg *Config, descriptors []uninstall.Descriptor, exec Executor, logger *slog.Logger) (*Task, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidArgument)
	}
	if exec == nil {
		return nil, fmt.Errorf("%w: nil executor", ErrInvalidArgument)
	}
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidArgument)
	}
	if logger == nil {
		logger = slog.Default()
	}

	conf := *cfg
	if conf.ConcurrencyLimit < minConcurrency {
		conf.ConcurrencyLimit = minConcurrency
	}
	if conf.ConcurrencyLimit > maxConcurrency {
		conf.ConcurrencyLimit = maxConcurrency
	}
	poll := conf.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	records := make([]*JobRecord, len(descriptors))
	for i, desc := range descriptors {
		records[i] = newJobRecord(i+1, desc, exec)
	}

	return &Task{
		cfg:      conf,
		records:  records,
		poll:     poll,
		logger:   logger.With("component", "scheduler", "run_id", uuid.NewString()),
		listener: newListenerRegistry(),
	}, nil
}

// Records returns the batch in id order. The slice is a copy; the
// records themselves are shared and safe for concurrent status reads.
func (t *Task) Records() []*JobRecord {
	out := make([]*JobRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Aborted reports whether Abort has been called.
func (t *Task) Aborted() bool {
	return t.aborted.Load()
}

// Finished reports whether the scheduling loop has fully drained.
func (t *Task) Finished() bool {
	return t.finished.Load()
}

// Subscribe registers a status-change callback, fired once per
// scheduler tick and once more on final completion. The returned
// function unsubscribes it.
func (t *Task) Subscribe(fn func()) func() {
	return t.listener.add(fn)
}

// ClearListeners drops all subscribers. Running jobs are unaffected.
func (t *Task) ClearListeners() {
	t.listener.clear()
}

// Start spawns the scheduling loop. Calling it while a loop is active,
// or after the batch has finished, is a no-op.
func (t *Task) Start() {
	t.startMu.Lock()
	defer t.startMu.Unlock()

	if t.started {
		return
	}
	t.started = true
	go t.run()
}

// Abort requests cooperative cancellation. It returns immediately; the
// loop skips all still-waiting jobs at its next tick and lets running
// jobs finish naturally.
func (t *Task) Abort() {
	t.aborted.Store(true)
}

// RunSingle launches one record outside the scheduling loop, for
// user-driven execution. Unless collision detection is disabled it
// applies the mechanism and footprint rules (but not the loud-job
// limit) against the currently running records and reports
// started=false when the record would collide or is no longer waiting.
func (t *Task) RunSingle(rec *JobRecord, disableCollisionDetection bool) (started bool, err error) {
	if rec == nil {
		return false, fmt.Errorf("%w: nil record", ErrInvalidArgument)
	}

	if !disableCollisionDetection {
		for _, r := range t.runningRecords() {
			if collides(rec.Descriptor(), r.Descriptor()) {
				t.logger.Info("manual run blocked by collision",
					"job_id", rec.ID(),
					"name", rec.Descriptor().Name,
					"running_id", r.ID(),
				)
				return false, nil
			}
		}
	}

	if err := rec.Launch(t.cfg.PreferQuiet, t.cfg.Simulate); err != nil {
		return false, err
	}
	t.logger.Info("manual run started", "job_id", rec.ID(), "name", rec.Descriptor().Name)
	t.listener.notify()
	return true, nil
}

// run is the scheduling loop. Phase 1 dispatches waiting jobs under
// the concurrency gate and collision rules; phase 2 waits for running
// jobs to drain. Both phases poll at the configured interval.
func (t *Task) run() {
	t.logger.Info("batch started",
		"jobs", len(t.records),
		"concurrency_limit", t.cfg.ConcurrencyLimit,
		"one_loud_limit", t.cfg.OneLoudLimit,
		"prefer_quiet", t.cfg.PreferQuiet,
		"simulate", t.cfg.Simulate,
	)

	for t.waitingCount() > 0 {
		// Cancellation is checked before the concurrency gate so an
		// abort never waits on a full gate.
		if t.aborted.Load() {
			skipped := 0
			for _, rec := range t.records {
				if rec.SkipIfWaiting() {
					skipped++
				}
			}
			t.logger.Info("abort observed, skipped remaining jobs", "skipped", skipped)
			t.listener.notify()
			break
		}

		running := t.runningRecords()
		if len(running) >= t.cfg.ConcurrencyLimit {
			time.Sleep(t.poll)
			continue
		}

		// First-fit scan in id order, deliberately not best-fit: the
		// batch order is the scheduling order.
		var candidate *JobRecord
		for _, rec := range t.records {
			if eligible(rec, running, t.cfg.OneLoudLimit) {
				candidate = rec
				break
			}
		}

		launched := false
		if candidate != nil {
			if err := candidate.Launch(t.cfg.PreferQuiet, t.cfg.Simulate); err != nil {
				t.logger.Warn("launch refused", "job_id", candidate.ID(), "error", err)
			} else {
				launched = true
				t.logger.Info("job launched",
					"job_id", candidate.ID(),
					"name", candidate.Descriptor().Name,
					"mechanism", candidate.Descriptor().Mechanism,
					"running", len(running)+1,
				)
			}
		}

		t.listener.notify()

		if !launched {
			time.Sleep(t.poll)
		}
	}

	for t.runningCount() > 0 {
		time.Sleep(t.poll)
	}

	t.finished.Store(true)
	t.logger.Info("batch finished", "aborted", t.aborted.Load(), "summary", t.summary())
	t.listener.notify()
}

func (t *Task) waitingCount() int {
	n := 0
	for _, rec := range t.records {
		if rec.Status() == StatusWaiting {
			n++
		}
	}
	return n
}

func (t *Task) runningCount() int {
	n := 0
	for _, rec := range t.records {
		if rec.IsRunning() {
			n++
		}
	}
	return n
}

func (t *Task) runningRecords() []*JobRecord {
	var out []*JobRecord
	for _, rec := range t.records {
		if rec.IsRunning() {
			out = append(out, rec)
		}
	}
	return out
}

func (t *Task) summary() map[Status]int {
	out := make(map[Status]int)
	for _, rec := range t.records {
		out[rec.Status()]++
	}
	return out
}
