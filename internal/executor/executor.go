// Package executor invokes external uninstaller programs on behalf of
// the scheduler and reports each job's outcome back onto its record.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/krisbarrett/go-appsweep/internal/scheduler"
	"github.com/krisbarrett/go-appsweep/internal/uninstall"
)

// CommandExecutor runs each job's uninstall command as a child
// process. Launch returns immediately; the process is supervised on
// its own goroutine and the record is moved to Completed or Failed
// when it exits.
type CommandExecutor struct {
	logger  *slog.Logger
	timeout time.Duration
}

// NewCommandExecutor creates an executor. timeout bounds each child
// process; zero means no limit.
func NewCommandExecutor(logger *slog.Logger, timeout time.Duration) *CommandExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandExecutor{
		logger:  logger.With("component", "executor"),
		timeout: timeout,
	}
}

// Launch starts the uninstall for rec asynchronously. In simulate mode
// nothing is spawned and the record completes immediately.
func (e *CommandExecutor) Launch(rec *scheduler.JobRecord, preferQuiet, simulate bool) {
	desc := rec.Descriptor()
	argv := commandFor(desc, preferQuiet)

	if simulate {
		e.logger.Info("simulated uninstall",
			"job_id", rec.ID(),
			"name", desc.Name,
			"command", argv,
		)
		rec.Complete()
		return
	}

	go e.supervise(rec, desc, argv)
}

func (e *CommandExecutor) supervise(rec *scheduler.JobRecord, desc uninstall.Descriptor, argv []string) {
	if len(argv) == 0 {
		rec.Fail(fmt.Errorf("job %d (%s): no uninstall command", rec.ID(), desc.Name))
		return
	}

	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if e.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
	}
	defer cancel()

	e.logger.Info("uninstall started",
		"job_id", rec.ID(),
		"name", desc.Name,
		"mechanism", desc.Mechanism,
		"command", argv,
	)
	start := time.Now()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	err := cmd.Run()
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		e.logger.Error("uninstall failed",
			"job_id", rec.ID(),
			"name", desc.Name,
			"duration", elapsed,
			"error", err,
		)
		rec.Fail(fmt.Errorf("job %d (%s): %w", rec.ID(), desc.Name, err))
		return
	}

	e.logger.Info("uninstall completed", "job_id", rec.ID(), "name", desc.Name, "duration", elapsed)
	rec.Complete()
}

// commandFor picks the quiet command variant when the caller prefers
// quiet and the descriptor provides one.
func commandFor(desc uninstall.Descriptor, preferQuiet bool) []string {
	if preferQuiet && len(desc.QuietCommand) > 0 {
		return desc.QuietCommand
	}
	return desc.Command
}
