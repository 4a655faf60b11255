package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayo6706/circulation-scheduler/internal/observability"
	"github.com/ayo6706/circulation-scheduler/internal/service"
)

// Executor fires the scheduled run once its time has come.
type Executor interface {
	ExecuteIfDue(ctx context.Context, now time.Time) (*service.RunResult, bool, error)
}

// AutoExecutionWorker polls the configured execution time and triggers the
// scheduled run when it passes.
type AutoExecutionWorker struct {
	svc          Executor
	pollInterval time.Duration
	now          func() time.Time
	stopCh       chan struct{}
	stopOnce     sync.Once
}

// NewAutoExecutionWorker creates a worker polling every second.
func NewAutoExecutionWorker(svc Executor) *AutoExecutionWorker {
	return &AutoExecutionWorker{
		svc:          svc,
		pollInterval: time.Second,
		now:          time.Now,
		stopCh:       make(chan struct{}),
	}
}

// WithPollInterval sets the poll interval for the worker.
func (w *AutoExecutionWorker) WithPollInterval(interval time.Duration) *AutoExecutionWorker {
	if interval > 0 {
		w.pollInterval = interval
	}
	return w
}

// Start blocks until Stop is called or the context is canceled.
func (w *AutoExecutionWorker) Start(ctx context.Context) {
	zap.L().Info("auto execution worker starting", zap.Duration("poll_interval", w.pollInterval))

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("auto execution worker context canceled")
			return
		case <-w.stopCh:
			zap.L().Info("auto execution worker stop signal received")
			return
		case <-ticker.C:
			w.ExecuteOnce(ctx)
		}
	}
}

// Stop signals the worker to stop.
func (w *AutoExecutionWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *AutoExecutionWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

// ExecuteOnce checks the deadline immediately. It reports whether a run fired.
func (w *AutoExecutionWorker) ExecuteOnce(ctx context.Context) bool {
	result, fired, err := w.svc.ExecuteIfDue(ctx, w.now())
	if err != nil {
		observability.IncrementWorkerRun("auto_execution", "failed")
		zap.L().Error("scheduled execution failed", zap.Error(err))
		return false
	}
	if !fired {
		return false
	}
	observability.IncrementWorkerRun("auto_execution", "success")
	zap.L().Info("scheduled execution completed", zap.Int("transfers", len(result.Transfers)))
	return true
}
