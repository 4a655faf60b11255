package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/observability"
)

// Reconciler audits the stored schedule.
type Reconciler interface {
	Run(ctx context.Context) ([]models.AccountFlow, error)
}

// ReconciliationWorker runs periodic conservation checks.
type ReconciliationWorker struct {
	svc      Reconciler
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewReconciliationWorker constructs a worker with a default hourly interval.
func NewReconciliationWorker(svc Reconciler) *ReconciliationWorker {
	return &ReconciliationWorker{
		svc:      svc,
		interval: time.Hour,
		stopCh:   make(chan struct{}),
	}
}

// WithInterval updates the run interval.
func (w *ReconciliationWorker) WithInterval(interval time.Duration) *ReconciliationWorker {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

// Start blocks and runs reconciliation at the configured interval.
func (w *ReconciliationWorker) Start(ctx context.Context) {
	zap.L().Info("reconciliation worker starting", zap.Duration("interval", w.interval))
	// Audits once immediately, then every interval.
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("reconciliation worker stopped", zap.String("reason", "context"))
			return
		case <-w.stopCh:
			zap.L().Info("reconciliation worker stopped", zap.String("reason", "stop"))
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// Stop stops the running worker loop.
func (w *ReconciliationWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

// Run starts the worker in a goroutine and returns a stop function.
func (w *ReconciliationWorker) Run(ctx context.Context) func() {
	go w.Start(ctx)
	return w.Stop
}

func (w *ReconciliationWorker) runOnce(ctx context.Context) {
	started := time.Now()
	imbalanced, err := w.svc.Run(ctx)
	switch {
	case err != nil:
		observability.IncrementWorkerRun("reconciliation", "failed")
		zap.L().Error("reconciliation run failed", zap.Error(err))
	case len(imbalanced) > 0:
		observability.IncrementWorkerRun("reconciliation", "imbalanced")
		zap.L().Warn("reconciliation found imbalanced accounts",
			zap.Int("accounts", len(imbalanced)),
			zap.Duration("took", time.Since(started)),
		)
	default:
		observability.IncrementWorkerRun("reconciliation", "success")
		zap.L().Debug("reconciliation balanced", zap.Duration("took", time.Since(started)))
	}
}
