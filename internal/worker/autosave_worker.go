package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/store"
)

// AutosaveWorker flushes the store snapshot to its backend on a fixed
// cadence, mirroring the mutation-driven flushes so a crash loses at most
// one interval of changes.
type AutosaveWorker struct {
	store    *store.Store
	backend  store.Backend
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

// NewAutosaveWorker constructs the worker.
func NewAutosaveWorker(st *store.Store, backend store.Backend, interval time.Duration, logger *zap.Logger) *AutosaveWorker {
	return &AutosaveWorker{
		store:    st,
		backend:  backend,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start runs the flush loop until ctx is cancelled.
func (w *AutosaveWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Info("autosave worker started", zap.Duration("interval", w.interval))
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("autosave worker stopping")
				return
			case <-ticker.C:
				w.flush(ctx)
			}
		}
	}()
}

// Wait blocks until the worker loop has exited.
func (w *AutosaveWorker) Wait() {
	<-w.done
}

func (w *AutosaveWorker) flush(ctx context.Context) {
	if !w.store.Dirty() {
		return
	}
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := w.store.Flush(flushCtx, w.backend); err != nil {
		w.logger.Error("autosave flush failed", zap.Error(err))
		return
	}
	w.logger.Debug("autosave flush completed")
}
