package service

import (
	"context"
	"log/slog"
	"sync"
)

// SyncFunc runs one synchronization pass.
type SyncFunc func(ctx context.Context) error

// SyncWorker serializes synchronization requests on one goroutine. A new
// request cancels the pass in flight and starts over; every waiter gets the
// result of the pass that was running when it was last superseded.
type SyncWorker struct {
	sync       SyncFunc
	logger     *slog.Logger
	requestCh  chan *syncRequest
	shutdownCh chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

type syncRequest struct {
	resultCh chan error
}

func NewSyncWorker(fn SyncFunc, logger *slog.Logger) *SyncWorker {
	return &SyncWorker{
		sync:       fn,
		logger:     ResolveLogger(logger),
		requestCh:  make(chan *syncRequest),
		shutdownCh: make(chan struct{}),
	}
}

func (w *SyncWorker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop cancels any pass in flight and waits for the worker to exit.
func (w *SyncWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.shutdownCh)
	})
	w.wg.Wait()
}

// Request schedules a pass and waits for its result.
func (w *SyncWorker) Request(ctx context.Context) error {
	req := &syncRequest{resultCh: make(chan error, 1)}

	select {
	case w.requestCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.shutdownCh:
		return ErrWorkerStopped
	}

	select {
	case err := <-req.resultCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestNoWait schedules a pass and returns once the worker has accepted it,
// without waiting for the result.
func (w *SyncWorker) RequestNoWait(ctx context.Context) error {
	req := &syncRequest{resultCh: make(chan error, 1)}

	select {
	case w.requestCh <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-w.shutdownCh:
		return ErrWorkerStopped
	}
}

func (w *SyncWorker) loop() {
	defer w.wg.Done()

	var (
		cancel  context.CancelFunc
		doneCh  chan error
		waiters []*syncRequest
	)

	start := func() {
		ctx, c := context.WithCancel(context.Background())
		cancel = c
		ch := make(chan error, 1)
		doneCh = ch
		go func() {
			ch <- w.sync(ctx)
		}()
	}

	finish := func(err error) {
		for _, req := range waiters {
			req.resultCh <- err
			close(req.resultCh)
		}
		waiters = nil
	}

	for {
		select {
		case <-w.shutdownCh:
			if cancel != nil {
				cancel()
			}
			finish(ErrWorkerStopped)
			return

		case req := <-w.requestCh:
			waiters = append(waiters, req)
			if cancel != nil {
				w.logger.Debug("restarting synchronization pass", "waiters", len(waiters))
				cancel()
			}
			start()

		case err := <-doneCh:
			cancel()
			cancel = nil
			doneCh = nil
			if err != nil {
				w.logger.Warn("synchronization pass failed", "error", err)
			}
			finish(err)
		}
	}
}
