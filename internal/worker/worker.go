package worker

import (
	"context"
	"log/slog"
	"time"

	"blog-agent/internal/domain"
	"blog-agent/internal/usecase"
)

const (
	syncTimeout    = 5 * time.Minute
	initialBackoff = 1 * time.Second
	maxBackoff     = 5 * time.Minute

	defaultSyncInterval = 15 * time.Minute
)

// SyncWorker periodically copies posts from file sources into the post store
// so the database loader sees new and edited posts.
type SyncWorker struct {
	sources       []domain.PostSource
	ingestUsecase usecase.IngestPostsUsecase
	interval      time.Duration
	limit         int
	logger        *slog.Logger
	stopChan      chan struct{}
	doneChan      chan struct{}
	backoff       time.Duration
}

// NewSyncWorker creates a worker that loads up to limit posts per source every interval.
func NewSyncWorker(
	sources []domain.PostSource,
	ingestUsecase usecase.IngestPostsUsecase,
	interval time.Duration,
	limit int,
	logger *slog.Logger,
) *SyncWorker {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &SyncWorker{
		sources:       sources,
		ingestUsecase: ingestUsecase,
		interval:      interval,
		limit:         limit,
		logger:        logger,
		stopChan:      make(chan struct{}),
		doneChan:      make(chan struct{}),
	}
}

func (w *SyncWorker) Start() {
	w.logger.Info("sync_worker_started",
		slog.Int("sources", len(w.sources)),
		slog.Duration("interval", w.interval))
	go w.run()
}

// Stop signals the worker and waits for an in-flight sync to finish.
func (w *SyncWorker) Stop() {
	close(w.stopChan)
	<-w.doneChan
	w.logger.Info("sync_worker_stopped")
}

func (w *SyncWorker) run() {
	defer close(w.doneChan)

	w.syncOnce()
	ticker := time.NewTicker(w.nextDelay())
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.syncOnce()
			ticker.Reset(w.nextDelay())
		}
	}
}

func (w *SyncWorker) nextDelay() time.Duration {
	if w.backoff > 0 {
		return w.backoff
	}
	return w.interval
}

func (w *SyncWorker) syncOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	failed := false
	for _, src := range w.sources {
		posts, err := src.FetchPosts(ctx, "", w.limit)
		if err != nil {
			failed = true
			w.logger.Error("sync_fetch_failed",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()))
			continue
		}
		result, err := w.ingestUsecase.Execute(ctx, posts)
		if err != nil {
			failed = true
			w.logger.Error("sync_ingest_failed",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()))
			continue
		}
		w.logger.Info("sync_completed",
			slog.String("source", src.Name()),
			slog.Int("stored", result.Stored),
			slog.Int("unchanged", result.Unchanged))
	}

	if failed {
		w.backoff = nextBackoff(w.backoff)
		w.logger.Warn("sync_worker_backing_off", slog.Duration("backoff", w.backoff))
	} else {
		w.backoff = 0
	}
}

func nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return initialBackoff
	}
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
