package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"event-analytics-service/internal/metrics"
	"event-analytics-service/internal/model"
	"event-analytics-service/internal/repository"
)

// BatchActivityWorker buffers activity records and writes them in batches.
type BatchActivityWorker interface {
	Enqueue(activity model.Notification)
	Shutdown()
}

type batchActivityWorker struct {
	repo          repository.ActivityRepository
	queue         chan model.Notification
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

// NewBatchActivityWorker starts the background flush loop.
func NewBatchActivityWorker(repo repository.ActivityRepository, bufferSize int, batchSize int, interval time.Duration) *batchActivityWorker {
	worker := &batchActivityWorker{
		repo:          repo,
		queue:         make(chan model.Notification, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue hands a record to the flush loop. It blocks while the buffer is full.
func (w *batchActivityWorker) Enqueue(activity model.Notification) {
	w.queue <- activity
}

// Shutdown stops accepting records and waits until the queue is drained.
func (w *batchActivityWorker) Shutdown() {
	slog.Info("activity worker shutting down, draining queue")
	close(w.queue)
	w.wg.Wait()
	slog.Info("activity worker stopped")
}

func (w *batchActivityWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.Notification
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case activity, ok := <-w.queue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, activity)
			if len(batch) >= w.batchSize {
				slog.Debug("batch size reached", "size", len(batch), "queued", len(w.queue))
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				slog.Debug("flush interval reached", "size", len(batch), "queued", len(w.queue))
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *batchActivityWorker) bulkInsert(activities []model.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, activities); err != nil {
		metrics.ActivityFlushed.WithLabelValues("error").Add(float64(len(activities)))
		slog.Error("bulk insert failed", "error", err, "size", len(activities))
		return
	}
	metrics.ActivityFlushed.WithLabelValues("ok").Add(float64(len(activities)))
	slog.Debug("activity flushed", "size", len(activities))
}
