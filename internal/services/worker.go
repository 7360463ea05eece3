package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(recordID uuid.UUID)
}

type worker struct {
	interviewRepo repositories.InterviewRepository
	indexer       IndexerService
	jobQueue      chan uuid.UUID
	concurrency   int
	pollInterval  time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWorker builds the background pool that indexes archived interviews.
func NewWorker(
	interviewRepo repositories.InterviewRepository,
	indexer IndexerService,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		interviewRepo: interviewRepo,
		indexer:       indexer,
		jobQueue:      make(chan uuid.UUID, 100),
		concurrency:   concurrency,
		pollInterval:  pollInterval,
		stopChan:      make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.pollInterval > 0 {
		w.wg.Add(1)
		go w.pollPendingJobs(ctx)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping index worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Index worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(recordID uuid.UUID) {
	select {
	case w.jobQueue <- recordID:
		log.Printf("📥 Index job %s enqueued\n", recordID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue index job %s\n", recordID)
	default:
		// The poller picks pending records up later
		log.Printf("⚠️  Index queue full, deferring job %s\n", recordID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			return
		case recordID := <-w.jobQueue:
			log.Printf("👷 Worker #%d indexing interview %s\n", workerID, recordID)
			if err := w.indexer.IndexInterview(ctx, recordID); err != nil {
				log.Printf("❌ Worker #%d failed to index interview %s: %v\n", workerID, recordID, err)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			pending, err := w.interviewRepo.FindPendingIndex(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending index jobs: %v\n", err)
				continue
			}

			if len(pending) > 0 {
				log.Printf("📋 Found %d interviews waiting for indexing\n", len(pending))
			}

			for _, record := range pending {
				w.EnqueueJob(record.ID)
			}
		}
	}
}
