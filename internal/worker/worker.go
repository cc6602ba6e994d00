package worker

import (
	"careers-page-builder/internal/logger"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

// taskTimeout bounds a single task so a hung webhook cannot pin a worker
const taskTimeout = 30 * time.Second

type WorkerPool struct {
	taskQueue chan Task
	wg        sync.WaitGroup

	// mu guards closed and the queue close against in-flight sends
	mu     sync.RWMutex
	closed bool
}

func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}
	wp := &WorkerPool{
		taskQueue: make(chan Task, 1000),
	}

	for range size {
		wp.wg.Add(1)
		go wp.startWorker()
	}

	return wp
}

func (wp *WorkerPool) startWorker() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		wp.run(task)
	}
}

func (wp *WorkerPool) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()
	if err := task(ctx); err != nil {
		logger.GetLogger().Warn("Worker task failed", zap.Error(err))
	}
}

// Submit queues t. Tasks are dropped when the queue is full or the pool is shutting down.
func (wp *WorkerPool) Submit(t Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		logger.GetLogger().Warn("Task submitted during shutdown, dropping.")
		return false
	}
	select {
	case wp.taskQueue <- t:
		return true
	default:
		logger.GetLogger().Warn("Task queue full, dropping task!")
		return false
	}
}

// Shutdown closes the queue and waits for workers to finish
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.taskQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
}
