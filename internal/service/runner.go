package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/metrics"
)

// Runner выполняет задачи fire-and-forget: ошибки логируются и не доходят до клиента
type Runner interface {
	Go(task string, fn func(ctx context.Context) error)
}

// AsyncRunner запускает задачи в отдельных горутинах с собственным таймаутом.
// Контекст запроса не используется: ответ уже может быть отправлен.
type AsyncRunner struct {
	timeout time.Duration
	metrics *metrics.Metrics
	wg      sync.WaitGroup
}

// NewAsyncRunner создает AsyncRunner
func NewAsyncRunner(timeout time.Duration, m *metrics.Metrics) *AsyncRunner {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AsyncRunner{timeout: timeout, metrics: m}
}

// Go запускает задачу в фоне
func (r *AsyncRunner) Go(task string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Background] task %s panicked: %v", task, rec)
				r.metrics.IncrementBackgroundFailure(task)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("[Background] task %s failed: %v", task, err)
			r.metrics.IncrementBackgroundFailure(task)
		}
	}()
}

// Wait дожидается завершения запущенных задач (при остановке сервера)
func (r *AsyncRunner) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Printf("[Background] shutdown deadline reached with tasks still running")
	}
}

// InlineRunner выполняет задачи синхронно. Используется в тестах и CLI.
type InlineRunner struct{}

// Go выполняет задачу сразу и логирует ошибку
func (InlineRunner) Go(task string, fn func(ctx context.Context) error) {
	if err := fn(context.Background()); err != nil {
		log.Printf("[Background] task %s failed: %v", task, err)
	}
}
