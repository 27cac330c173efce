package worker

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewWorkerPool(t *testing.T) {
	pool := NewPool(4)
	if pool.NumWorkers() != 4 {
		t.Errorf("expected 4 workers, got %d", pool.NumWorkers())
	}

	// Zero should default to CPU count
	pool2 := NewPool(0)
	if pool2.NumWorkers() != runtime.NumCPU() {
		t.Errorf("expected %d workers, got %d", runtime.NumCPU(), pool2.NumWorkers())
	}
}

func TestWorkerPoolNegativeWorkers(t *testing.T) {
	pool := NewPool(-5)
	if pool.NumWorkers() != runtime.NumCPU() {
		t.Errorf("expected %d workers for negative input, got %d", runtime.NumCPU(), pool.NumWorkers())
	}
}

func TestWorkerPoolStartStop(t *testing.T) {
	pool := NewPool(2)
	ctx := context.Background()

	pool.Start(ctx)
	// Double start should be no-op
	pool.Start(ctx)

	pool.Stop()
	// Double stop should be no-op
	pool.Stop()
}

func TestWorkerPoolSubmit(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())
	defer pool.Stop()

	var counter atomic.Int32
	done := make(chan struct{})

	for i := 0; i < 5; i++ {
		for !pool.Submit(func() { counter.Add(1) }) {
			time.Sleep(time.Millisecond)
		}
	}

	go func() {
		for counter.Load() < 5 {
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("timeout waiting for jobs to complete")
	}
}

func TestWorkerPoolSubmitBeforeStart(t *testing.T) {
	pool := NewPool(2)
	if pool.Submit(func() {}) {
		t.Error("expected Submit to return false before start")
	}
	if pool.SubmitWait(func() {}) {
		t.Error("expected SubmitWait to return false before start")
	}
	if err := pool.RunPhase(2, func(int) {}); err != ErrPoolStopped {
		t.Errorf("expected ErrPoolStopped before start, got %v", err)
	}
}

func TestWorkerPoolSubmitAfterStop(t *testing.T) {
	pool := NewPool(2)
	pool.Start(context.Background())
	pool.Stop()

	if pool.Submit(func() {}) {
		t.Error("expected Submit to return false after stop")
	}
}

func TestWorkerPoolSubmitWaitAfterCancel(t *testing.T) {
	pool := NewPool(2)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	cancel()

	if pool.SubmitWait(func() {}) {
		t.Error("expected SubmitWait to return false after cancel")
	}

	pool.Stop()
}

func TestRunPhaseRunsEveryTaskOnce(t *testing.T) {
	pool := NewPool(3)
	pool.Start(context.Background())
	defer pool.Stop()

	const tasks = 7
	var hits [tasks]atomic.Int32

	if err := pool.RunPhase(tasks, func(k int) { hits[k].Add(1) }); err != nil {
		t.Fatalf("RunPhase failed: %v", err)
	}

	// RunPhase は全タスク完了後に戻る
	for k := range hits {
		if got := hits[k].Load(); got != 1 {
			t.Errorf("task %d ran %d times", k, got)
		}
	}
	if pool.Phases() != 1 {
		t.Errorf("expected 1 completed phase, got %d", pool.Phases())
	}
}

func TestRunPhaseIsABarrier(t *testing.T) {
	pool := NewPool(4)
	pool.Start(context.Background())
	defer pool.Stop()

	const tasks = 8
	var first atomic.Int32
	var violations atomic.Int32

	for i := 0; i < 50; i++ {
		first.Store(0)
		if err := pool.RunPhase(tasks, func(int) {
			time.Sleep(10 * time.Microsecond)
			first.Add(1)
		}); err != nil {
			t.Fatalf("phase 1 failed: %v", err)
		}
		if err := pool.RunPhase(tasks, func(int) {
			if first.Load() != tasks {
				violations.Add(1)
			}
		}); err != nil {
			t.Fatalf("phase 2 failed: %v", err)
		}
	}

	if violations.Load() != 0 {
		t.Errorf("second phase observed an incomplete first phase %d times", violations.Load())
	}
}

func TestRunPhaseMoreTasksThanQueue(t *testing.T) {
	pool := NewPoolWithConfig(PoolConfig{NumWorkers: 1, QueueFactor: 1})
	pool.Start(context.Background())
	defer pool.Stop()

	var counter atomic.Int32
	if err := pool.RunPhase(20, func(int) { counter.Add(1) }); err != nil {
		t.Fatalf("RunPhase failed: %v", err)
	}
	if counter.Load() != 20 {
		t.Errorf("expected 20 tasks, got %d", counter.Load())
	}
}

func TestWorkerPoolQueueSize(t *testing.T) {
	pool := NewPool(1)
	pool.Start(context.Background())
	defer pool.Stop()

	if pool.QueueSize() != 0 {
		t.Errorf("expected queue size 0, got %d", pool.QueueSize())
	}
}
