// Package worker provides a persistent goroutine pool for phase-synchronised work.
//
// The Pool manages a fixed number of worker goroutines that process jobs
// from a shared queue. Besides fire-and-forget submission it offers RunPhase,
// which dispatches one task per index and returns only after every task has
// finished. Consecutive RunPhase calls therefore act as barriers: no task of
// phase n+1 starts before all tasks of phase n are done.
//
// # Basic Usage
//
//	pool := worker.NewPool(4) // 4 workers
//	pool.Start(ctx)
//	defer pool.Stop()
//
//	// compute phase, then commit phase
//	if err := pool.RunPhase(4, compute); err != nil {
//	    return err
//	}
//	if err := pool.RunPhase(4, commit); err != nil {
//	    return err
//	}
//
// # Configuration
//
// Use NewPoolWithConfig for custom settings:
//
//	config := worker.PoolConfig{
//	    NumWorkers:  8,
//	    QueueFactor: 2, // Queue size = 8 * 2 = 16
//	}
//	pool := worker.NewPoolWithConfig(config)
//
// # Shutdown
//
// Stop cancels the pool context and waits for in-flight jobs to return.
// Jobs still queued at that point are dropped.
package worker
