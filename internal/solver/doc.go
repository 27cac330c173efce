// Package solver runs parallel Jacobi relaxation of Laplace's equation.
//
// The interior rows of a grid are split across workers by the partition
// package. Each iteration has two phases separated by a join:
//
//  1. compute: every worker applies the 5-point stencil to its rows, writing
//     the next state and its local maximum change into its own error slot;
//  2. commit: every worker copies its rows of the next state back into the
//     current state (or, in swap mode, the driver exchanges the buffers).
//
// Between the phases the driver reduces the error slots to a global error.
// The loop continues while the global error is strictly greater than the
// threshold and the iteration count does not exceed MaxIter.
//
// # Basic Usage
//
//	g, _ := grid.New(50)
//	g.InitHotSpot(grid.DefaultHotValue)
//
//	cfg := solver.DefaultConfig()
//	cfg.Threads = 4
//	s, err := solver.New(cfg, g)
//	if err != nil {
//	    return err
//	}
//	res, err := s.Run(ctx)
//
// # Scheduling
//
// ScheduleSpawn starts fresh goroutines for every phase of every iteration.
// SchedulePool keeps one goroutine per worker alive for the whole run and
// uses RunPhase as the barrier. Both produce bit-identical grids.
package solver
