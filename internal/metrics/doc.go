// Package metrics collects per-iteration timing for the Jacobi driver loop.
//
// Each iteration records the wall time of its compute phase and its commit
// phase together with the global error after reduction.
//
// # Basic Usage
//
//	m := metrics.New()
//	m.RecordIteration(computeTime, commitTime, globalErr)
//
//	snap := m.Snapshot()
//	fmt.Printf("%d iterations, P99 %v\n", snap.Iterations, snap.P99Iteration)
//
// # Thread Safety
//
// Counters are atomic and samples are guarded by a RWMutex, so a monitor may
// read while the driver records.
package metrics
