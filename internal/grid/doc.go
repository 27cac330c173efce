// Package grid provides the two-buffer storage for a square Jacobi grid.
//
// A Grid holds the current and next state of an N×N domain as two
// contiguous row-major buffers indexed by row*N + col. Boundary rows and
// columns (index 0 and N-1) form a fixed Dirichlet boundary: the solver never
// writes them.
//
// # Basic Usage
//
//	g, err := grid.New(50)
//	if err != nil {
//	    return err
//	}
//	g.InitHotSpot(grid.DefaultHotValue)
//
//	v := g.At(25, 25) // 100
//
// # Double Buffering
//
// Swap exchanges the two buffers in O(1). Callers that use it must first call
// SyncBoundary so both buffers carry the same boundary values.
package grid
