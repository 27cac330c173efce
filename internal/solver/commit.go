package solver

import (
	"laplace-jacobi/internal/grid"
	"laplace-jacobi/internal/partition"
)

// Commit は行範囲 r の内部セルについて次状態を現在状態にコピーする
func Commit(g *grid.Grid, r partition.Range) {
	cur, next := g.Buffers()
	n := g.Size()

	for i := r.First; i <= r.Last; i++ {
		lo, hi := i*n+1, i*n+n-1
		copy(cur[lo:hi], next[lo:hi])
	}
}
