package solver

import (
	"math"

	"laplace-jacobi/internal/grid"
	"laplace-jacobi/internal/partition"
)

// Compute は行範囲 r の内部セルにステンシルを適用し、次状態に書き込む
// 戻り値は範囲内の |next - current| の最大値（空範囲なら 0）
func Compute(g *grid.Grid, r partition.Range) float64 {
	cur, next := g.Buffers()
	n := g.Size()

	local := 0.0
	for i := r.First; i <= r.Last; i++ {
		base := i * n
		for k := base + 1; k < base+n-1; k++ {
			v := 0.25 * (cur[k+1] + cur[k-1] + cur[k-n] + cur[k+n])
			next[k] = v
			local = max(local, math.Abs(v-cur[k]))
		}
	}
	return local
}
