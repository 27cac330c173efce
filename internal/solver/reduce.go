package solver

import "gonum.org/v1/gonum/floats"

// Reduce はワーカーごとの局所誤差から大域誤差（最大値）を求める
// スロットが無い場合は 0
func Reduce(errs []float64) float64 {
	if len(errs) == 0 {
		return 0
	}
	return floats.Max(errs)
}
