// Package partition maps worker indices to contiguous ranges of interior rows.
//
// For a grid of side n there are R = n-2 interior rows, numbered 1..R. With T
// workers the base chunk is C = R/T; worker k owns [k*C+1, (k+1)*C] and the
// last worker extends its range to R, absorbing the remainder. When C == 0
// every worker but the last gets an empty range.
package partition

import "fmt"

// Range is an inclusive range of interior rows. First > Last means empty.
type Range struct {
	First int
	Last  int
}

// Len は範囲の行数を返す
func (r Range) Len() int {
	if r.Last < r.First {
		return 0
	}
	return r.Last - r.First + 1
}

// Empty は範囲が空かどうかを返す
func (r Range) Empty() bool {
	return r.Len() == 0
}

func (r Range) String() string {
	if r.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d, %d]", r.First, r.Last)
}

// For はワーカー k の行範囲を返す
// n は辺の長さ、threads はワーカー数、k は [0, threads) の範囲
func For(n, threads, k int) Range {
	rows := n - 2
	if rows <= 0 || threads <= 0 || k < 0 || k >= threads {
		return Range{First: 1, Last: 0}
	}

	chunk := rows / threads
	r := Range{
		First: k*chunk + 1,
		Last:  (k + 1) * chunk,
	}
	if k == threads-1 {
		r.Last = rows
	}
	return r
}

// Ranges は全ワーカーの行範囲を返す
func Ranges(n, threads int) []Range {
	if threads <= 0 {
		return nil
	}
	out := make([]Range, threads)
	for k := range out {
		out[k] = For(n, threads, k)
	}
	return out
}

// Imbalance は最大と最小の範囲長の差を返す
func Imbalance(ranges []Range) int {
	if len(ranges) == 0 {
		return 0
	}
	lo, hi := ranges[0].Len(), ranges[0].Len()
	for _, r := range ranges[1:] {
		lo = min(lo, r.Len())
		hi = max(hi, r.Len())
	}
	return hi - lo
}
