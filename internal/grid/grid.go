package grid

import (
	"fmt"
	"math"

	apperr "laplace-jacobi/internal/errors"
)

// DefaultHotValue は初期ホットスポットの温度
const DefaultHotValue = 100.0

// MinSize は内部セルを1つ以上持つ最小の辺の長さ
const MinSize = 3

// Grid は現在状態と次状態の2つのバッファを持つ
type Grid struct {
	n    int
	cur  []float64
	next []float64
}

// New は n×n のグリッドを確保する
func New(n int) (g *Grid, err error) {
	if n < MinSize {
		return nil, apperr.NewError("E_SIZE",
			fmt.Sprintf("grid side must be greater than 2, got %d", n), apperr.ErrInvalidSize)
	}
	// 2バッファ分のバイト数が int に収まること
	if n > int(math.Sqrt(float64(math.MaxInt/16))) {
		return nil, apperr.NewError("E_ALLOC",
			fmt.Sprintf("grid side %d exceeds addressable memory", n), apperr.ErrAllocation)
	}

	defer func() {
		if r := recover(); r != nil {
			g = nil
			err = apperr.NewError("E_ALLOC",
				fmt.Sprintf("cannot allocate %dx%d grid: %v", n, n, r), apperr.ErrAllocation)
		}
	}()

	return &Grid{
		n:    n,
		cur:  make([]float64, n*n),
		next: make([]float64, n*n),
	}, nil
}

// InitHotSpot は中心付近の正方形領域を value に、それ以外を 0 に初期化する
// 領域は行・列ともに [n/2, n/2 + n/10)
func (g *Grid) InitHotSpot(value float64) {
	lo := g.n / 2
	hi := lo + g.n/10
	for i := 0; i < g.n; i++ {
		row := g.cur[i*g.n : (i+1)*g.n]
		for j := range row {
			if i >= lo && i < hi && j >= lo && j < hi {
				row[j] = value
			} else {
				row[j] = 0
			}
		}
	}
	clear(g.next)
}

// Fill は境界を含む全セルを v に設定する
func (g *Grid) Fill(v float64) {
	for i := range g.cur {
		g.cur[i] = v
	}
	clear(g.next)
}

// Size は辺の長さを返す
func (g *Grid) Size() int {
	return g.n
}

// At は現在状態の (i, j) の値を返す
func (g *Grid) At(i, j int) float64 {
	return g.cur[i*g.n+j]
}

// Set は現在状態の (i, j) に値を設定する
func (g *Grid) Set(i, j int, v float64) {
	g.cur[i*g.n+j] = v
}

// NextAt は次状態の (i, j) の値を返す
func (g *Grid) NextAt(i, j int) float64 {
	return g.next[i*g.n+j]
}

// Row は現在状態の i 行目のスライスを返す（コピーではない）
func (g *Grid) Row(i int) []float64 {
	return g.cur[i*g.n : (i+1)*g.n]
}

// Buffers は現在状態と次状態の生バッファを返す
// ワーカーは自分の行範囲の外に書き込んではならない
func (g *Grid) Buffers() (cur, next []float64) {
	return g.cur, g.next
}

// Snapshot は現在状態のコピーを返す
func (g *Grid) Snapshot() []float64 {
	out := make([]float64, len(g.cur))
	copy(out, g.cur)
	return out
}

// Swap は現在状態と次状態を入れ替える
func (g *Grid) Swap() {
	g.cur, g.next = g.next, g.cur
}

// SyncBoundary は現在状態の境界セルを次状態にコピーする
func (g *Grid) SyncBoundary() {
	n := g.n
	copy(g.next[:n], g.cur[:n])
	copy(g.next[(n-1)*n:], g.cur[(n-1)*n:])
	for i := 1; i < n-1; i++ {
		g.next[i*n] = g.cur[i*n]
		g.next[i*n+n-1] = g.cur[i*n+n-1]
	}
}

// Release はバッファを解放する
func (g *Grid) Release() {
	g.cur = nil
	g.next = nil
}

// Released はバッファが解放済みかどうかを返す
func (g *Grid) Released() bool {
	return g.cur == nil
}
