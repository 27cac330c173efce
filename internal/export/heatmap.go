package export

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"laplace-jacobi/internal/grid"
)

// gridXYZ は grid.Grid を plotter.GridXYZ として見せる
// 列 c が x、行 r が y（上端が行 0）
type gridXYZ struct {
	g *grid.Grid
}

func (x gridXYZ) Dims() (c, r int) {
	n := x.g.Size()
	return n, n
}

func (x gridXYZ) Z(c, r int) float64 {
	n := x.g.Size()
	return x.g.At(n-1-r, c)
}

func (x gridXYZ) X(c int) float64 {
	return float64(c)
}

func (x gridXYZ) Y(r int) float64 {
	return float64(r)
}

// HeatmapOptions はヒートマップの描画設定
type HeatmapOptions struct {
	Title  string
	Size   vg.Length
	Colors int
}

// DefaultHeatmapOptions はデフォルト設定を返す
func DefaultHeatmapOptions() HeatmapOptions {
	return HeatmapOptions{
		Title:  "Laplace steady state",
		Size:   6 * vg.Inch,
		Colors: 32,
	}
}

// SaveHeatmap はグリッドをヒートマップとして画像に保存する
// 拡張子（.png, .svg, .pdf など）で形式が決まる
func SaveHeatmap(path string, g *grid.Grid, opts HeatmapOptions) error {
	if opts.Size <= 0 {
		opts.Size = DefaultHeatmapOptions().Size
	}
	if opts.Colors <= 1 {
		opts.Colors = DefaultHeatmapOptions().Colors
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "column"
	p.Y.Label.Text = "row (from bottom)"

	hm := plotter.NewHeatMap(gridXYZ{g: g}, palette.Heat(opts.Colors, 1))
	if hm.Max == hm.Min {
		// 一様なグリッドでもパレットのスケールを定義する
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	if err := p.Save(opts.Size, opts.Size, path); err != nil {
		return fmt.Errorf("failed to save heatmap: %w", err)
	}
	return nil
}
