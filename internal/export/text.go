package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"laplace-jacobi/internal/grid"
)

// DefaultTextFile は出力ファイルのデフォルト名
const DefaultTextFile = "grid_laplace_pth.txt"

// WriteText はグリッドの現在状態をテキストで書き出す
func WriteText(w io.Writer, g *grid.Grid) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for i := 0; i < g.Size(); i++ {
		for _, v := range g.Row(i) {
			buf = strconv.AppendFloat(buf[:0], v, 'f', 6, 64)
			buf = append(buf, ' ')
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i, err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// SaveText はグリッドを path に保存する
func SaveText(path string, g *grid.Grid) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create grid file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close grid file: %w", cerr)
		}
	}()

	return WriteText(f, g)
}

// ReadText はテキスト形式のグリッドを読み込む
// 全行が同じ列数で正方形であることを要求する
func ReadText(r io.Reader) ([][]float64, error) {
	var rows [][]float64

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %w", line, j+1, err)
			}
			row[j] = v
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("line %d: expected %d values, got %d", line, len(rows[0]), len(row))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	if len(rows) > 0 && len(rows) != len(rows[0]) {
		return nil, fmt.Errorf("grid is not square: %d rows of %d values", len(rows), len(rows[0]))
	}
	return rows, nil
}
