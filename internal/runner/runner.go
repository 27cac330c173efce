package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperr "laplace-jacobi/internal/errors"
	"laplace-jacobi/internal/events"
	"laplace-jacobi/internal/export"
	"laplace-jacobi/internal/grid"
	"laplace-jacobi/internal/logger"
	"laplace-jacobi/internal/metrics"
	"laplace-jacobi/internal/solver"
)

// Initial は初期条件の種類
type Initial string

const (
	// InitialHotSpot は中心付近の正方形領域だけを加熱する
	InitialHotSpot Initial = "hotspot"
	// InitialUniform は境界を含む全セルを同じ値にする
	InitialUniform Initial = "uniform"
)

// Config は実行の設定
type Config struct {
	Name        string // 実行名
	Description string // 説明

	Size   int           // グリッドの辺の長さ
	Solver solver.Config // ソルバー設定

	Initial  Initial // 初期条件
	HotValue float64 // ホットスポット（または一様値）の値

	OutputPath  string // テキスト出力先（空なら出力しない）
	HeatmapPath string // ヒートマップ出力先（空なら出力しない）

	ProgressEvery int // k イテレーションごとに進捗をログ出力（0で無効）
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Name:        "default",
		Description: "Hot spot relaxation",
		Size:        50,
		Solver:      solver.DefaultConfig(),
		Initial:     InitialHotSpot,
		HotValue:    grid.DefaultHotValue,
		OutputPath:  export.DefaultTextFile,
	}
}

// Validate は設定を検証する（グリッド確保より前に呼ばれる）
func (c Config) Validate() error {
	if c.Size < grid.MinSize {
		return apperr.NewError("E_SIZE",
			fmt.Sprintf("grid side must be greater than 2, got %d", c.Size), apperr.ErrInvalidSize)
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	switch c.Initial {
	case InitialHotSpot, InitialUniform, "":
	default:
		return fmt.Errorf("%w: unknown initial condition %q", apperr.ErrInvalidConfig, c.Initial)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("%w: progress interval must be non-negative", apperr.ErrInvalidConfig)
	}
	return nil
}

// Result は実行結果
type Result struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time

	// ドライバループのみの経過時間
	Elapsed time.Duration

	Size        int
	Threads     int
	Schedule    solver.Schedule
	Commit      solver.CommitMode
	Iterations  int
	Error       float64
	Converged   bool
	Interrupted bool

	Metrics metrics.Snapshot

	OutputPath  string
	HeatmapPath string
}

// Engine は実行エンジン
type Engine struct {
	config   Config
	eventBus *events.Bus
	metrics  *metrics.Metrics

	mu      sync.RWMutex
	running bool
	grid    *grid.Grid
}

// New は新しい Engine を作成する
func New(config Config) *Engine {
	return &Engine{
		config:  config,
		metrics: metrics.New(),
	}
}

// SetEventBus はイベントバスを設定する
func (e *Engine) SetEventBus(bus *events.Bus) {
	e.eventBus = bus
}

// Run は設定に従って1回の求解を行う
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine is already running")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if err := e.config.Validate(); err != nil {
		return nil, err
	}

	g, err := e.setup()
	if err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}
	defer e.teardown()

	s, err := solver.New(e.config.Solver, g)
	if err != nil {
		return nil, err
	}

	bus := e.eventBus
	if bus == nil && e.config.ProgressEvery > 0 {
		bus = events.NewBus()
		defer bus.Close()
	}
	if bus != nil {
		s.SetEventBus(bus)
		if e.config.ProgressEvery > 0 {
			stop := e.watchProgress(bus)
			defer stop()
		}
	}
	e.metrics.Reset()
	s.SetMetrics(e.metrics)

	logger.Info("", "=== Run '%s' started: %dx%d grid, %d workers (%s/%s) ===",
		e.config.Name, e.config.Size, e.config.Size, e.config.Solver.Threads,
		e.config.Solver.Schedule, e.config.Solver.Commit)

	result := &Result{
		Name:      e.config.Name,
		StartTime: time.Now(),
		Schedule:  e.config.Solver.Schedule,
		Commit:    e.config.Solver.Commit,
	}

	res, runErr := s.Run(ctx)
	result.EndTime = time.Now()
	result.Elapsed = result.EndTime.Sub(result.StartTime)
	result.Size = res.Size
	result.Threads = res.Threads
	result.Iterations = res.Iterations
	result.Error = res.Error
	result.Converged = res.Converged
	result.Interrupted = res.Interrupted
	result.Metrics = e.metrics.Snapshot()

	if runErr != nil && !res.Interrupted {
		return nil, runErr
	}

	if err := e.export(g, result); err != nil {
		return result, err
	}

	logger.Info("", "=== Run '%s' completed ===", e.config.Name)
	return result, runErr
}

// setup はグリッドを確保して初期化する
func (e *Engine) setup() (*grid.Grid, error) {
	g, err := grid.New(e.config.Size)
	if err != nil {
		return nil, err
	}

	switch e.config.Initial {
	case InitialUniform:
		g.Fill(e.config.HotValue)
	default:
		g.InitHotSpot(e.config.HotValue)
	}

	e.mu.Lock()
	e.grid = g
	e.mu.Unlock()
	return g, nil
}

// teardown はグリッドを解放する
func (e *Engine) teardown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.grid != nil {
		e.grid.Release()
		e.grid = nil
	}
}

// export は最終グリッドを書き出す
func (e *Engine) export(g *grid.Grid, result *Result) error {
	if path := e.config.OutputPath; path != "" {
		if err := export.SaveText(path, g); err != nil {
			return fmt.Errorf("grid export failed: %w", err)
		}
		result.OutputPath = path
		logger.Info("export", "grid written to %s", path)
	}
	if path := e.config.HeatmapPath; path != "" {
		opts := export.DefaultHeatmapOptions()
		opts.Title = fmt.Sprintf("%s (%dx%d, %d iterations)", e.config.Name, g.Size(), g.Size(), result.Iterations)
		if err := export.SaveHeatmap(path, g, opts); err != nil {
			return fmt.Errorf("heatmap export failed: %w", err)
		}
		result.HeatmapPath = path
		logger.Info("export", "heatmap written to %s", path)
	}
	return nil
}

// watchProgress は k イテレーションごとに進捗をログ出力する
// 戻り値の関数で購読を終了し、ログ出力の完了を待つ
func (e *Engine) watchProgress(bus *events.Bus) func() {
	ch := bus.Subscribe()
	every := e.config.ProgressEvery
	done := make(chan struct{})

	go func() {
		defer close(done)
		for ev := range ch {
			switch {
			case ev.Type == events.EventIteration && ev.Iteration%every == 0:
				logger.Info("solver", "iteration %d, error %.10f", ev.Iteration, ev.Data.GlobalError)
			case ev.Terminal():
				logger.Info("solver", "%s at iteration %d", ev.Type, ev.Iteration)
			}
		}
	}()

	return func() {
		bus.Unsubscribe(ch)
		<-done
	}
}

// IsRunning は実行中かどうかを返す
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Metrics は直近の実行のメトリクスを返す
func (e *Engine) Metrics() metrics.Snapshot {
	return e.metrics.Snapshot()
}

// Config は設定を返す
func (e *Engine) Config() Config {
	return e.config
}
