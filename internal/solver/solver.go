package solver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperr "laplace-jacobi/internal/errors"
	"laplace-jacobi/internal/events"
	"laplace-jacobi/internal/grid"
	"laplace-jacobi/internal/logger"
	"laplace-jacobi/internal/metrics"
	"laplace-jacobi/internal/partition"
	"laplace-jacobi/internal/worker"
)

// State はドライバループの状態
type State int

const (
	StateInit State = iota
	StateIterating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateIterating:
		return "Iterating"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Result はソルバーの実行結果
type Result struct {
	Size        int
	Threads     int
	Iterations  int
	Error       float64
	Converged   bool
	Interrupted bool
}

// Solver はグリッドとワーカー構成を所有し、ドライバループを実行する
type Solver struct {
	config Config
	grid   *grid.Grid
	ranges []partition.Range
	errs   []float64

	pool     *worker.Pool
	eventBus *events.Bus
	metrics  *metrics.Metrics

	mu        sync.RWMutex
	state     State
	iteration int
	globalErr float64
	running   bool
}

// New は新しい Solver を作成する
func New(config Config, g *grid.Grid) (*Solver, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if g == nil || g.Released() {
		return nil, fmt.Errorf("%w: solver needs an allocated grid", apperr.ErrInvalidConfig)
	}

	ranges := partition.Ranges(g.Size(), config.Threads)
	logger.Debug("solver", "%d workers over %d interior rows, imbalance %d rows",
		config.Threads, g.Size()-2, partition.Imbalance(ranges))

	return &Solver{
		config:    config,
		grid:      g,
		ranges:    ranges,
		errs:      make([]float64, config.Threads),
		state:     StateInit,
		globalErr: InitialError,
	}, nil
}

// SetEventBus はイベントバスを設定する
func (s *Solver) SetEventBus(bus *events.Bus) {
	s.eventBus = bus
}

// SetMetrics はメトリクス収集先を設定する
func (s *Solver) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Run はドライバループを実行する
// コンテキストはイテレーションの合間にのみ確認される
func (s *Solver) Run(ctx context.Context) (Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("solver is already running")
	}
	s.running = true
	s.state = StateInit
	s.iteration = 0
	s.globalErr = InitialError
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if s.config.Commit == CommitSwap {
		s.grid.SyncBoundary()
	}
	if s.config.Schedule == SchedulePool {
		s.pool = worker.NewPool(s.config.Threads)
		s.pool.Start(context.WithoutCancel(ctx))
		defer s.pool.Stop()
	}

	s.publish(events.NewRunStartedEvent(s.grid.Size(), s.config.Threads))
	s.setState(StateIterating)

	iter, globalErr := 0, InitialError
	for s.config.Continue(globalErr, iter) {
		if err := ctx.Err(); err != nil {
			s.setState(StateDone)
			s.publish(events.NewInterruptedEvent(iter, err))
			logger.Warn("solver", "interrupted after %d iterations (error %.10f)", iter, globalErr)
			return s.result(iter, globalErr, true), fmt.Errorf("solver interrupted at iteration %d: %w", iter, err)
		}

		start := time.Now()
		if err := s.phase(s.compute); err != nil {
			s.setState(StateDone)
			return s.result(iter, globalErr, true), fmt.Errorf("compute phase: %w", err)
		}
		globalErr = Reduce(s.errs)
		computed := time.Now()

		if s.config.Commit == CommitSwap {
			s.grid.Swap()
		} else if err := s.phase(s.commit); err != nil {
			s.setState(StateDone)
			return s.result(iter, globalErr, true), fmt.Errorf("commit phase: %w", err)
		}
		iter++

		if s.metrics != nil {
			s.metrics.RecordIteration(computed.Sub(start), time.Since(computed), globalErr)
		}
		s.mu.Lock()
		s.iteration = iter
		s.globalErr = globalErr
		s.mu.Unlock()
		s.publish(events.NewIterationEvent(iter, globalErr))
	}

	s.setState(StateDone)
	res := s.result(iter, globalErr, false)
	if res.Converged {
		s.publish(events.NewConvergedEvent(iter, globalErr))
		logger.Debug("solver", "converged after %d iterations (error %.10f)", iter, globalErr)
	} else {
		s.publish(events.NewBudgetExhaustedEvent(iter, globalErr))
		logger.Warn("solver", "iteration budget exhausted after %d iterations (error %.10f)", iter, globalErr)
	}
	return res, nil
}

// phase は全ワーカーにタスクを割り当て、全員の完了を待つ
func (s *Solver) phase(task worker.Task) error {
	if s.config.Schedule == SchedulePool {
		return s.pool.RunPhase(len(s.ranges), task)
	}

	var g errgroup.Group
	for k := range s.ranges {
		k := k
		g.Go(func() error {
			task(k)
			return nil
		})
	}
	return g.Wait()
}

// compute はワーカー k の計算フェーズ
func (s *Solver) compute(k int) {
	s.errs[k] = Compute(s.grid, s.ranges[k])
}

// commit はワーカー k のコミットフェーズ
func (s *Solver) commit(k int) {
	Commit(s.grid, s.ranges[k])
}

func (s *Solver) result(iter int, globalErr float64, interrupted bool) Result {
	return Result{
		Size:        s.grid.Size(),
		Threads:     s.config.Threads,
		Iterations:  iter,
		Error:       globalErr,
		Converged:   !interrupted && globalErr <= s.config.Threshold,
		Interrupted: interrupted,
	}
}

func (s *Solver) publish(e events.Event) {
	if s.eventBus != nil {
		s.eventBus.Publish(e)
	}
}

func (s *Solver) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// State は現在の状態を返す
func (s *Solver) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Iteration は完了したイテレーション数を返す
func (s *Solver) Iteration() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.iteration
}

// GlobalError は直近の大域誤差を返す
func (s *Solver) GlobalError() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalErr
}

// IsRunning は実行中かどうかを返す
func (s *Solver) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// LocalErrors は直近の計算フェーズにおけるワーカーごとの局所誤差のコピーを返す
// Run の実行中に呼んではならない
func (s *Solver) LocalErrors() []float64 {
	out := make([]float64, len(s.errs))
	copy(out, s.errs)
	return out
}

// Ranges はワーカーごとの行範囲を返す
func (s *Solver) Ranges() []partition.Range {
	out := make([]partition.Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Grid は所有しているグリッドを返す
func (s *Solver) Grid() *grid.Grid {
	return s.grid
}
