package solver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "laplace-jacobi/internal/errors"
	"laplace-jacobi/internal/events"
	"laplace-jacobi/internal/grid"
	"laplace-jacobi/internal/metrics"
)

type mode struct {
	schedule Schedule
	commit   CommitMode
}

var allModes = []mode{
	{ScheduleSpawn, CommitCopy},
	{ScheduleSpawn, CommitSwap},
	{SchedulePool, CommitCopy},
	{SchedulePool, CommitSwap},
}

func (m mode) String() string {
	return fmt.Sprintf("%s/%s", m.schedule, m.commit)
}

func hotGrid(t *testing.T, n int) *grid.Grid {
	t.Helper()
	g := newGrid(t, n)
	g.InitHotSpot(grid.DefaultHotValue)
	return g
}

func run(t *testing.T, g *grid.Grid, cfg Config) (*Solver, Result) {
	t.Helper()
	s, err := New(cfg, g)
	require.NoError(t, err)
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	return s, res
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Init", StateInit.String())
	assert.Equal(t, "Iterating", StateIterating.String())
	assert.Equal(t, "Done", StateDone.String())
	assert.Equal(t, "Unknown", State(42).String())
}

func TestNewValidation(t *testing.T) {
	g := newGrid(t, 5)

	cfg := DefaultConfig()
	cfg.Threads = 0
	_, err := New(cfg, g)
	assert.ErrorIs(t, err, apperr.ErrInvalidThreads)

	cfg = DefaultConfig()
	cfg.Schedule = "fork"
	_, err = New(cfg, g)
	assert.ErrorIs(t, err, apperr.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Commit = "move"
	_, err = New(cfg, g)
	assert.ErrorIs(t, err, apperr.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.MaxIter = -1
	_, err = New(cfg, g)
	assert.ErrorIs(t, err, apperr.ErrInvalidConfig)

	_, err = New(DefaultConfig(), nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidConfig)

	s, err := New(DefaultConfig(), g)
	require.NoError(t, err)
	assert.Equal(t, StateInit, s.State())
	assert.False(t, s.IsRunning())
}

func TestRunUniformGridStopsAfterOneIteration(t *testing.T) {
	for _, m := range allModes {
		t.Run(m.String(), func(t *testing.T) {
			g := newGrid(t, 8)
			g.Fill(3.5)
			before := g.Snapshot()

			cfg := DefaultConfig()
			cfg.Threads = 3
			cfg.Schedule = m.schedule
			cfg.Commit = m.commit

			s, res := run(t, g, cfg)

			assert.Equal(t, 1, res.Iterations)
			assert.Zero(t, res.Error)
			assert.True(t, res.Converged)
			assert.Equal(t, []float64{0, 0, 0}, s.LocalErrors())
			assert.Equal(t, StateDone, s.State())
			if diff := cmp.Diff(before, g.Snapshot()); diff != "" {
				t.Errorf("uniform grid changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunThresholdEqualityHalts(t *testing.T) {
	// 唯一の内部セルが 1e-5 → 初回の変化量はちょうど 1e-5
	g := newGrid(t, 3)
	g.Set(1, 1, 1.0e-5)

	_, res := run(t, g, DefaultConfig())

	assert.Equal(t, 1.0e-5, res.Error)
	assert.Equal(t, 1, res.Iterations)
	assert.True(t, res.Converged)
	assert.Zero(t, g.At(1, 1))
}

func TestRunEndToEnd(t *testing.T) {
	g := hotGrid(t, 50)
	cfg := DefaultConfig()
	cfg.Threads = 4

	s, res := run(t, g, cfg)

	assert.GreaterOrEqual(t, res.Iterations, 1)
	assert.LessOrEqual(t, res.Iterations, DefaultMaxIter+1)
	assert.True(t, res.Error <= DefaultThreshold || res.Iterations == DefaultMaxIter+1,
		"error %v after %d iterations", res.Error, res.Iterations)
	assert.Equal(t, res.Iterations, s.Iteration())
	assert.Equal(t, res.Error, s.GlobalError())

	// 初期条件は転置に対して対称
	for i := 0; i < 50; i++ {
		for j := i + 1; j < 50; j++ {
			assert.InDelta(t, g.At(i, j), g.At(j, i), 1e-9, "(%d,%d)", i, j)
		}
	}
	// 境界は 0 のまま
	for k := 0; k < 50; k++ {
		assert.Zero(t, g.At(0, k))
		assert.Zero(t, g.At(49, k))
		assert.Zero(t, g.At(k, 0))
		assert.Zero(t, g.At(k, 49))
	}
}

func TestRunThreadCountInvariance(t *testing.T) {
	const n = 30

	reference := hotGrid(t, n)
	_, want := run(t, reference, DefaultConfig())

	for _, threads := range []int{2, 5, 13, 40} {
		t.Run(fmt.Sprintf("T=%d", threads), func(t *testing.T) {
			g := hotGrid(t, n)
			cfg := DefaultConfig()
			cfg.Threads = threads

			_, got := run(t, g, cfg)

			assert.Equal(t, want.Iterations, got.Iterations)
			assert.Equal(t, want.Error, got.Error)
			if diff := cmp.Diff(reference.Snapshot(), g.Snapshot()); diff != "" {
				t.Errorf("grid depends on thread count (-T=1 +T=%d):\n%s", threads, diff)
			}
		})
	}
}

func TestRunModeInvariance(t *testing.T) {
	const n = 24

	reference := hotGrid(t, n)
	_, want := run(t, reference, DefaultConfig())

	for _, m := range allModes {
		t.Run(m.String(), func(t *testing.T) {
			g := hotGrid(t, n)
			cfg := DefaultConfig()
			cfg.Threads = 4
			cfg.Schedule = m.schedule
			cfg.Commit = m.commit

			_, got := run(t, g, cfg)

			assert.Equal(t, want.Iterations, got.Iterations)
			assert.Equal(t, want.Error, got.Error)
			if diff := cmp.Diff(reference.Snapshot(), g.Snapshot()); diff != "" {
				t.Errorf("grid depends on mode %s:\n%s", m, diff)
			}
		})
	}
}

func TestRunBudgetExhausted(t *testing.T) {
	g := hotGrid(t, 50)
	cfg := DefaultConfig()
	cfg.Threads = 2
	cfg.MaxIter = 5

	bus := events.NewBusWithBuffer(64)
	ch := bus.Subscribe()

	s, err := New(cfg, g)
	require.NoError(t, err)
	s.SetEventBus(bus)

	res, err := s.Run(context.Background())
	require.NoError(t, err, "budget exhaustion is not an error")

	assert.Equal(t, 6, res.Iterations)
	assert.False(t, res.Converged)
	assert.Greater(t, res.Error, DefaultThreshold)

	bus.Close()
	var last events.Event
	for e := range ch {
		last = e
	}
	assert.Equal(t, events.EventBudgetExhausted, last.Type)
	assert.Equal(t, 6, last.Iteration)
}

func TestRunEventsAndMetrics(t *testing.T) {
	g := hotGrid(t, 10)
	cfg := DefaultConfig()
	cfg.Threads = 3
	cfg.MaxIter = 50

	bus := events.NewBusWithBuffer(1024)
	ch := bus.Subscribe()
	m := metrics.New()

	s, err := New(cfg, g)
	require.NoError(t, err)
	s.SetEventBus(bus)
	s.SetMetrics(m)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	bus.Close()

	counts := map[events.EventType]int{}
	for e := range ch {
		counts[e.Type]++
	}

	assert.Equal(t, 1, counts[events.EventRunStarted])
	assert.Equal(t, res.Iterations, counts[events.EventIteration])
	assert.Equal(t, 1, counts[events.EventConverged]+counts[events.EventBudgetExhausted])
	assert.Equal(t, uint64(res.Iterations), m.Iterations())
	assert.Equal(t, res.Error, m.LastError())
}

func TestRunCancelledContext(t *testing.T) {
	g := hotGrid(t, 20)
	s, err := New(DefaultConfig(), g)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, res.Interrupted)
	assert.False(t, res.Converged)
	assert.Zero(t, res.Iterations)
	assert.Equal(t, StateDone, s.State())
}

func TestRunMoreWorkersThanRows(t *testing.T) {
	g := hotGrid(t, 12)
	cfg := DefaultConfig()
	cfg.Threads = 25
	cfg.Schedule = SchedulePool

	s, res := run(t, g, cfg)

	assert.GreaterOrEqual(t, res.Iterations, 1)
	ranges := s.Ranges()
	require.Len(t, ranges, 25)
	for _, r := range ranges[:24] {
		assert.True(t, r.Empty())
	}
	errs := s.LocalErrors()
	for _, e := range errs[:24] {
		assert.Zero(t, e)
	}
}
