package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Config はメトリクスの設定
type Config struct {
	MaxLatencySamples int // P99 計算用に保持するサンプル数
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		MaxLatencySamples: 4096,
	}
}

// Metrics はイテレーションのメトリクスを収集する
type Metrics struct {
	iterations     atomic.Uint64
	computeTotalNs atomic.Uint64
	commitTotalNs  atomic.Uint64

	mu                sync.RWMutex
	startTime         time.Time
	lastError         float64
	iterLatencies     []time.Duration
	maxLatencySamples int
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig は設定を指定してメトリクスを作成する
func NewWithConfig(config Config) *Metrics {
	samples := config.MaxLatencySamples
	if samples <= 0 {
		samples = DefaultConfig().MaxLatencySamples
	}
	return &Metrics{
		startTime:         time.Now(),
		iterLatencies:     make([]time.Duration, 0, min(samples, 1024)),
		maxLatencySamples: samples,
	}
}

// RecordIteration は1イテレーション分のフェーズ時間と大域誤差を記録する
func (m *Metrics) RecordIteration(compute, commit time.Duration, globalErr float64) {
	m.iterations.Add(1)
	m.computeTotalNs.Add(uint64(compute.Nanoseconds()))
	m.commitTotalNs.Add(uint64(commit.Nanoseconds()))

	m.mu.Lock()
	m.lastError = globalErr
	if len(m.iterLatencies) < m.maxLatencySamples {
		m.iterLatencies = append(m.iterLatencies, compute+commit)
	}
	m.mu.Unlock()
}

// Iterations は記録されたイテレーション数を返す
func (m *Metrics) Iterations() uint64 {
	return m.iterations.Load()
}

// LastError は最後に記録された大域誤差を返す
func (m *Metrics) LastError() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// AverageCompute は計算フェーズの平均時間を返す
func (m *Metrics) AverageCompute() time.Duration {
	n := m.iterations.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(m.computeTotalNs.Load() / n)
}

// AverageCommit はコミットフェーズの平均時間を返す
func (m *Metrics) AverageCommit() time.Duration {
	n := m.iterations.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(m.commitTotalNs.Load() / n)
}

// IterationsPerSecond は開始からの平均イテレーション速度を返す
func (m *Metrics) IterationsPerSecond() float64 {
	m.mu.RLock()
	elapsed := time.Since(m.startTime).Seconds()
	m.mu.RUnlock()
	if elapsed == 0 {
		return 0
	}
	return float64(m.iterations.Load()) / elapsed
}

// P99Iteration は1イテレーションの P99 時間を返す（サンプルベース）
func (m *Metrics) P99Iteration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.iterLatencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(m.iterLatencies))
	copy(sorted, m.iterLatencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Reset は全メトリクスをリセットする
func (m *Metrics) Reset() {
	m.iterations.Store(0)
	m.computeTotalNs.Store(0)
	m.commitTotalNs.Store(0)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.startTime = time.Now()
	m.lastError = 0
	m.iterLatencies = m.iterLatencies[:0]
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	Iterations          uint64
	LastError           float64
	AverageCompute      time.Duration
	AverageCommit       time.Duration
	P99Iteration        time.Duration
	IterationsPerSecond float64
	Elapsed             time.Duration
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	start := m.startTime
	m.mu.RUnlock()

	return Snapshot{
		Iterations:          m.Iterations(),
		LastError:           m.LastError(),
		AverageCompute:      m.AverageCompute(),
		AverageCommit:       m.AverageCommit(),
		P99Iteration:        m.P99Iteration(),
		IterationsPerSecond: m.IterationsPerSecond(),
		Elapsed:             time.Since(start),
	}
}
