package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"laplace-jacobi/internal/logger"
)

// ErrPoolStopped はプールが停止中でジョブを受け付けないことを示す
var ErrPoolStopped = errors.New("worker pool is not running")

// Job はワーカーが実行するジョブを表す
type Job func()

// Task はフェーズ内で実行されるタスク。k はタスク番号
type Task func(k int)

// PoolConfig はワーカープールの設定
type PoolConfig struct {
	NumWorkers  int // ワーカー数（0でCPU数）
	QueueFactor int // キューサイズ = NumWorkers * QueueFactor
}

// DefaultPoolConfig はデフォルト設定を返す
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		NumWorkers:  0, // CPU数
		QueueFactor: 4,
	}
}

// Pool はゴルーチンのプールを管理する
type Pool struct {
	numWorkers int
	jobs       chan Job
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
	started    bool
	stopping   atomic.Bool
	phases     atomic.Uint64
	mu         sync.Mutex
}

// NewPool は新しいワーカープールを作成する
// numWorkers が 0 の場合は CPU 数を使用
func NewPool(numWorkers int) *Pool {
	config := DefaultPoolConfig()
	config.NumWorkers = numWorkers
	return NewPoolWithConfig(config)
}

// NewPoolWithConfig は設定を指定してワーカープールを作成する
func NewPoolWithConfig(config PoolConfig) *Pool {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	queueFactor := config.QueueFactor
	if queueFactor <= 0 {
		queueFactor = 4
	}
	return &Pool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numWorkers*queueFactor),
	}
}

// Start はワーカープールを起動する
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	logger.Debug("pool", "WorkerPool started with %d workers", p.numWorkers)
}

// worker は個々のワーカーゴルーチン
func (p *Pool) worker(_ int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job()
		}
	}
}

// Submit はジョブをプールに送信する
// キューが満杯の場合はブロックせず false を返す
func (p *Pool) Submit(job Job) bool {
	if p.stopping.Load() || !p.isStarted() {
		return false
	}

	// 先にコンテキストをチェック
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// SubmitWait はジョブを送信し、キューに空きがなければブロックする
func (p *Pool) SubmitWait(job Job) bool {
	if p.stopping.Load() || !p.isStarted() {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// RunPhase は tasks 個のタスクを投入し、全て完了するまで待つ
// 戻った時点で全タスクの書き込みが呼び出し側から見える
func (p *Pool) RunPhase(tasks int, task Task) error {
	if p.stopping.Load() || !p.isStarted() {
		return ErrPoolStopped
	}

	var phase sync.WaitGroup
	for k := 0; k < tasks; k++ {
		k := k
		phase.Add(1)
		ok := p.SubmitWait(func() {
			defer phase.Done()
			task(k)
		})
		if !ok {
			phase.Done()
			return ErrPoolStopped
		}
	}

	done := make(chan struct{})
	go func() {
		phase.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.phases.Add(1)
		return nil
	case <-p.ctx.Done():
		// キュー内の未実行タスクは破棄される
		return ErrPoolStopped
	}
}

// Stop はワーカープールを停止する
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.stopping.Store(true)
	p.cancel()
	p.wg.Wait()

	p.mu.Lock()
	p.started = false
	p.stopping.Store(false)
	p.mu.Unlock()

	logger.Debug("pool", "WorkerPool stopped after %d phases", p.phases.Load())
}

func (p *Pool) isStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// NumWorkers はワーカー数を返す
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// QueueSize は現在のキューサイズを返す
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// Phases は完了したフェーズ数を返す
func (p *Pool) Phases() uint64 {
	return p.phases.Load()
}
