package solver

import (
	"fmt"
	"math"

	apperr "laplace-jacobi/internal/errors"
)

const (
	// DefaultThreshold は収束判定の閾値
	DefaultThreshold = 1.0e-5
	// DefaultMaxIter はイテレーション上限
	DefaultMaxIter = 3000
	// InitialError は初回イテレーションを必ず実行させるための初期誤差
	InitialError = 1.0
)

// Schedule はフェーズごとのゴルーチン割り当て方式
type Schedule string

const (
	// ScheduleSpawn はフェーズごとにゴルーチンを生成・join する
	ScheduleSpawn Schedule = "spawn"
	// SchedulePool は常駐ワーカープールでフェーズを実行する
	SchedulePool Schedule = "pool"
)

// CommitMode はコミットフェーズの方式
type CommitMode string

const (
	// CommitCopy は次状態を現在状態へ行単位でコピーする
	CommitCopy CommitMode = "copy"
	// CommitSwap はバッファを入れ替える（ダブルバッファリング）
	CommitSwap CommitMode = "swap"
)

// ParseSchedule は文字列をスケジュールに変換する
func ParseSchedule(s string) (Schedule, error) {
	switch Schedule(s) {
	case ScheduleSpawn, SchedulePool:
		return Schedule(s), nil
	case "":
		return ScheduleSpawn, nil
	default:
		return "", fmt.Errorf("%w: unknown schedule %q (want spawn or pool)", apperr.ErrInvalidConfig, s)
	}
}

// ParseCommitMode は文字列をコミット方式に変換する
func ParseCommitMode(s string) (CommitMode, error) {
	switch CommitMode(s) {
	case CommitCopy, CommitSwap:
		return CommitMode(s), nil
	case "":
		return CommitCopy, nil
	default:
		return "", fmt.Errorf("%w: unknown commit mode %q (want copy or swap)", apperr.ErrInvalidConfig, s)
	}
}

// Config はソルバーの設定
type Config struct {
	Threads   int        // ワーカー数
	MaxIter   int        // イテレーション上限
	Threshold float64    // 収束閾値
	Schedule  Schedule   // ゴルーチン割り当て方式
	Commit    CommitMode // コミット方式
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Threads:   1,
		MaxIter:   DefaultMaxIter,
		Threshold: DefaultThreshold,
		Schedule:  ScheduleSpawn,
		Commit:    CommitCopy,
	}
}

// Validate は設定を検証する
func (c Config) Validate() error {
	if c.Threads < 1 {
		return apperr.NewError("E_THREADS",
			fmt.Sprintf("thread count must be at least 1, got %d", c.Threads), apperr.ErrInvalidThreads)
	}
	if c.MaxIter < 0 {
		return fmt.Errorf("%w: max_iter must be non-negative, got %d", apperr.ErrInvalidConfig, c.MaxIter)
	}
	if c.Threshold < 0 || math.IsNaN(c.Threshold) {
		return fmt.Errorf("%w: threshold must be non-negative, got %v", apperr.ErrInvalidConfig, c.Threshold)
	}
	if _, err := ParseSchedule(string(c.Schedule)); err != nil {
		return err
	}
	if _, err := ParseCommitMode(string(c.Commit)); err != nil {
		return err
	}
	return nil
}

// Continue は反復を続けるかどうかを返す
// 誤差が閾値より厳密に大きく、かつ iter が MaxIter 以下の間だけ続ける
func (c Config) Continue(globalErr float64, iter int) bool {
	return globalErr > c.Threshold && iter <= c.MaxIter
}
