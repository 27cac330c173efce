package runner

import (
	"runtime"

	"laplace-jacobi/internal/export"
	"laplace-jacobi/internal/grid"
	"laplace-jacobi/internal/solver"
)

// QuickPreset は動作確認用の小さな問題を返す
func QuickPreset() Config {
	cfg := DefaultConfig()
	cfg.Name = "quick"
	cfg.Description = "50x50 hot spot, 4 workers"
	cfg.Size = 50
	cfg.Solver.Threads = 4
	return cfg
}

// EP2Preset は標準的なベンチマークサイズを返す
func EP2Preset() Config {
	cfg := DefaultConfig()
	cfg.Name = "ep2"
	cfg.Description = "512x512 hot spot, 8 workers"
	cfg.Size = 512
	cfg.Solver.Threads = 8
	return cfg
}

// LargePreset は CPU 数のワーカーで大きなグリッドを解く
// 常駐プールとバッファ入れ替えを使う
func LargePreset() Config {
	cfg := DefaultConfig()
	cfg.Name = "large"
	cfg.Description = "1024x1024 hot spot, one worker per CPU, persistent pool"
	cfg.Size = 1024
	cfg.Solver.Threads = runtime.NumCPU()
	cfg.Solver.Schedule = solver.SchedulePool
	cfg.Solver.Commit = solver.CommitSwap
	cfg.ProgressEvery = 500
	return cfg
}

// UniformPreset は一様な初期値の問題を返す
// 全ての局所誤差が 0 になり 1 イテレーションで終了する
func UniformPreset() Config {
	cfg := DefaultConfig()
	cfg.Name = "uniform"
	cfg.Description = "Uniform field, converges after one iteration"
	cfg.Size = 64
	cfg.Solver.Threads = 4
	cfg.Initial = InitialUniform
	cfg.HotValue = grid.DefaultHotValue
	cfg.OutputPath = export.DefaultTextFile
	return cfg
}

var presets = map[string]func() Config{
	"quick":   QuickPreset,
	"ep2":     EP2Preset,
	"large":   LargePreset,
	"uniform": UniformPreset,
}

// GetPreset は名前からプリセットを取得する
func GetPreset(name string) (Config, bool) {
	if fn, ok := presets[name]; ok {
		return fn(), true
	}
	return Config{}, false
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	return []string{"quick", "ep2", "large", "uniform"}
}
