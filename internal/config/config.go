package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperr "laplace-jacobi/internal/errors"
	"laplace-jacobi/internal/runner"
	"laplace-jacobi/internal/solver"
)

// OutputNone は出力を無効にする指定値
const OutputNone = "none"

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Run    RunConfig    `yaml:"run" json:"run"`
	Solver SolverConfig `yaml:"solver" json:"solver"`
	Output OutputConfig `yaml:"output" json:"output"`
}

// RunConfig は実行設定
type RunConfig struct {
	Preset      string  `yaml:"preset" json:"preset"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Size        int     `yaml:"size" json:"size"`
	Threads     int     `yaml:"threads" json:"threads"`
	Initial     string  `yaml:"initial" json:"initial"`
	HotValue    float64 `yaml:"hot_value" json:"hot_value"`
	Progress    int     `yaml:"progress" json:"progress"`
}

// SolverConfig はソルバー設定
// 0 が有効値なので MaxIter と Threshold はポインタで未指定を区別する
type SolverConfig struct {
	MaxIter   *int     `yaml:"max_iter" json:"max_iter"`
	Threshold *float64 `yaml:"threshold" json:"threshold"`
	Schedule  string   `yaml:"schedule" json:"schedule"`
	Commit    string   `yaml:"commit" json:"commit"`
}

// OutputConfig は出力設定
type OutputConfig struct {
	Grid    string `yaml:"grid" json:"grid"`
	Heatmap string `yaml:"heatmap" json:"heatmap"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format: %s", apperr.ErrInvalidConfig, ext)
	}

	return &config, nil
}

// ToRunConfig は FileConfig を runner.Config に変換する
func (f *FileConfig) ToRunConfig() (runner.Config, error) {
	rc := f.Run

	// ベース設定
	config := runner.DefaultConfig()
	if rc.Preset != "" {
		preset, ok := runner.GetPreset(rc.Preset)
		if !ok {
			return config, fmt.Errorf("%w: unknown preset: %s (available: %v)",
				apperr.ErrInvalidConfig, rc.Preset, runner.ListPresets())
		}
		config = preset
	}

	if rc.Name != "" {
		config.Name = rc.Name
	}
	if rc.Description != "" {
		config.Description = rc.Description
	}
	if rc.Size > 0 {
		config.Size = rc.Size
	}
	if rc.Threads > 0 {
		config.Solver.Threads = rc.Threads
	}
	if rc.Initial != "" {
		config.Initial = runner.Initial(strings.ToLower(rc.Initial))
	}
	if rc.HotValue != 0 {
		config.HotValue = rc.HotValue
	}
	if rc.Progress > 0 {
		config.ProgressEvery = rc.Progress
	}

	// Solver設定
	sc := f.Solver
	if sc.MaxIter != nil {
		config.Solver.MaxIter = *sc.MaxIter
	}
	if sc.Threshold != nil {
		config.Solver.Threshold = *sc.Threshold
	}
	if sc.Schedule != "" {
		schedule, err := solver.ParseSchedule(strings.ToLower(sc.Schedule))
		if err != nil {
			return config, err
		}
		config.Solver.Schedule = schedule
	}
	if sc.Commit != "" {
		commit, err := solver.ParseCommitMode(strings.ToLower(sc.Commit))
		if err != nil {
			return config, err
		}
		config.Solver.Commit = commit
	}

	// Output設定
	switch f.Output.Grid {
	case "":
	case OutputNone:
		config.OutputPath = ""
	default:
		config.OutputPath = f.Output.Grid
	}
	if f.Output.Heatmap != "" && f.Output.Heatmap != OutputNone {
		config.HeatmapPath = f.Output.Heatmap
	}

	return config, nil
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	rc := f.Run

	if rc.Size < 0 {
		return fmt.Errorf("%w: run.size must be non-negative", apperr.ErrInvalidConfig)
	}
	if rc.Size > 0 && rc.Size < 3 {
		return fmt.Errorf("%w: run.size must be greater than 2", apperr.ErrInvalidSize)
	}
	if rc.Threads < 0 {
		return fmt.Errorf("%w: run.threads must be non-negative", apperr.ErrInvalidThreads)
	}
	if rc.Progress < 0 {
		return fmt.Errorf("%w: run.progress must be non-negative", apperr.ErrInvalidConfig)
	}
	if f.Solver.MaxIter != nil && *f.Solver.MaxIter < 0 {
		return fmt.Errorf("%w: solver.max_iter must be non-negative", apperr.ErrInvalidConfig)
	}
	if f.Solver.Threshold != nil && *f.Solver.Threshold < 0 {
		return fmt.Errorf("%w: solver.threshold must be non-negative", apperr.ErrInvalidConfig)
	}

	return nil
}
