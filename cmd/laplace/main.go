// Package main is the entry point for the Jacobi Laplace solver.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"laplace-jacobi/internal/config"
	apperr "laplace-jacobi/internal/errors"
	"laplace-jacobi/internal/logger"
	"laplace-jacobi/internal/runner"
	"laplace-jacobi/internal/solver"
)

var (
	version = "dev"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options はコマンドラインフラグの値
type options struct {
	configFile  string
	presetName  string
	schedule    string
	commit      string
	maxIter     int
	threshold   float64
	outPath     string
	heatmapPath string
	progress    int
	logLevel    string
	report      bool
	listPresets bool
	showVersion bool
}

// run はCLI本体。終了コードを返す
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("laplace", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configFile, "config", "", "設定ファイルパス (YAML/JSON)")
	fs.StringVar(&opts.presetName, "preset", "", "プリセット名 (quick, ep2, large, uniform)")
	fs.StringVar(&opts.schedule, "schedule", "", "ワーカー割り当て方式 (spawn, pool)")
	fs.StringVar(&opts.commit, "commit", "", "コミット方式 (copy, swap)")
	fs.IntVar(&opts.maxIter, "max-iter", -1, "イテレーション上限 (既定 3000)")
	fs.Float64Var(&opts.threshold, "threshold", -1, "収束閾値 (既定 1.0e-5)")
	fs.StringVar(&opts.outPath, "out", "", "グリッド出力ファイル (既定 grid_laplace_pth.txt, none で無効)")
	fs.StringVar(&opts.heatmapPath, "heatmap", "", "ヒートマップ画像の出力先 (.png/.svg/.pdf)")
	fs.IntVar(&opts.progress, "progress", 0, "k イテレーションごとに進捗を表示")
	fs.StringVar(&opts.logLevel, "log-level", "info", "ログレベル (debug, info, warn, error)")
	fs.BoolVar(&opts.report, "report", false, "詳細レポートを表示")
	fs.BoolVar(&opts.listPresets, "list-presets", false, "利用可能なプリセットを表示")
	fs.BoolVar(&opts.showVersion, "version", false, "バージョンを表示")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `laplace - parallel Jacobi solver for Laplace's equation

Usage:
  laplace [options] N T

  N: The size of each side of the domain (grid), N > 2
  T: Number of threads, T >= 1

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(stderr, `
Examples:
  # 512x512 grid with 8 workers
  laplace 512 8

  # persistent worker pool with double buffering
  laplace -schedule pool -commit swap 1024 16

  # preset, with heatmap output
  laplace -preset quick -heatmap grid.png

  # config file
  laplace -config run.yaml
`)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return apperr.ExitOK
		}
		return apperr.ExitUsage
	}

	// バージョン表示
	if opts.showVersion {
		fmt.Fprintf(stdout, "laplace version %s\n", version)
		return apperr.ExitOK
	}

	// プリセット一覧表示
	if opts.listPresets {
		printPresets(stdout)
		return apperr.ExitOK
	}

	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		fs.Usage()
		return apperr.ExitUsage
	}
	logger.SetLevel(level)

	cfg, err := buildRunConfig(opts, fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		if apperr.IsConfig(err) {
			fs.Usage()
		}
		return apperr.ExitCode(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			logger.Warn("", "中断シグナルを受信、現在のイテレーション後に終了します")
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := runner.New(cfg).Run(ctx)
	if result != nil {
		if opts.report {
			fmt.Fprintln(stdout, result.Report())
		} else {
			fmt.Fprintf(stdout, "\n%s\n", result.Summary())
		}
	}
	if err != nil {
		logger.Error("", "実行エラー: %v", err)
		return apperr.ExitCode(err)
	}
	return apperr.ExitOK
}

// buildRunConfig は実行設定を構築する
// 設定ファイル → プリセット → 位置引数 N T → フラグ の順に上書きする
func buildRunConfig(opts options, positional []string) (runner.Config, error) {
	cfg := runner.DefaultConfig()
	base := false

	// 1. 設定ファイルから読み込み
	if opts.configFile != "" {
		fileConfig, err := config.LoadFile(opts.configFile)
		if err != nil {
			return cfg, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		if err := fileConfig.Validate(); err != nil {
			return cfg, fmt.Errorf("設定検証エラー: %w", err)
		}
		cfg, err = fileConfig.ToRunConfig()
		if err != nil {
			return cfg, fmt.Errorf("設定変換エラー: %w", err)
		}
		base = true
	} else if opts.presetName != "" {
		// 2. プリセットから読み込み
		preset, ok := runner.GetPreset(opts.presetName)
		if !ok {
			return cfg, fmt.Errorf("%w: 不明なプリセット: %s (利用可能: %v)",
				apperr.ErrUsage, opts.presetName, runner.ListPresets())
		}
		cfg = preset
		base = true
	}

	// 3. 位置引数 N T
	switch {
	case len(positional) == 2:
		n, t, err := parsePositional(positional[0], positional[1])
		if err != nil {
			return cfg, err
		}
		cfg.Size = n
		cfg.Solver.Threads = t
		if !base {
			cfg.Name = fmt.Sprintf("%dx%d", n, n)
		}
	case len(positional) == 0 && base:
	default:
		return cfg, fmt.Errorf("%w: expected 2 arguments (N T), got %d", apperr.ErrUsage, len(positional))
	}

	// 4. フラグでオーバーライド
	if opts.schedule != "" {
		s, err := solver.ParseSchedule(opts.schedule)
		if err != nil {
			return cfg, err
		}
		cfg.Solver.Schedule = s
	}
	if opts.commit != "" {
		c, err := solver.ParseCommitMode(opts.commit)
		if err != nil {
			return cfg, err
		}
		cfg.Solver.Commit = c
	}
	if opts.maxIter >= 0 {
		cfg.Solver.MaxIter = opts.maxIter
	}
	if opts.threshold >= 0 {
		cfg.Solver.Threshold = opts.threshold
	}
	switch opts.outPath {
	case "":
	case config.OutputNone:
		cfg.OutputPath = ""
	default:
		cfg.OutputPath = opts.outPath
	}
	if opts.heatmapPath != "" {
		cfg.HeatmapPath = opts.heatmapPath
	}
	if opts.progress > 0 {
		cfg.ProgressEvery = opts.progress
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parsePositional は N と T を解析する
func parsePositional(nArg, tArg string) (int, int, error) {
	n, err := strconv.Atoi(nArg)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: N must be an integer, got %q", apperr.ErrUsage, nArg)
	}
	t, err := strconv.Atoi(tArg)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: T must be an integer, got %q", apperr.ErrUsage, tArg)
	}
	if n < 3 {
		return 0, 0, fmt.Errorf("%w: N must be greater than 2, got %d", apperr.ErrInvalidSize, n)
	}
	if t < 1 {
		return 0, 0, fmt.Errorf("%w: T must be at least 1, got %d", apperr.ErrInvalidThreads, t)
	}
	return n, t, nil
}

// printPresets は利用可能なプリセットを表示する
func printPresets(w io.Writer) {
	fmt.Fprintln(w, "利用可能なプリセット:")
	fmt.Fprintln(w)

	for _, name := range runner.ListPresets() {
		p, _ := runner.GetPreset(name)
		fmt.Fprintf(w, "  %-10s %s\n", name, p.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "使用例: laplace -preset quick")
}
