// Package runner はソルバーの1回の実行をまとめる。
//
// エンジンはグリッドの確保と初期化、ドライバループの実行と計時、
// 最終グリッドの書き出しを順に行う。計時はドライバループのみを対象とする。
//
// # 機能
//
// - 実行設定の検証（確保より前に行う）
// - 定義済みプリセット
// - テキスト形式とヒートマップ画像での出力
// - 実行結果のレポート生成
//
// # プリセット
//
// - quick: 50x50、4 ワーカー
// - ep2: 512x512、8 ワーカー
// - large: 1024x1024、CPU 数のワーカー、常駐プール
// - uniform: 一様な初期値（1 イテレーションで終了する動作確認用）
//
// # 使用例
//
//	config := runner.QuickPreset()
//	engine := runner.New(config)
//	result, err := engine.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Report())
package runner
