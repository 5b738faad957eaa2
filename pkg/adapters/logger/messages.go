package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting capture to %s":        "%s へのキャプチャを開始します",
		"Capture complete: %d frames":   "キャプチャ完了: %d フレーム",
		"Output saved to %s":            "出力を %s に保存しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Capture session
		"Encoder started: %s":                        "エンコーダを起動しました: %s",
		"Capture encoder failed: %s":                 "キャプチャエンコーダが失敗しました: %s",
		"Suppressed empty-capture encoder error: %s": "空キャプチャのエンコーダエラーを抑制しました: %s",
		"Skipped %d frames under backpressure":       "バックプレッシャーにより %d フレームをスキップしました",

		// Frame sources
		"Launching browser in headless mode": "ヘッドレスモードでブラウザを起動中",
		"Launching browser in visible mode":  "表示モードでブラウザを起動中",
		"Navigating to %s":                   "%s へ移動中",
		"Starting screencast":                "スクリーンキャストを開始",
		"Browser closed":                     "ブラウザを閉じました",
		"Generating %d synthetic frames":     "%d 枚の合成フレームを生成中",

		// Probe
		"Probed %s: %.2fs %s": "%s を解析しました: %.2f 秒 %s",

		// Compression
		"Compressing %s (level %d)":                       "%s を圧縮中 (レベル %d)",
		"Compression progress: %d%%":                      "圧縮の進捗: %d%%",
		"Compression complete: %s":                        "圧縮完了: %s",
		"Progress unavailable, duration probe failed: %s": "進捗を表示できません。再生時間の解析に失敗しました: %s",
		"Leaving temporary output %s: %s":                 "一時出力 %s を残します: %s",

		// Errors
		"Failed to write output: %s": "出力の書き込みに失敗しました: %s",
	})
}
