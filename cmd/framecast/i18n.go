// Package main provides localization for the framecast CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Record page loads as compressed MP4 video": "ページの読み込みを圧縮MP4動画として記録",

		// Commands
		"Record a web page loading as MP4 video":  "Webページの読み込みをMP4動画として記録",
		"Compress a video file in place":          "動画ファイルをその場で圧縮",
		"Show codec and duration of a video file": "動画ファイルのコーデックと再生時間を表示",
		"Show version information":                "バージョン情報を表示",
		"framecast version %s":                    "framecast バージョン %s",

		// Common flags
		"Load settings from a YAML config file":                                "YAML設定ファイルから設定を読み込む",
		"Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)": "ffmpeg実行ファイルのパス（FFMPEG_PATH環境変数、次にPATHにフォールバック）",
		"Log level (debug, info, warn, error)":                                 "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                                              "全てのログ出力を抑制",

		// Record flags
		"Output MP4 file path (required)":                                                "出力MP4ファイルパス（必須）",
		"Capture CRF value (0-51, lower is better)":                                      "キャプチャのCRF値（0-51、低いほど高品質）",
		"Compression pass CRF value (0 = skip compression)":                              "圧縮パスのCRF値（0 = 圧縮をスキップ）",
		"Recording timeout in milliseconds":                                              "記録のタイムアウト（ミリ秒）",
		"Screencast JPEG quality (1-100)":                                                "スクリーンキャストのJPEG品質（1-100）",
		"Path to Chrome executable (falls back to CHROME_PATH env, then system default)": "Chrome実行ファイルのパス（CHROME_PATH環境変数、次にシステムデフォルトにフォールバック）",
		"Run browser in non-headless mode":                                               "ブラウザを非ヘッドレスモードで実行",
		"Record a synthetic test pattern instead of a page":                              "ページの代わりに合成テストパターンを記録",
		"Enable debug output":                                                            "デバッグ出力を有効化",
		"Directory for debug output":                                                     "デバッグ出力のディレクトリ",

		// Compress flags
		"Compression CRF value (0-51, lower is better)": "圧縮のCRF値（0-51、低いほど高品質）",

		// Error messages
		"URL argument is required":  "URL引数が必要です",
		"FILE argument is required": "FILE引数が必要です",
	})
}
