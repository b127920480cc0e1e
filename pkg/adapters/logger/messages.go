package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Processing %s":                            "%s を処理中",
		"Output saved to %s":                       "出力を %s に保存しました",
		"Processing %d images with %d workers":     "%d 枚の画像を %d ワーカーで処理中",
		"Batch completed: %d succeeded, %d failed": "バッチ完了: 成功 %d, 失敗 %d",
		"Operation %d (%s) completed":              "操作 %d (%s) が完了しました",
		"Interrupted, shutting down...":            "中断されました。シャットダウン中...",

		// Overlay stage
		"Overlay %dx%d at (%d, %d) with opacity %d%%": "オーバーレイ %dx%d を (%d, %d) に不透明度 %d%% で配置",
		"Overlay clipped to %dx%d":                    "オーバーレイを %dx%d にクリップしました",
		"Overlay lies outside the image":              "オーバーレイが画像の範囲外です",

		// Text stage
		"Rendering text block: %d chars, width %d, %s aligned": "テキストブロックを描画中: %d 文字, 幅 %d, %s 揃え",
		"Text block %dx%d placed at (%d, %d)":                  "テキストブロック %dx%d を (%d, %d) に配置しました",

		// Filter, transform and shape stages
		"Applied filter %s in %s":    "フィルター %s を %s で適用しました",
		"Applied %s: %dx%d -> %dx%d": "%s を適用: %dx%d -> %dx%d",
		"Drew %s in %s":              "%s を %s で描画しました",

		// Image I/O
		"Saved %s": "%s を保存しました",

		// Warnings
		"Failed to save debug output: %s": "デバッグ出力の保存に失敗しました: %s",

		// Errors
		"Failed to read input: %s":     "入力の読み込みに失敗しました: %s",
		"Failed to decode input: %s":   "入力のデコードに失敗しました: %s",
		"Operation %d (%s) failed: %s": "操作 %d (%s) が失敗しました: %s",
		"Failed to encode output: %s":  "出力のエンコードに失敗しました: %s",
		"Failed to write output: %s":   "出力の書き込みに失敗しました: %s",
	})
}
