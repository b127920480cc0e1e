// Package main provides localization for the simpleimage CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":       "入力",
		"Output":      "出力先",
		"Placement":   "配置",
		"Text":        "テキスト",
		"Performance": "パフォーマンス",
		"Debug":       "デバッグ",
		"Logging":     "ログ",

		// Root command
		"Compose, annotate and filter images": "画像の合成・注釈・フィルター処理",
		"simpleimage overlays images and text, applies filters and transforms, and runs YAML recipes over batches of images.": "simpleimageは画像やテキストを重ね合わせ、フィルターと変形を適用し、YAMLレシピを画像のバッチに実行します。",

		// Commands
		"Apply a YAML recipe to one image":               "YAMLレシピを1枚の画像に適用",
		"Apply a YAML recipe to many images in parallel": "YAMLレシピを複数の画像に並列で適用",
		"Overlay one image onto another":                 "画像を別の画像に重ね合わせ",
		"Draw a block of text onto an image":             "画像にテキストブロックを描画",
		"Apply filters to an image":                      "画像にフィルターを適用",
		"Show dimensions and format of images":           "画像のサイズと形式を表示",
		"Filters are given as name or name:arg,arg, e.g. grayscale, blur:2 or colorize:255,0,0,0. They are applied in order.": "フィルターは name または name:arg,arg の形式で指定します（例: grayscale, blur:2, colorize:255,0,0,0）。指定順に適用されます。",

		// Common flags
		"Enable debug output":                  "デバッグ出力を有効化",
		"Directory for debug output":           "デバッグ出力のディレクトリ",
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",
		"Output image path (required)":         "出力画像パス（必須）",
		"JPEG quality (1-100)":                 "JPEG品質（1-100）",

		// Recipe flags
		"Input image path (overrides the recipe)":            "入力画像パス（レシピを上書き）",
		"Output image path (overrides the recipe)":           "出力画像パス（レシピを上書き）",
		"Directory for output images (overrides the recipe)": "出力画像のディレクトリ（レシピを上書き）",
		"Suffix appended to output file names":               "出力ファイル名に付加するサフィックス",
		"Number of parallel workers (overrides the recipe)":  "並列ワーカー数（レシピを上書き）",
		"Output batch summary to file (Markdown format)":     "バッチサマリーをファイルに出力（Markdown形式）",

		// Placement flags
		"Anchor (top left, top, top right, left, center, right, bottom left, bottom, bottom right)": "アンカー（top left, top, top right, left, center, right, bottom left, bottom, bottom right）",
		"Horizontal offset in pixels": "水平オフセット（ピクセル）",
		"Vertical offset in pixels":   "垂直オフセット（ピクセル）",
		"Opacity (0-1 or 0-100)":      "不透明度（0-1 または 0-100）",

		// Text flags
		"Path to a TrueType/OpenType font (default: embedded Go Regular)": "TrueType/OpenTypeフォントのパス（デフォルト: 組み込みGo Regular）",
		"Font size in points":                                             "フォントサイズ（ポイント）",
		"Rotation in degrees, counter-clockwise":                          "回転角度（度、反時計回り）",
		"Text color; repeat to cycle colors per line":                     "文字色（複数指定で行ごとに循環）",
		"Alignment (left, center, right, justify)":                        "揃え（left, center, right, justify）",
		"Wrap width in pixels (0 = image width)":                          "折り返し幅（ピクセル、0 = 画像の幅）",
		"Extra space between lines in pixels":                             "行間の追加スペース（ピクセル）",
		"Stroke size in pixels":                                           "縁取りの太さ（ピクセル）",
		"Stroke color; repeat to cycle colors per line":                   "縁取りの色（複数指定で行ごとに循環）",

		// Error messages
		"Recipe argument is required":                "レシピ引数が必要です",
		"Recipe needs both input and output":         "レシピには入力と出力の両方が必要です",
		"Input and overlay arguments are required":   "入力とオーバーレイの引数が必要です",
		"Input and text arguments are required":      "入力とテキストの引数が必要です",
		"Input and at least one filter are required": "入力と少なくとも1つのフィルターが必要です",
		"At least one image argument is required":    "少なくとも1つの画像引数が必要です",
		"%d of %d images failed":                     "%d / %d 枚の画像が失敗しました",
		"Failed to process %s: %s":                   "%s の処理に失敗しました: %s",

		// Runtime messages
		"Output saved to %s":          "出力を %s に保存しました",
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",

		// Info output
		"%s: %dx%d %s, %s (aspect %.3f)": "%s: %dx%d %s, %s (縦横比 %.3f)",
		"landscape":                      "横長",
		"portrait":                       "縦長",
		"square":                         "正方形",

		// Summary content
		"Batch Summary":            "バッチサマリー",
		"Generated":                "生成日時",
		"Recipe":                   "レシピ",
		"Source":                   "ソース",
		"Operations":               "操作",
		"Format":                   "形式",
		"Quality":                  "品質",
		"Results":                  "実行結果",
		"Succeeded":                "成功",
		"Failed":                   "失敗",
		"Workers":                  "ワーカー数",
		"Duration":                 "所要時間",
		"Input Size":               "入力サイズ",
		"Output Size":              "出力サイズ",
		"Images":                   "画像",
		"Dimensions":               "サイズ",
		"Size":                     "容量",
		"Generated by simpleimage": "生成: simpleimage",
	})
}
